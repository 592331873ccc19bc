package smallany

// Cloner is implemented by payloads whose copy must do more than a plain
// assignment, typically because they own slices, maps or handles that would
// otherwise be shared. Copy and Assign call Clone; an error aborts the copy
// and leaves the destination untouched.
type Cloner[T any] interface {
	Clone() (T, error)
}

// Dropper is implemented by payloads that need cleanup when a container
// destroys them. Drop runs exactly once per stored value, from Clear or from
// the clearing step of an assignment. Relocation (Move, Swap) never calls it.
type Dropper interface {
	Drop()
}
