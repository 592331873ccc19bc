// Package handle stores smallany containers in a table addressed by
// integer handles.
//
// The Table owns every container inserted into it:
//
//	tab := handle.New()
//	defer tab.Close()
//
//	// Build and insert in one step
//	h, err := handle.Put(tab, point{X: 1})
//
//	// Or move an existing container in
//	a := smallany.MustNew("payload")
//	h2, err := tab.Insert(&a) // a is now empty
//
//	// Typed access
//	p, err := handle.Lookup[point](tab, h)
//
//	// Move the container back out
//	b, err := tab.Remove(h2)
//	defer b.Clear()
//
// # Borrows
//
// Borrow pins a handle: Remove and Drop fail with KindBusy until every
// borrow is returned. Close ignores borrows and clears everything.
//
// # Observers
//
// Subscribe registers an Observer for insert, remove, borrow, return and
// drop events:
//
//	tab.Subscribe(handle.ObserverFunc(func(e handle.Event) {
//	    log.Printf("%s %d (%s)", e.Type, e.Handle, e.TypeID)
//	}))
//
// # Lifetime
//
// Containers are not reclaimed automatically. Call Drop for each handle
// or Close for the whole table so Drop hooks run and boxes return to their
// allocator.
package handle
