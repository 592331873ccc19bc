// Package typeid provides stable type identities for Go types.
//
// An ID pairs a display name with a CRC-64 hash of that name. Names are fully
// qualified with import paths, so identities are stable across independently
// built packages and do not depend on reflect.Type pointer identity:
//
//	id := typeid.Of[mypkg.Point]()
//	id.Name()      // "example.com/mypkg.Point"
//	id.ShortName() // "Point"
//	id.Hash()      // crc64(ECMA) of Name()
//
// Identities are computed once per type and memoized. Equality and ordering
// use the hash only.
package typeid
