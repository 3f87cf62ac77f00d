// Package schemahash computes a stable fingerprint of a property.Schema, so
// a reader can cheaply confirm the schema it parsed out of a header matches
// what an index or cache keyed by schema expects.
package schemahash

import "github.com/cespare/xxhash/v2"

// Sum returns the xxHash64 fingerprint of schema's encoded wire form.
func Sum(encodedSchema []byte) uint64 {
	return xxhash.Sum64(encodedSchema)
}
