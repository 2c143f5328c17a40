// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screener

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Fingerprint returns the deterministic cache and throttle key for a
// screening query. Identical (title, summary, reference) triples always
// hash to the same digest. Each field is length-prefixed before hashing so
// that values cannot collide across field boundaries
// (e.g. ("ab", "c") vs ("a", "bc")).
func Fingerprint(title, summary, reference string) string {
	h := sha256.New()
	for _, field := range []string{title, summary, reference} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
