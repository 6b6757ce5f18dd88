package search

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// computeFingerprint generates a stable hash of the prompt documents.
// Documents are already in (tool, position) order, so equal registry
// contents always hash the same.
func computeFingerprint(docs []promptDoc) string {
	h := sha256.New()

	for _, doc := range docs {
		writeField(h, doc.Tool)
		writeField(h, doc.Prompt)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes s so field boundaries survive any content.
func writeField(h hash.Hash, s string) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
