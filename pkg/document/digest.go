package document

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the SHA-256 hex digest of the document's canonical
// encoding. Two documents with identical content always have identical
// digests; repeated exports of an unmodified graph hash identically.
// Digests are used as representation-stability checks and as cache keys.
func (d Document) Digest() (string, error) {
	data, err := Marshal(d)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
