package bundle

import (
	"github.com/minio/highwayhash"
)

// identityKey is fixed so unit identifiers stay stable across runs and
// machines; the hash is an identity, not a secret.
var identityKey = []byte("bundrs-unit-identity-hash-key!!!")

// UnitID identifies a source unit by its root path.
type UnitID uint64

// Identify derives the stable identifier for a unit rooted at rootPath.
func Identify(rootPath string) UnitID {
	h, err := highwayhash.New64(identityKey)
	if err != nil {
		// the key is a compile-time constant of the required length
		panic(err)
	}
	_, _ = h.Write([]byte(rootPath))
	return UnitID(h.Sum64())
}
