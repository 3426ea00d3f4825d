package tenant

import (
	"encoding/hex"
	"errors"
	"os"

	"golang.org/x/crypto/blake2s"
)

// A tag is a keyed one-way digest of a learner identity. Every retrieval
// and storage operation is scoped by a tag; raw identities never cross
// this boundary.
type Deriver struct {
	key []byte
}

func NewDeriver(key []byte) (*Deriver, error) {
	if len(key) == 0 {
		return nil, errors.New("tenant key cannot be empty")
	}

	// blake2s accepts keys up to 32 bytes.
	if len(key) > 32 {
		key = key[:32]
	}

	return &Deriver{key: key}, nil
}

// ProvideDeriver builds a Deriver from the TENANT-HASH-KEY environment
// variable.
func ProvideDeriver() (*Deriver, error) {
	key := os.Getenv("TENANT-HASH-KEY")
	if key == "" {
		return nil, errors.New("TENANT-HASH-KEY is not set")
	}
	return NewDeriver([]byte(key))
}

// Tag derives the opaque tenant tag for a learner identity. The same
// identity always maps to the same tag; the identity cannot be recovered
// without the service key.
func (d *Deriver) Tag(identity string) (string, error) {
	if identity == "" {
		return "", errors.New("identity cannot be empty")
	}

	h, err := blake2s.New256(d.key)
	if err != nil {
		return "", err
	}
	h.Write([]byte(identity))

	return "t" + hex.EncodeToString(h.Sum(nil))[:31], nil
}
