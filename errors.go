package dictof

import "github.com/pkg/errors"

// Errors returned by DictOf and SyncDictOf. They are wrapped with the
// offending key, so test for them with errors.Is.
var (
	// ErrInvalidKey is returned by every keyed operation when the key is nil.
	ErrInvalidKey = errors.New("dictof: invalid key")
	// ErrDuplicateKey is returned by Add when an equal key is already stored.
	ErrDuplicateKey = errors.New("dictof: duplicate key")
	// ErrKeyNotFound is returned by Get when no equal key is stored.
	ErrKeyNotFound = errors.New("dictof: key not found")
)
