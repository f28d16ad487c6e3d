package chainmap

import (
	"github.com/pkg/errors"
)

// ErrConcurrentModification is reported when a map is structurally modified
// (an entry added or removed, the table resized or cleared) while one of its
// iteration passes is in progress. The pass is abandoned; the map itself
// stays valid. Use errors.Is to test for it.
var ErrConcurrentModification = errors.New("chainmap: map modified during iteration")

func concurrentModification(expected, actual uint64) error {
	return errors.Wrapf(ErrConcurrentModification,
		"expected version %d, found %d", expected, actual)
}
