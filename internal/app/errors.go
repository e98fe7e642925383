package app

import (
	"errors"

	"github.com/example/garden/internal/core/garden"
)

// ErrDataIntegrity aborts an operation because the catalog or stored data is
// broken. Users see a generic failure; operators see a CRITICAL log.
var ErrDataIntegrity = errors.New("the game data is inconsistent; an operator has been alerted")

// IsViolation reports whether err is an expected business-rule failure.
func IsViolation(err error) bool {
	var v *garden.Violation
	return errors.As(err, &v)
}
