package shared

import (
	"errors"

	"github.com/lib/pq"
)

// IsPqCode reports whether err wraps a postgres error with the given SQLSTATE.
func IsPqCode(err error, code string) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}
