package hybridrow

import (
	"errors"
	"fmt"
)

// ErrStaleCursor is the panic value raised when a cursor is used after a
// structural edit moved the bytes it points at.
var ErrStaleCursor = errors.New("hybridrow: stale cursor")

// DataError reports malformed row bytes. Navigation panics with *DataError;
// RowBuffer.ReadFrom and RowBuffer.Validate return it.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func corruptf(data []byte, off int, format string, args ...any) {
	panic(dataErrf(data, off, nil, format, args...))
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const window = 32
	n := len(e.Data)
	lo, hi := max(0, e.Off-window/2), min(n, e.Off+window/2)
	if lo > hi {
		lo = hi
	}
	if e.Err != nil {
		return fmt.Sprintf("%s at offset %d: %v: (%d) ...%x...", e.Msg, e.Off, e.Err, n, e.Data[lo:hi])
	} else {
		return fmt.Sprintf("%s at offset %d: (%d) ...%x...", e.Msg, e.Off, n, e.Data[lo:hi])
	}
}

// recoverDataError converts a *DataError panic into an error stored in *errp.
// Other panics propagate.
func recoverDataError(errp *error) {
	if e := recover(); e != nil {
		if de, ok := e.(*DataError); ok {
			*errp = de
			return
		}
		panic(e)
	}
}

func staleCursor(format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{ErrStaleCursor}, args...)...))
}
