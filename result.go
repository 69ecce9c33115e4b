package hybridrow

import "fmt"

// Result is the outcome of a row operation. Expected outcomes (a missing
// field, a duplicate set element, a read-only scope) are Results, not panics.
//
// Result implements error so callers can write
//
//	if err := c.WriteInt32(1, hybridrow.Insert).Err(); err != nil { ... }
//
// and compare with errors.Is(err, hybridrow.Exists).
type Result uint8

const (
	Success Result = iota
	NotFound
	Exists
	TypeConstraint
	InsufficientPermissions
	InsufficientBuffer
	TooBig
)

var resultNames = [...]string{
	Success:                 "success",
	NotFound:                "not found",
	Exists:                  "exists",
	TypeConstraint:          "type constraint",
	InsufficientPermissions: "insufficient permissions",
	InsufficientBuffer:      "insufficient buffer",
	TooBig:                  "too big",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", uint8(r))
}

func (r Result) Error() string {
	return "hybridrow: " + r.String()
}

// Err returns nil on Success and r otherwise.
func (r Result) Err() error {
	if r == Success {
		return nil
	}
	return r
}

func (r Result) OK() bool {
	return r == Success
}
