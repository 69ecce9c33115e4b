package hybridrow

import "fmt"

// UpdatePolicy says how a write treats an existing value at the cursor.
type UpdatePolicy uint8

const (
	// Upsert overwrites a present value or creates a missing one.
	Upsert UpdatePolicy = iota
	// Insert creates a value and fails with Exists if one is present.
	Insert
	// Update overwrites a value and fails with NotFound if none is present.
	Update
	// InsertAt inserts before the element at the cursor, shifting the rest
	// of an array. Only arrays accept it.
	InsertAt
)

func (p UpdatePolicy) String() string {
	switch p {
	case Upsert:
		return "upsert"
	case Insert:
		return "insert"
	case Update:
		return "update"
	case InsertAt:
		return "insert_at"
	default:
		return fmt.Sprintf("UpdatePolicy(%d)", uint8(p))
	}
}

type writeAction uint8

const (
	actInsert writeAction = iota
	actReplace
)

// resolvePolicy decides what a write with policy p does in a scope of type
// st when a value is (or is not) present at the target position.
func resolvePolicy(st *LayoutType, p UpdatePolicy, exists bool) (writeAction, Result) {
	switch p {
	case Upsert:
		if exists {
			return actReplace, Success
		}
		return actInsert, Success
	case Insert:
		if exists {
			return actInsert, Exists
		}
		return actInsert, Success
	case Update:
		if !exists {
			return actReplace, NotFound
		}
		return actReplace, Success
	case InsertAt:
		switch st.base() {
		case CodeArrayScope, CodeTypedArrayScope:
			return actInsert, Success
		default:
			return actInsert, TypeConstraint
		}
	default:
		panic(fmt.Errorf("invalid update policy %d", p))
	}
}
