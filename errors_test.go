package hybridrow

import (
	"errors"
	"strings"
	"testing"
)

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		err := dataErrf([]byte{0xAA, 0xBB}, 1, inner, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "oops") || !strings.Contains(s, "inner") || !strings.Contains(s, "(2)") {
			t.Fatalf("err.Error() = %q, wanted message with oops/inner/(2)", s)
		}
	})

	t.Run("large data shows a window", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		s := dataErrf(data, 100, nil, "oops").Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "at offset 100") || !strings.Contains(s, "5c5d5e") {
			t.Fatalf("err.Error() = %q, wanted length, offset and bytes around it", s)
		}
	})
}

func TestRecoverDataError(t *testing.T) {
	f := func() (err error) {
		defer recoverDataError(&err)
		corruptf([]byte{1}, 0, "bad byte")
		return nil
	}
	err := f()
	var de *DataError
	if !errors.As(err, &de) || de.Msg != "bad byte" {
		t.Fatalf("err = %v, wanted *DataError bad byte", err)
	}

	p := catchPanic(func() {
		var err error
		defer recoverDataError(&err)
		panic("other")
	})
	if p != "other" {
		t.Fatalf("panic = %v, wanted other panics to propagate", p)
	}
}

func TestResult(t *testing.T) {
	if Success.Err() != nil || !Success.OK() {
		t.Fatalf("Success.Err() = %v, wanted nil", Success.Err())
	}
	err := Exists.Err()
	if !errors.Is(err, Exists) || errors.Is(err, NotFound) {
		t.Fatalf("errors.Is mismatch for %v", err)
	}
	if s := TypeConstraint.Error(); s != "hybridrow: "+TypeConstraint.String() {
		t.Fatalf("Error() = %q", s)
	}
}
