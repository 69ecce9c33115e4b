package rowstore

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("row not found")
	ErrNamespaceMismatch = errors.New("namespace does not match the stored one")
	ErrNoNamespace       = errors.New("store has no namespace")
)

// StoreError describes a failure concerning one stored row.
type StoreError struct {
	Schema string
	Key    []byte
	Msg    string
	Err    error
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Error() string {
	var buf strings.Builder
	buf.WriteString("rowstore")
	if e.Schema != "" {
		buf.WriteByte(' ')
		buf.WriteString(e.Schema)
	}
	if e.Key != nil {
		buf.WriteByte('/')
		buf.Write(e.Key)
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
