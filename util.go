package hybridrow

import (
	"encoding/hex"
	"log/slog"
	"strings"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func rpad(s string, n int, pad rune) string {
	rem := n - len(s)
	if rem <= 0 {
		return s
	}
	return s + strings.Repeat(string(pad), rem)
}

func hexstr(b []byte) string {
	if b == nil {
		return "<nil>"
	}
	if len(b) == 0 {
		return "<empty>"
	}
	return hex.EncodeToString(b)
}

// HexAttr logs a byte slice as hex.
func HexAttr(key string, b []byte) slog.Attr {
	return slog.String(key, hexstr(b))
}
