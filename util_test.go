package hybridrow

import (
	"errors"
	"testing"
)

var errTest = errors.New("test")

func TestRpad(t *testing.T) {
	if got := rpad("abc", 5, '.'); got != "abc.." {
		t.Fatalf("rpad = %q, wanted %q", got, "abc..")
	}
	if got := rpad("abc", 1, '.'); got != "abc" {
		t.Fatalf("rpad = %q, wanted %q", got, "abc")
	}
}

func TestHexAttr(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{nil, "<nil>"},
		{[]byte{}, "<empty>"},
		{[]byte{0xAB, 0x01}, "ab01"},
	}
	for _, tt := range tests {
		a := HexAttr("k", tt.in)
		if a.Key != "k" || a.Value.String() != tt.want {
			t.Errorf("** HexAttr(%x) = %v, wanted %s", tt.in, a, tt.want)
		}
	}
}

func TestMust(t *testing.T) {
	if v := must(42, nil); v != 42 {
		t.Fatalf("must = %d", v)
	}
	if p := catchPanic(func() { must(0, errTest) }); p != errTest {
		t.Fatalf("must panic = %v, wanted %v", p, errTest)
	}
}
