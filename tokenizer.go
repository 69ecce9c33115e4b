package hybridrow

import (
	"unicode/utf8"
)

// Tokenizer is a layout's string table. Paths found in the table are
// encoded as their token; other paths are encoded inline as
// uvarint(len+Count()) followed by the utf8 bytes.
type Tokenizer struct {
	tokens  map[string]int
	strings []string
}

func newTokenizer() *Tokenizer {
	return &Tokenizer{tokens: make(map[string]int)}
}

func (t *Tokenizer) add(s string) int {
	if tok, ok := t.tokens[s]; ok {
		return tok
	}
	tok := len(t.strings)
	t.tokens[s] = tok
	t.strings = append(t.strings, s)
	return tok
}

func (t *Tokenizer) Token(s string) (int, bool) {
	tok, ok := t.tokens[s]
	return tok, ok
}

func (t *Tokenizer) String(tok int) (string, bool) {
	if tok < 0 || tok >= len(t.strings) {
		return "", false
	}
	return t.strings[tok], true
}

func (t *Tokenizer) Count() int {
	return len(t.strings)
}

func (t *Tokenizer) pathLen(path string) int {
	if tok, ok := t.tokens[path]; ok {
		return uvarintLen(uint64(tok))
	}
	return uvarintLen(uint64(len(path)+len(t.strings))) + len(path)
}

func (t *Tokenizer) appendPath(buf []byte, path string) []byte {
	if tok, ok := t.tokens[path]; ok {
		return appendUvarint(buf, uint64(tok))
	}
	buf = appendUvarint(buf, uint64(len(path)+len(t.strings)))
	return append(buf, path...)
}

func (t *Tokenizer) readPath(buf []byte, off int) (string, int) {
	v, n := readUvarinti(buf, off)
	if v < len(t.strings) {
		return t.strings[v], n
	}
	l := v - len(t.strings)
	need(buf, off+n, l)
	s := string(buf[off+n : off+n+l])
	if !utf8.ValidString(s) {
		corruptf(buf, off, "invalid utf8 path")
	}
	return s, n + l
}
