package hybridrow

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
)

// Decimal is a 96-bit unsigned magnitude with a sign and a base-10 scale
// between 0 and 28: value = (-1)^Neg × (Hi<<64 | Lo) × 10^-Scale.
type Decimal struct {
	Lo    uint64
	Hi    uint32
	Scale uint8
	Neg   bool
}

const maxDecimalScale = 28

var maxDecimalMag = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// NewDecimal returns unscaled × 10^-scale.
func NewDecimal(unscaled int64, scale uint8) Decimal {
	if scale > maxDecimalScale {
		panic(fmt.Errorf("decimal scale %d out of range", scale))
	}
	d := Decimal{Scale: scale}
	if unscaled < 0 {
		d.Neg = true
		d.Lo = uint64(-unscaled)
	} else {
		d.Lo = uint64(unscaled)
	}
	return d
}

// ParseDecimal parses a plain decimal literal such as "-12.345".
func ParseDecimal(s string) (Decimal, error) {
	orig := s
	var d Decimal
	if strings.HasPrefix(s, "-") {
		d.Neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if len(frac) > maxDecimalScale {
		return Decimal{}, fmt.Errorf("decimal %q: too many fractional digits", orig)
	}
	digits := intPart + frac
	if digits == "" {
		return Decimal{}, fmt.Errorf("decimal %q: no digits", orig)
	}
	mag, ok := new(big.Int).SetString(digits, 10)
	if !ok || mag.Sign() < 0 {
		return Decimal{}, fmt.Errorf("decimal %q: invalid syntax", orig)
	}
	if mag.Cmp(maxDecimalMag) > 0 {
		return Decimal{}, fmt.Errorf("decimal %q: out of range", orig)
	}
	d.Scale = uint8(len(frac))
	d.setMag(mag)
	if mag.Sign() == 0 {
		d.Neg = false
	}
	return d, nil
}

func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Decimal) mag() *big.Int {
	m := new(big.Int).SetUint64(uint64(d.Hi))
	m.Lsh(m, 64)
	return m.Or(m, new(big.Int).SetUint64(d.Lo))
}

func (d *Decimal) setMag(m *big.Int) {
	lo := new(big.Int).And(m, new(big.Int).SetUint64(^uint64(0)))
	d.Lo = lo.Uint64()
	d.Hi = uint32(new(big.Int).Rsh(m, 64).Uint64())
}

// Rat returns the exact value of d.
func (d Decimal) Rat() *big.Rat {
	num := d.mag()
	if d.Neg {
		num.Neg(num)
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	return new(big.Rat).SetFrac(num, den)
}

// Cmp compares by value, so 1.50 and 1.5 are equal.
func (d Decimal) Cmp(o Decimal) int {
	return d.Rat().Cmp(o.Rat())
}

func (d Decimal) String() string {
	s := d.mag().String()
	if sc := int(d.Scale); sc > 0 {
		if len(s) <= sc {
			s = strings.Repeat("0", sc-len(s)+1) + s
		}
		s = s[:len(s)-sc] + "." + s[len(s)-sc:]
	}
	if d.Neg {
		s = "-" + s
	}
	return s
}

func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalText(b []byte) error {
	v, err := ParseDecimal(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func putDecimal(buf []byte, d Decimal) {
	binary.LittleEndian.PutUint64(buf, d.Lo)
	binary.LittleEndian.PutUint32(buf[8:], d.Hi)
	flags := uint32(d.Scale) << 16
	if d.Neg {
		flags |= 1 << 31
	}
	binary.LittleEndian.PutUint32(buf[12:], flags)
}

func getDecimal(buf []byte) Decimal {
	flags := binary.LittleEndian.Uint32(buf[12:])
	return Decimal{
		Lo:    binary.LittleEndian.Uint64(buf),
		Hi:    binary.LittleEndian.Uint32(buf[8:]),
		Scale: uint8(flags >> 16),
		Neg:   flags&(1<<31) != 0,
	}
}
