package vm

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Int: the numeric variant
// ---------------------------------------------------------------------------

// numKind distinguishes the payloads an Int can carry.
type numKind uint8

const (
	numExact numKind = iota // *big.Int
	numRat                  // *big.Rat, rational power mode
	numFloat                // float64, float power mode
)

// Int is the numeric variant. It is an exact, arbitrary precision integer
// except after the power operator is given a negative exponent, which
// yields a float (default) or an exact rational (rational mode).
// Mixed arithmetic follows the usual tower: float beats rational beats
// integer.
type Int struct {
	kind numKind
	i    *big.Int
	q    *big.Rat
	f    float64
}

// NewInt returns the Int for n.
func NewInt(n int64) Int {
	return Int{i: big.NewInt(n)}
}

// IntFromBig wraps n. The caller must not modify n afterwards.
func IntFromBig(n *big.Int) Int {
	return Int{i: n}
}

func floatNum(f float64) Int { return Int{kind: numFloat, f: f} }
func ratNum(q *big.Rat) Int { return Int{kind: numRat, q: q} }
func (Int) Rank() Rank { return RankInt }
func (Int) sealed() {}
func (n Int) String() string { return string(renderNumber(n)) }
func (n Int) IsExact() bool { return n.kind == numExact }

// Big returns the integer value, truncating non-integral numbers toward
// zero. The result must not be modified.
func (n Int) Big() *big.Int {
	switch n.kind {
	case numRat:
		return new(big.Int).Quo(n.q.Num(), n.q.Denom())
	case numFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			panic(fatalf(ErrBadOperand, "float %s out of range", n))
		}
		b, _ := big.NewFloat(n.f).Int(nil)
		return b
	}
	if n.i == nil {
		return smallInts[128].i
	}
	return n.i
}

// Sign returns -1, 0 or +1.
func (n Int) Sign() int {
	switch n.kind {
	case numRat:
		return n.q.Sign()
	case numFloat:
		switch {
		case n.f > 0:
			return 1
		case n.f < 0:
			return -1
		}
		return 0
	}
	if n.i == nil {
		return 0
	}
	return n.i.Sign()
}

// toInt truncates n to a Go int, saturating at the int range. It is used
// for counts, sizes and indexes.
func (n Int) toInt() int {
	b := n.Big()
	if b.IsInt64() {
		v := b.Int64()
		if v > math.MaxInt32*4 {
			return math.MaxInt32 * 4
		}
		if v < -math.MaxInt32*4 {
			return -math.MaxInt32 * 4
		}
		return int(v)
	}
	if b.Sign() < 0 {
		return -math.MaxInt32 * 4
	}
	return math.MaxInt32 * 4
}

func (n Int) float() float64 {
	switch n.kind {
	case numFloat:
		return n.f
	case numRat:
		f, _ := n.q.Float64()
		return f
	}
	f, _ := new(big.Float).SetInt(n.Big()).Float64()
	return f
}

func (n Int) rat() *big.Rat {
	switch n.kind {
	case numRat:
		return n.q
	case numFloat:
		if q := new(big.Rat).SetFloat64(n.f); q != nil {
			return q
		}
	}
	return new(big.Rat).SetInt(n.Big())
}

// widest returns the kind arithmetic on a and b is carried out in.
func widest(a, b Int) numKind {
	if a.kind == numFloat || b.kind == numFloat {
		return numFloat
	}
	if a.kind == numRat || b.kind == numRat {
		return numRat
	}
	return numExact
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func numAdd(a, b Int) Int {
	switch widest(a, b) {
	case numFloat:
		return floatNum(a.float() + b.float())
	case numRat:
		return ratNum(new(big.Rat).Add(a.rat(), b.rat()))
	}
	return Int{i: new(big.Int).Add(a.Big(), b.Big())}
}

func numSub(a, b Int) Int {
	switch widest(a, b) {
	case numFloat:
		return floatNum(a.float() - b.float())
	case numRat:
		return ratNum(new(big.Rat).Sub(a.rat(), b.rat()))
	}
	return Int{i: new(big.Int).Sub(a.Big(), b.Big())}
}

func numMul(a, b Int) Int {
	switch widest(a, b) {
	case numFloat:
		return floatNum(a.float() * b.float())
	case numRat:
		return ratNum(new(big.Rat).Mul(a.rat(), b.rat()))
	}
	return Int{i: new(big.Int).Mul(a.Big(), b.Big())}
}

// numDiv divides, flooring for exact integers.
func numDiv(a, b Int) Int {
	switch widest(a, b) {
	case numFloat:
		return floatNum(a.float() / b.float())
	case numRat:
		if b.Sign() == 0 {
			panic(fatalf(ErrDivideByZero, "divided by 0"))
		}
		return ratNum(new(big.Rat).Quo(a.rat(), b.rat()))
	}
	q, _ := floorDivMod(a.Big(), b.Big())
	return Int{i: q}
}

// numMod returns the floored modulus; the result takes the divisor's sign.
func numMod(a, b Int) Int {
	switch widest(a, b) {
	case numFloat:
		x, y := a.float(), b.float()
		if y == 0 {
			return floatNum(math.NaN())
		}
		return floatNum(x - y*math.Floor(x/y))
	case numRat:
		if b.Sign() == 0 {
			panic(fatalf(ErrDivideByZero, "divided by 0"))
		}
		x, y := a.rat(), b.rat()
		q := new(big.Rat).Quo(x, y)
		fl := new(big.Int).Quo(q.Num(), q.Denom())
		if q.Sign() < 0 && !q.IsInt() {
			fl.Sub(fl, big.NewInt(1))
		}
		return ratNum(new(big.Rat).Sub(x, new(big.Rat).Mul(y, new(big.Rat).SetInt(fl))))
	}
	_, m := floorDivMod(a.Big(), b.Big())
	return Int{i: m}
}

func floorDivMod(x, y *big.Int) (*big.Int, *big.Int) {
	if y.Sign() == 0 {
		panic(fatalf(ErrDivideByZero, "divided by 0"))
	}
	q, r := new(big.Int).QuoRem(x, y, new(big.Int))
	if r.Sign() != 0 && r.Sign() != y.Sign() {
		q.Sub(q, big.NewInt(1))
		r.Add(r, y)
	}
	return q, r
}

// numPow raises a to b. A negative exact exponent produces an exact
// rational in rational mode and a float otherwise. Base 1 is the only
// special case: in rational mode it yields the rational 1/1 directly.
func numPow(a, b Int, rational bool) Int {
	if widest(a, b) == numExact {
		if b.Sign() >= 0 {
			if a.Big().IsInt64() && a.Big().Int64() == 1 {
				return intOf(1)
			}
			if b.Big().BitLen() > 32 && a.Big().CmpAbs(big.NewInt(1)) > 0 {
				panic(fatalf(ErrBadOperand, "exponent %s too big", b))
			}
			return Int{i: new(big.Int).Exp(a.Big(), b.Big(), nil)}
		}
		if !rational {
			return floatNum(math.Pow(a.float(), b.float()))
		}
		if a.Big().IsInt64() && a.Big().Int64() == 1 {
			return ratNum(big.NewRat(1, 1))
		}
		if a.Sign() == 0 {
			panic(fatalf(ErrDivideByZero, "divided by 0"))
		}
		e := new(big.Int).Neg(b.Big())
		d := new(big.Int).Exp(a.Big(), e, nil)
		return ratNum(new(big.Rat).SetFrac(big.NewInt(1), d))
	}
	if a.kind == numRat && b.kind == numExact && b.Big().IsInt64() {
		e := b.Big().Int64()
		q := new(big.Rat).SetFrac(
			new(big.Int).Exp(a.q.Num(), big.NewInt(abs64(e)), nil),
			new(big.Int).Exp(a.q.Denom(), big.NewInt(abs64(e)), nil))
		if e < 0 {
			if q.Sign() == 0 {
				panic(fatalf(ErrDivideByZero, "divided by 0"))
			}
			q.Inv(q)
		}
		return ratNum(q)
	}
	return floatNum(math.Pow(a.float(), b.float()))
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func numCmp(a, b Int) int {
	switch widest(a, b) {
	case numFloat:
		x, y := a.float(), b.float()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case numRat:
		return a.rat().Cmp(b.rat())
	}
	return a.Big().Cmp(b.Big())
}

func numAbs(a Int) Int {
	switch a.kind {
	case numFloat:
		return floatNum(math.Abs(a.f))
	case numRat:
		return ratNum(new(big.Rat).Abs(a.q))
	}
	if a.Sign() >= 0 {
		return a
	}
	return Int{i: new(big.Int).Neg(a.Big())}
}

// Bitwise operations truncate their operands to integers first.

func numOr(a, b Int) Int { return Int{i: new(big.Int).Or(a.Big(), b.Big())} }
func numAnd(a, b Int) Int { return Int{i: new(big.Int).And(a.Big(), b.Big())} }
func numXor(a, b Int) Int { return Int{i: new(big.Int).Xor(a.Big(), b.Big())} }
func numNot(a Int) Int { return Int{i: new(big.Int).Not(a.Big())} }

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

func renderNumber(n Int) []byte {
	switch n.kind {
	case numRat:
		return []byte(n.q.String())
	case numFloat:
		return []byte(formatFloat(n.f))
	}
	return n.Big().Append(nil, 10)
}

// formatFloat prints f in fixed notation between 1e-4 and 1e16 and in
// exponent notation outside that range, with at least one fractional digit.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	a := math.Abs(f)
	if a == 0 || (a >= 1e-4 && a < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	return mant + "e" + exp
}
