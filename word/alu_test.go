package word

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func wordOf(t *testing.T, n int) Word {
	t.Helper()
	w, err := FromInt(n)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestAddSub(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(3))
	for range 4096 {
		a := rng.Intn(MaxInt) - MaxInt/2
		b := rng.Intn(MaxInt) - MaxInt/2
		if a+b > MaxInt || a+b < MinInt {
			continue
		}
		assert.Equal(a+b, Add(wordOf(t, a), wordOf(t, b)).Int(), "%d+%d", a, b)
		if a-b >= MinInt && a-b <= MaxInt {
			assert.Equal(a-b, Sub(wordOf(t, a), wordOf(t, b)).Int(), "%d-%d", a, b)
		}
	}

	assert.Equal(MaxInt, Add(wordOf(t, MaxInt), Word{}).Int())
	assert.Equal(0, Add(wordOf(t, MaxInt), wordOf(t, MinInt)).Int())
}

func TestNeg(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{0, 1, -1, 42, -42, MaxInt, MinInt} {
		w := wordOf(t, n)
		assert.Equal(-n, Neg(w).Int())
		assert.Equal(w, Neg(Neg(w)), "involution")
	}
}

func TestKleeneLattice(t *testing.T) {
	assert := assert.New(t)

	trits := []int{-1, 0, 1}
	for _, n := range trits {
		w := wordOf(t, n)
		assert.Equal(w, And(w, w), "AND idempotent")
		assert.Equal(w, Or(w, w), "OR idempotent")
		assert.Equal(wordOf(t, -1), And(w, wordOf(t, -1)), "AND absorbing")
		assert.Equal(wordOf(t, 1), Or(w, wordOf(t, 1)), "OR absorbing")
	}

	for _, a := range trits {
		for _, b := range trits {
			wa, wb := wordOf(t, a), wordOf(t, b)
			assert.Equal(min(a, b), And(wa, wb).Int())
			assert.Equal(max(a, b), Or(wa, wb).Int())
			assert.Equal(And(wa, wb), And(wb, wa))
			assert.Equal(Or(wa, wb), Or(wb, wa))
		}
	}
}

func TestShift(t *testing.T) {
	assert := assert.New(t)

	one := wordOf(t, 1)
	assert.Equal(3, Shift(one, 1).Int())
	assert.Equal(9, Shift(one, 2).Int())
	assert.Equal(0, Shift(one, -1).Int(), "low trit drops off")
	assert.Equal(Word{}, Shift(one, Trits))
	assert.Equal(Word{}, Shift(one, -Trits))

	w := wordOf(t, 29) // +0-+ base 3
	assert.Equal(29*3, Shift(w, 1).Int())
	assert.Equal(10, Shift(w, -1).Int(), "trunc toward the low end")

	// The top trit falls off a left shift; the rest move up.
	top, err := Word{}.SetField(Trits-1, 1, 1)
	assert.NoError(err)
	assert.Equal(Word{}, Shift(top, 1))
}
