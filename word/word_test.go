package word

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromIntRoundTrip(t *testing.T) {
	assert := assert.New(t)

	// Dense sweep near zero, sparse sweep over the whole span.
	for n := -2000; n <= 2000; n++ {
		w, err := FromInt(n)
		assert.NoError(err)
		assert.Equal(n, w.Int(), "n=%d", n)
	}
	for n := MinInt; n <= MaxInt; n += 487 {
		w, err := FromInt(n)
		assert.NoError(err)
		assert.Equal(n, w.Int(), "n=%d", n)
	}
}

func TestFromIntBounds(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{MinInt, -1, 0, 1, MaxInt} {
		w, err := FromInt(n)
		assert.NoError(err)
		assert.Equal(n, w.Int())
	}

	for _, n := range []int{MinInt - 1, MaxInt + 1, MaxInt * 3, MinInt * 7} {
		_, err := FromInt(n)
		assert.Error(err, "n=%d", n)
		var er ErrRange
		assert.True(errors.As(err, &er))
		assert.Equal(n, int(er))
	}
}

func TestWrap(t *testing.T) {
	assert := assert.New(t)

	for _, n := range []int{0, 1, -1, MaxInt, MinInt} {
		assert.Equal(n, Wrap(n).Int())
	}

	// One past the top of the range wraps to the bottom.
	assert.Equal(MinInt, Wrap(MaxInt+1).Int())
	assert.Equal(MaxInt, Wrap(MinInt-1).Int())
}

func TestTritsValid(t *testing.T) {
	assert := assert.New(t)

	for n := MinInt; n <= MaxInt; n += 991 {
		w, err := FromInt(n)
		assert.NoError(err)
		for i := range Trits {
			tr := w.Trit(i)
			assert.True(tr >= -1 && tr <= 1, "n=%d trit=%d", n, i)
		}
	}
}

func TestField(t *testing.T) {
	assert := assert.New(t)

	w, err := Word{}.SetField(0, 3, -13)
	assert.NoError(err)
	assert.Equal(-13, w.Field(0, 3))

	w, err = w.SetField(3, 3, 13)
	assert.NoError(err)
	assert.Equal(13, w.Field(3, 3))
	assert.Equal(-13, w.Field(0, 3), "neighboring field untouched")

	w, err = w.SetField(9, 3, 5)
	assert.NoError(err)
	assert.Equal(5, w.Field(9, 3))

	// 3-trit fields span -13..13.
	_, err = Word{}.SetField(0, 3, 14)
	assert.Error(err)
	_, err = Word{}.SetField(0, 3, -14)
	assert.Error(err)

	// A failed set leaves the word unchanged.
	out, err := w.SetField(6, 3, 100)
	assert.Error(err)
	assert.Equal(w, out)
}

func TestParity(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint8(0), Word{}.Parity())

	w, err := FromInt(1)
	assert.NoError(err)
	assert.Equal(uint8(1), w.Parity())

	w, err = FromInt(-1)
	assert.NoError(err)
	assert.Equal(uint8(2), w.Parity())

	for n := -500; n <= 500; n += 7 {
		w, err := FromInt(n)
		assert.NoError(err)
		assert.Less(w.Parity(), uint8(3))
	}
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("000000000000", Word{}.String())

	w, err := FromInt(2) // +- in the low trits
	assert.NoError(err)
	assert.Equal("0000000000+-", w.String())

	w, err = FromInt(-1)
	assert.NoError(err)
	assert.Equal("00000000000-", w.String())
}
