package word

const (
	// Trits is the fixed width of a machine word.
	Trits = 12

	// MaxInt is the largest integer a word can hold: (3^12 - 1) / 2.
	MaxInt = 265720
	// MinInt is the smallest integer a word can hold.
	MinInt = -MaxInt
)

// Word is a fixed-width balanced-ternary value, least significant trit
// first. The zero Word is the integer zero. Every trit is always in
// {-1, 0, 1}; no operation in this package produces anything else.
type Word [Trits]int8

// digits extracts up to 'width' balanced-ternary digits of n into out,
// returning the residue left after the last digit. A zero residue means
// n was fully consumed.
func digits(n int, out []int8, width int) (rest int) {
	for i := 0; i < width; i++ {
		d := int8(((n % 3) + 3) % 3)
		if d == 2 {
			d = -1
		}
		out[i] = d
		n = (n - int(d)) / 3
	}
	return n
}

// FromInt converts a signed integer to a Word. Integers outside the
// 12-trit span are rejected, never truncated.
func FromInt(n int) (w Word, err error) {
	if rest := digits(n, w[:], Trits); rest != 0 {
		err = ErrRange(n)
		w = Word{}
	}
	return
}

// Wrap converts a signed integer to a Word, discarding digits beyond
// the word width. Hosts that want rejection use FromInt instead.
func Wrap(n int) (w Word) {
	digits(n, w[:], Trits)
	return
}

// Int evaluates the word's positional polynomial.
func (w Word) Int() (n int) {
	p := 1
	for i := range Trits {
		n += int(w[i]) * p
		p *= 3
	}
	return
}

// Trit returns the trit at position i.
func (w Word) Trit(i int) int8 {
	return w[i]
}

// Field returns the signed value of the 'size' trits starting at 'lo'.
func (w Word) Field(lo, size int) (n int) {
	p := 1
	for i := range size {
		n += int(w[lo+i]) * p
		p *= 3
	}
	return
}

// SetField writes v into the 'size' trits starting at 'lo', returning
// the updated word. Values that do not fit the field are an error.
func (w Word) SetField(lo, size, v int) (out Word, err error) {
	out = w
	if rest := digits(v, out[lo:lo+size], size); rest != 0 {
		err = ErrField(v)
		out = w
	}
	return
}

// Parity is the word's ECC checksum: the trit sum mod 3, normalized
// to {0, 1, 2}.
func (w Word) Parity() (p uint8) {
	sum := 0
	for i := range Trits {
		sum += int(w[i])
	}
	return uint8(((sum % 3) + 3) % 3)
}

// String renders the word most significant trit first, one rune per
// trit: '+', '0' or '-'.
func (w Word) String() string {
	var runes [Trits]byte
	for i := range Trits {
		switch w[Trits-1-i] {
		case 1:
			runes[i] = '+'
		case -1:
			runes[i] = '-'
		default:
			runes[i] = '0'
		}
	}
	return string(runes[:])
}
