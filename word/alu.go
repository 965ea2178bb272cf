package word

// Add performs trit-wise addition with radix-3 carry propagation. A
// carry out of the top trit is discarded, so sums wrap the same way
// Wrap does.
func Add(a, b Word) (out Word) {
	var carry int8
	for i := range Trits {
		s := a[i] + b[i] + carry
		carry = (s + 4) / 3 - 1
		out[i] = s - 3*carry
	}
	return
}

// Sub is Add of the negation.
func Sub(a, b Word) Word {
	return Add(a, Neg(b))
}

// Neg negates every trit. In balanced ternary this is exact arithmetic
// negation, so Neg is its own inverse.
func Neg(a Word) (out Word) {
	for i := range Trits {
		out[i] = -a[i]
	}
	return
}

// And is the trit-wise Kleene conjunction: min of each trit pair.
func And(a, b Word) (out Word) {
	for i := range Trits {
		out[i] = min(a[i], b[i])
	}
	return
}

// Or is the trit-wise Kleene disjunction: max of each trit pair.
func Or(a, b Word) (out Word) {
	for i := range Trits {
		out[i] = max(a[i], b[i])
	}
	return
}

// Shift moves trits by n positions at a fixed width of 12, zero-filling
// the vacated end. Positive n shifts toward the most significant trit.
func Shift(a Word, n int) (out Word) {
	if n >= Trits || n <= -Trits {
		return
	}
	if n >= 0 {
		for i := n; i < Trits; i++ {
			out[i] = a[i-n]
		}
	} else {
		for i := 0; i < Trits+n; i++ {
			out[i] = a[i-n]
		}
	}
	return
}
