// Package word implements the balanced-ternary machine word.
//
// A Word is twelve trits, least significant first, each trit holding a
// value in {-1, 0, 1}. Words are the universal unit of storage,
// computation, and instruction encoding for the t3vm core. The package
// provides checked conversion to and from integers, trit-wise ALU
// operations following Kleene ternary logic, and signed trit-field
// accessors used by the instruction decoder and the capability codec.
package word
