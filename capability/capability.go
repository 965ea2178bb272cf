// Package capability encodes bounds-plus-permission descriptors in a
// machine word.
//
// A capability is a view over whatever word happens to be used as the
// guard operand of a guarded memory access: a signed 6-trit base, a
// 4-trit length, and two permission trits. It has no lifetime of its
// own beyond the word holding it.
package capability

import (
	"github.com/ternsys/t3vm/word"
)

// Trit layout inside the word.
const (
	baseLo   = 0 // trits [0..5], signed base address
	baseLen  = 6
	lenLo    = 6 // trits [6..9], region length
	lenLen   = 4
	readPos  = 10 // trit > 0 grants loads
	writePos = 11 // trit > 0 grants stores
)

// MaxBase is the largest base magnitude a 6-trit field can hold.
const MaxBase = 364

// MaxLength is the largest length a 4-trit field can hold.
const MaxLength = 40

// Capability is a decoded bounds+permission descriptor.
type Capability struct {
	Base   int  // First address of the window.
	Length int  // Number of addresses in the window.
	Read   bool // Loads permitted.
	Write  bool // Stores permitted.
}

// New builds a capability over [base, base+length) with a permission
// string holding any combination of 'r' and 'w'. A negative length is
// rejected here rather than left to fail every bounds check.
func New(base, length int, perms string) (cap Capability, err error) {
	if length < 0 || length > MaxLength {
		err = ErrLength(length)
		return
	}
	if base < -MaxBase || base > MaxBase {
		err = ErrBase(base)
		return
	}

	cap = Capability{Base: base, Length: length}
	for _, p := range perms {
		switch p {
		case 'r':
			cap.Read = true
		case 'w':
			cap.Write = true
		default:
			err = ErrPerms(perms)
			cap = Capability{}
			return
		}
	}

	return
}

// Encode packs the capability into a word suitable for seeding a
// register before execution.
func (cap Capability) Encode() (w word.Word, err error) {
	w, err = w.SetField(baseLo, baseLen, cap.Base)
	if err != nil {
		return
	}
	w, err = w.SetField(lenLo, lenLen, cap.Length)
	if err != nil {
		return
	}
	if cap.Read {
		w, _ = w.SetField(readPos, 1, 1)
	}
	if cap.Write {
		w, _ = w.SetField(writePos, 1, 1)
	}
	return
}

// Decode reconstructs the descriptor from a word. Any word decodes;
// nonsensical fields simply never pass a check.
func Decode(w word.Word) Capability {
	return Capability{
		Base:   w.Field(baseLo, baseLen),
		Length: w.Field(lenLo, lenLen),
		Read:   w.Trit(readPos) > 0,
		Write:  w.Trit(writePos) > 0,
	}
}

// CheckLoad reports whether the capability word permits a load at addr.
// Pure predicate; the caller decides the fault action.
func CheckLoad(w word.Word, addr int) bool {
	cap := Decode(w)
	return cap.Read && cap.contains(addr)
}

// CheckStore reports whether the capability word permits a store at addr.
func CheckStore(w word.Word, addr int) bool {
	cap := Decode(w)
	return cap.Write && cap.contains(addr)
}

func (cap Capability) contains(addr int) bool {
	return addr >= cap.Base && addr < cap.Base+cap.Length
}
