package word

import (
	"github.com/ternsys/t3vm/translate"
)

var f = translate.From

// ErrRange reports an integer that does not fit the word's trit width.
type ErrRange int

func (err ErrRange) Error() string {
	return f("value %d does not fit in %d trits", int(err), Trits)
}

// ErrField reports an integer that does not fit a trit field.
type ErrField int

func (err ErrField) Error() string {
	return f("value %d does not fit the field", int(err))
}
