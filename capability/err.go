package capability

import (
	"github.com/ternsys/t3vm/translate"
)

var f = translate.From

// ErrLength reports a length outside the 4-trit field or below zero.
type ErrLength int

func (err ErrLength) Error() string {
	return f("capability length %d invalid", int(err))
}

// ErrBase reports a base outside the signed 6-trit field.
type ErrBase int

func (err ErrBase) Error() string {
	return f("capability base %d invalid", int(err))
}

// ErrPerms reports a permission string with characters beyond 'r'/'w'.
type ErrPerms string

func (err ErrPerms) Error() string {
	return f("capability permissions '%v' invalid", string(err))
}
