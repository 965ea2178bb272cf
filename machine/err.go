package machine

import (
	"github.com/ternsys/t3vm/translate"
)

var f = translate.From

// ErrRuntime locates a runtime fault in the program source.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
