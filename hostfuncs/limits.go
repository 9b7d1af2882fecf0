package hostfuncs

import (
	"fmt"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
)

// DefaultMaxRequestSize limits the size of incoming byte-surface requests (1MB).
// This prevents guest modules from triggering OOM by claiming huge request sizes.
const DefaultMaxRequestSize = 1 * 1024 * 1024

// DefaultMaxSequenceLength limits the element count of a sequence or mapping argument.
const DefaultMaxSequenceLength = 1 << 20

// Limits bounds the arguments a registry accepts. Zero fields disable the check.
type Limits struct {
	MaxSequenceLength int
	MaxRequestSize    uint32
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{MaxSequenceLength: DefaultMaxSequenceLength, MaxRequestSize: DefaultMaxRequestSize}
}

func (l Limits) check(op string, params []Param, args []values.Value) error {
	if l.MaxSequenceLength <= 0 {
		return nil
	}
	for i, a := range args {
		if k := a.Kind(); k != values.KindSequence && k != values.KindMapping {
			continue
		}
		if n := a.Len(); n > l.MaxSequenceLength {
			return &errors.ArgumentError{
				Operation: op, Index: i, Param: params[i].Name,
				Reason: fmt.Sprintf("%s of length %d exceeds limit %d", a.Kind(), n, l.MaxSequenceLength),
			}
		}
	}
	return nil
}
