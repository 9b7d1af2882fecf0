package hostfuncs

import (
	"encoding/json"
	"fmt"

	"github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/wireformat"
)

// ErrorResponse serializes err as a wireformat.CallResponseWire carrying only
// an error, so guests receive consistent, parseable errors instead of traps.
// Returns nil if serialization fails.
func ErrorResponse(err error) []byte {
	data, mErr := json.Marshal(wireformat.CallResponseWire{Error: errors.ToErrorDetail(err)})
	if mErr != nil {
		return nil
	}
	return data
}

// NewRequestTooLargeError reports a request payload above the configured limit.
func NewRequestTooLargeError(size, limit uint32) error {
	return &errors.ArgumentError{
		Index:  -1,
		Reason: fmt.Sprintf("request size %d exceeds maximum %d bytes", size, limit),
	}
}
