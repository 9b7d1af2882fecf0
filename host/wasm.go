package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/log"
	"github.com/liangz0707/FirstEngine/wireformat"
	"github.com/tetratelabs/wazero/api"
)

// ErrNullResponse is returned when a guest export answers with a zero packed
// pointer/length.
var ErrNullResponse = errors.New("null response from guest")

// logMessage replays a guest log record (packed ptr/len of a
// log.LogMessageWire document) into the executor logger.
func (e *Executor) logMessage(ctx context.Context, m api.Module, stack []uint64) {
	ptr, length := uint32(stack[0]>>32), uint32(stack[0]) //nolint:gosec // G115: packed format stores 32-bit values
	payload, ok := m.Memory().Read(ptr, length)
	if !ok {
		e.logger.ErrorContext(ctx, "failed to read guest log message", "guest", m.Name(), "ptr", ptr, "len", length)
		return
	}
	if err := log.Replay(ctx, e.logger.With("guest", m.Name()), payload); err != nil {
		e.logger.WarnContext(ctx, "guest log message dropped", "guest", m.Name(), "error", err)
	}
}

// Call invokes a guest export following the host function ABI in reverse:
// the export takes the packed ptr/len of a JSON call request and returns the
// packed ptr/len of a JSON call response. The response error, if any, is
// returned as an *entities.ErrorDetail.
func (g *Guest) Call(ctx context.Context, export string, args ...values.Value) (values.Value, error) {
	payload, err := wireformat.MarshalRequest(args...)
	if err != nil {
		return values.Value{}, err
	}

	packed, err := g.callRaw(ctx, export, payload)
	if err != nil {
		return values.Value{}, err
	}

	data, err := g.read(packed)
	if err != nil {
		return values.Value{}, err
	}
	return wireformat.UnmarshalResponse(data)
}

// CallRaw invokes an export with raw wasm parameters.
func (g *Guest) CallRaw(ctx context.Context, export string, params ...uint64) ([]uint64, error) {
	f := g.module.ExportedFunction(export)
	if f == nil {
		return nil, fmt.Errorf("export %q not found", export)
	}
	return f.Call(ctx, params...)
}

func (g *Guest) callRaw(ctx context.Context, name string, input []byte) (uint64, error) {
	allocate := g.module.ExportedFunction("allocate")
	if allocate == nil {
		return 0, fmt.Errorf("guest does not export 'allocate'")
	}
	resAlloc, err := allocate.Call(ctx, uint64(len(input)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(resAlloc) == 0 {
		return 0, fmt.Errorf("allocate returned no results")
	}
	ptr := uint32(resAlloc[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit
	if !g.module.Memory().Write(ptr, input) {
		return 0, fmt.Errorf("failed to write input to guest memory")
	}

	packed := uint64(ptr)<<32 | uint64(len(input))
	results, err := g.CallRaw(ctx, name, packed)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, ErrNullResponse
	}
	return results[0], nil
}

func (g *Guest) read(packed uint64) ([]byte, error) {
	ptr, length := uint32(packed>>32), uint32(packed) //nolint:gosec // G115: packed format stores 32-bit values
	if ptr == 0 || length == 0 {
		return nil, ErrNullResponse
	}
	data, ok := g.module.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("failed to read response from memory")
	}
	return append([]byte(nil), data...), nil
}
