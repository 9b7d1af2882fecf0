package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/liangz0707/FirstEngine/internal/wasmcontext"
	"github.com/liangz0707/FirstEngine/wireformat"
)

// LogMessageWire is the JSON document a guest passes to the log_message host
// function.
type LogMessageWire struct {
	Timestamp time.Time                    `json:"timestamp"`
	Attrs     []LogAttrWire                `json:"attrs,omitempty"`
	Level     string                       `json:"level"`
	Message   string                       `json:"message"`
	Context   wireformat.ContextWireFormat `json:"context"`
}

// LogAttrWire represents a single slog attribute for wire transfer.
type LogAttrWire struct {
	Key   string `json:"key"`
	Type  string `json:"type"`  // "string", "int64", "uint64", "bool", "float64", "time", "duration", "error", "json", "group", "any"
	Value string `json:"value"` // String representation of the value
}

// EncodeRecord serializes a record the way guests send it.
func EncodeRecord(ctx context.Context, record slog.Record) ([]byte, error) {
	msg := LogMessageWire{
		Context:   wasmcontext.ContextToWire(ctx),
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, toLogAttrWire(attr))
		return true
	})
	return json.Marshal(msg)
}

// Replay decodes a guest log message and hands it to logger. Unknown levels
// are logged at info. The guest request ID, when present, is added as the
// request_id attribute.
func Replay(ctx context.Context, logger *slog.Logger, data []byte) error {
	var msg LogMessageWire
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to decode guest log message: %w", err)
	}

	level, err := ParseLevel(msg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if !logger.Enabled(ctx, level) {
		return nil
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	r := slog.NewRecord(ts, level, msg.Message, 0)
	if msg.Context.RequestID != "" {
		r.AddAttrs(slog.String("request_id", msg.Context.RequestID))
	}
	for _, a := range msg.Attrs {
		r.AddAttrs(fromLogAttrWire(a))
	}
	return logger.Handler().Handle(ctx, r)
}

// toLogAttrWire converts a slog.Attr to LogAttrWire.
func toLogAttrWire(attr slog.Attr) LogAttrWire {
	wire := LogAttrWire{
		Key: attr.Key,
	}
	attr.Value = attr.Value.Resolve()

	switch attr.Value.Kind() {
	case slog.KindString:
		wire.Type = "string"
		wire.Value = attr.Value.String()
	case slog.KindInt64:
		wire.Type = "int64"
		wire.Value = strconv.FormatInt(attr.Value.Int64(), 10)
	case slog.KindUint64:
		wire.Type = "uint64"
		wire.Value = strconv.FormatUint(attr.Value.Uint64(), 10)
	case slog.KindBool:
		wire.Type = "bool"
		wire.Value = strconv.FormatBool(attr.Value.Bool())
	case slog.KindFloat64:
		wire.Type = "float64"
		wire.Value = strconv.FormatFloat(attr.Value.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type = "time"
		wire.Value = attr.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type = "duration"
		wire.Value = attr.Value.Duration().String()
	case slog.KindAny:
		if v := attr.Value.Any(); v != nil {
			if err, isErr := v.(error); isErr {
				wire.Type = "error"
				wire.Value = err.Error()
			} else if data, marshalErr := json.Marshal(v); marshalErr == nil {
				wire.Type = "json"
				wire.Value = string(data)
			} else {
				wire.Type = "any"
				wire.Value = fmt.Sprintf("%v", v)
			}
		} else {
			wire.Type = "any"
			wire.Value = "<nil>"
		}
	case slog.KindGroup:
		// Groups are flattened to their printed form; the wire has no nesting.
		wire.Type = "group"
		wire.Value = attr.Value.String()
	default:
		wire.Type = "any"
		wire.Value = fmt.Sprintf("%v", attr.Value.Any())
	}
	return wire
}

// fromLogAttrWire rebuilds a typed attribute. Values that fail to parse are
// kept as strings.
func fromLogAttrWire(w LogAttrWire) slog.Attr {
	switch w.Type {
	case "int64":
		if n, err := strconv.ParseInt(w.Value, 10, 64); err == nil {
			return slog.Int64(w.Key, n)
		}
	case "uint64":
		if n, err := strconv.ParseUint(w.Value, 10, 64); err == nil {
			return slog.Uint64(w.Key, n)
		}
	case "bool":
		if b, err := strconv.ParseBool(w.Value); err == nil {
			return slog.Bool(w.Key, b)
		}
	case "float64":
		if f, err := strconv.ParseFloat(w.Value, 64); err == nil {
			return slog.Float64(w.Key, f)
		}
	case "time":
		if ts, err := time.Parse(time.RFC3339Nano, w.Value); err == nil {
			return slog.Time(w.Key, ts)
		}
	case "duration":
		if d, err := time.ParseDuration(w.Value); err == nil {
			return slog.Duration(w.Key, d)
		}
	case "json":
		if json.Valid([]byte(w.Value)) {
			return slog.Any(w.Key, json.RawMessage(w.Value))
		}
	}
	return slog.String(w.Key, w.Value)
}
