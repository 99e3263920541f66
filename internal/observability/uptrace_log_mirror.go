package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/logging"
)

const (
	uptraceLogInstrumentation = "fantasy-league-contracts/internal/platform/logging"
	maxLogValueDepth          = 3
)

// Request logs for these paths are polled by health checks and browsers and are
// not exported.
var quietPaths = map[string]struct{}{
	"/healthz":      {},
	"/openapi.yaml": {},
	"/docs":         {},
	"/docs/":        {},
}

// Log keys the host and contracts use, exported under chain semantic names
// so spans and logs can be joined on them.
var chainLogKeys = map[string]string{
	"contract": "chain.contract",
	"sender":   "chain.sender",
	"height":   "chain.height",
	"code_id":  "chain.code_id",
	"event_id": "chain.event_id",
}

func newUptraceLogMirror(serviceVersion, chainID string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if shouldSkipUptraceLog(level, msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		severity := toOTelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}
		otelLogger.Emit(ctx, buildLogRecord(time.Now().UTC(), level, chainID, msg, args))
	}
}

func buildLogRecord(now time.Time, level logging.Level, chainID, msg string, args []any) otellog.Record {
	record := otellog.Record{}
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(toOTelSeverity(level))
	record.SetSeverityText(strings.ToUpper(level.String()))
	record.SetEventName(msg)
	record.SetBody(otellog.StringValue(msg))
	if chainID != "" {
		record.AddAttributes(otellog.String("chain.id", chainID))
	}
	if attrs := buildOTelLogAttributes(args); len(attrs) > 0 {
		record.AddAttributes(attrs...)
	}
	return record
}

// shouldSkipUptraceLog drops debug records and request logs for quiet paths.
func shouldSkipUptraceLog(level logging.Level, msg string, args []any) bool {
	if level < logging.LevelInfo {
		return true
	}
	if msg != "http_request" {
		return false
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); !ok || key != "http_path" {
			continue
		}
		path, ok := args[i+1].(string)
		if !ok {
			return false
		}
		_, quiet := quietPaths[path]
		return quiet
	}
	return false
}

func buildOTelLogAttributes(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprintf("arg_%d", i/2)
		if k, ok := args[i].(string); ok && strings.TrimSpace(k) != "" {
			key = k
		}
		if mapped, ok := chainLogKeys[key]; ok {
			key = mapped
		}
		if i+1 >= len(args) {
			attrs = append(attrs, otellog.Empty(key))
			continue
		}
		attrs = append(attrs, otellog.KeyValue{Key: key, Value: toOTelLogValue(args[i+1], 0)})
	}
	return attrs
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

func toOTelLogValue(value any, depth int) otellog.Value {
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}
	if value == nil {
		return otellog.Value{}
	}
	if v, ok := scalarLogValue(value); ok {
		return v
	}
	return compositeLogValue(reflect.ValueOf(value), depth)
}

// scalarLogValue converts the types log call sites pass directly. Amounts
// and heights are uint64; ones past MaxInt64 are kept as strings.
func scalarLogValue(value any) (otellog.Value, bool) {
	switch v := value.(type) {
	case string:
		return otellog.StringValue(v), true
	case bool:
		return otellog.BoolValue(v), true
	case int:
		return otellog.IntValue(v), true
	case int32:
		return otellog.Int64Value(int64(v)), true
	case int64:
		return otellog.Int64Value(v), true
	case uint8:
		return otellog.Int64Value(int64(v)), true
	case uint32:
		return otellog.Int64Value(int64(v)), true
	case uint:
		return unsignedLogValue(uint64(v)), true
	case uint64:
		return unsignedLogValue(v), true
	case float64:
		return otellog.Float64Value(v), true
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...)), true
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano)), true
	case time.Duration:
		return otellog.StringValue(v.String()), true
	case error:
		return otellog.StringValue(v.Error()), true
	case fmt.Stringer:
		return otellog.StringValue(v.String()), true
	}
	return otellog.Value{}, false
}

func unsignedLogValue(v uint64) otellog.Value {
	if v > math.MaxInt64 {
		return otellog.StringValue(fmt.Sprint(v))
	}
	return otellog.Int64Value(int64(v))
}

func compositeLogValue(rv reflect.Value, depth int) otellog.Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return toOTelLogValue(rv.Elem().Interface(), depth+1)
	case reflect.Int8, reflect.Int16, reflect.Int, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint8, reflect.Uint16, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return unsignedLogValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.String:
		return otellog.StringValue(rv.String())
	case reflect.Slice, reflect.Array:
		items := make([]otellog.Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, toOTelLogValue(rv.Index(i).Interface(), depth+1))
		}
		return otellog.SliceValue(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return otellog.StringValue(fmt.Sprint(rv.Interface()))
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		kvs := make([]otellog.KeyValue, 0, len(keys))
		for _, key := range keys {
			kvs = append(kvs, otellog.KeyValue{
				Key:   key.String(),
				Value: toOTelLogValue(rv.MapIndex(key).Interface(), depth+1),
			})
		}
		return otellog.MapValue(kvs...)
	default:
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}
}
