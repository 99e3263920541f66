package chain

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Variant is one case of a tagged message union. It is encoded as
// {"<variant name>": {...fields}}.
type Variant interface {
	VariantName() string
}

// Union decodes the closed set of variants a contract entry point accepts.
type Union[T Variant] struct {
	name     string
	variants map[string]reflect.Type
}

// NewUnion registers the variants of a union. Every variant must be a pointer
// to a struct.
func NewUnion[T Variant](name string, variants ...T) *Union[T] {
	u := &Union[T]{name: name, variants: make(map[string]reflect.Type, len(variants))}
	for _, v := range variants {
		t := reflect.TypeOf(v)
		if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
			panic("chain: union variant must be a pointer to a struct: " + t.String())
		}
		u.variants[v.VariantName()] = t.Elem()
	}
	return u
}

// Decode accepts {"variant": {...}} or the bare string "variant" for variants
// without fields, then validates the decoded struct.
func (u *Union[T]) Decode(raw []byte) (T, error) {
	var zero T

	var tag string
	var body json.RawMessage
	if err := sonic.Unmarshal(raw, &tag); err == nil {
		body = json.RawMessage("{}")
	} else {
		var envelope map[string]json.RawMessage
		if err := sonic.Unmarshal(raw, &envelope); err != nil {
			return zero, invalidMessage(err, "decode %s", u.name)
		}
		if len(envelope) != 1 {
			return zero, invalidMessage(nil, "%s: expected exactly one variant, got %d", u.name, len(envelope))
		}
		for k, v := range envelope {
			tag, body = k, v
		}
	}

	t, ok := u.variants[tag]
	if !ok {
		return zero, invalidMessage(nil, "%s: unknown variant %q (known: %s)", u.name, tag, u.known())
	}
	ptr := reflect.New(t)
	if len(body) > 0 && string(body) != "null" {
		if err := sonic.Unmarshal(body, ptr.Interface()); err != nil {
			return zero, invalidMessage(err, "decode %s.%s", u.name, tag)
		}
	}
	if err := validate.Struct(ptr.Interface()); err != nil {
		return zero, invalidMessage(err, "validate %s.%s", u.name, tag)
	}
	return ptr.Interface().(T), nil
}

func (u *Union[T]) known() string {
	names := make([]string, 0, len(u.variants))
	for name := range u.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Encode wraps a variant in its tag.
func Encode(v Variant) (json.RawMessage, error) {
	raw, err := sonic.Marshal(map[string]any{v.VariantName(): v})
	if err != nil {
		return nil, crerr.Wrapf(err, "encode %s", v.VariantName())
	}
	return raw, nil
}

// MustEncode is Encode for messages built from static values.
func MustEncode(v Variant) json.RawMessage {
	raw, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// Decode and Marshal are the codec for payloads that are not unions.
func Decode(raw []byte, v any) error {
	if err := sonic.Unmarshal(raw, v); err != nil {
		return invalidMessage(err, "decode payload")
	}
	if reflect.Indirect(reflect.ValueOf(v)).Kind() == reflect.Struct {
		if err := validate.Struct(v); err != nil {
			return invalidMessage(err, "validate payload")
		}
	}
	return nil
}

func Marshal(v any) ([]byte, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, crerr.Wrap(err, "encode payload")
	}
	return raw, nil
}
