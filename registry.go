package verdict

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Binding makes an attribute available to the rule decoder. It turns the field, type
// and raw value of a serialized attribute test into a typed expression.
type Binding[S any] interface {
	// Name returns the attribute name used in serialized rules.
	Name() string
	// Ops returns the node kinds the attribute can be used with.
	Ops() []Op
	// Build decodes raw into the attribute's value type and returns the node.
	Build(op Op, raw any) (Expr[S], error)
}

type binding[S, A any] struct {
	attr    Attribute[S, A]
	ops     []Op
	equal   func(a, b A) bool
	compare func(a, b A) int
}

// BindOrdered returns a binding supporting EQ, GT and LT.
func BindOrdered[S any, A cmp.Ordered](attr Attribute[S, A]) Binding[S] {
	mustAttribute(attr)
	return &binding[S, A]{
		attr:    attr,
		ops:     []Op{OpEQ, OpGT, OpLT},
		equal:   func(a, b A) bool { return a == b },
		compare: cmp.Compare[A],
	}
}

// BindComparable returns a binding supporting EQ only, for unordered types such as bool.
func BindComparable[S any, A comparable](attr Attribute[S, A]) Binding[S] {
	mustAttribute(attr)
	return &binding[S, A]{
		attr:  attr,
		ops:   []Op{OpEQ},
		equal: func(a, b A) bool { return a == b },
	}
}

// BindFunc returns a binding supporting EQ, GT and LT for a type ordered by compare.
// Two values are equal when compare returns zero.
func BindFunc[S, A any](attr Attribute[S, A], compare func(a, b A) int) Binding[S] {
	mustAttribute(attr)
	if compare == nil {
		panic("verdict: nil compare function")
	}
	return &binding[S, A]{
		attr:    attr,
		ops:     []Op{OpEQ, OpGT, OpLT},
		equal:   func(a, b A) bool { return compare(a, b) == 0 },
		compare: compare,
	}
}

func (b *binding[S, A]) Name() string { return b.attr.Name() }
func (b *binding[S, A]) Ops() []Op    { return b.ops }

func (b *binding[S, A]) Build(op Op, raw any) (Expr[S], error) {
	if !slices.Contains(b.ops, op) {
		return nil, fmt.Errorf("attribute %q does not support %s", b.attr.Name(), op)
	}
	v, err := decodeValue[A](raw)
	if err != nil {
		return nil, err
	}
	switch op {
	case OpGT:
		return GtFunc(b.attr, v, b.compare), nil
	case OpLT:
		return LtFunc(b.attr, v, b.compare), nil
	default:
		return EqFunc(b.attr, v, b.equal), nil
	}
}

// Registry resolves attribute names in serialized rules.
// A Registry is immutable once created and safe for concurrent use.
type Registry[S any] struct {
	bindings map[string]Binding[S]
}

// NewRegistry returns a registry of the bindings. Names must be unique and non-empty.
func NewRegistry[S any](bindings ...Binding[S]) (*Registry[S], error) {
	r := &Registry[S]{bindings: make(map[string]Binding[S], len(bindings))}
	for _, b := range bindings {
		if b == nil {
			return nil, fmt.Errorf("nil binding")
		}
		if b.Name() == "" {
			return nil, fmt.Errorf("binding with empty name")
		}
		if _, ok := r.bindings[b.Name()]; ok {
			return nil, fmt.Errorf("duplicate attribute %q", b.Name())
		}
		r.bindings[b.Name()] = b
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
// It simplifies the initialization of package-level registries.
func MustRegistry[S any](bindings ...Binding[S]) *Registry[S] {
	r, err := NewRegistry(bindings...)
	if err != nil {
		panic("verdict: " + err.Error())
	}
	return r
}

// Lookup returns the binding for the attribute name.
func (r *Registry[S]) Lookup(name string) (Binding[S], bool) {
	b, ok := r.bindings[name]
	return b, ok
}

// Names returns the registered attribute names, sorted.
func (r *Registry[S]) Names() []string {
	names := make([]string, 0, len(r.bindings))
	for n := range r.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// decodeValue converts a value produced by a JSON or YAML decoder into A.
// Strings are never converted to numbers or booleans and vice versa, and a fractional
// number is never truncated into an integer.
func decodeValue[A any](raw any) (A, error) {
	var out A
	if raw == nil {
		return out, fmt.Errorf("missing value")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(strictNumberHook),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(raw); err != nil {
		return out, err
	}
	return out, nil
}

// strictNumberHook resolves json.Number and floating point input for the target kind,
// and rejects numbers the target cannot hold.
func strictNumberHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, ok, err := integerValue(data)
		if !ok || err != nil {
			return data, err
		}
		if !v.IsInt64() || reflect.New(t).Elem().OverflowInt(v.Int64()) {
			return nil, fmt.Errorf("%s is out of range for %s", v, t)
		}
		return reflect.ValueOf(v.Int64()).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, ok, err := integerValue(data)
		if !ok || err != nil {
			return data, err
		}
		if v.Sign() < 0 || !v.IsUint64() || reflect.New(t).Elem().OverflowUint(v.Uint64()) {
			return nil, fmt.Errorf("%s is out of range for %s", v, t)
		}
		return reflect.ValueOf(v.Uint64()).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		if n, ok := data.(json.Number); ok {
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%s is out of range for %s", n, t)
			}
			if reflect.New(t).Elem().OverflowFloat(f) {
				return nil, fmt.Errorf("%s is out of range for %s", n, t)
			}
			return f, nil
		}
		if f, ok := data.(float64); ok && t.Kind() == reflect.Float32 && reflect.New(t).Elem().OverflowFloat(f) {
			return nil, fmt.Errorf("%v is out of range for %s", f, t)
		}
	default:
		if n, ok := data.(json.Number); ok {
			return nil, fmt.Errorf("number %s cannot be used as %s", n, t)
		}
	}
	return data, nil
}

// integerValue returns numeric input as an exact integer. ok is false when data
// is not a number, leaving it to the decoder.
func integerValue(data any) (v *big.Int, ok bool, err error) {
	switch d := data.(type) {
	case json.Number:
		f, _, err := big.ParseFloat(string(d), 10, 256, big.ToNearestEven)
		if err != nil || !f.IsInt() {
			return nil, true, fmt.Errorf("%s is not an integer", d)
		}
		v, _ = f.Int(nil)
		return v, true, nil
	case float32:
		return floatInteger(float64(d))
	case float64:
		return floatInteger(d)
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true, nil
	}
	return nil, false, nil
}

func floatInteger(f float64) (*big.Int, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, true, fmt.Errorf("%v is not an integer", f)
	}
	v, _ := big.NewFloat(f).Int(nil)
	return v, true, nil
}
