package verdict

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is a subject whose attributes are looked up by name, such as a decoded JSON
// object. Use a Schema to create the attributes for Record subjects.
type Record = map[string]any

// Schema defines the attribute names and their data types for Record subjects.
type Schema struct {
	// Identifier for the schema. Useful for the hosting application; not used by verdict internally.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// User-friendly name for the schema
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// A user-friendly description of the schema
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// List of data elements supported by this schema
	Elements []DataElement `json:"elements,omitempty" yaml:"elements,omitempty"`
}

func (s *Schema) String() string {
	x := strings.Builder{}
	x.WriteString(s.ID)
	if s.Name != "" {
		x.WriteString("  '" + s.Name + "'")
	}
	x.WriteString("\n")
	for _, e := range s.Elements {
		x.WriteString(e.String())
		x.WriteString("\n")
	}
	return x.String()
}

// Registry returns a registry with one attribute per data element.
func (s *Schema) Registry() (*Registry[Record], error) {
	bindings := make([]Binding[Record], 0, len(s.Elements))
	for _, e := range s.Elements {
		if e.Name == "" {
			return nil, fmt.Errorf("schema %s: data element with empty name", s.ID)
		}
		if e.Type == nil {
			return nil, fmt.Errorf("schema %s: data element %s has no type", s.ID, e.Name)
		}
		bindings = append(bindings, e.Type.bind(e.Name))
	}
	r, err := NewRegistry(bindings...)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.ID, err)
	}
	return r, nil
}

// DataElement defines a named attribute in a schema.
type DataElement struct {
	// Short, user-friendly name of the attribute. This is the key
	// looked up in the Record and the field name used in rules.
	Name string

	// One of the Type implementations defined in this package.
	Type Type

	// Optional description of the attribute.
	Description string
}

func (e *DataElement) String() string {
	return fmt.Sprintf("  %s (%s)", e.Name, e.Type)
}

// dataElement is the serialized form of a DataElement, with the type as a string.
type dataElement struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func (e DataElement) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.serialized())
}

func (e *DataElement) UnmarshalJSON(b []byte) error {
	var d dataElement
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	return e.fromSerialized(d)
}

func (e DataElement) MarshalYAML() (any, error) {
	return e.serialized(), nil
}

func (e *DataElement) UnmarshalYAML(n *yaml.Node) error {
	var d dataElement
	if err := n.Decode(&d); err != nil {
		return err
	}
	return e.fromSerialized(d)
}

func (e DataElement) serialized() dataElement {
	d := dataElement{Name: e.Name, Description: e.Description}
	if e.Type != nil {
		d.Type = e.Type.String()
	}
	return d
}

func (e *DataElement) fromSerialized(d dataElement) error {
	t, err := ParseType(d.Type)
	if err != nil {
		return fmt.Errorf("data element %s: %w", d.Name, err)
	}
	*e = DataElement{Name: d.Name, Type: t, Description: d.Description}
	return nil
}

// Type is the data type of a schema element.
type Type interface {
	// Implements the stringer interface
	String() string

	// bind creates the attribute for a Record key and its registry binding.
	bind(name string) Binding[Record]
}

// String defines a string type.
type String struct{}

// Int defines a 64-bit signed integer type.
type Int struct{}

// Float defines a 64-bit floating point type.
type Float struct{}

// Bool defines a type for true/false. Bool attributes support EQ only.
type Bool struct{}

// Duration defines a type for time.Duration.
type Duration struct{}

// Timestamp defines a type for time.Time.
type Timestamp struct{}

// String Methods
func (Int) String() string       { return "int" }
func (Bool) String() string      { return "bool" }
func (String) String() string    { return "string" }
func (Duration) String() string  { return "duration" }
func (Timestamp) String() string { return "timestamp" }
func (Float) String() string     { return "float" }

func (String) bind(name string) Binding[Record] {
	return BindOrdered(NewAttribute(name, func(r Record) string {
		s, _ := r[name].(string)
		return s
	}))
}

func (Int) bind(name string) Binding[Record] {
	return BindOrdered(NewAttribute(name, func(r Record) int64 {
		return asInt(r[name])
	}))
}

func (Float) bind(name string) Binding[Record] {
	return BindOrdered(NewAttribute(name, func(r Record) float64 {
		return asFloat(r[name])
	}))
}

func (Bool) bind(name string) Binding[Record] {
	return BindComparable(NewAttribute(name, func(r Record) bool {
		b, _ := r[name].(bool)
		return b
	}))
}

func (Duration) bind(name string) Binding[Record] {
	return BindOrdered(NewAttribute(name, func(r Record) time.Duration {
		switch v := r[name].(type) {
		case time.Duration:
			return v
		case string:
			d, _ := time.ParseDuration(v)
			return d
		default:
			return time.Duration(asInt(v))
		}
	}))
}

func (Timestamp) bind(name string) Binding[Record] {
	return BindFunc(NewAttribute(name, func(r Record) time.Time {
		switch v := r[name].(type) {
		case time.Time:
			return v
		case string:
			t, _ := time.Parse(time.RFC3339, v)
			return t
		default:
			return time.Time{}
		}
	}), time.Time.Compare)
}

// asInt converts the numeric representations produced by Go code and by the JSON and
// YAML decoders to int64. Fractions, numbers outside the int64 range and anything
// else are zero.
func asInt(v any) int64 {
	i, ok, err := integerValue(v)
	if !ok || err != nil || !i.IsInt64() {
		return 0
	}
	return i.Int64()
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	if i, ok, err := integerValue(v); ok && err == nil {
		f, _ := new(big.Float).SetInt(i).Float64()
		return f
	}
	return 0
}

// ParseType parses the name of a type and returns the type.
// The names are the lower-case type names: string, int, float, bool, duration and timestamp.
func ParseType(t string) (Type, error) {
	switch strings.TrimSpace(t) {
	case "string":
		return String{}, nil
	case "int":
		return Int{}, nil
	case "float":
		return Float{}, nil
	case "bool":
		return Bool{}, nil
	case "duration":
		return Duration{}, nil
	case "timestamp":
		return Timestamp{}, nil
	default:
		return nil, fmt.Errorf("unrecognized type: %q", t)
	}
}
