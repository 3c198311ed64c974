package verdict_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/ezachrisen/verdict"
)

func TestString(t *testing.T) {

	cases := map[string]struct {
		typ     verdict.Type
		wantStr string
	}{
		"int":       {typ: verdict.Int{}, wantStr: "int"},
		"float":     {typ: verdict.Float{}, wantStr: "float"},
		"string":    {typ: verdict.String{}, wantStr: "string"},
		"bool":      {typ: verdict.Bool{}, wantStr: "bool"},
		"duration":  {typ: verdict.Duration{}, wantStr: "duration"},
		"timestamp": {typ: verdict.Timestamp{}, wantStr: "timestamp"},
	}

	for key, c := range cases {
		str := c.typ.String()
		if str != c.wantStr {
			t.Errorf("case %s: wanted '%s', got '%s'", key, c.wantStr, str)
		}
	}
}

func TestParser(t *testing.T) {

	cases := map[string]struct {
		str       string
		wantError bool
		wantType  verdict.Type
	}{
		"int": {
			str:      "int",
			wantType: verdict.Int{},
		},
		"float": {
			str:      "float",
			wantType: verdict.Float{},
		},
		"padded": {
			str:      " timestamp ",
			wantType: verdict.Timestamp{},
		},
		"duration": {
			str:      "duration",
			wantType: verdict.Duration{},
		},
		"map": {
			str:       "map[string]int",
			wantError: true,
		},
		"capitalized": {
			str:       "String",
			wantError: true,
		},
		"empty": {
			str:       "",
			wantError: true,
		},
	}

	for key, c := range cases {
		typ, err := verdict.ParseType(c.str)
		if c.wantError {
			if err == nil {
				t.Errorf("case %s: wanted error, got %v", key, typ)
			}
			continue
		}
		if err != nil {
			t.Errorf("case %s: unexpected error: %v", key, err)
			continue
		}
		if !reflect.DeepEqual(typ, c.wantType) {
			t.Errorf("case %s: wanted %T, got %T", key, c.wantType, typ)
		}
	}
}

const accountSchemaJSON = `{
  "id": "accounts",
  "name": "Accounts",
  "elements": [
    {"name": "region", "type": "string"},
    {"name": "employees", "type": "int", "description": "head count"},
    {"name": "revenue", "type": "float"},
    {"name": "active", "type": "bool"},
    {"name": "sla", "type": "duration"},
    {"name": "opened", "type": "timestamp"}
  ]
}`

func accountSchema(t *testing.T) verdict.Schema {
	t.Helper()
	var s verdict.Schema
	if err := json.Unmarshal([]byte(accountSchemaJSON), &s); err != nil {
		t.Fatalf("unmarshaling schema: %v", err)
	}
	return s
}

// record decodes a JSON object the way the command line tool does, keeping numbers exact.
func record(t *testing.T, src string) verdict.Record {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()
	var r verdict.Record
	if err := dec.Decode(&r); err != nil {
		t.Fatalf("decoding record: %v", err)
	}
	return r
}

func TestSchemaUnmarshal(t *testing.T) {
	is := is.New(t)
	s := accountSchema(t)
	is.Equal(s.ID, "accounts")
	is.Equal(len(s.Elements), 6)
	is.Equal(s.Elements[1].Type, verdict.Type(verdict.Int{}))
	is.Equal(s.Elements[1].Description, "head count")
	is.Equal(s.Elements[5].Type, verdict.Type(verdict.Timestamp{}))
	is.True(strings.Contains(s.String(), "employees (int)"))

	// the serialized forms agree
	j, err := json.Marshal(s)
	is.NoErr(err)
	is.True(strings.Contains(string(j), `{"name":"opened","type":"timestamp"}`))

	y, err := yaml.Marshal(s)
	is.NoErr(err)
	var fromYAML verdict.Schema
	is.NoErr(yaml.Unmarshal(y, &fromYAML))
	is.Equal(fromYAML, s)
}

func TestSchemaUnmarshalBadType(t *testing.T) {
	is := is.New(t)
	var s verdict.Schema
	err := json.Unmarshal([]byte(`{"elements":[{"name":"x","type":"list"}]}`), &s)
	is.True(err != nil)

	err = yaml.NewDecoder(bytes.NewReader([]byte("elements:\n  - name: x\n    type: complex\n"))).Decode(&s)
	is.True(err != nil)
}

func TestSchemaRegistry(t *testing.T) {
	is := is.New(t)
	s := accountSchema(t)
	reg, err := s.Registry()
	is.NoErr(err)
	is.Equal(reg.Names(), []string{"active", "employees", "opened", "region", "revenue", "sla"})

	b, ok := reg.Lookup("active")
	is.True(ok)
	is.Equal(b.Ops(), []verdict.Op{verdict.OpEQ})
	b, ok = reg.Lookup("opened")
	is.True(ok)
	is.Equal(b.Ops(), []verdict.Op{verdict.OpEQ, verdict.OpGT, verdict.OpLT})

	_, err = (&verdict.Schema{ID: "dup", Elements: []verdict.DataElement{
		{Name: "a", Type: verdict.Int{}},
		{Name: "a", Type: verdict.String{}},
	}}).Registry()
	is.True(err != nil)

	_, err = (&verdict.Schema{Elements: []verdict.DataElement{{Name: "a"}}}).Registry()
	is.True(err != nil)

	_, err = (&verdict.Schema{Elements: []verdict.DataElement{{Type: verdict.Int{}}}}).Registry()
	is.True(err != nil)
}

func TestRecordEvaluation(t *testing.T) {
	s := accountSchema(t)
	reg, err := s.Registry()
	if err != nil {
		t.Fatal(err)
	}

	data := `{"region":"EMEA","employees":12,"revenue":1200.5,"active":true,"sla":"90m","opened":"2021-03-04T05:06:07Z"}`

	cases := map[string]struct {
		rule string
		want bool
	}{
		"string":         {`{"type":"EQ","field":"region","value":"EMEA"}`, true},
		"int":            {`{"type":"GT","field":"employees","value":10}`, true},
		"int strict":     {`{"type":"LT","field":"employees","value":12}`, false},
		"float":          {`{"type":"LT","field":"revenue","value":1200.75}`, true},
		"float from int": {`{"type":"GT","field":"revenue","value":1200}`, true},
		"bool":           {`{"type":"EQ","field":"active","value":false}`, false},
		"duration":       {`{"type":"GT","field":"sla","value":"1h"}`, true},
		"timestamp":      {`{"type":"LT","field":"opened","value":"2022-01-01T00:00:00Z"}`, true},
		"timestamp eq":   {`{"type":"EQ","field":"opened","value":"2021-03-04T06:06:07+01:00"}`, true},
		"combined": {
			`{"type":"AND","a":{"type":"EQ","field":"region","value":"EMEA"},"b":{"type":"NOT","expr":{"type":"GT","field":"employees","value":100}}}`,
			true,
		},
	}

	for k, c := range cases {
		t.Run(k, func(t *testing.T) {
			is := is.New(t)
			e, err := verdict.DecodeJSON([]byte(c.rule), reg)
			is.NoErr(err)
			is.Equal(verdict.Evaluate(e, record(t, data)), c.want)
			is.Equal(verdict.Explain(e, record(t, data)).Matched, c.want)
		})
	}
}

func TestRecordMissingAttributes(t *testing.T) {
	is := is.New(t)
	s := accountSchema(t)
	reg, err := s.Registry()
	is.NoErr(err)

	// missing keys read as the zero value of the attribute's type
	empty := verdict.Record{}
	cases := map[string]bool{
		`{"type":"EQ","field":"region","value":""}`:                      true,
		`{"type":"EQ","field":"employees","value":0}`:                    true,
		`{"type":"EQ","field":"active","value":false}`:                   true,
		`{"type":"LT","field":"sla","value":"1s"}`:                       true,
		`{"type":"LT","field":"opened","value":"1970-01-01T00:00:00Z"}`: true,
	}
	for src, want := range cases {
		e, err := verdict.DecodeJSON([]byte(src), reg)
		is.NoErr(err)
		is.Equal(verdict.Evaluate(e, empty), want)
	}
}

func TestRecordGoValues(t *testing.T) {
	is := is.New(t)
	s := accountSchema(t)
	reg, err := s.Registry()
	is.NoErr(err)

	e, err := verdict.DecodeJSON([]byte(`{"type":"AND","a":{"type":"GT","field":"sla","value":"1m"},"b":{"type":"GT","field":"opened","value":"2020-01-01T00:00:00Z"}}`), reg)
	is.NoErr(err)
	is.True(verdict.Evaluate(e, verdict.Record{"sla": 2 * time.Minute, "opened": time.Now()}))
	is.True(!verdict.Evaluate(e, verdict.Record{"sla": int64(time.Second), "opened": time.Now()}))
	is.True(verdict.Evaluate(e, verdict.Record{"sla": "5m", "opened": "2030-01-01T00:00:00Z"}))

	n, err := verdict.DecodeJSON([]byte(`{"type":"GT","field":"employees","value":3}`), reg)
	is.NoErr(err)
	for _, v := range []any{4, int32(4), uint8(4), 4.0, float32(4), json.Number("4")} {
		is.True(verdict.Evaluate(n, verdict.Record{"employees": v}))
	}
	is.True(!verdict.Evaluate(n, verdict.Record{"employees": "4"}))
}

func TestRecordIntegers(t *testing.T) {
	s := accountSchema(t)
	reg, err := s.Registry()
	if err != nil {
		t.Fatal(err)
	}
	twelve, err := verdict.DecodeJSON([]byte(`{"type":"EQ","field":"employees","value":12}`), reg)
	if err != nil {
		t.Fatal(err)
	}
	zero, err := verdict.DecodeJSON([]byte(`{"type":"EQ","field":"employees","value":0}`), reg)
	if err != nil {
		t.Fatal(err)
	}

	// values that are not exact int64 integers read as zero
	cases := map[string]struct {
		value    any
		wantZero bool
	}{
		"int":                  {value: 12},
		"whole float":          {value: 12.0},
		"number":               {value: json.Number("12")},
		"number with exponent": {value: json.Number("1.2e1")},
		"fraction":             {value: 12.7, wantZero: true},
		"fraction number":      {value: json.Number("12.7"), wantZero: true},
		"huge float":           {value: 1e300, wantZero: true},
		"not a number":         {value: math.NaN(), wantZero: true},
		"uint64 overflow":      {value: uint64(math.MaxUint64), wantZero: true},
		"number overflow":      {value: json.Number("9223372036854775808"), wantZero: true},
	}

	for k, c := range cases {
		t.Run(k, func(t *testing.T) {
			is := is.New(t)
			r := verdict.Record{"employees": c.value}
			is.Equal(verdict.Evaluate(twelve, r), !c.wantZero)
			is.Equal(verdict.Evaluate(zero, r), c.wantZero)
		})
	}
}

func TestRecordLargeUnsigned(t *testing.T) {
	is := is.New(t)
	s := accountSchema(t)
	reg, err := s.Registry()
	is.NoErr(err)

	e, err := verdict.DecodeJSON([]byte(`{"type":"GT","field":"revenue","value":1e18}`), reg)
	is.NoErr(err)
	is.True(verdict.Evaluate(e, verdict.Record{"revenue": uint64(math.MaxUint64)}))
}

func TestSchemaDecodeErrors(t *testing.T) {
	is := is.New(t)
	s := accountSchema(t)
	reg, err := s.Registry()
	is.NoErr(err)

	_, err = verdict.DecodeJSON([]byte(`{"type":"GT","field":"active","value":true}`), reg)
	var malformed *verdict.MalformedRuleError
	is.True(errors.As(err, &malformed))

	_, err = verdict.DecodeJSON([]byte(`{"type":"EQ","field":"country","value":"FR"}`), reg)
	var unknown *verdict.UnknownAttributeError
	is.True(errors.As(err, &unknown))
	is.Equal(unknown.Name, "country")

	_, err = verdict.DecodeJSON([]byte(`{"type":"GT","field":"sla","value":"soon"}`), reg)
	is.True(errors.As(err, &malformed))
}
