package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ezachrisen/verdict"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, errors.Errorf("%s: unsupported file extension (want .json, .yaml or .yml)", path)
	}
}

func readFile(flag, path string) ([]byte, format, error) {
	if path == "" {
		return nil, 0, errors.Errorf("--%s is required", flag)
	}
	f, err := formatOf(path)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "reading %s", flag)
	}
	return data, f, nil
}

func (o *options) loadSchema() (*verdict.Schema, error) {
	data, f, err := readFile("schema", o.schemaPath)
	if err != nil {
		return nil, err
	}
	var s verdict.Schema
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing schema %s", o.schemaPath)
	}
	o.log.V(1).Info("loaded schema", "path", o.schemaPath, "elements", len(s.Elements))
	return &s, nil
}

// loadVault decodes every rule file against the registry built from the schema file.
// Rules are named after their file, without the extension.
func (o *options) loadVault() (*verdict.Vault[verdict.Record], error) {
	if len(o.rulePaths) == 0 {
		return nil, errors.New("--rule is required")
	}
	s, err := o.loadSchema()
	if err != nil {
		return nil, err
	}
	reg, err := s.Registry()
	if err != nil {
		return nil, errors.Wrap(err, "building attribute registry")
	}
	rules := map[string]verdict.Expr[verdict.Record]{}
	for _, path := range o.rulePaths {
		name := ruleName(path)
		if _, ok := rules[name]; ok {
			return nil, errors.Errorf("%s: duplicate rule name %s", path, name)
		}
		e, err := o.decodeRule(path, reg)
		if err != nil {
			return nil, err
		}
		rules[name] = e
	}
	return verdict.NewVault(rules)
}

// loadRule is loadVault for commands that work on a single rule.
func (o *options) loadRule() (verdict.Expr[verdict.Record], error) {
	if len(o.rulePaths) > 1 {
		return nil, errors.New("exactly one --rule is allowed")
	}
	v, err := o.loadVault()
	if err != nil {
		return nil, err
	}
	e, _ := v.Rule(v.IDs()[0])
	return e, nil
}

func (o *options) decodeRule(path string, reg *verdict.Registry[verdict.Record]) (verdict.Expr[verdict.Record], error) {
	data, f, err := readFile("rule", path)
	if err != nil {
		return nil, err
	}
	var e verdict.Expr[verdict.Record]
	switch f {
	case formatJSON:
		e, err = verdict.DecodeJSON(data, reg, verdict.WithLogger(o.log))
	default:
		e, err = verdict.DecodeYAML(data, reg, verdict.WithLogger(o.log))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding rule %s", path)
	}
	return e, nil
}

// ruleName is the name of a rule file: its base name without extension.
func ruleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// loadRecords reads a data file holding a single object or a list of objects.
func loadRecords(path string) ([]verdict.Record, error) {
	data, f, err := readFile("data", path)
	if err != nil {
		return nil, err
	}
	var v any
	switch f {
	case formatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&v)
	default:
		err = yaml.Unmarshal(data, &v)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing data %s", path)
	}

	switch t := v.(type) {
	case map[string]any:
		return []verdict.Record{t}, nil
	case []any:
		records := make([]verdict.Record, 0, len(t))
		for i, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.Errorf("data %s: item %d is not an object", path, i)
			}
			records = append(records, m)
		}
		return records, nil
	default:
		return nil, errors.Errorf("data %s: want an object or a list of objects", path)
	}
}
