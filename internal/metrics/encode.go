package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON encodes the result as an object keyed by benchmark name in run
// order, followed by "_total" and "_opt".
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, v any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}
	for _, name := range r.Opt.Benchmarks {
		if err := write(name, r.Entries[name]); err != nil {
			return nil, err
		}
	}
	if err := write(TotalKey, r.Total); err != nil {
		return nil, err
	}
	if err := write(OptionsKey, r.Opt); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the layout written by MarshalJSON.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	optData, ok := raw[OptionsKey]
	if !ok {
		return fmt.Errorf("result is missing %q", OptionsKey)
	}
	var out Result
	if err := json.Unmarshal(optData, &out.Opt); err != nil {
		return fmt.Errorf("decode %s: %w", OptionsKey, err)
	}
	out.Total = &Entry{Name: TotalKey}
	if totalData, ok := raw[TotalKey]; ok {
		if err := json.Unmarshal(totalData, out.Total); err != nil {
			return fmt.Errorf("decode %s: %w", TotalKey, err)
		}
	}
	out.Entries = make(map[string]*Entry, len(out.Opt.Benchmarks))
	for _, name := range out.Opt.Benchmarks {
		entryData, ok := raw[name]
		if !ok {
			return fmt.Errorf("result is missing benchmark %q", name)
		}
		e := &Entry{Name: name}
		if err := json.Unmarshal(entryData, e); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		out.Entries[name] = e
	}
	*r = out
	return nil
}

// MarshalYAML encodes the result as an ordered mapping with the same keys as
// MarshalJSON.
func (r *Result) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v any) error {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(v); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		root.Content = append(root.Content, keyNode, valueNode)
		return nil
	}
	for _, name := range r.Opt.Benchmarks {
		if err := add(name, r.Entries[name]); err != nil {
			return nil, err
		}
	}
	if err := add(TotalKey, r.Total); err != nil {
		return nil, err
	}
	if err := add(OptionsKey, r.Opt); err != nil {
		return nil, err
	}
	return root, nil
}
