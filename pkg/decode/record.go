package decode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Entry is a decoded field.
type Entry struct {
	Name  string
	Value any
}

// Record is a decoded record. Entries keep the order of the schema fields.
type Record struct {
	Name     string
	entries  []Entry
	index    map[string]int
	bitsRead int64
}

func newRecord(name string, n int) *Record {
	return &Record{
		Name:    name,
		entries: make([]Entry, 0, n),
		index:   make(map[string]int, n),
	}
}

func (r *Record) add(name string, v any) {
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Value: v})
}

func (r *Record) Len() int { return len(r.entries) }

// BitsRead is the cursor position after the last step.
func (r *Record) BitsRead() int64 { return r.bitsRead }

// Get returns the value of field name.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Value, true
}

// Names returns field names in schema order.
func (r *Record) Names() []string {
	ns := make([]string, len(r.entries))
	for i, e := range r.entries {
		ns[i] = e.Name
	}
	return ns
}

// Entries returns a copy of the entries in schema order.
func (r *Record) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Map returns the fields as a map, losing order.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.entries))
	for _, e := range r.entries {
		m[e.Name] = e.Value
	}
	return m
}

// Clone returns a deep copy of r.
func (r *Record) Clone() (*Record, error) {
	c := newRecord(r.Name, len(r.entries))
	c.bitsRead = r.bitsRead
	for _, e := range r.entries {
		v, err := copystructure.Copy(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		c.add(e.Name, v)
	}
	return c, nil
}

// DecodeInto stores the fields into the struct pointed to by out. Struct
// fields are matched by their `bitread` tag, or by name.
func (r *Record) DecodeInto(out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "bitread",
	})
	if err != nil {
		return err
	}
	return d.Decode(r.Map())
}

// MarshalJSON encodes the record as an object with keys in schema order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		b.Write(kb)
		b.WriteByte(':')
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalYAML encodes the record as a mapping with keys in schema order.
func (r *Record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range r.entries {
		var vn yaml.Node
		if err := vn.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name, err)
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			&vn,
		)
	}
	return n, nil
}
