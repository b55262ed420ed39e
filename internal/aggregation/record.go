package aggregation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tessera/internal/evidence"
)

// AttributeID names a resolvable movie attribute.
type AttributeID string

// TraceEntry describes one candidate an aggregator considered.
type TraceEntry struct {
	Augmenter  string        `json:"augmenter"`
	Source     evidence.Kind `json:"source"`
	Confidence Confidence    `json:"confidence"`
	Value      any           `json:"value"`
	Selected   bool          `json:"selected"`
}

// Resolved is the final value for one attribute together with the evidence
// that produced it. Source and Augmenter name the winning (or, for unions,
// the highest-ranked contributing) candidate and are empty for defaults.
type Resolved struct {
	Attribute  AttributeID   `json:"attribute"`
	Value      any           `json:"value"`
	Confidence Confidence    `json:"confidence"`
	Source     evidence.Kind `json:"source,omitempty"`
	Augmenter  string        `json:"augmenter,omitempty"`
	Defaulted  bool          `json:"defaulted,omitempty"`
	Policy     Policy        `json:"policy"`
	Trace      []TraceEntry  `json:"trace,omitempty"`
}

// Record is the complete output of one pipeline run: exactly one Resolved
// per registered attribute. Every run builds its own values, so changing one
// record never affects another.
type Record struct {
	order  []AttributeID
	values map[AttributeID]Resolved
}

func newRecord(resolved []Resolved) Record {
	rec := Record{
		order:  make([]AttributeID, 0, len(resolved)),
		values: make(map[AttributeID]Resolved, len(resolved)),
	}
	for _, r := range resolved {
		rec.order = append(rec.order, r.Attribute)
		rec.values[r.Attribute] = r
	}
	return rec
}

// Get returns the resolution for id.
func (r Record) Get(id AttributeID) (Resolved, bool) {
	v, ok := r.values[id]
	return v, ok
}

// Len reports the number of resolved attributes.
func (r Record) Len() int {
	return len(r.order)
}

// IDs lists attribute identifiers in registration order.
func (r Record) IDs() []AttributeID {
	return append([]AttributeID(nil), r.order...)
}

// Attributes lists resolutions in registration order.
func (r Record) Attributes() []Resolved {
	out := make([]Resolved, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.values[id])
	}
	return out
}

// MarshalJSON encodes the record as an object keyed by attribute, with keys
// in registration order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(id))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[id])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ValueOf returns the resolved value for id as T. It reports false when the
// attribute is missing or holds a different type.
func ValueOf[T any](r Record, id AttributeID) (T, bool) {
	var zero T
	res, ok := r.values[id]
	if !ok {
		return zero, false
	}
	v, ok := res.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
