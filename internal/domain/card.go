package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// CardIDField is the only attribute every card must carry.
const CardIDField = "id"

// Card is a catalog record: an ordered, open set of attributes keyed by name.
type Card struct {
	keys   []string
	values map[string]Value
}

// NewCard builds a card from alternating name/value pairs.
func NewCard(pairs ...any) Card {
	var c Card
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		c.Set(name, toValue(pairs[i+1]))
	}
	return c
}

func toValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Number(t)
	case nil:
		return Null()
	default:
		return String(fmt.Sprint(t))
	}
}

// ID returns the card identifier and whether it is set to a non-null value.
func (c Card) ID() (Value, bool) {
	v, ok := c.values[CardIDField]
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// Get returns the named attribute.
func (c Card) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Set assigns an attribute, appending the name if it is new.
func (c *Card) Set(name string, v Value) {
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	if _, exists := c.values[name]; !exists {
		c.keys = append(c.keys, name)
	}
	c.values[name] = v
}

// Keys lists attribute names in insertion order.
func (c Card) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len is the number of attributes.
func (c Card) Len() int { return len(c.keys) }

// Clone returns an independent copy.
func (c Card) Clone() Card {
	out := Card{keys: append([]string(nil), c.keys...)}
	if c.values != nil {
		out.values = make(map[string]Value, len(c.values))
		for k, v := range c.values {
			out.values[k] = v
		}
	}
	return out
}

// Merge returns c with every attribute of patch applied on top. Existing names
// keep their position; new names are appended in patch order.
func (c Card) Merge(patch Card) Card {
	out := c.Clone()
	for _, name := range patch.keys {
		out.Set(name, patch.values[name])
	}
	return out
}

// Equal reports whether both cards carry the same attributes in the same order.
func (c Card) Equal(other Card) bool {
	if len(c.keys) != len(other.keys) {
		return false
	}
	for i, name := range c.keys {
		if other.keys[i] != name {
			return false
		}
		a, b := c.values[name], other.values[name]
		if a.Kind() != b.Kind() || a.Text() != b.Text() {
			return false
		}
	}
	return true
}

// MarshalJSON writes the attributes as a JSON object in insertion order.
func (c Card) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := c.values[name].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, keeping attribute order. A repeated name
// keeps its first position and its last value.
func (c *Card) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("card must be a JSON object")
	}

	out := Card{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		val, err := ParseValue(raw)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		out.Set(name, val)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}
