package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the scalar type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	// KindRaw holds nested JSON (objects, arrays) verbatim.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Value is a single card attribute.
type Value struct {
	kind Kind
	str  string // string contents, number literal or compact raw JSON
	num  float64
	b    bool
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// String wraps a string attribute.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a boolean attribute.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer attribute.
func Int(n int64) Value {
	return Value{kind: KindNumber, str: strconv.FormatInt(n, 10), num: float64(n)}
}

// Number wraps a float attribute.
func Number(f float64) Value {
	return Value{kind: KindNumber, str: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

// ParseValue classifies a raw JSON document into a Value.
func ParseValue(raw []byte) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty attribute value")
	}
	switch raw[0] {
	case 'n':
		if string(raw) != "null" {
			return Value{}, fmt.Errorf("invalid literal %q", raw)
		}
		return Null(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return String(s), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, err
		}
		return Value{kind: KindRaw, str: buf.String()}, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Value{}, err
		}
		f, err := n.Float64()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindNumber, str: n.String(), num: f}, nil
	}
}

// Kind reports the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Text is the canonical textual form: string contents, the number literal,
// "true"/"false", "null" or compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

func (v Value) String() string { return v.Text() }

// Truthy mirrors the catalog's notion of a present value: non-empty strings,
// non-zero numbers, true and any nested document.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindBool:
		return v.b
	case KindRaw:
		return true
	default:
		return false
	}
}

// Equal is exact equality: same kind and same value. Nested documents are
// never equal to anything.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	default:
		return false
	}
}

// LooseEqual compares v against a string coming from a URL path or query.
// Strings compare byte for byte, numbers numerically after parsing s, and
// booleans against "true"/"false". Null and nested values never match.
func (v Value) LooseEqual(s string) bool {
	switch v.kind {
	case KindString:
		return v.str == s
	case KindNumber:
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return false
		}
		return f == v.num
	case KindBool:
		return s == strconv.FormatBool(v.b)
	default:
		return false
	}
}

// MarshalJSON writes the value back in its original JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber, KindRaw:
		return []byte(v.str), nil
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON parses any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
