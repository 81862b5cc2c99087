package property

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindText is free-form text.
	KindText Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindEnum is one of an enumerated set of strings.
	KindEnum
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. An empty string is KindText.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "string":
		return KindText, nil
	case "bool", "boolean":
		return KindBool, nil
	case "enum", "enumerated":
		return KindEnum, nil
	default:
		return KindText, fmt.Errorf("unknown value kind %q", s)
	}
}

// Value is an evaluated property value: Text, Boolean or Enumerated.
// The zero Value is empty text.
type Value struct {
	kind Kind
	text string
	b    bool
}

// Text creates a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Enum creates an enumerated value.
func Enum(s string) Value {
	return Value{kind: KindEnum, text: s}
}

// ZeroValue returns the empty value of a kind.
func ZeroValue(k Kind) Value {
	switch k {
	case KindBool:
		return Bool(false)
	case KindEnum:
		return Enum("")
	default:
		return Text("")
	}
}

// ValueOf converts a decoded scalar (string, bool or number) into a Value of kind k.
func ValueOf(k Kind, raw any) (Value, error) {
	switch k {
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return Bool(v), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return Value{}, fmt.Errorf("expected boolean, got %q", v)
			}
			return Bool(b), nil
		case nil:
			return Bool(false), nil
		default:
			return Value{}, fmt.Errorf("expected boolean, got %T", raw)
		}
	case KindEnum:
		s, err := scalarString(raw)
		if err != nil {
			return Value{}, err
		}
		return Enum(s), nil
	default:
		s, err := scalarString(raw)
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil
	}
}

func scalarString(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("expected scalar, got %T", raw)
	}
}

// Kind returns the variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsTextual reports whether the value is Text or Enumerated.
func (v Value) IsTextual() bool {
	return v.kind == KindText || v.kind == KindEnum
}

// AsBool returns the boolean payload and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String returns the textual payload, or "true"/"false" for booleans.
func (v Value) String() string {
	if v.kind == KindBool {
		return strconv.FormatBool(v.b)
	}
	return v.text
}

// Equal reports value equality. Booleans equal only booleans with the same
// payload; Text and Enumerated values are both textual and compare by string.
func (v Value) Equal(other Value) bool {
	if v.kind == KindBool || other.kind == KindBool {
		return v.kind == other.kind && v.b == other.b
	}
	return v.text == other.text
}
