// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Value tagged union and its JSON codec.
//
// A value inside `valuesByMode` is one of:
//
//	{"r": 0.1, "g": 0.2, "b": 0.3, "a": 1}        direct color
//	{"type": "VARIABLE_ALIAS", "id": "VariableID:1:2"}  alias
//
// Anything else (numbers for FLOAT variables, strings, unexpected objects) is
// kept as an Unknown value so the resolver can classify it and the encoder
// can write it back untouched.
package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AliasType is the `type` discriminator of an alias value.
const AliasType = "VARIABLE_ALIAS"

// ValueKind discriminates the Value union.
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindColor
	KindAlias
)

func (k ValueKind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Color is a direct RGBA value with channels in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// IsWhitePlaceholder reports whether the color carries the corruption
// signature r=g=b=1.0 exactly. Alpha is ignored.
func (c Color) IsWhitePlaceholder() bool {
	return c.R == 1.0 && c.G == 1.0 && c.B == 1.0
}

// String renders the color as rgba() with three decimals.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

// Value is a single per-mode value of a variable.
type Value struct {
	Kind    ValueKind
	Color   Color
	AliasID string

	// raw holds the original bytes of a decoded value. It is emitted as-is on
	// encode, which keeps untouched values byte-identical.
	raw json.RawMessage
}

// NewColor builds a direct color value.
func NewColor(c Color) Value {
	return Value{Kind: KindColor, Color: c}
}

// NewAlias builds an alias value pointing at id.
func NewAlias(id string) Value {
	return Value{Kind: KindAlias, AliasID: id}
}

// Raw returns the original JSON of the value, or nil for constructed values.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// Clone returns a deep copy of the value.
func (v Value) Clone() Value {
	out := v
	if v.raw != nil {
		out.raw = append(json.RawMessage(nil), v.raw...)
	}
	return out
}

// IsEmpty reports whether the value carries nothing: null, "", [] or {}.
// The zero Value is empty too. Empty values count as absent for their mode.
func (v Value) IsEmpty() bool {
	if v.Kind != KindUnknown {
		return false
	}
	trimmed := bytes.TrimSpace(v.raw)
	if len(trimmed) == 0 {
		return true
	}
	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return false
	}
	switch x := decoded.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{raw: append(json.RawMessage(nil), data...)}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil // scalar or array: unknown shape
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}

	if rawType, ok := fields["type"]; ok {
		var typ string
		if err := json.Unmarshal(rawType, &typ); err == nil && typ == AliasType {
			var id string
			if rawID, ok := fields["id"]; ok {
				if err := json.Unmarshal(rawID, &id); err != nil {
					return fmt.Errorf("decode alias id: %w", err)
				}
			}
			v.Kind = KindAlias
			v.AliasID = id
			return nil
		}
	}

	if _, ok := fields["r"]; ok {
		c := Color{A: 1.0} // alpha defaults to opaque when absent
		if err := json.Unmarshal(trimmed, &c); err != nil {
			return fmt.Errorf("decode color: %w", err)
		}
		v.Kind = KindColor
		v.Color = c
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	switch v.Kind {
	case KindColor:
		return marshal(v.Color)
	case KindAlias:
		return marshal(struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		}{Type: AliasType, ID: v.AliasID})
	default:
		return []byte("null"), nil
	}
}
