// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Document, Collection, Mode and Variable structures
// and their JSON codecs.
//
// Every struct keeps the fields it does not model in an `Extra` map so the
// document survives a load/encode cycle without losing data.
package tokens

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrCollectionNotFound is returned when a collection name is not present.
var ErrCollectionNotFound = errors.New("collection not found")

// ResolvedTypeColor is the only resolvedType the tool repairs.
const ResolvedTypeColor = "COLOR"

// Document is the top-level variables export.
type Document struct {
	Collections []*Collection
	Extra       map[string]json.RawMessage
}

// Collection is a named group of variables sharing a set of modes.
type Collection struct {
	ID        string
	Name      string
	Modes     []Mode
	Variables []*Variable
	Extra     map[string]json.RawMessage
}

// Mode is one axis value of variation within a collection.
type Mode struct {
	ModeID string
	Name   string
	Extra  map[string]json.RawMessage
}

// Variable is a single named token with one value per mode id.
type Variable struct {
	ID           string
	Name         string
	ResolvedType string
	ValuesByMode map[string]Value
	Extra        map[string]json.RawMessage
}

// Load decodes a document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode variables document: %w", err)
	}
	return &doc, nil
}

// Encode writes doc to w as 2-space indented JSON without HTML escaping.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode variables document: %w", err)
	}
	return nil
}

// FindCollection returns the first collection with the given name.
func (d *Document) FindCollection(name string) (*Collection, error) {
	for _, c := range d.Collections {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
}

// VariableCount returns the number of variables across all collections.
func (d *Document) VariableCount() int {
	n := 0
	for _, c := range d.Collections {
		n += len(c.Variables)
	}
	return n
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Extra: cloneExtra(d.Extra)}
	out.Collections = make([]*Collection, len(d.Collections))
	for i, c := range d.Collections {
		out.Collections[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := &Collection{ID: c.ID, Name: c.Name, Extra: cloneExtra(c.Extra)}
	out.Modes = make([]Mode, len(c.Modes))
	for i, m := range c.Modes {
		out.Modes[i] = Mode{ModeID: m.ModeID, Name: m.Name, Extra: cloneExtra(m.Extra)}
	}
	out.Variables = make([]*Variable, len(c.Variables))
	for i, v := range c.Variables {
		out.Variables[i] = v.Clone()
	}
	return out
}

// FirstMode returns the first declared mode, if any.
func (c *Collection) FirstMode() (Mode, bool) {
	if len(c.Modes) == 0 {
		return Mode{}, false
	}
	return c.Modes[0], true
}

// HasMode reports whether the collection declares modeID.
func (c *Collection) HasMode(modeID string) bool {
	for _, m := range c.Modes {
		if m.ModeID == modeID {
			return true
		}
	}
	return false
}

// ModeName returns the display name of modeID, or the id itself.
func (c *Collection) ModeName(modeID string) string {
	for _, m := range c.Modes {
		if m.ModeID == modeID {
			return m.Name
		}
	}
	return modeID
}

// Clone returns a deep copy of the variable.
func (v *Variable) Clone() *Variable {
	out := &Variable{
		ID:           v.ID,
		Name:         v.Name,
		ResolvedType: v.ResolvedType,
		Extra:        cloneExtra(v.Extra),
	}
	if v.ValuesByMode != nil {
		out.ValuesByMode = make(map[string]Value, len(v.ValuesByMode))
		for k, val := range v.ValuesByMode {
			out.ValuesByMode[k] = val.Clone()
		}
	}
	return out
}

// ModeIDs returns the mode ids the variable has values for, sorted.
func (v *Variable) ModeIDs() []string {
	ids := make([]string, 0, len(v.ValuesByMode))
	for id := range v.ValuesByMode {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// --- JSON codecs ---

func (d *Document) UnmarshalJSON(data []byte) error {
	var known struct {
		Collections []*Collection `json:"collections"`
	}
	extra, err := splitFields(data, &known, "collections")
	if err != nil {
		return fmt.Errorf("document: %w", err)
	}
	d.Collections = known.Collections
	d.Extra = extra
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	collections := d.Collections
	if collections == nil {
		collections = []*Collection{}
	}
	return joinFields(d.Extra, map[string]any{"collections": collections})
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	var known struct {
		ID        string      `json:"id"`
		Name      string      `json:"name"`
		Modes     []Mode      `json:"modes"`
		Variables []*Variable `json:"variables"`
	}
	extra, err := splitFields(data, &known, "id", "name", "modes", "variables")
	if err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	*c = Collection{ID: known.ID, Name: known.Name, Modes: known.Modes, Variables: known.Variables, Extra: extra}
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	modes := c.Modes
	if modes == nil {
		modes = []Mode{}
	}
	variables := c.Variables
	if variables == nil {
		variables = []*Variable{}
	}
	return joinFields(c.Extra, map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"modes":     modes,
		"variables": variables,
	})
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	var known struct {
		ModeID string `json:"modeId"`
		Name   string `json:"name"`
	}
	extra, err := splitFields(data, &known, "modeId", "name")
	if err != nil {
		return fmt.Errorf("mode: %w", err)
	}
	*m = Mode{ModeID: known.ModeID, Name: known.Name, Extra: extra}
	return nil
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return joinFields(m.Extra, map[string]any{"modeId": m.ModeID, "name": m.Name})
}

func (v *Variable) UnmarshalJSON(data []byte) error {
	var known struct {
		ID           string           `json:"id"`
		Name         string           `json:"name"`
		ResolvedType string           `json:"resolvedType"`
		ValuesByMode map[string]Value `json:"valuesByMode"`
	}
	extra, err := splitFields(data, &known, "id", "name", "resolvedType", "valuesByMode")
	if err != nil {
		return fmt.Errorf("variable: %w", err)
	}
	*v = Variable{
		ID:           known.ID,
		Name:         known.Name,
		ResolvedType: known.ResolvedType,
		ValuesByMode: known.ValuesByMode,
		Extra:        extra,
	}
	return nil
}

func (v Variable) MarshalJSON() ([]byte, error) {
	values := v.ValuesByMode
	if values == nil {
		values = map[string]Value{}
	}
	return joinFields(v.Extra, map[string]any{
		"id":           v.ID,
		"name":         v.Name,
		"resolvedType": v.ResolvedType,
		"valuesByMode": values,
	})
}

// splitFields decodes data into known and returns every key not listed in
// knownKeys as raw JSON.
func splitFields(data []byte, known any, knownKeys ...string) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// joinFields merges modelled fields over the preserved extras.
func joinFields(extra map[string]json.RawMessage, known map[string]any) ([]byte, error) {
	merged := make(map[string]any, len(extra)+len(known))
	for k, raw := range extra {
		merged[k] = raw
	}
	for k, v := range known {
		merged[k] = v
	}
	return marshal(merged)
}

// marshal is json.Marshal without HTML escaping. Nested marshalers must not
// escape either, or Encode's setting is lost on their output.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func cloneExtra(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
