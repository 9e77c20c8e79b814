package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// IdentifierRecord names the authoritative external identifier of one entry.
type IdentifierRecord struct {
	MainIdentifier string            `json:"main_identifier"`
	Identifiers    map[string]string `json:"identifiers"`
	// Extra holds any other member of the record object, written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// recordFields decodes the known members without the custom unmarshaler.
type recordFields IdentifierRecord

// UnmarshalJSON reads the two known members and keeps the rest in Extra.
func (r *IdentifierRecord) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	var f recordFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	delete(members, "main_identifier")
	delete(members, "identifiers")
	f.Extra = nil
	if len(members) > 0 {
		f.Extra = members
	}
	*r = IdentifierRecord(f)
	return nil
}

// MarshalJSON writes main_identifier and identifiers first, then Extra sorted by name.
func (r IdentifierRecord) MarshalJSON() ([]byte, error) {
	ids := r.Identifiers
	if ids == nil {
		ids = map[string]string{}
	}
	var buf bytes.Buffer
	buf.WriteString(`{"main_identifier":`)
	if err := writePlain(&buf, r.MainIdentifier); err != nil {
		return nil, err
	}
	buf.WriteString(`,"identifiers":`)
	if err := writePlain(&buf, ids); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(r.Extra))
	for name := range r.Extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buf.WriteByte(',')
		if err := writePlain(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		buf.Write(r.Extra[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Main returns the value of the main identifier when it is set and present.
func (r IdentifierRecord) Main() (string, bool) {
	if r.MainIdentifier == "" {
		return "", false
	}
	v, ok := r.Identifiers[r.MainIdentifier]
	return v, ok
}

// IdentifierCollection maps citation keys to identifier records, keeping the key order
// of the JSON object it was read from.
type IdentifierCollection struct {
	keys    []string
	records map[string]IdentifierRecord
}

// NewIdentifierCollection returns an empty collection.
func NewIdentifierCollection() *IdentifierCollection {
	return &IdentifierCollection{records: make(map[string]IdentifierRecord)}
}

// Len returns the number of records.
func (c *IdentifierCollection) Len() int {
	return len(c.keys)
}

// Keys returns the keys in order.
func (c *IdentifierCollection) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Get returns the record stored under key.
func (c *IdentifierCollection) Get(key string) (IdentifierRecord, bool) {
	r, ok := c.records[key]
	return r, ok
}

// Has reports whether key is present.
func (c *IdentifierCollection) Has(key string) bool {
	_, ok := c.records[key]
	return ok
}

// Set stores a record. New keys are appended; existing keys keep their position.
func (c *IdentifierCollection) Set(key string, r IdentifierRecord) {
	if r.Identifiers == nil {
		r.Identifiers = map[string]string{}
	}
	if _, ok := c.records[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.records[key] = r
}

// Rename moves a record to a new key at the same position. It returns false when oldKey
// is absent or newKey is already taken.
func (c *IdentifierCollection) Rename(oldKey, newKey string) bool {
	r, ok := c.records[oldKey]
	if !ok {
		return false
	}
	if oldKey == newKey {
		return true
	}
	if _, taken := c.records[newKey]; taken {
		return false
	}
	for i, k := range c.keys {
		if k == oldKey {
			c.keys[i] = newKey
			break
		}
	}
	delete(c.records, oldKey)
	c.records[newKey] = r
	return true
}

// RenameAll moves every record named in renames to its new key at the same position.
// Renames are applied simultaneously, so chains and swaps are allowed. Keys absent from
// the collection are ignored.
func (c *IdentifierCollection) RenameAll(renames map[string]string) {
	records := make(map[string]IdentifierRecord, len(c.records))
	for i, k := range c.keys {
		r := c.records[k]
		if to, ok := renames[k]; ok {
			k = to
			c.keys[i] = to
		}
		records[k] = r
	}
	c.records = records
}

// Reorder puts the listed keys first, in the given order, followed by the remaining keys
// in their current order. It returns the listed keys that are not present and the
// present keys that were not listed.
func (c *IdentifierCollection) Reorder(order []string) (absent, unlisted []string) {
	listed := make(map[string]struct{}, len(order))
	keys := make([]string, 0, len(c.keys))
	for _, k := range order {
		if _, dup := listed[k]; dup {
			continue
		}
		listed[k] = struct{}{}
		if _, ok := c.records[k]; ok {
			keys = append(keys, k)
		} else {
			absent = append(absent, k)
		}
	}
	for _, k := range c.keys {
		if _, ok := listed[k]; !ok {
			keys = append(keys, k)
			unlisted = append(unlisted, k)
		}
	}
	c.keys = keys
	return absent, unlisted
}

// MarshalJSON writes the records as an object in key order.
func (c *IdentifierCollection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalPlain(k)
		if err != nil {
			return nil, err
		}
		rb, err := marshalPlain(c.records[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(rb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of records, keeping its key order. Later duplicates of a
// key replace the earlier value in place.
func (c *IdentifierCollection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	fresh := NewIdentifierCollection()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", tok)
		}
		var r IdentifierRecord
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("record %q: %w", key, err)
		}
		fresh.Set(key, r)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = *fresh
	return nil
}

func writePlain(buf *bytes.Buffer, v any) error {
	b, err := marshalPlain(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// marshalPlain encodes v without HTML escaping.
func marshalPlain(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
