package bibtex

import "strings"

// Delimiter records how a field value was enclosed in the source text.
type Delimiter int

const (
	// Braces encloses the value in {...}.
	Braces Delimiter = iota
	// Quotes encloses the value in "...".
	Quotes
	// Bare writes the value unenclosed (numbers, macros, concatenations).
	Bare
)

// Field is a single name = value pair of an entry.
type Field struct {
	Name  string
	Value string
	Delim Delimiter
}

// Entry is one @type{key, ...} declaration.
type Entry struct {
	Type   string
	Key    string
	Fields []Field
}

// Block is either an entry or a raw, verbatim chunk of text.
type Block struct {
	Entry *Entry
	Raw   string
}

// IsEntry reports whether the block holds an entry.
func (b Block) IsEntry() bool {
	return b.Entry != nil
}

// Library is the ordered block list of one BibTeX file.
type Library struct {
	Blocks []Block
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

func (e *Entry) index(name string) int {
	for i, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the value of the named field.
func (e *Entry) Get(name string) (string, bool) {
	if i := e.index(name); i >= 0 {
		return e.Fields[i].Value, true
	}
	return "", false
}

// Value returns the named field value or an empty string.
func (e *Entry) Value(name string) string {
	v, _ := e.Get(name)
	return v
}

// Has reports whether the entry declares the named field.
func (e *Entry) Has(name string) bool {
	return e.index(name) >= 0
}

// Set updates the named field in place, or appends a braced field when absent.
func (e *Entry) Set(name, value string) {
	if i := e.index(name); i >= 0 {
		e.Fields[i].Value = value
		return
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value, Delim: Braces})
}

// Rename changes a field name without moving it. It returns false when the field is absent.
func (e *Entry) Rename(oldName, newName string) bool {
	i := e.index(oldName)
	if i < 0 {
		return false
	}
	e.Fields[i].Name = newName
	return true
}

// Remove deletes the named field. It returns false when the field is absent.
func (e *Entry) Remove(name string) bool {
	i := e.index(name)
	if i < 0 {
		return false
	}
	e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
	return true
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := &Entry{Type: e.Type, Key: e.Key, Fields: make([]Field, len(e.Fields))}
	copy(c.Fields, e.Fields)
	return c
}

// Entries returns the entry blocks in file order.
func (l *Library) Entries() []*Entry {
	entries := make([]*Entry, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		if b.IsEntry() {
			entries = append(entries, b.Entry)
		}
	}
	return entries
}

// Keys returns every entry key in file order, duplicates included.
func (l *Library) Keys() []string {
	keys := make([]string, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		if b.IsEntry() {
			keys = append(keys, b.Entry.Key)
		}
	}
	return keys
}

// Entry returns the first entry with the given key, or nil.
func (l *Library) Entry(key string) *Entry {
	for _, b := range l.Blocks {
		if b.IsEntry() && b.Entry.Key == key {
			return b.Entry
		}
	}
	return nil
}

// Add appends an entry block.
func (l *Library) Add(e *Entry) {
	l.Blocks = append(l.Blocks, Block{Entry: e})
}
