package workspace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"biblib/core/bibtex"
	"biblib/core/schema"
)

// OrderList is the sequence in which keys were accepted into the collection.
type OrderList []string

// Snapshot is the in-memory state of the three stores.
type Snapshot struct {
	Library     *bibtex.Library
	Identifiers *IdentifierCollection
	Order       OrderList
}

// EmptySnapshot returns stores with no keys.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Library:     bibtex.NewLibrary(),
		Identifiers: NewIdentifierCollection(),
		Order:       OrderList{},
	}
}

// RenameKeys applies renames to all three stores at once, keeping every position.
func (s *Snapshot) RenameKeys(renames map[string]string) {
	if len(renames) == 0 {
		return
	}
	for _, e := range s.Library.Entries() {
		if to, ok := renames[e.Key]; ok {
			e.Key = to
		}
	}
	s.Identifiers.RenameAll(renames)
	for i, k := range s.Order {
		if to, ok := renames[k]; ok {
			s.Order[i] = to
		}
	}
}

// File is one pending write.
type File struct {
	Path string
	Data []byte
}

// Load reads all three stores. Every store must exist.
func (p Paths) Load() (*Snapshot, error) {
	lib, err := ReadLibrary(p.Library)
	if err != nil {
		return nil, err
	}
	ids, err := ReadIdentifiers(p.Identifiers)
	if err != nil {
		return nil, err
	}
	order, err := ReadOrder(p.Order)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Library: lib, Identifiers: ids, Order: order}, nil
}

// LoadOrEmpty reads the three stores, treating missing files as empty stores.
func (p Paths) LoadOrEmpty() (*Snapshot, error) {
	s := EmptySnapshot()

	lib, err := ReadLibrary(p.Library)
	switch {
	case err == nil:
		s.Library = lib
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	ids, err := ReadIdentifiers(p.Identifiers)
	switch {
	case err == nil:
		s.Identifiers = ids
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	order, err := ReadOrder(p.Order)
	switch {
	case err == nil:
		s.Order = order
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	return s, nil
}

// Save writes all three stores together. Nothing is replaced unless every store was
// serialized and staged next to its target first.
func (p Paths) Save(s *Snapshot) error {
	ids, err := EncodeJSON(s.Identifiers)
	if err != nil {
		return fmt.Errorf("failed to encode identifier collection: %w", err)
	}
	order := s.Order
	if order == nil {
		order = OrderList{}
	}
	orderData, err := EncodeJSON(order)
	if err != nil {
		return fmt.Errorf("failed to encode order list: %w", err)
	}

	return WriteFiles(
		File{Path: p.Library, Data: bibtex.Format(s.Library)},
		File{Path: p.Identifiers, Data: ids},
		File{Path: p.Order, Data: orderData},
	)
}

// SaveLibrary replaces the entry store.
func (p Paths) SaveLibrary(lib *bibtex.Library) error {
	return WriteFiles(File{Path: p.Library, Data: bibtex.Format(lib)})
}

// SaveIdentifiers replaces the identifier collection.
func (p Paths) SaveIdentifiers(c *IdentifierCollection) error {
	data, err := EncodeJSON(c)
	if err != nil {
		return fmt.Errorf("failed to encode identifier collection: %w", err)
	}
	return WriteFiles(File{Path: p.Identifiers, Data: data})
}

// ReadLibrary parses a BibTeX file.
func ReadLibrary(path string) (*bibtex.Library, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	lib, err := bibtex.Parse(data)
	if err != nil {
		return nil, NewError(ErrMalformed, path, err)
	}
	return lib, nil
}

// ReadIdentifiers validates and decodes an identifier collection file.
func ReadIdentifiers(path string) (*IdentifierCollection, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := schema.Default()
	if err != nil {
		return nil, err
	}
	if err := v.IdentifierCollection(filepath.Base(path), data); err != nil {
		return nil, NewError(ErrMalformed, path, err)
	}

	c := NewIdentifierCollection()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, NewError(ErrMalformed, path, err)
	}
	return c, nil
}

// ReadOrder validates and decodes an order list file.
func ReadOrder(path string) (OrderList, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := schema.Default()
	if err != nil {
		return nil, err
	}
	if err := v.OrderList(filepath.Base(path), data); err != nil {
		return nil, NewError(ErrMalformed, path, err)
	}

	var order OrderList
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, NewError(ErrMalformed, path, err)
	}
	return order, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewError(ErrNotFound, path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// EncodeJSON renders v with two-space indentation, without HTML escaping and with a
// trailing newline.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rename is swapped in tests to simulate a failing replace.
var rename = os.Rename

// WriteFiles stages every file as a temporary sibling and renames them into place only
// when all of them were written. When a rename fails the files already replaced get
// their previous content back, and files that did not exist before are removed.
func WriteFiles(files ...File) error {
	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, f := range files {
		dir := filepath.Dir(f.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			cleanup()
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".tmp-*")
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
		temps = append(temps, tmp.Name())

		if _, err := tmp.Write(f.Data); err != nil {
			tmp.Close()
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
		if err := tmp.Close(); err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
		if err := os.Chmod(tmp.Name(), 0o644); err != nil {
			cleanup()
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
	}

	previous := make([][]byte, len(files))
	for i, f := range files {
		data, err := os.ReadFile(f.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			cleanup()
			return fmt.Errorf("failed to read %s: %w", f.Path, err)
		default:
			if data == nil {
				data = []byte{}
			}
			previous[i] = data
		}
	}

	for i, f := range files {
		if err := rename(temps[i], f.Path); err != nil {
			cleanup()
			if rerr := restore(files[:i], previous[:i]); rerr != nil {
				return fmt.Errorf("failed to replace %s: %w (rollback failed: %v)", f.Path, err, rerr)
			}
			return fmt.Errorf("failed to replace %s: %w", f.Path, err)
		}
	}
	return nil
}

// restore puts back the previous content of replaced files. A nil entry means the file
// did not exist.
func restore(files []File, previous [][]byte) error {
	var errs []error
	for i, f := range files {
		if previous[i] == nil {
			if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if err := os.WriteFile(f.Path, previous[i], 0o644); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
