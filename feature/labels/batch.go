package labels

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"biblib/core/bibtex"
	"biblib/core/workspace"

	"gopkg.in/yaml.v3"
)

// Assignment pairs an entry's current key with its canonical label.
type Assignment struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Matches reports whether the current key already is the canonical label.
func (a Assignment) Matches() bool {
	return a.Key == a.Label
}

// Assignments is a batch of labels in library order.
type Assignments []Assignment

// GenerateAll labels every entry of the library. Entries without an identifier record
// hash their own key.
func GenerateAll(lib *bibtex.Library, ids *workspace.IdentifierCollection) Assignments {
	out := make(Assignments, 0, len(lib.Blocks))
	for _, e := range lib.Entries() {
		var rec *workspace.IdentifierRecord
		if r, ok := ids.Get(e.Key); ok {
			rec = &r
		}
		out = append(out, Assignment{Key: e.Key, Label: Generate(e, rec)})
	}
	return out
}

// Mismatches returns the assignments whose key differs from the label.
func (a Assignments) Mismatches() Assignments {
	var out Assignments
	for _, x := range a {
		if !x.Matches() {
			out = append(out, x)
		}
	}
	return out
}

// Map returns key -> label.
func (a Assignments) Map() map[string]string {
	m := make(map[string]string, len(a))
	for _, x := range a {
		m[x.Key] = x.Label
	}
	return m
}

// labelFile is the export form of a batch: an ordered key -> label mapping. Keys that
// appear twice in the library keep only their last label here.
type labelFile Assignments

// MarshalJSON writes the batch as an ordered {"key": "label"} object.
func (a labelFile) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, x := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%q", x.Key, x.Label)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the batch as an ordered mapping.
func (a labelFile) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, x := range a {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x.Label},
		)
	}
	return node, nil
}

// Export writes the batch to path, as YAML for .yaml/.yml and JSON otherwise.
func Export(path string, a Assignments) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(labelFile(a))
	default:
		data, err = workspace.EncodeJSON(labelFile(a))
	}
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	return workspace.WriteFiles(workspace.File{Path: path, Data: data})
}
