package workspace

import "path/filepath"

// Config holds the workspace location and the store layout relative to it.
type Config struct {
	// Root is the workspace directory.
	Root string `mapstructure:"root" default:"."`
	// Library is the BibTeX entry store.
	Library string `mapstructure:"library" default:"bib/library.bib"`
	// Identifiers is the identifier collection JSON file.
	Identifiers string `mapstructure:"identifiers" default:"data/identifier_collection.json"`
	// Order is the add-order JSON file.
	Order string `mapstructure:"order" default:"data/add_order.json"`
	// Staging is the directory holding staged entry pairs and backups.
	Staging string `mapstructure:"staging" default:"staging"`
	// Labels is the default output of generated labels.
	Labels string `mapstructure:"labels" default:"bib/generated/labels.json"`
}

// Paths are the resolved store locations of one workspace.
type Paths struct {
	Root        string
	Library     string
	Identifiers string
	Order       string
	Staging     string
	Labels      string
}

// Paths resolves the layout against Root. Absolute entries are kept as they are.
func (c Config) Paths() Paths {
	root := c.Root
	if root == "" {
		root = "."
	}
	resolve := func(p, def string) string {
		if p == "" {
			p = def
		}
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}

	return Paths{
		Root:        root,
		Library:     resolve(c.Library, "bib/library.bib"),
		Identifiers: resolve(c.Identifiers, "data/identifier_collection.json"),
		Order:       resolve(c.Order, "data/add_order.json"),
		Staging:     resolve(c.Staging, "staging"),
		Labels:      resolve(c.Labels, "bib/generated/labels.json"),
	}
}

// NewPaths returns the default layout rooted at root.
func NewPaths(root string) Paths {
	return Config{Root: root}.Paths()
}
