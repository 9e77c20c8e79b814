package main

import (
	"fmt"
	"log"
	"os"

	"biblib/core/config"
	"biblib/core/workspace"
	"biblib/feature/labels"
)

// Prints how the label of each given key is derived.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_label <key>...")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	paths := cfg.Workspace.Paths()

	lib, err := workspace.ReadLibrary(paths.Library)
	if err != nil {
		log.Fatal(err)
	}
	ids, err := workspace.ReadIdentifiers(paths.Identifiers)
	if err != nil {
		log.Fatal(err)
	}

	for _, key := range os.Args[1:] {
		fmt.Printf("=== %s ===\n", key)
		e := lib.Entry(key)
		if e == nil {
			fmt.Println("  not in library")
			continue
		}

		name, nameField := e.Value("author"), "author"
		if name == "" {
			name, nameField = e.Value("editor"), "editor"
		}
		fmt.Printf("  %s: %q (sortname %q)\n", nameField, name, e.Value("sortname"))
		fmt.Printf("  -> surname: %s\n", labels.Surname(name, e.Value("sortname")))

		date, ok := e.Get("date")
		if !ok {
			date = e.Value("year")
		}
		fmt.Printf("  date/year: %q -> %s\n", date, labels.Year(date))

		var rec *workspace.IdentifierRecord
		source := key
		if r, found := ids.Get(key); found {
			rec = &r
			if main, ok := r.Main(); ok {
				source = main
			} else {
				fmt.Printf("  main identifier %q not among identifiers, hashing key\n", r.MainIdentifier)
			}
		} else {
			fmt.Println("  no identifier record, hashing key")
		}
		fmt.Printf("  hash source: %q -> %s\n", source, labels.Hash(source))

		label := labels.Generate(e, rec)
		if label == key {
			fmt.Printf("  label: %s (matches)\n", label)
		} else {
			fmt.Printf("  label: %s (differs)\n", label)
		}
	}
}
