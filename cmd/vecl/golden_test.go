package main

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestGoldenFixtures runs every testdata/golden/*.txtar fixture's
// source program through the compiler and interpreter in-process and
// checks its stdout against the fixture's recorded expectation. Each
// fixture packs a source program and its expected output as a single
// txtar archive, so adding a new golden case never needs a second
// file on disk.
func TestGoldenFixtures(t *testing.T) {
	entries, err := os.ReadDir("testdata/golden")
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txtar" {
			continue
		}
		name := e.Name()
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(filepath.Join("testdata/golden", name))
			if err != nil {
				t.Fatal(err)
			}
			var source, want string
			for _, f := range ar.Files {
				switch f.Name {
				case "source.vecl":
					source = string(f.Data)
				case "stdout":
					want = string(f.Data)
				}
			}
			if source == "" {
				t.Fatalf("fixture %s has no source.vecl section", name)
			}
			got := runSource(t, source)
			if got != want {
				t.Fatalf("golden mismatch for %s:\n got  %q\n want %q", name, got, want)
			}
		})
	}
}
