package suggest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTablePreservesOrder(t *testing.T) {
	yaml := `
- name: heavylib
  alternatives:
    - {name: lightlib, size_savings_kb: 40, effort: low}
- name: heavy
  alternatives:
    - {name: tiny, size_savings_kb: 10, effort: medium}
`
	path := filepath.Join(t.TempDir(), "deps.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	names := table.Names()
	if len(names) != 2 || names[0] != "heavylib" || names[1] != "heavy" {
		t.Errorf("names: got %v, want [heavylib heavy]", names)
	}

	alts := table.Alternatives("heavylib")
	if len(alts) != 1 || alts[0].Name != "lightlib" || alts[0].SizeSavingsKB != 40 {
		t.Errorf("alternatives: got %+v", alts)
	}

	if got := table.Detect("https://cdn.test/heavylib.js"); got != "heavylib" {
		t.Errorf("Detect: got %q, want heavylib", got)
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file must error")
	}
}
