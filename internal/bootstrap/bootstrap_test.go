package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"gifcut.example.yaml":      {Data: []byte("config_version: 2\n")},
		"templates/report.md.tmpl": {Data: []byte("# {{ .Title }}\n")},
	}
}

func TestEnsureConfigPresent(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "sub", "gifcut.yaml")

	created, err := EnsureConfigPresent(dst, testFS(), "gifcut.example.yaml")
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}

	// modification utilisateur : ne doit jamais être écrasée
	if err := os.WriteFile(dst, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = EnsureConfigPresent(dst, testFS(), "gifcut.example.yaml")
	if err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "verbose: true\n" {
		t.Errorf("config overwritten: %q", got)
	}
}

func TestEnsureConfigPresentMissingAsset(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "gifcut.yaml")
	if _, err := EnsureConfigPresent(dst, testFS(), "absent.yaml"); err == nil {
		t.Fatal("expected error for missing asset")
	}
}

func TestEnsureTemplatesPresentKeepsExisting(t *testing.T) {
	tplDir := filepath.Join(t.TempDir(), "templates")
	if err := EnsureTemplatesPresent(tplDir, testFS(), []string{"templates/report.md.tmpl"}); err != nil {
		t.Fatalf("EnsureTemplatesPresent: %v", err)
	}
	dest := filepath.Join(tplDir, "report.md.tmpl")
	if err := os.WriteFile(dest, []byte("custom"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureTemplatesPresent(tplDir, testFS(), []string{"templates/report.md.tmpl"}); err != nil {
		t.Fatalf("second call: %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "custom" {
		t.Errorf("template overwritten: %q", got)
	}
}

func TestExportDefaults(t *testing.T) {
	dest := t.TempDir()

	status, err := ExportDefaults(testFS(), ".", dest, false)
	if err != nil {
		t.Fatalf("ExportDefaults: %v", err)
	}
	if status["templates/report.md.tmpl"] != StatusWritten {
		t.Errorf("status = %v", status)
	}

	tpl := filepath.Join(dest, "templates", "report.md.tmpl")
	if err := os.WriteFile(tpl, []byte("edited"), 0o644); err != nil {
		t.Fatal(err)
	}

	status, _ = ExportDefaults(testFS(), ".", dest, false)
	if status["templates/report.md.tmpl"] != StatusSkipped {
		t.Errorf("without force: %v", status)
	}
	if status["gifcut.example.yaml"] != StatusUnchanged {
		t.Errorf("unchanged file: %v", status)
	}

	status, _ = ExportDefaults(testFS(), ".", dest, true)
	if status["templates/report.md.tmpl"] != StatusOverwritten {
		t.Errorf("with force: %v", status)
	}
	matches, _ := filepath.Glob(tpl + ".bak.*")
	if len(matches) != 1 {
		t.Errorf("backups = %v; want 1", matches)
	}
}
