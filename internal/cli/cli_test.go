package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"student-app/internal/domain"
)

const moduleJSON = `{
  "id": "6",
  "title": "Day 1",
  "date": "2025-01-06",
  "class_name": "Class 5",
  "subjects": [
    {"id": 101, "name": "English", "order_index": 1,
     "theory_pages": [{"id": 1001, "page_number": 1, "content": "Nouns"}],
     "questions": [{"id": 5001, "question_text": "Pick the noun",
       "options": {"a": "cat", "b": "run", "c": "the", "d": "fast"}, "correct_answer": "A"}]},
    {"id": 102, "name": "Math", "order_index": 2, "theory_pages": [], "questions": []}
  ]
}`

func TestImportThenProgressAndResults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	db := filepath.Join(dir, "student.db")
	docPath := filepath.Join(dir, "module.json")
	if err := os.WriteFile(docPath, []byte(moduleJSON), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfgPath := filepath.Join(dir, "missing.yaml")

	out := run(t, "--config", cfgPath, "--db", db, "import", docPath)
	var imported struct {
		ModuleID domain.ID `json:"moduleId"`
		Subjects int       `json:"subjects"`
	}
	if err := json.Unmarshal(out, &imported); err != nil {
		t.Fatalf("decode import: %v (%s)", err, out)
	}
	if imported.ModuleID != 6 || imported.Subjects != 2 {
		t.Fatalf("unexpected import output %+v", imported)
	}

	out = run(t, "--config", cfgPath, "--db", db, "progress", "6")
	var progress domain.ModuleProgress
	if err := json.Unmarshal(out, &progress); err != nil {
		t.Fatalf("decode progress: %v (%s)", err, out)
	}
	if progress.Total != 2 || progress.Status != domain.StatusStart {
		t.Fatalf("unexpected progress %+v", progress)
	}

	out = run(t, "--config", cfgPath, "--db", db, "results", "101")
	if string(bytes.TrimSpace(out)) != "[]" {
		t.Fatalf("expected no results, got %s", out)
	}
}

func TestSyncWithoutSourceIsNoop(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	out := run(t, "--config", filepath.Join(dir, "missing.yaml"), "--db", filepath.Join(dir, "student.db"), "sync", "6")

	var synced struct {
		Synced bool `json:"synced"`
	}
	if err := json.Unmarshal(out, &synced); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if synced.Synced {
		t.Fatalf("nothing to sync from, got %s", out)
	}
}

func TestImportRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	docPath := filepath.Join(dir, "module.json")
	if err := os.WriteFile(docPath, []byte(`{"title":"no id"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), "--db", filepath.Join(dir, "student.db"), "import", docPath})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected malformed document error")
	}
}

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.Bytes()
}
