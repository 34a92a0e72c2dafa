package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeNamesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classes.names")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing names file: %v", err)
	}
	return path
}

func TestReadClassNames(t *testing.T) {
	path := writeNamesFile(t, "person\ncar\n\n  dog  \n")

	names, err := readClassNames(path)
	if err != nil {
		t.Fatalf("readClassNames() = %v", err)
	}

	want := []string{"person", "car", "dog"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d: %v", len(names), len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("names[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestReadClassNamesEmptyFile(t *testing.T) {
	path := writeNamesFile(t, "\n\n")
	if _, err := readClassNames(path); err == nil {
		t.Error("readClassNames() on empty file = nil, want error")
	}
}

func TestLoadDNNMissingModel(t *testing.T) {
	names := writeNamesFile(t, "person\n")

	_, err := LoadDNN("/nonexistent/model.onnx", names, 640)
	if !errors.Is(err, ErrModelLoad) {
		t.Errorf("LoadDNN(missing model) = %v, want ErrModelLoad", err)
	}
}

func TestLoadDNNMissingNames(t *testing.T) {
	_, err := LoadDNN("/nonexistent/model.onnx", "/nonexistent/classes.names", 640)
	if !errors.Is(err, ErrModelLoad) {
		t.Errorf("LoadDNN(missing names) = %v, want ErrModelLoad", err)
	}
}
