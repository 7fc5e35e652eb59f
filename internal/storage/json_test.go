package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pwr/internal/config"
)

func newStorage(t *testing.T) (*JSONStorage, *config.Config) {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return NewJSONStorage(cfg), cfg
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	st, cfg := newStorage(t)

	if err := st.Save("smoke", []string{"tests/a.spec.ts-case-3", "tests/b.spec.ts-case-0"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Save("empty", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	cases, err := st.Load("smoke")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cases) != 2 || cases[0] != "tests/a.spec.ts-case-3" {
		t.Errorf("unexpected cases %v", cases)
	}

	names, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "empty" || names[1] != "smoke" {
		t.Errorf("unexpected names %v", names)
	}

	if _, err := os.Stat(filepath.Join(cfg.ProjectPath, ".pwr", "selections.json")); err != nil {
		t.Errorf("selections file not written: %v", err)
	}
}

func TestJSONStorage_Overwrite(t *testing.T) {
	st, _ := newStorage(t)

	_ = st.Save("smoke", []string{"a"})
	_ = st.Save("smoke", []string{"b"})

	cases, err := st.Load("smoke")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cases) != 1 || cases[0] != "b" {
		t.Errorf("expected the latest save to win, got %v", cases)
	}
}

func TestJSONStorage_Errors(t *testing.T) {
	st, cfg := newStorage(t)

	t.Run("missing file lists nothing", func(t *testing.T) {
		names, err := st.List()
		if err != nil || len(names) != 0 {
			t.Errorf("expected no names, got %v %v", names, err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := st.Load("nope")
		if !errors.Is(err, ErrSelectionNotFound) {
			t.Errorf("expected ErrSelectionNotFound, got %v", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if err := st.Save("", []string{"a"}); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := cfg.GetSelectionsPath()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := st.List(); err == nil {
			t.Error("expected a parse error")
		}
	})
}
