//go:build unix

package procexec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "greet")
	if err := os.WriteFile(binPath, []byte("#!/bin/sh\necho hi\n"), 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("found on PATH", func(t *testing.T) {
		got, err := LookPath(dir, "greet")
		if err != nil {
			t.Fatal(err)
		}
		if got != binPath {
			t.Fatalf("got %q, want %q", got, binPath)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := LookPath(dir, "nope"); err != ErrNotFound {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("explicit slash bypasses PATH", func(t *testing.T) {
		got, err := LookPath("/does/not/exist", binPath)
		if err != nil {
			t.Fatal(err)
		}
		if got != binPath {
			t.Fatalf("got %q, want %q", got, binPath)
		}
	})

	t.Run("not executable", func(t *testing.T) {
		nonExec := filepath.Join(dir, "readme.txt")
		if err := os.WriteFile(nonExec, []byte("hi"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LookPath(dir, "readme.txt"); err == nil {
			t.Fatal("expected permission error, got nil")
		}
	})
}

func TestOpenRedirect(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Run("truncate", func(t *testing.T) {
		f, err := OpenRedirect(fs, Redirection{Kind: RedirectOut, Path: "/out.txt"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte("first")); err != nil {
			t.Fatal(err)
		}
		f.Close()

		f, err = OpenRedirect(fs, Redirection{Kind: RedirectOut, Path: "/out.txt"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte("second")); err != nil {
			t.Fatal(err)
		}
		f.Close()

		got, err := afero.ReadFile(fs, "/out.txt")
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "second" {
			t.Fatalf("got %q, want %q", got, "second")
		}
	})

	t.Run("append", func(t *testing.T) {
		path := "/log.txt"
		for _, chunk := range []string{"a", "b", "c"} {
			f, err := OpenRedirect(fs, Redirection{Kind: RedirectAppend, Path: path})
			if err != nil {
				t.Fatal(err)
			}
			if _, err := f.Write([]byte(chunk)); err != nil {
				t.Fatal(err)
			}
			f.Close()
		}
		got, err := afero.ReadFile(fs, path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "abc" {
			t.Fatalf("got %q, want %q", got, "abc")
		}
	})

	t.Run("in requires existing file", func(t *testing.T) {
		if _, err := OpenRedirect(fs, Redirection{Kind: RedirectIn, Path: "/missing.txt"}); err == nil {
			t.Fatal("expected error opening missing input file")
		}
	})
}

func TestAsOSFile(t *testing.T) {
	memFs := afero.NewMemMapFs()
	f, err := memFs.Create("/x")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := AsOSFile(f); ok {
		t.Fatal("expected ok=false for an in-memory file")
	}
}

func TestJobStatusAggregation(t *testing.T) {
	t.Run("job with every process completed is completed", func(t *testing.T) {
		j := &Job{Processes: []*Process{{Completed: true}, {Completed: true}}}
		if !j.IsCompleted() {
			t.Fatal("expected job to be completed")
		}
		if j.IsStopped() {
			t.Fatal("a fully completed job should not report stopped")
		}
	})

	t.Run("one stopped process stops the job", func(t *testing.T) {
		j := &Job{Processes: []*Process{{Completed: true}, {Stopped: true}}}
		if !j.IsStopped() {
			t.Fatal("expected job to be stopped")
		}
		if j.IsCompleted() {
			t.Fatal("a stopped job should not report completed")
		}
	})

	t.Run("exit code comes from the last process", func(t *testing.T) {
		j := &Job{Processes: []*Process{
			{Completed: true, Status: exitStatus(1)},
			{Completed: true, Status: exitStatus(3)},
		}}
		if got := j.ExitCode(); got != 3 {
			t.Fatalf("got %d, want 3", got)
		}
	})

	t.Run("incomplete job reports the abnormal sentinel", func(t *testing.T) {
		j := &Job{Processes: []*Process{{Completed: false}}}
		if got := j.ExitCode(); got != AbnormalExitSentinel {
			t.Fatalf("got %d, want %d", got, AbnormalExitSentinel)
		}
	})
}
