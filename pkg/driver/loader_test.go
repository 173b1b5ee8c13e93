package driver

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadSourceRelativePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "src", "A.java")
	writeFile(t, file, "class A {}\n")

	src, err := LoadSource(context.Background(), SourceSpec{Path: "src/A.java"}, dir)
	if err != nil {
		t.Fatalf("LoadSource returned error: %v", err)
	}
	if src.Display != file {
		t.Fatalf("Display = %q, want %q", src.Display, file)
	}
	if string(src.Data) != "class A {}\n" || src.Revision != "" {
		t.Fatalf("unexpected source: %#v", src)
	}

	abs, err := LoadSource(context.Background(), SourceSpec{Path: file}, "/elsewhere")
	if err != nil {
		t.Fatalf("LoadSource with absolute path returned error: %v", err)
	}
	if abs.Display != file {
		t.Fatalf("Display = %q, want %q", abs.Display, file)
	}
}

func TestLoadSourceErrors(t *testing.T) {
	if _, err := LoadSource(context.Background(), SourceSpec{}, ""); err == nil {
		t.Fatal("expected error for empty source")
	}
	_, err := LoadFile(filepath.Join(t.TempDir(), "Missing.java"))
	if err == nil || !strings.Contains(err.Error(), "source: read") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGitRevision(t *testing.T) {
	cases := []struct {
		spec GitSpec
		rev  plumbing.Revision
		desc string
	}{
		{GitSpec{}, "HEAD", "HEAD"},
		{GitSpec{Rev: "abc123"}, "abc123", "abc123"},
		{GitSpec{Tag: "v1"}, "refs/tags/v1", "v1"},
		{GitSpec{Branch: "main"}, "refs/remotes/origin/main", "main"},
	}
	for _, tc := range cases {
		rev, desc := gitRevision(&tc.spec)
		if rev != tc.rev || desc != tc.desc {
			t.Fatalf("gitRevision(%#v) = %q, %q; want %q, %q", tc.spec, rev, desc, tc.rev, tc.desc)
		}
	}

	spec := &GitSpec{URL: "https://example.com/app.git", Path: "src/A.java"}
	if got := gitDisplayName(spec, "0123456789abcdef"); got != "https://example.com/app.git@0123456789ab:src/A.java" {
		t.Fatalf("gitDisplayName = %q", got)
	}
}

// commitFile writes path in the repository worktree and commits it.
func commitFile(t *testing.T, repo *git.Repository, dir, path, contents string) plumbing.Hash {
	t.Helper()
	writeFile(t, filepath.Join(dir, path), contents)
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add(path); err != nil {
		t.Fatalf("stage %s: %v", path, err)
	}
	hash, err := worktree.Commit("update "+path, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Zapush",
			Email: "zapush@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}

func TestLoadGitSource(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available for the file transport")
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	first := commitFile(t, repo, dir, "src/A.java", "class A { /* v1 */ }\n")
	if _, err := repo.CreateTag("v1", first, nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	second := commitFile(t, repo, dir, "src/A.java", "class A { /* v2 */ }\n")

	cases := map[string]struct {
		spec GitSpec
		hash plumbing.Hash
		body string
	}{
		"head": {GitSpec{}, second, "v2"},
		"rev":  {GitSpec{Rev: first.String()}, first, "v1"},
		"tag":  {GitSpec{Tag: "v1"}, first, "v1"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			spec := tc.spec
			spec.URL = dir
			spec.Path = "src/A.java"
			src, err := LoadSource(context.Background(), SourceSpec{Git: &spec}, "")
			if err != nil {
				t.Fatalf("LoadSource returned error: %v", err)
			}
			if src.Revision != tc.hash.String() {
				t.Fatalf("Revision = %s, want %s", src.Revision, tc.hash)
			}
			if !strings.Contains(string(src.Data), tc.body) {
				t.Fatalf("Data = %q, want %s", src.Data, tc.body)
			}
			if !strings.HasSuffix(src.Display, ":src/A.java") {
				t.Fatalf("Display = %q", src.Display)
			}
		})
	}

	missing := GitSpec{URL: dir, Path: "src/B.java"}
	if _, err := LoadSource(context.Background(), SourceSpec{Git: &missing}, ""); err == nil {
		t.Fatal("expected error for missing file")
	}
	unknown := GitSpec{URL: dir, Path: "src/A.java", Tag: "v9"}
	if _, err := LoadSource(context.Background(), SourceSpec{Git: &unknown}, ""); err == nil {
		t.Fatal("expected error for unknown tag")
	}
}
