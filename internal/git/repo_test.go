package git_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/waabox/nowpublish/internal/git"
)

func writeGitConfig(t *testing.T, root, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".git", "config"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDetect_FromNestedDirectory(t *testing.T) {
	root := t.TempDir()
	writeGitConfig(t, root, `[core]
	bare = false
[remote "origin"]
	url = git@github.com:acme/now-app.git
	fetch = +refs/heads/*:refs/remotes/origin/*
`)
	nested := filepath.Join(root, "abc", "update")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	repo, err := git.Detect(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if repo.Root != want {
		t.Errorf("expected root '%s', got '%s'", want, repo.Root)
	}
	if repo.Owner != "acme" || repo.Name != "now-app" {
		t.Errorf("expected acme/now-app, got %s/%s", repo.Owner, repo.Name)
	}
}

func TestDetect_WithoutOriginKeepsRoot(t *testing.T) {
	root := t.TempDir()
	writeGitConfig(t, root, "[core]\n\tbare = false\n")

	repo, err := git.Detect(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.Root == "" {
		t.Error("expected root to be set")
	}
	if repo.RemoteURL != "" {
		t.Errorf("expected no remote, got '%s'", repo.RemoteURL)
	}
}

func TestFindRoot_OutsideRepository(t *testing.T) {
	_, err := git.FindRoot(t.TempDir())
	if err == nil {
		t.Skip("temp dir is inside a git repository")
	}
	if !errors.Is(err, git.ErrNotRepository) {
		t.Errorf("expected ErrNotRepository, got %v", err)
	}
}

func TestParseRemoteURL(t *testing.T) {
	cases := []struct {
		url, owner, name string
	}{
		{"https://github.com/acme/now-app.git", "acme", "now-app"},
		{"git@github.com:acme/now-app.git", "acme", "now-app"},
		{"https://gitlab.example.com/group/now-app", "group", "now-app"},
	}
	for _, tc := range cases {
		owner, name, err := git.ParseRemoteURL(tc.url)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.url, err)
		}
		if owner != tc.owner || name != tc.name {
			t.Errorf("%s: expected %s/%s, got %s/%s", tc.url, tc.owner, tc.name, owner, name)
		}
	}
}

func TestParseRemoteURL_Unsupported(t *testing.T) {
	if _, _, err := git.ParseRemoteURL("ftp://example.com/repo"); err == nil {
		t.Error("expected error for unsupported scheme")
	}
}
