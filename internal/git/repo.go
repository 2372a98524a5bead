// Package git locates the checkout a publish runs from. It reads .git
// directly and never shells out to the git binary.
package git

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waabox/nowpublish/internal/domain"
)

// ErrNotRepository is returned when no .git directory is found.
var ErrNotRepository = errors.New("not inside a git repository")

// FindRoot walks up from dir to the first directory containing .git.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotRepository
		}
		dir = parent
	}
}

// Detect returns the repository containing dir. Owner and Name are left
// empty when the checkout has no origin remote.
func Detect(dir string) (domain.Repository, error) {
	root, err := FindRoot(dir)
	if err != nil {
		return domain.Repository{}, err
	}
	repo := domain.Repository{Root: root}
	remote, err := originURL(filepath.Join(root, ".git", "config"))
	if err != nil || remote == "" {
		return repo, nil
	}
	owner, name, err := ParseRemoteURL(remote)
	if err != nil {
		return repo, nil
	}
	repo.Owner, repo.Name, repo.RemoteURL = owner, name, remote
	return repo, nil
}

func originURL(configPath string) (string, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	inOrigin := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inOrigin = line == `[remote "origin"]`
			continue
		}
		if !inOrigin {
			continue
		}
		if key, value, ok := strings.Cut(line, "="); ok && strings.TrimSpace(key) == "url" {
			return strings.TrimSpace(value), nil
		}
	}
	return "", scanner.Err()
}

// ParseRemoteURL extracts owner and name from an HTTPS or SSH remote URL.
func ParseRemoteURL(rawURL string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(rawURL, ".git")

	var path string
	switch {
	case strings.HasPrefix(trimmed, "git@"):
		_, p, ok := strings.Cut(trimmed, ":")
		if !ok {
			return "", "", fmt.Errorf("invalid SSH remote URL: %s", rawURL)
		}
		path = p
	case strings.HasPrefix(trimmed, "https://"), strings.HasPrefix(trimmed, "http://"):
		_, rest, _ := strings.Cut(trimmed, "://")
		_, p, ok := strings.Cut(rest, "/")
		if !ok {
			return "", "", fmt.Errorf("invalid HTTPS remote URL: %s", rawURL)
		}
		path = p
	default:
		return "", "", fmt.Errorf("unsupported remote URL format: %s", rawURL)
	}

	owner, name, ok := strings.Cut(path, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("remote URL has no owner/name: %s", rawURL)
	}
	return owner, name, nil
}
