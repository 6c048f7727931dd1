package gitinfo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func gitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, string(out))
	}
	return string(out)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBranchFromHead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git", "HEAD"), "ref: refs/heads/feature/grid\n")
	data := filepath.Join(dir, "data", "items.csv")
	writeFile(t, data, "name\n")

	if got := Branch(data); got != "feature/grid" {
		t.Fatalf("Branch = %q, want feature/grid", got)
	}
	if got := Root(data); got != dir {
		t.Fatalf("Root = %q, want %q", got, dir)
	}
}

func TestBranchDetachedAndGitFile(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real.git")
	writeFile(t, filepath.Join(real, "HEAD"), "0123456789abcdef\n")
	work := filepath.Join(dir, "work")
	writeFile(t, filepath.Join(work, ".git"), "gitdir: ../real.git\n")

	if got := Branch(work); got != "detached:0123456" {
		t.Fatalf("Branch = %q, want detached:0123456", got)
	}
}

func TestOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	if Branch(dir) != "" || Root(dir) != "" || Describe(dir) != "" {
		t.Fatalf("expected no repository info for %s", dir)
	}
	if _, err := FileStatus(dir); err == nil {
		t.Fatalf("expected error outside a repository")
	}
}

func TestDescribeFileStatus(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	data := filepath.Join(dir, "items.csv")
	writeFile(t, data, "name\napple\n")

	if got := Describe(data); got != "main untracked" {
		t.Fatalf("Describe = %q, want main untracked", got)
	}
	runGit(t, dir, "add", "items.csv")
	runGit(t, dir, "commit", "-m", "init")
	if got := Describe(data); got != "main" {
		t.Fatalf("Describe = %q, want main", got)
	}
	writeFile(t, data, "name\npear\n")
	if got := Describe(data); got != "main modified" {
		t.Fatalf("Describe = %q, want main modified", got)
	}
}
