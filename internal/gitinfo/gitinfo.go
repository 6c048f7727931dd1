// Package gitinfo reports the repository state of a data file for the
// status line.
package gitinfo

import (
	"bufio"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var errNotRepo = errors.New("not a git repository")

// Branch is the checked-out branch of the repository holding path, or ""
// outside a repository.
func Branch(path string) string {
	gitDir, err := findGitDir(path)
	if err != nil || gitDir == "" {
		return ""
	}
	branch, err := readHead(gitDir)
	if err != nil {
		return ""
	}
	return branch
}

func Root(path string) string {
	gitDir, err := findGitDir(path)
	if err != nil || gitDir == "" {
		return ""
	}
	return filepath.Dir(gitDir)
}

// FileStatus is the two-letter porcelain status of one file: "" when
// clean, "??" when untracked, " M" when modified in the work tree.
func FileStatus(path string) (string, error) {
	root := Root(path)
	if root == "" {
		return "", errNotRepo
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	out, err := exec.Command("git", "-C", root, "status", "--porcelain", "--", abs).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return "", err
		}
		return "", errors.New(msg)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	if len(line) < 2 {
		return "", nil
	}
	return line[:2], nil
}

// Describe is the status line label for path: the branch followed by a
// marker when the file differs from the last commit.
func Describe(path string) string {
	branch := Branch(path)
	if branch == "" {
		return ""
	}
	st, err := FileStatus(path)
	if err != nil {
		return branch
	}
	switch {
	case st == "??":
		return branch + " untracked"
	case strings.TrimSpace(st) != "":
		return branch + " modified"
	}
	return branch
}

func findGitDir(path string) (string, error) {
	start := path
	info, err := os.Stat(start)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		start = filepath.Dir(start)
	}
	for {
		gitPath := filepath.Join(start, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			if info.Mode().IsRegular() {
				data, err := os.ReadFile(gitPath)
				if err != nil {
					return "", err
				}
				line := strings.TrimSpace(string(data))
				const prefix = "gitdir:"
				if strings.HasPrefix(line, prefix) {
					dir := strings.TrimSpace(strings.TrimPrefix(line, prefix))
					if !filepath.IsAbs(dir) {
						dir = filepath.Join(start, dir)
					}
					return dir, nil
				}
			}
		}
		parent := filepath.Dir(start)
		if parent == start {
			break
		}
		start = parent
	}
	return "", errNotRepo
}

func readHead(gitDir string) (string, error) {
	f, err := os.Open(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty HEAD")
	}
	line := strings.TrimSpace(scanner.Text())
	const refPrefix = "ref:"
	if strings.HasPrefix(line, refPrefix) {
		ref := strings.TrimSpace(strings.TrimPrefix(line, refPrefix))
		return strings.TrimPrefix(ref, "refs/heads/"), nil
	}
	if len(line) >= 7 {
		return "detached:" + line[:7], nil
	}
	return "detached", nil
}
