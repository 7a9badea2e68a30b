package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// gitEnv pins identity and disables user config so tests behave the same
// on every machine.
var gitEnv = []string{
	"GIT_AUTHOR_NAME=Test User",
	"GIT_AUTHOR_EMAIL=test@test.com",
	"GIT_COMMITTER_NAME=Test User",
	"GIT_COMMITTER_EMAIL=test@test.com",
	"GIT_CONFIG_NOSYSTEM=1",
	"GIT_TERMINAL_PROMPT=0",
}

// RequireGit skips the test when the git binary is unavailable.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// SetupTestRepo creates a temporary git repository on branch main with one
// commit. The repository is removed when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	Git(t, dir, "init", "-q", "-b", "main")
	Git(t, dir, "config", "user.email", "test@test.com")
	Git(t, dir, "config", "user.name", "Test User")
	Git(t, dir, "config", "commit.gpgsign", "false")

	CommitFile(t, dir, "README.md", "# Test Repository\n", "Initial commit")
	return dir
}

// RepoWithOrigin is a work tree whose origin is a local bare repository.
type RepoWithOrigin struct {
	Dir    string // work tree
	Origin string // bare repository
}

// SetupRepoWithOrigin creates a work tree plus a bare origin that already
// holds main.
func SetupRepoWithOrigin(t *testing.T) RepoWithOrigin {
	t.Helper()

	dir := SetupTestRepo(t)
	origin := filepath.Join(t.TempDir(), "origin.git")
	Git(t, dir, "init", "-q", "--bare", "-b", "main", origin)
	Git(t, dir, "remote", "add", "origin", origin)
	Git(t, dir, "push", "-q", "origin", "main")

	return RepoWithOrigin{Dir: dir, Origin: origin}
}

// RemoteBranchSHA returns the tip of branch in the bare origin, or "" when
// the branch does not exist.
func (r RepoWithOrigin) RemoteBranchSHA(t *testing.T, branch string) string {
	t.Helper()
	out, err := runGit(r.Origin, "rev-parse", "--verify", "-q", "refs/heads/"+branch)
	if err != nil {
		return ""
	}
	return out
}

// WriteFile creates or replaces a file in the work tree without staging it.
func WriteFile(t *testing.T, repoDir, path, content string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// CommitFile writes a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	WriteFile(t, repoDir, path, content)
	Git(t, repoDir, "add", path)
	Git(t, repoDir, "commit", "-q", "-m", message)
}

// HeadSHA returns the current HEAD SHA.
func HeadSHA(t *testing.T, repoDir string) string {
	t.Helper()
	return Git(t, repoDir, "rev-parse", "HEAD")
}

// CommitCount returns the number of commits reachable from HEAD.
func CommitCount(t *testing.T, repoDir string) string {
	t.Helper()
	return Git(t, repoDir, "rev-list", "--count", "HEAD")
}

// Git runs a git command in dir, failing the test on error, and returns the
// trimmed output.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()

	out, err := runGit(dir, args...)
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), gitEnv...)

	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}
