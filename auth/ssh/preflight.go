package ssh

import (
	"errors"
	"strings"

	"golang.org/x/crypto/ssh/agent"
)

// PreflightResult describes what the push preflight found.
type PreflightResult struct {
	// Checked is false when the remote is not SSH or no agent is configured.
	Checked    bool
	Identities []string // key fingerprints
}

// IsSSHRemote reports whether a git remote URL uses the SSH transport.
func IsSSHRemote(remoteURL string) bool {
	u := strings.TrimSpace(remoteURL)
	switch {
	case strings.HasPrefix(u, "ssh://"), strings.HasPrefix(u, "git+ssh://"):
		return true
	case strings.Contains(u, "://"):
		return false
	default:
		// scp-like user@host:path
		hostPart, _, found := strings.Cut(u, ":")
		return found && hostPart != "" && !strings.Contains(hostPart, "/")
	}
}

// Preflight checks that an SSH push to remoteURL has an identity to offer.
// It returns ErrNoIdentities when the agent is reachable but empty.
func Preflight(remoteURL string) (*PreflightResult, error) {
	if !IsSSHRemote(remoteURL) {
		return &PreflightResult{}, nil
	}

	conn, err := GetAgent()
	if errors.Is(err, ErrNoSSHAgent) {
		return &PreflightResult{}, nil
	}
	if err != nil {
		return &PreflightResult{}, err
	}
	defer conn.Close()

	return checkAgent(conn)
}

func checkAgent(ag agent.Agent) (*PreflightResult, error) {
	ids, err := Identities(ag)
	if err != nil {
		return &PreflightResult{}, err
	}

	result := &PreflightResult{Checked: true, Identities: ids}
	if len(ids) == 0 {
		return result, ErrNoIdentities
	}
	return result, nil
}
