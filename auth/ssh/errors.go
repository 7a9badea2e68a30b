package ssh

import "errors"

// SSH agent errors.
var (
	// ErrNoSSHAgent is returned when SSH_AUTH_SOCK is not set.
	ErrNoSSHAgent = errors.New("ssh-agent not available")

	// ErrNoIdentities is returned when the agent holds no keys, so an SSH
	// push would fail to authenticate.
	ErrNoIdentities = errors.New("ssh-agent has no identities; run ssh-add")
)
