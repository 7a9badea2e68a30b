// Package ssh checks the local SSH agent before a push over an SSH remote.
//
// A push through an agent with no loaded keys fails late and with an opaque
// "Permission denied (publickey)". Preflight turns that into ErrNoIdentities
// up front:
//
//	res, err := ssh.Preflight(remoteURL)
//	if errors.Is(err, ssh.ErrNoIdentities) {
//	    logger.Warn("ssh push will fail", "error", err)
//	}
//
// Non-SSH remotes and hosts without SSH_AUTH_SOCK are not checked.
package ssh
