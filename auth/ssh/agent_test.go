package ssh

import (
	"errors"
	"testing"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

func TestGetAgent_NoSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "")

	_, err := GetAgent()
	if !errors.Is(err, ErrNoSSHAgent) {
		t.Errorf("GetAgent() error = %v, want ErrNoSSHAgent", err)
	}
}

func TestGetAgent_InvalidSocket(t *testing.T) {
	t.Setenv("SSH_AUTH_SOCK", "/nonexistent/socket/path")

	_, err := GetAgent()
	if err == nil {
		t.Error("GetAgent() expected error for invalid socket")
	}
	if errors.Is(err, ErrNoSSHAgent) {
		t.Error("GetAgent() should not return ErrNoSSHAgent for dial failure")
	}
}

func TestAgentConnection_Close(t *testing.T) {
	t.Run("close with nil conn", func(t *testing.T) {
		ac := &AgentConnection{conn: nil}
		if err := ac.Close(); err != nil {
			t.Errorf("Close() error = %v, want nil", err)
		}
	})

	t.Run("close with mock conn", func(t *testing.T) {
		mc := &mockCloser{}
		ac := &AgentConnection{conn: mc}
		if err := ac.Close(); err != nil {
			t.Errorf("Close() error = %v, want nil", err)
		}
		if !mc.closed {
			t.Error("Close() did not close underlying connection")
		}
	})
}

type mockCloser struct {
	closed bool
}

func (m *mockCloser) Close() error {
	m.closed = true
	return nil
}

// mockAgent implements agent.Agent for testing
type mockAgent struct {
	keys    []*agent.Key
	listErr error
}

func (m *mockAgent) List() ([]*agent.Key, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.keys, nil
}

func (m *mockAgent) Sign(_ ssh.PublicKey, _ []byte) (*ssh.Signature, error) {
	return nil, errors.New("not supported")
}

func (m *mockAgent) Add(_ agent.AddedKey) error { return nil }

func (m *mockAgent) Remove(_ ssh.PublicKey) error { return nil }

func (m *mockAgent) RemoveAll() error { return nil }

func (m *mockAgent) Lock(_ []byte) error { return nil }

func (m *mockAgent) Unlock(_ []byte) error { return nil }

func (m *mockAgent) Signers() ([]ssh.Signer, error) { return nil, nil }

func TestIdentities(t *testing.T) {
	t.Run("fingerprints", func(t *testing.T) {
		mock := &mockAgent{keys: []*agent.Key{
			{Format: "ssh-ed25519", Blob: []byte("key1")},
			{Format: "ssh-rsa", Blob: []byte("key2")},
		}}

		ids, err := Identities(mock)
		if err != nil {
			t.Fatalf("Identities() error = %v", err)
		}
		if len(ids) != 2 || ids[0] != ComputeFingerprint([]byte("key1")) {
			t.Errorf("Identities() = %v", ids)
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := Identities(&mockAgent{listErr: errors.New("agent error")}); err == nil {
			t.Error("Identities() expected error")
		}
	})
}

func TestComputeFingerprint(t *testing.T) {
	fp := ComputeFingerprint([]byte("blob"))
	if len(fp) < len("SHA256:") || fp[:7] != "SHA256:" {
		t.Errorf("fingerprint = %q, want SHA256: prefix", fp)
	}
	if fp != ComputeFingerprint([]byte("blob")) {
		t.Error("fingerprint should be deterministic")
	}
}
