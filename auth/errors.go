package auth

import "errors"

// Authentication errors.
var (
	// ErrInvalidPrivateKey indicates the GitHub App key is not an RSA PEM key.
	ErrInvalidPrivateKey = errors.New("invalid GitHub App private key")

	// ErrAppConfig indicates the GitHub App ID or installation ID is missing.
	ErrAppConfig = errors.New("GitHub App ID and installation ID are required")

	// ErrTokenExchange indicates GitHub refused to mint an installation token.
	ErrTokenExchange = errors.New("installation token exchange failed")
)
