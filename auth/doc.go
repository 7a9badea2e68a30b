// Package auth supplies source-host credentials as oauth2 token sources.
//
// A personal access token is wrapped with StaticTokenSource. A GitHub App
// authenticates with an RS256 JWT signed by the app's private key, which is
// exchanged for a short-lived installation token:
//
//	key, err := auth.LoadPrivateKey("/etc/issueflow/app.pem")
//	if err != nil {
//	    return err
//	}
//	ts, err := auth.NewAppTokenSource(auth.AppConfig{
//	    AppID:          12345,
//	    InstallationID: 67890,
//	    PrivateKey:     key,
//	})
//
// Installation tokens are cached until shortly before expiry.
//
// Subpackage ssh checks the local SSH agent before pushing over SSH remotes.
package auth
