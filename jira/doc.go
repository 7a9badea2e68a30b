// Package jira provides a client for the Jira REST API.
//
// The client targets Jira Cloud (API v3, ADF rich text) by default and
// supports Server/Data Center (API v2, plain text) via Config.APIVersion.
//
// # Authentication
//
//   - API Token (Cloud): Email + API token, sent as Basic auth
//   - Personal Access Token (Server/DC): Bearer token
//   - Basic Auth (legacy): Username + password
//
// # Usage
//
//	cfg := &jira.Config{
//		URL: "https://your-domain.atlassian.net",
//		Auth: jira.AuthConfig{
//			Type:  jira.AuthAPIToken,
//			Email: "you@example.com",
//			Token: "your-api-token",
//		},
//	}
//
//	client, err := jira.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//
//	issue, err := client.GetIssue(ctx, "PROJ-123", jira.IssuePreset)
//
//	page, err := client.Search(ctx, jira.SearchOptions{
//		JQL:        jira.MyIssuesQuery("In Progress", ""),
//		MaxResults: 50,
//	})
//
//	// Follow page.NextPageToken for the next page, or walk everything:
//	all, err := client.SearchAll(jql, jira.ListPreset, 100).All(ctx)
//
// # Fields
//
// Field selection is an enumerated set (Field). Issue views carry one typed
// optional value per requested field and serialize only those fields.
//
// # Transitions
//
// TransitionTo resolves a target status name against the issue's currently
// available transitions (case-insensitive, whitespace-insensitive) and
// applies it with an optional comment in a single request.
//
// # Error Handling
//
//	if errors.Is(err, jira.ErrIssueNotFound) { ... }
//	if errors.Is(err, jira.ErrInvalidQuery) { ... }
//	if errors.Is(err, jira.ErrTransitionNotFound) { ... }
//	if http.IsTransport(err) { ... } // network failure, safe to retry
package jira
