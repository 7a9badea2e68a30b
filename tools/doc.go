// Package tools is the explicit action registry.
//
// Each action pairs a name and a parameter schema with a handler that
// decodes JSON arguments into the orchestrator's parameter struct and
// returns a result envelope:
//
//	reg := tools.New(orchestrator)
//	res := reg.Invoke(ctx, "get_issue", json.RawMessage(`{"issue_key":"KAN-42"}`))
//
// The registry is populated at startup and read-only afterwards. The MCP
// server and the CLI both drive actions through it, and the API reference
// document is rendered from the same schemas.
package tools
