// Package mcpserver exposes the action registry over the Model Context
// Protocol using github.com/mark3labs/mcp-go.
//
// Every registry tool becomes an MCP tool whose input schema is the
// registry schema and whose text content is the JSON result envelope.
// Failed envelopes set the tool result's isError flag. The server also
// offers the dev_workflow_guide prompt and two resources:
//
//	guide://workflow   the stage overview
//	docs://api         the tool reference rendered from the registry
//
// Serve runs the server over stdio until the input closes or the
// context is canceled.
package mcpserver
