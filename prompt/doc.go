// Package prompt renders the workflow guidance served to agents.
//
// Templates are text/template files named <name>.txt. Defaults are
// embedded in the binary; a directory added with AddSearchDir overrides
// any of them by name:
//
//	loader := prompt.NewLoader()
//	loader.AddSearchDir(filepath.Join(configDir, "prompts"))
//	text, err := loader.Guide("branch_created", "KAN-42")
//
// Guide covers the start step plus one step per workflow stage, and
// WorkflowGuide renders the stage overview document.
package prompt
