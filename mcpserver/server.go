package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/randalmurphal/issueflow/prompt"
	"github.com/randalmurphal/issueflow/tools"
	"github.com/randalmurphal/issueflow/workflow"
)

// Server identity.
const (
	Name = "issueflow"

	PromptWorkflowGuide = "dev_workflow_guide"
	URIWorkflowGuide    = "guide://workflow"
	URIAPIReference     = "docs://api"
	URICurrentIssue     = "issue://current"
)

// Version is set at build time via ldflags.
var Version = "dev"

const instructions = "Tools for a Jira and GitHub/GitLab development workflow. " +
	"Read " + URIWorkflowGuide + " first. Every tool returns a JSON envelope with success and data or error; " +
	"ask the user before calling any tool that changes state."

// Options configures the server.
type Options struct {
	// Prompts renders guidance; nil uses the embedded templates.
	Prompts *prompt.Loader

	// CurrentBranch reports the checked-out branch of the local
	// repository. Nil means no local repository is available.
	CurrentBranch func(ctx context.Context) (string, error)

	Logger *slog.Logger
}

// New builds an MCP server exposing every tool in reg.
func New(reg *tools.Registry, opts Options) *server.MCPServer {
	if opts.Prompts == nil {
		opts.Prompts = prompt.NewLoader()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithToolHandlerMiddleware(logCalls(opts.Logger)),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	for _, t := range reg.Tools() {
		s.AddTool(toolDefinition(t), toolHandler(reg, t.Name))
	}

	s.AddPrompt(mcp.NewPrompt(PromptWorkflowGuide,
		mcp.WithPromptDescription("Step-by-step guidance for the issue-to-merge workflow"),
		mcp.WithArgument("step",
			mcp.ArgumentDescription("Current step: start, or a workflow stage such as branch_created or pushed"),
		),
		mcp.WithArgument("issue_key",
			mcp.ArgumentDescription("Issue being worked on, e.g. KAN-42"),
		),
	), guideHandler(opts.Prompts))

	s.AddResource(mcp.NewResource(URIWorkflowGuide, "Workflow guide",
		mcp.WithResourceDescription("Workflow stages, the typical tool sequence and error kinds"),
		mcp.WithMIMEType("text/markdown"),
	), textResource(URIWorkflowGuide, opts.Prompts.WorkflowGuide))

	s.AddResource(mcp.NewResource(URIAPIReference, "Tool reference",
		mcp.WithResourceDescription("Parameters and defaults of every tool"),
		mcp.WithMIMEType("text/markdown"),
	), textResource(URIAPIReference, func() (string, error) { return reg.Reference(), nil }))

	s.AddResource(mcp.NewResource(URICurrentIssue, "Current issue",
		mcp.WithResourceDescription("The issue named by the checked-out branch, fetched live from the tracker"),
		mcp.WithMIMEType("text/markdown"),
	), currentIssueResource(reg, opts))

	return s
}

// Serve runs s over in and out until in is exhausted or ctx is canceled.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *slog.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	logger.Info("mcp server listening on stdio", "version", Version)
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// =============================================================================
// Tools
// =============================================================================

func toolDefinition(t tools.Tool) mcp.Tool {
	schema, err := json.Marshal(t.Schema())
	if err != nil {
		// Schemas are built from plain maps of strings and numbers.
		panic(fmt.Sprintf("marshal schema for %s: %v", t.Name, err))
	}

	def := mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
	def.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(t.ReadOnly),
		DestructiveHint: mcp.ToBoolPtr(t.Name == workflow.ActionMergePullRequest),
		IdempotentHint:  mcp.ToBoolPtr(t.ReadOnly),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}
	return def
}

func toolHandler(reg *tools.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := rawArguments(req)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("cannot read arguments", err), nil
		}

		res := reg.Invoke(ctx, name, args)
		body, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}

		if !res.Success {
			return mcp.NewToolResultError(string(body)), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

func rawArguments(req mcp.CallToolRequest) (json.RawMessage, error) {
	switch args := req.GetRawArguments().(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return args, nil
	default:
		return json.Marshal(args)
	}
}

// logCalls logs every tool call with its duration.
func logCalls(logger *slog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)

			attrs := []any{"tool", req.Params.Name, "duration", time.Since(start)}
			switch {
			case err != nil:
				logger.Error("tool call failed", append(attrs, "error", err)...)
			case res != nil && res.IsError:
				logger.Info("tool call returned failure", attrs...)
			default:
				logger.Debug("tool call completed", attrs...)
			}
			return res, err
		}
	}
}

// =============================================================================
// Prompts and Resources
// =============================================================================

func guideHandler(loader *prompt.Loader) server.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		step := req.Params.Arguments["step"]
		issueKey := req.Params.Arguments["issue_key"]

		rules, err := loader.Load(prompt.NameRules)
		if err != nil {
			return nil, err
		}
		guidance, err := loader.Guide(step, issueKey)
		if err != nil {
			return nil, err
		}

		return mcp.NewGetPromptResult("Workflow guidance", []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(rules)),
			mcp.NewPromptMessage(mcp.RoleAssistant, mcp.NewTextContent(guidance)),
		}), nil
	}
}

// currentIssueResource renders the issue behind the checked-out branch.
// Lookup failures are rendered into the document rather than returned, so
// a client reading the resource always gets an explanation.
func currentIssueResource(reg *tools.Registry, opts Options) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		view := currentIssue(ctx, reg, opts.CurrentBranch)
		text, err := opts.Prompts.CurrentIssue(view)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", URICurrentIssue, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: URICurrentIssue, MIMEType: "text/markdown", Text: text},
		}, nil
	}
}

func currentIssue(ctx context.Context, reg *tools.Registry, currentBranch func(context.Context) (string, error)) prompt.IssueView {
	if currentBranch == nil {
		return prompt.IssueView{Problem: "no local repository is configured"}
	}
	branch, err := currentBranch(ctx)
	if err != nil {
		return prompt.IssueView{Problem: "cannot read the current branch: " + err.Error()}
	}

	view := prompt.IssueView{Branch: branch, Key: workflow.IssueKeyFromBranch(branch)}
	if view.Key == "" {
		view.Problem = fmt.Sprintf("branch %s does not name an issue", branch)
		return view
	}

	args, _ := json.Marshal(map[string]string{"issue_key": view.Key})
	res := reg.Invoke(ctx, workflow.ActionGetIssue, args)
	if !res.Success {
		view.Problem = res.Error
		return view
	}

	raw, err := json.Marshal(res.Data)
	if err != nil {
		view.Problem = "cannot encode issue: " + err.Error()
		return view
	}
	var fields struct {
		Summary     string `json:"summary"`
		Status      string `json:"status"`
		IssueType   string `json:"issuetype"`
		Priority    string `json:"priority"`
		Assignee    string `json:"assignee"`
		Description string `json:"description_text"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		view.Problem = "cannot decode issue: " + err.Error()
		return view
	}
	view.Summary = fields.Summary
	view.Status = fields.Status
	view.Type = fields.IssueType
	view.Priority = fields.Priority
	view.Assignee = fields.Assignee
	view.Description = fields.Description
	return view
}

func textResource(uri string, render func() (string, error)) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := render()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: uri, MIMEType: "text/markdown", Text: text},
		}, nil
	}
}
