package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/issueflow/config"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/notify"
)

// Action names.
const (
	ActionGetIssue          = "get_issue"
	ActionSearchIssues      = "search_issues"
	ActionGetMyIssues       = "get_my_issues"
	ActionTransitionIssue   = "transition_issue"
	ActionCreateBranch      = "create_branch_for_issue"
	ActionCommitAndPush     = "git_commit_and_push"
	ActionCreatePullRequest = "create_pull_request"
	ActionMergePullRequest  = "merge_pull_request"
)

// notifyTimeout bounds delivery of one notification.
const notifyTimeout = 5 * time.Second

// Tracker is the issue tracker surface the workflow needs.
// *jira.Client implements it.
type Tracker interface {
	GetIssue(ctx context.Context, key string, fields jira.FieldSet) (*jira.Issue, error)
	Search(ctx context.Context, opts jira.SearchOptions) (*jira.SearchResult, error)
	TransitionTo(ctx context.Context, key, target, comment string) (*jira.Transition, error)
	BrowseURL(key string) string
}

// LocalRepo is the local repository surface the workflow needs.
// *git.Repo implements it.
type LocalRepo interface {
	Root() string
	CurrentBranch(ctx context.Context) (string, error)
	StageAll(ctx context.Context) error
	StagedFiles(ctx context.Context) ([]string, error)
	Commit(ctx context.Context, message string) (string, error)
	Push(ctx context.Context, remote, branch string) error
	RemoteURL(ctx context.Context, remote string) (string, error)
}

// Orchestrator sequences each action across the tracker, the source host,
// and the local repository, and wraps every outcome in a Result.
//
// It holds only immutable configuration and stateless clients, so one
// Orchestrator serves concurrent calls. Sub-steps of a call run strictly in
// order; nothing is retried, cached, or persisted.
type Orchestrator struct {
	cfg       config.Config
	tracker   func() (Tracker, error)
	host      HostResolver
	openRepo  func(ctx context.Context, path string) (LocalRepo, error)
	notifier  notify.Notifier
	logger    *slog.Logger
	preflight func(remoteURL string) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTracker uses t instead of a Jira client built from configuration.
func WithTracker(t Tracker) Option {
	return func(o *Orchestrator) {
		o.tracker = func() (Tracker, error) { return t, nil }
	}
}

// WithHostResolver replaces source host resolution.
func WithHostResolver(r HostResolver) Option {
	return func(o *Orchestrator) {
		o.host = r
	}
}

// WithGitOptions passes options to every git.Open (e.g. a mock runner).
func WithGitOptions(opts ...git.Option) Option {
	return func(o *Orchestrator) {
		o.openRepo = func(ctx context.Context, path string) (LocalRepo, error) {
			return git.Open(ctx, path, append([]git.Option{git.WithLogger(o.logger)}, opts...)...)
		}
	}
}

// WithNotifier sets where workflow events are delivered.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithPushPreflight replaces the SSH agent check run before a push.
func WithPushPreflight(check func(remoteURL string) error) Option {
	return func(o *Orchestrator) {
		o.preflight = check
	}
}

// New creates an Orchestrator for cfg. Collaborators missing from opts are
// built from cfg on first use, so an unconfigured tracker only fails the
// actions that need it.
func New(cfg config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:       cfg,
		notifier:  notify.NopNotifier{},
		logger:    slog.Default(),
		preflight: sshPreflight,
	}
	o.tracker = o.configTracker
	o.host = newConfigHostResolver(o)
	o.openRepo = func(ctx context.Context, path string) (LocalRepo, error) {
		return git.Open(ctx, path, git.WithLogger(o.logger))
	}

	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns a copy of the configuration.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}

func (o *Orchestrator) configTracker() (Tracker, error) {
	if err := o.cfg.RequireTracker(); err != nil {
		return nil, err
	}
	client, err := jira.NewClient(o.cfg.JiraClientConfig(), jira.WithLogger(o.logger))
	if err != nil {
		return nil, deverrors.Wrap(deverrors.KindConfiguration, "invalid issue tracker configuration", err)
	}
	return client, nil
}

// =============================================================================
// Call Boundary
// =============================================================================

// call is the per-invocation context handed to each action body.
type call struct {
	id     string
	action string
	logger *slog.Logger
}

// run executes body as action and converts its outcome, including a panic,
// into exactly one Result.
func (o *Orchestrator) run(ctx context.Context, action string, body func(ctx context.Context, c *call) (any, error)) (res Result) {
	id, err := nanoid.New()
	if err != nil {
		id = "unknown"
	}
	c := &call{
		id:     id,
		action: action,
		logger: o.logger.With("call_id", id, "action", action),
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("action panicked", "panic", r, "stack", string(debug.Stack()))
			res = o.fail(ctx, c, deverrors.New(deverrors.KindInternal, fmt.Sprintf("internal error: %v", r)).WithOp(action))
		}
	}()

	c.logger.Debug("action started")
	data, err := body(ctx, c)
	if err != nil {
		return o.fail(ctx, c, classify(err).WithOp(action))
	}

	c.logger.Info("action succeeded", "duration", time.Since(start))
	return Ok(data)
}

func (o *Orchestrator) fail(ctx context.Context, c *call, err *deverrors.Error) Result {
	level := slog.LevelWarn
	if err.Kind == deverrors.KindInternal || err.Kind == deverrors.KindTransport {
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, "action failed", "kind", err.Kind, "error", err)

	event := notify.NewEvent(notify.EventActionFailed, c.action, err.Error()).
		With("kind", string(err.Kind)).
		With("retryable", err.Kind.Retryable())
	event.Severity = notify.SeverityError
	o.emit(ctx, c, event)

	return Fail(err)
}

// emit delivers event without letting delivery affect the call's outcome.
// Delivery outlives caller cancellation but is bounded by notifyTimeout.
func (o *Orchestrator) emit(ctx context.Context, c *call, event notify.Event) {
	event.CallID = c.id
	event.Action = c.action

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := o.notifier.Notify(nctx, event); err != nil {
		c.logger.Warn("notification failed", "event_type", event.Type, "error", err)
	}
}
