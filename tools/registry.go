package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/workflow"
)

// =============================================================================
// Schema
// =============================================================================

// ParamType is the JSON type of a parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Param describes one action argument.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
	Default     any
	Minimum     *int
	Maximum     *int
}

// Handler runs an action with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) workflow.Result

// Tool is a registered action.
type Tool struct {
	Name        string
	Description string
	Params      []Param

	// ReadOnly marks actions without remote or local side effects.
	ReadOnly bool

	Handler Handler
}

// Schema returns the JSON Schema object for the tool's arguments.
func (t Tool) Schema() map[string]any {
	props := make(map[string]any, len(t.Params))
	required := []string{}
	for _, p := range t.Params {
		prop := map[string]any{"type": string(p.Type)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Minimum != nil {
			prop["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			prop["maximum"] = *p.Maximum
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// =============================================================================
// Registry
// =============================================================================

// Registry maps action names to tools. Registration happens before
// serving; lookups and invocations are safe for concurrent use afterwards.
type Registry struct {
	tools  []Tool
	byName map[string]int
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for argument decoding failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]int),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t Tool) error {
	switch {
	case t.Name == "":
		return errors.New("tool name is required")
	case t.Handler == nil:
		return fmt.Errorf("tool %s: handler is required", t.Name)
	}
	if _, ok := r.byName[t.Name]; ok {
		return fmt.Errorf("tool %s: already registered", t.Name)
	}

	seen := make(map[string]bool, len(t.Params))
	for _, p := range t.Params {
		if seen[p.Name] {
			return fmt.Errorf("tool %s: duplicate parameter %s", t.Name, p.Name)
		}
		seen[p.Name] = true
	}

	r.byName[t.Name] = len(r.tools)
	r.tools = append(r.tools, t)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Tools returns every tool in registration order.
func (r *Registry) Tools() []Tool {
	return append([]Tool(nil), r.tools...)
}

// Names returns every tool name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// Invoke runs the named action. Unknown names and malformed arguments
// produce a ValidationError envelope.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) workflow.Result {
	t, ok := r.Lookup(name)
	if !ok {
		r.logger.Warn("unknown action", "action", name)
		return workflow.Fail(deverrors.Validation(fmt.Sprintf("unknown action %q; available: %s",
			name, strings.Join(r.Names(), ", "))))
	}
	return t.Handler(ctx, args)
}

// =============================================================================
// Argument Binding
// =============================================================================

// Bind adapts a typed action to a Handler. Arguments are decoded strictly:
// unknown parameters and type mismatches fail before the action runs.
func Bind[P any](logger *slog.Logger, action string, fn func(context.Context, P) workflow.Result) Handler {
	return func(ctx context.Context, args json.RawMessage) workflow.Result {
		var p P
		if err := decodeArgs(args, &p); err != nil {
			logger.Warn("invalid arguments", "action", action, "error", err)
			return workflow.Fail(err)
		}
		return fn(ctx, p)
	}
}

func decodeArgs(args json.RawMessage, dst any) error {
	args = bytes.TrimSpace(args)
	if len(args) == 0 || bytes.Equal(args, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return argumentError(err)
	}
	if dec.More() {
		return deverrors.Validation("arguments must be a single JSON object")
	}
	return nil
}

func argumentError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		switch {
		case typeErr.Field != "":
		case typeErr.Type != nil && typeErr.Type.Kind() == reflect.Struct:
			return deverrors.Validation("arguments must be a JSON object")
		default:
			return deverrors.Wrap(deverrors.KindValidation, "invalid arguments", err)
		}
		return deverrors.Validation(fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type.Kind().String())))
	case errors.As(err, &syntaxErr):
		return deverrors.Validation(fmt.Sprintf("arguments are not valid JSON (offset %d)", syntaxErr.Offset))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return deverrors.Validation(fmt.Sprintf("unknown parameter %q", field))
	default:
		return deverrors.Wrap(deverrors.KindValidation, "invalid arguments", err)
	}
}

func jsonTypeName(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"):
		return "number"
	case kind == "bool":
		return "boolean"
	default:
		return kind
	}
}
