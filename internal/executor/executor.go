// Package executor runs validated tool calls against the alert store.
//
// Execute never returns an error: argument, lookup and store failures are
// folded into a failed ToolResult so the reasoning engine can relay them.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/metrics"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// ErrNotFound is returned by the detail handler when no alert matches.
var ErrNotFound = errors.New("alert not found")

// handlerFunc answers one tool from its validated arguments.
type handlerFunc func(ctx context.Context, args catalog.Args) (interface{}, error)

// Executor dispatches tool calls to their handlers.
type Executor struct {
	store    alertstore.Querier
	logger   *logging.Logger
	handlers map[catalog.Name]handlerFunc
}

// New creates an Executor backed by store. It fails when the handler
// registry and the tool catalog disagree.
func New(store alertstore.Querier, logger *logging.Logger) (*Executor, error) {
	if store == nil {
		return nil, errors.New("executor: alert store is required")
	}

	e := &Executor{store: store, logger: logging.OrDefault(logger)}
	e.handlers = map[catalog.Name]handlerFunc{
		catalog.GetAlerts:          e.getAlerts,
		catalog.GetAlertDetails:    e.getAlertDetails,
		catalog.GetSecuritySummary: e.securitySummary,
		catalog.AnalyzeThreats:     e.analyzeThreats,
	}
	if err := checkRegistry(e.handlers, catalog.Names()); err != nil {
		return nil, err
	}
	return e, nil
}

// checkRegistry verifies that every catalog tool has a handler and every
// handler has a catalog entry.
func checkRegistry(handlers map[catalog.Name]handlerFunc, names []catalog.Name) error {
	declared := make(map[catalog.Name]bool, len(names))
	for _, name := range names {
		declared[name] = true
		if _, ok := handlers[name]; !ok {
			return fmt.Errorf("executor: no handler for catalog tool %q", name)
		}
	}
	for name := range handlers {
		if !declared[name] {
			return fmt.Errorf("executor: handler %q is not in the catalog", name)
		}
	}
	return nil
}

// Execute validates and runs call.
func (e *Executor) Execute(ctx context.Context, call models.ToolCall) models.ToolResult {
	start := time.Now()
	result := e.execute(ctx, call)

	metrics.RecordToolExecution(call.Name, result.Success)
	attrs := []any{
		logging.Tool(call.Name),
		logging.ToolCallID(call.ID),
		logging.Duration(time.Since(start)),
	}
	if result.Success {
		e.logger.InfoContext(ctx, "tool executed", attrs...)
	} else {
		e.logger.WarnContext(ctx, "tool failed", append(attrs, "message", result.Message)...)
	}
	return result
}

func (e *Executor) execute(ctx context.Context, call models.ToolCall) models.ToolResult {
	args, err := catalog.Parse(call.Name, call.Arguments)
	if err != nil {
		if errors.Is(err, catalog.ErrUnsupportedTool) {
			return models.Failed("Unsupported tool: %s", call.Name)
		}
		return models.Failed("Invalid arguments: %v", err)
	}

	handler, ok := e.handlers[args.Tool()]
	if !ok {
		return models.Failed("Unsupported tool: %s", call.Name)
	}

	data, err := handler(ctx, args)
	if err != nil {
		var nf *notFoundError
		if errors.As(err, &nf) {
			return models.Failed("Alert not found: %s", nf.identifier)
		}
		return models.Failed("Failed to execute %s: %v", call.Name, err)
	}
	return models.Succeeded(data)
}

type notFoundError struct {
	identifier string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNotFound, e.identifier)
}

func (e *notFoundError) Unwrap() error { return ErrNotFound }
