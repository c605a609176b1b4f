// Package orchestrator runs one student turn through the fixed three-stage
// pipeline: plan, execute, format. Stage order is an invariant: data flows
// strictly forward and a dispatched tool is never re-planned within a turn.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yolearn/internal/agent/ports"
	"yolearn/internal/logging"
	"yolearn/internal/tools"
	"yolearn/pkg/types"
)

// Planner maps a user message to a candidate tool selection.
type Planner interface {
	PlanTurn(ctx context.Context, message string) (*types.PlanResult, error)
}

// Config wires an Orchestrator.
type Config struct {
	Registry ports.ToolRegistry
	// Model is the primary planner. May be nil, in which case every turn
	// goes straight to Fallback.
	Model Planner
	// Fallback is the deterministic planner used when Model fails.
	Fallback Planner
	Metrics  *Metrics
	Logger   logging.Logger
}

// Orchestrator executes turns. Stateless across turns; safe for concurrent
// use as long as the registry and context provider are read-only.
type Orchestrator struct {
	registry ports.ToolRegistry
	model    Planner
	fallback Planner
	metrics  *Metrics
	logger   logging.Logger
}

// New builds an orchestrator. Config.Registry and Config.Fallback are
// required; nil Metrics selects the shared default collectors.
func New(config Config) *Orchestrator {
	metrics := config.Metrics
	if metrics == nil {
		metrics = defaultMetrics()
	}
	return &Orchestrator{
		registry: config.Registry,
		model:    config.Model,
		fallback: config.Fallback,
		metrics:  metrics,
		logger:   logging.OrNop(config.Logger),
	}
}

// RunTurn processes one user message to a terminal status. It never returns
// an error and never panics: every failure inside a stage is converted into
// a status plus message on the turn state.
func (o *Orchestrator) RunTurn(ctx context.Context, message string) *types.TurnResult {
	o.metrics.IncActiveTurns()
	defer o.metrics.DecActiveTurns()

	state := &types.TurnState{UserMessage: message}
	o.planStage(ctx, state)
	o.executeStage(ctx, state)
	o.formatStage(state)
	return types.ResultFromState(state)
}

// planStage tries the model planner, falling back to the heuristic planner
// on any failure. Sets status FOUND_TOOL or NO_TOOL.
func (o *Orchestrator) planStage(ctx context.Context, state *types.TurnState) {
	start := time.Now()

	plan, err := o.safePlan(ctx, o.model, state.UserMessage)
	if err != nil {
		o.logger.Warn("planner falling back: %v", err)
		o.metrics.IncFallback(reasonFor(err))
		state.FallbackUsed = true
		state.Error = err.Error()

		plan, _ = o.safePlan(ctx, o.fallback, state.UserMessage)
		if plan == nil {
			plan = &types.PlanResult{Source: types.PlanSourceHeuristic}
		}
	}

	state.ToolName = plan.ToolName
	state.ToolArgs = plan.ToolArgs
	if plan.RawModelText != "" {
		state.LLMRaw = plan.RawModelText
	}

	if state.ToolName != "" {
		state.Status = types.StatusFoundTool
	} else {
		state.Status = types.StatusNoTool
	}
	o.metrics.ObserveStageDuration(stagePlan, string(state.Status), time.Since(start))
}

// executeStage only runs when planning produced a tool. Lookup, validation
// and execution failures each terminate the turn with their own status.
func (o *Orchestrator) executeStage(ctx context.Context, state *types.TurnState) {
	if state.Status != types.StatusFoundTool {
		return
	}
	start := time.Now()

	tool, err := o.registry.Get(state.ToolName)
	if err != nil {
		state.Status = types.StatusUnknownTool
		state.FinalResponse = fmt.Sprintf("❌ Unknown tool: %s", state.ToolName)
		state.Error = err.Error()
		o.metrics.IncStageFailure(stageExecute, "unknown_tool")
		o.metrics.ObserveStageDuration(stageExecute, string(state.Status), time.Since(start))
		return
	}

	validated, err := tools.ValidateArguments(tool.Definition(), state.ToolArgs)
	if err != nil {
		state.Status = types.StatusToolError
		state.FinalResponse = fmt.Sprintf("❌ Tool execution failed: %v", err)
		state.Error = err.Error()
		o.metrics.IncStageFailure(stageExecute, "validation")
		o.metrics.ObserveStageDuration(stageExecute, string(state.Status), time.Since(start))
		return
	}

	result, err := o.safeExecute(ctx, tool, ports.ToolCall{
		ID:        fmt.Sprintf("call_%d", time.Now().UnixNano()),
		Name:      state.ToolName,
		Arguments: validated,
	})
	if err == nil && result != nil && result.Error != nil {
		err = result.Error
	}
	if err != nil {
		state.Status = types.StatusToolError
		state.FinalResponse = fmt.Sprintf("❌ Tool execution failed: %v", err)
		state.Error = err.Error()
		o.metrics.IncStageFailure(stageExecute, "execution")
		o.metrics.ObserveStageDuration(stageExecute, string(state.Status), time.Since(start))
		return
	}

	// Echo exactly the arguments the tool ran with.
	state.ToolArgs = validated
	if result != nil {
		state.ToolOutput = result.Metadata
	}
	state.Status = types.StatusToolSuccess
	o.logger.Info("tool %s executed successfully", state.ToolName)
	o.metrics.ObserveStageDuration(stageExecute, string(state.Status), time.Since(start))
}

// formatStage maps the terminal status onto the user-facing response.
func (o *Orchestrator) formatStage(state *types.TurnState) {
	start := time.Now()
	formatTurn(state)
	o.metrics.ObserveStageDuration(stageFormat, string(state.Status), time.Since(start))
}

// safePlan invokes a planner converting panics into errors so no failure
// escapes the stage boundary.
func (o *Orchestrator) safePlan(ctx context.Context, p Planner, message string) (plan *types.PlanResult, err error) {
	if p == nil {
		return nil, fmt.Errorf("no planner configured")
	}
	defer func() {
		if r := recover(); r != nil {
			plan = nil
			err = fmt.Errorf("planner panicked: %v", r)
		}
	}()
	return p.PlanTurn(ctx, message)
}

// safeExecute invokes a tool converting panics into errors.
func (o *Orchestrator) safeExecute(ctx context.Context, tool ports.ToolExecutor, call ports.ToolCall) (result *ports.ToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("tool execution panicked: %v", r)
		}
	}()
	return tool.Execute(ctx, call)
}

// reasonFor buckets planner errors into low-cardinality metric labels.
func reasonFor(err error) string {
	if err == nil {
		return "none"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "planner_error"
}
