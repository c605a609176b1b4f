package types

// TurnStatus enumerates every state the pipeline can leave a turn in.
// The format stage guarantees the terminal value is one of these.
type TurnStatus string

const (
	// StatusFoundTool is set by the plan stage when a planner named a tool.
	StatusFoundTool TurnStatus = "FOUND_TOOL"
	// StatusNoTool means no planner could name a tool. Normal outcome, not an error.
	StatusNoTool TurnStatus = "NO_TOOL"
	// StatusToolSuccess is set by the execute stage after a successful tool run.
	StatusToolSuccess TurnStatus = "TOOL_SUCCESS"
	// StatusUnknownTool means a planner named a tool absent from the registry.
	// Terminal for the turn; the pipeline never re-plans after dispatch.
	StatusUnknownTool TurnStatus = "UNKNOWN_TOOL"
	// StatusToolError covers argument validation failures and tool execution failures.
	StatusToolError TurnStatus = "TOOL_ERROR"
	// StatusSuccess is the terminal status once the format stage composed a
	// confirmation message for a successful tool run.
	StatusSuccess TurnStatus = "SUCCESS"
)

// PlanSource records which planner produced a plan.
type PlanSource string

const (
	PlanSourceModel     PlanSource = "model"
	PlanSourceHeuristic PlanSource = "heuristic"
)

// PlanResult is the outcome of one planning attempt. An empty ToolName is a
// valid terminal value meaning "no suitable tool".
type PlanResult struct {
	ToolName     string
	ToolArgs     map[string]any
	Source       PlanSource
	RawModelText string
}

// TurnState is the single mutable record threaded through the pipeline for
// one user turn. Created empty at turn start, mutated once per stage, never
// shared across turns.
type TurnState struct {
	UserMessage   string         `json:"user_message"`
	ToolName      string         `json:"tool_name,omitempty"`
	ToolArgs      map[string]any `json:"tool_args,omitempty"`
	ToolOutput    map[string]any `json:"tool_output,omitempty"`
	Status        TurnStatus     `json:"status,omitempty"`
	FinalResponse string         `json:"final_response,omitempty"`
	LLMRaw        string         `json:"llm_raw,omitempty"`
	FallbackUsed  bool           `json:"fallback_used"`
	Error         string         `json:"error,omitempty"`
}

// TurnResult is the wire envelope returned to the caller for one turn.
// RawState echoes the full turn state for debugging.
type TurnResult struct {
	Status        TurnStatus     `json:"status"`
	FinalResponse string         `json:"final_response"`
	ToolName      string         `json:"tool_name,omitempty"`
	ToolArgs      map[string]any `json:"tool_args,omitempty"`
	FallbackUsed  bool           `json:"fallback_used"`
	Error         string         `json:"error,omitempty"`
	LLMRaw        string         `json:"llm_raw,omitempty"`
	RawState      *TurnState     `json:"raw_state,omitempty"`
}

// ResultFromState builds the caller-facing envelope from a finished turn.
func ResultFromState(state *TurnState) *TurnResult {
	if state == nil {
		return nil
	}
	return &TurnResult{
		Status:        state.Status,
		FinalResponse: state.FinalResponse,
		ToolName:      state.ToolName,
		ToolArgs:      state.ToolArgs,
		FallbackUsed:  state.FallbackUsed,
		Error:         state.Error,
		LLMRaw:        state.LLMRaw,
		RawState:      state,
	}
}
