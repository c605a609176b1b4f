package ports

// UserInfo is the static personalization record for the current student.
type UserInfo struct {
	UserID         string `json:"user_id"`
	Name           string `json:"name"`
	Subject        string `json:"subject"`
	GradeLevel     string `json:"grade_level"`
	EmotionalState string `json:"emotional_state"`
}

// StudentContext carries the learning state both planners consult for
// parameter defaulting.
type StudentContext struct {
	LastTopic      string `json:"last_topic"`
	MasteryScore   int    `json:"mastery_score"`
	PreferredStyle string `json:"preferred_style"`
	Subject        string `json:"subject"`
}

// ContextProvider supplies user/student context for one turn. Read-only;
// implementations must be safe for concurrent use.
type ContextProvider interface {
	UserInfo() UserInfo
	StudentContext() StudentContext
}
