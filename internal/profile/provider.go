// Package profile supplies the user/context data both planners consult for
// parameter defaulting. The deployment ships with a static mock profile;
// a real installation would back Provider with the account service.
package profile

import "yolearn/internal/agent/ports"

// StaticProvider returns fixed user/student context. Safe for concurrent use.
type StaticProvider struct {
	user    ports.UserInfo
	student ports.StudentContext
}

// NewStaticProvider builds a provider around the given records.
func NewStaticProvider(user ports.UserInfo, student ports.StudentContext) *StaticProvider {
	return &StaticProvider{user: user, student: student}
}

// NewMockProvider returns the demo student profile used by the reference
// deployment and the test suite.
func NewMockProvider() *StaticProvider {
	return &StaticProvider{
		user: ports.UserInfo{
			UserID:         "std-48293",
			Name:           "Student Example",
			Subject:        "Biology",
			GradeLevel:     "10",
			EmotionalState: "Confused",
		},
		student: ports.StudentContext{
			LastTopic:      "Photosynthesis",
			MasteryScore:   4,
			PreferredStyle: "Socratic",
			Subject:        "Biology",
		},
	}
}

func (p *StaticProvider) UserInfo() ports.UserInfo {
	return p.user
}

func (p *StaticProvider) StudentContext() ports.StudentContext {
	return p.student
}

var _ ports.ContextProvider = (*StaticProvider)(nil)
