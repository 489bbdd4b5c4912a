package model

import "time"

// Per-method time estimates in minutes, by plan phase.
const (
	PhaseOneMinutes   = 8
	PhaseTwoMinutes   = 5
	PhaseThreeMinutes = 3
)

// MinutesPerMethod returns the per-method effort estimate for a phase.
func MinutesPerMethod(phase int) int {
	switch phase {
	case 1:
		return PhaseOneMinutes
	case 2:
		return PhaseTwoMinutes
	default:
		return PhaseThreeMinutes
	}
}

// MethodTestStatus tracks one method's standing inside a session.
type MethodTestStatus struct {
	Method         string    `json:"method"`
	Complexity     int       `json:"complexity"`
	Priority       Priority  `json:"priority"`
	Dependencies   []string  `json:"dependencies"`
	ErrorPathCount int       `json:"errorPathCount"`
	HasTests       bool      `json:"hasTests"`
	TestPath       string    `json:"testPath,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Session is one interactive planning session over a single class.
type Session struct {
	ID           string              `json:"id"`
	FilePath     string              `json:"filePath"`
	ClassName    string              `json:"className"`
	TestType     string              `json:"testType"`
	OutputPath   string              `json:"outputPath,omitempty"`
	Methods      []*MethodTestStatus `json:"methods"`
	Completed    []string            `json:"completed"`
	CreatedAt    time.Time           `json:"createdAt"`
	LastActivity time.Time           `json:"lastActivity"`
}

// IsCompleted reports whether the named method is already done.
func (s *Session) IsCompleted(method string) bool {
	for _, m := range s.Completed {
		if m == method {
			return true
		}
	}
	return false
}

// Status returns the tracked status for a method, or nil.
func (s *Session) Status(method string) *MethodTestStatus {
	for _, ms := range s.Methods {
		if ms.Method == method {
			return ms
		}
	}
	return nil
}

// AllDone reports whether every tracked method is completed.
func (s *Session) AllDone() bool {
	return len(s.Completed) >= len(s.Methods)
}

// Clone returns a deep copy of the status.
func (m *MethodTestStatus) Clone() *MethodTestStatus {
	if m == nil {
		return nil
	}
	out := *m
	out.Dependencies = append([]string(nil), m.Dependencies...)
	return &out
}

// Clone returns a deep copy of the session, safe to read and encode
// while the original keeps changing.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Methods = make([]*MethodTestStatus, len(s.Methods))
	for i, m := range s.Methods {
		out.Methods[i] = m.Clone()
	}
	out.Completed = append([]string(nil), s.Completed...)
	return &out
}

// Phase is one ordered stage of a test plan.
type Phase struct {
	Number           int      `json:"number"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Methods          []string `json:"methods"`
	Priority         Priority `json:"priority"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Completed        bool     `json:"completed"`
}

// Contains reports whether the phase covers the named method.
func (p *Phase) Contains(method string) bool {
	for _, m := range p.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Plan is the phased testing roadmap derived for a session.
type Plan struct {
	SessionID             string  `json:"sessionId"`
	Phases                []Phase `json:"phases"`
	CurrentPhase          int     `json:"currentPhase"`
	TotalEstimatedMinutes int     `json:"totalEstimatedMinutes"`
	Methodology           string  `json:"methodology"`
}

// PhaseFor returns the phase containing the named method, or nil.
func (p *Plan) PhaseFor(method string) *Phase {
	for i := range p.Phases {
		if p.Phases[i].Contains(method) {
			return &p.Phases[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the phase.
func (p *Phase) Clone() *Phase {
	if p == nil {
		return nil
	}
	out := *p
	out.Methods = append([]string(nil), p.Methods...)
	return &out
}

// Clone returns a deep copy of the plan, safe to read and encode
// while the original keeps changing.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.Phases = make([]Phase, len(p.Phases))
	for i := range p.Phases {
		out.Phases[i] = *p.Phases[i].Clone()
	}
	return &out
}

// Progress summarizes how far a session has advanced.
type Progress struct {
	SessionID       string  `json:"sessionId"`
	Completed       int     `json:"completed"`
	Total           int     `json:"total"`
	Percent         float64 `json:"percent"`
	CurrentPhase    int     `json:"currentPhase"`
	PhasesCompleted int     `json:"phasesCompleted"`
	AllDone         bool    `json:"allDone"`
}

// NextMethod is what the engine hands back when asked what to test
// next: the chosen method with its context, or Done when nothing is
// left.
type NextMethod struct {
	Done      bool              `json:"done"`
	Method    *MethodTestStatus `json:"method,omitempty"`
	Phase     *Phase            `json:"phase,omitempty"`
	Rationale string            `json:"rationale,omitempty"`
	Remaining int               `json:"remaining"`
}
