// Package session tracks multi-invocation test-generation
// engagements: which methods are tested, which plan phase is active,
// and what should be generated next.
package session

import (
	"fmt"
	"time"

	"github.com/testlens-hq/testlens/pkg/model"
)

// Phase-partition thresholds on the raw complexity score.
const (
	phaseOneMinScore = 8
	phaseTwoMinScore = 4
)

// DerivePriority ranks a method for generation order. High complexity
// or a critical error path puts it first; moderate complexity, any
// error path, or collaborator use puts it in the middle.
func DerivePriority(flow model.MethodFlow) model.Priority {
	if flow.ComplexityScore >= phaseOneMinScore || hasCriticalPath(flow) {
		return model.PriorityHigh
	}
	if flow.ComplexityScore >= phaseTwoMinScore ||
		len(flow.ErrorPaths) > 0 || len(flow.DependenciesUsed) > 0 {
		return model.PriorityMedium
	}
	return model.PriorityLow
}

func hasCriticalPath(flow model.MethodFlow) bool {
	for _, p := range flow.ErrorPaths {
		if p.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

// StatusesFromFlows snapshots method flows into the mutable per-method
// tracking records a session owns.
func StatusesFromFlows(flows []model.MethodFlow) []*model.MethodTestStatus {
	now := time.Now().UTC()
	statuses := make([]*model.MethodTestStatus, 0, len(flows))
	for _, f := range flows {
		statuses = append(statuses, &model.MethodTestStatus{
			Method:         f.Name,
			Complexity:     f.ComplexityScore,
			Priority:       DerivePriority(f),
			Dependencies:   f.DependenciesUsed,
			ErrorPathCount: len(f.ErrorPaths),
			UpdatedAt:      now,
		})
	}
	return statuses
}

// BuildPlan partitions a session's methods into up to three ordered
// phases. Phase one takes high-priority or high-complexity methods,
// phase two takes medium-priority, mid-complexity, or collaborator
// users, phase three takes the rest. Empty phases are dropped.
func BuildPlan(sessionID string, methods []*model.MethodTestStatus) *model.Plan {
	buckets := [3][]string{}
	for _, m := range methods {
		b := phaseBucket(m)
		buckets[b] = append(buckets[b], m.Method)
	}

	specs := []struct {
		name        string
		description string
		priority    model.Priority
	}{
		{"Critical Path", "high-priority and complex methods", model.PriorityHigh},
		{"Core Coverage", "medium-complexity methods and collaborator users", model.PriorityMedium},
		{"Remaining Methods", "simple self-contained methods", model.PriorityLow},
	}

	plan := &model.Plan{
		SessionID:   sessionID,
		Phases:      make([]model.Phase, 0, 3),
		Methodology: "priority-ordered phased generation",
	}

	for i, spec := range specs {
		if len(buckets[i]) == 0 {
			continue
		}
		estimate := len(buckets[i]) * model.MinutesPerMethod(i+1)
		plan.Phases = append(plan.Phases, model.Phase{
			Number:           len(plan.Phases) + 1,
			Name:             spec.name,
			Description:      spec.description,
			Methods:          buckets[i],
			Priority:         spec.priority,
			EstimatedMinutes: estimate,
		})
		plan.TotalEstimatedMinutes += estimate
	}

	return plan
}

// phaseBucket assigns a method to its plan phase: 0 for critical, 1
// for core, 2 for remainder.
func phaseBucket(m *model.MethodTestStatus) int {
	switch {
	case m.Priority == model.PriorityHigh || m.Complexity >= phaseOneMinScore:
		return 0
	case m.Priority == model.PriorityMedium ||
		(m.Complexity >= phaseTwoMinScore && m.Complexity < phaseOneMinScore) ||
		len(m.Dependencies) > 0:
		return 1
	default:
		return 2
	}
}

// priorityRank orders priorities for next-method selection, lower
// first.
func priorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 0
	case model.PriorityMedium:
		return 1
	default:
		return 2
	}
}

// pickNext selects the untested method with the highest priority,
// breaking ties by complexity and then declaration order. Nil means
// everything is tested.
func pickNext(s *model.Session) *model.MethodTestStatus {
	var best *model.MethodTestStatus
	for _, m := range s.Methods {
		if m.HasTests || s.IsCompleted(m.Method) {
			continue
		}
		if best == nil || better(m, best) {
			best = m
		}
	}
	return best
}

func better(candidate, best *model.MethodTestStatus) bool {
	cr, br := priorityRank(candidate.Priority), priorityRank(best.Priority)
	if cr != br {
		return cr < br
	}
	return candidate.Complexity > best.Complexity
}

func nextRationale(m *model.MethodTestStatus) string {
	return fmt.Sprintf("highest-priority untested method (priority %s, complexity %d)",
		m.Priority, m.Complexity)
}
