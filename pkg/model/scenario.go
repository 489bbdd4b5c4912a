package model

import (
	"fmt"
	"strings"
)

// CaseType classifies a concrete test scenario.
type CaseType string

const (
	CaseSuccess  CaseType = "success"
	CaseError    CaseType = "error"
	CaseEdgeCase CaseType = "edge-case"
)

// Scenario priorities, higher runs earlier.
const (
	ScenarioPrioritySuccess = 5
	ScenarioPriorityError   = 4
	ScenarioPriorityEdge    = 3
)

// ScenarioCase is one concrete test case: setup steps, expected
// observations, and an ordering priority.
type ScenarioCase struct {
	Name         string   `json:"name"`
	Type         CaseType `json:"type"`
	Setup        []string `json:"setup"`
	Expectations []string `json:"expectations"`
	Priority     int      `json:"priority"`
}

// Key returns the identity used for scenario de-duplication. Two cases
// with the same key describe the same test.
func (c ScenarioCase) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s",
		c.Name, c.Type,
		strings.Join(c.Setup, ";"),
		strings.Join(c.Expectations, ";"))
}

// TestScenario is the ordered, de-duplicated set of concrete test
// cases for one method.
type TestScenario struct {
	Method string         `json:"method"`
	Cases  []ScenarioCase `json:"cases"`
}

// CountByType tallies cases by their type.
func (s *TestScenario) CountByType() map[CaseType]int {
	counts := make(map[CaseType]int)
	for _, c := range s.Cases {
		counts[c.Type]++
	}
	return counts
}
