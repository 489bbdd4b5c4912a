// Package scenario merges flow, error-path, and parameter analysis
// into deduplicated, prioritized test scenarios, and detects
// class-level business-logic patterns.
package scenario

import (
	"fmt"
	"strings"

	"github.com/testlens-hq/testlens/pkg/model"
)

// Generate builds the scenario list for one method: a success case,
// one error case per unique error path, and a null-input edge case per
// declared parameter. Duplicate cases (same name, type, setup, and
// expectations) are dropped, first occurrence wins.
func Generate(sig model.MethodSig, flow model.MethodFlow) model.TestScenario {
	cases := make([]model.ScenarioCase, 0, 1+len(flow.ErrorPaths)+len(sig.Params))

	cases = append(cases, successCase(sig, flow))
	for _, p := range flow.ErrorPaths {
		cases = append(cases, errorCase(sig, p))
	}
	for _, p := range sig.Params {
		cases = append(cases, nullInputCase(sig, p))
	}

	return model.TestScenario{
		Method: sig.Name,
		Cases:  dedupe(cases),
	}
}

func successCase(sig model.MethodSig, flow model.MethodFlow) model.ScenarioCase {
	name := fmt.Sprintf("execute %s successfully", sig.Name)
	if len(flow.SuggestedTests) > 0 {
		name = flow.SuggestedTests[0]
	}

	setup := make([]string, 0, 2)
	for _, dep := range flow.DependenciesUsed {
		setup = append(setup, fmt.Sprintf("mock %s with successful responses", dep))
	}
	setup = append(setup, fmt.Sprintf("prepare valid arguments for %s", sig.Name))

	expectations := []string{"completes without throwing"}
	if ret := strings.TrimSpace(sig.ReturnType); ret != "" && ret != "void" {
		expectations = append(expectations, fmt.Sprintf("returns a value matching %s", ret))
	}

	return model.ScenarioCase{
		Name:         name,
		Type:         model.CaseSuccess,
		Setup:        setup,
		Expectations: expectations,
		Priority:     model.ScenarioPrioritySuccess,
	}
}

func errorCase(sig model.MethodSig, path model.ErrorPath) model.ScenarioCase {
	expectations := []string{fmt.Sprintf("throws %s", path.ErrorType)}
	if path.Message != "" {
		expectations = append(expectations, fmt.Sprintf("error message contains %q", path.Message))
	}

	return model.ScenarioCase{
		Name:         fmt.Sprintf("handles %s", path.Condition),
		Type:         model.CaseError,
		Setup:        []string{fmt.Sprintf("arrange state so that %s", path.Condition)},
		Expectations: expectations,
		Priority:     model.ScenarioPriorityError,
	}
}

func nullInputCase(sig model.MethodSig, p model.Param) model.ScenarioCase {
	return model.ScenarioCase{
		Name:         fmt.Sprintf("%s with null %s", sig.Name, p.Name),
		Type:         model.CaseEdgeCase,
		Setup:        []string{fmt.Sprintf("call %s with %s = null", sig.Name, p.Name)},
		Expectations: []string{"handles null input gracefully"},
		Priority:     model.ScenarioPriorityEdge,
	}
}

func dedupe(cases []model.ScenarioCase) []model.ScenarioCase {
	seen := make(map[string]struct{}, len(cases))
	out := make([]model.ScenarioCase, 0, len(cases))
	for _, c := range cases {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
