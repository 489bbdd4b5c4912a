package analyzer

import (
	"strings"

	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/pkg/model"
)

// analyzeDependencies builds the collaboration model: which methods
// touch which constructor dependency, through which members, and how
// each dependency should be doubled in tests.
func analyzeDependencies(cls *parser.Class) []model.Dependency {
	deps := make([]model.Dependency, 0, len(cls.Dependencies))

	for _, cd := range cls.Dependencies {
		dep := model.Dependency{
			Name:          cd.Name,
			Type:          cd.Type,
			Usages:        make([]model.DependencyUsage, 0),
			CommonMethods: make([]string, 0),
		}

		memberMethods := make(map[string]map[string]bool)
		memberOrder := make([]string, 0)

		for i := range cls.Methods {
			m := &cls.Methods[i]
			usage := collectUsage(m, cd.Name)
			if usage == nil {
				continue
			}
			dep.Usages = append(dep.Usages, *usage)
			dep.TotalCalls += usage.CallCount

			for _, member := range usage.Members {
				if memberMethods[member] == nil {
					memberMethods[member] = make(map[string]bool)
					memberOrder = append(memberOrder, member)
				}
				memberMethods[member][m.Name] = true
			}
		}

		for _, member := range memberOrder {
			if len(memberMethods[member]) > 1 {
				dep.CommonMethods = append(dep.CommonMethods, member)
			}
		}

		dep.MockStrategy = selectMockStrategy(&dep)
		deps = append(deps, dep)
	}

	return deps
}

// collectUsage scans one method body for accesses on the named
// dependency. Returns nil when the method never touches it.
func collectUsage(m *parser.Method, depName string) *model.DependencyUsage {
	usage := &model.DependencyUsage{
		Method:  m.Name,
		Members: make([]string, 0),
	}
	seen := make(map[string]bool)

	for _, call := range m.Body.Calls {
		if call.Dep != depName {
			continue
		}
		usage.CallCount++
		if call.InTry {
			usage.ErrorHandling = true
		}
		if !seen[call.Member] {
			seen[call.Member] = true
			usage.Members = append(usage.Members, call.Member)
		}
	}
	if usage.CallCount == 0 {
		return nil
	}

	// a usage is conditional when any guard expression references the
	// dependency by name
	for _, g := range m.Body.Guards {
		if strings.Contains(g.Condition, depName) {
			usage.Conditional = true
			break
		}
	}

	return usage
}

// selectMockStrategy picks the test-double style for a dependency.
// Repositories get stubs, services with conditional or error-handled
// interactions get spies, heavily called dependencies get fakes, and
// everything else gets a stub.
func selectMockStrategy(dep *model.Dependency) model.MockStrategy {
	typeName := strings.ToLower(dep.Type)

	switch {
	case strings.Contains(typeName, "repository"):
		return model.MockStub
	case strings.Contains(typeName, "service") && hasGuardedUsage(dep):
		return model.MockSpy
	case dep.TotalCalls > 5:
		return model.MockFake
	default:
		return model.MockStub
	}
}

func hasGuardedUsage(dep *model.Dependency) bool {
	for _, u := range dep.Usages {
		if u.Conditional || u.ErrorHandling {
			return true
		}
	}
	return false
}
