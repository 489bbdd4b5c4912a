package analyzer

import (
	"strings"

	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/pkg/model"
)

// paramWeight is the per-parameter contribution to testComplexity.
const paramWeight = 1

// sideEffectKeywords drive the keyword scan over the method body text.
var sideEffectKeywords = []struct {
	kind     model.SideEffectKind
	keywords []string
}{
	{model.SideEffectDatabase, []string{"save", "create", "update", "delete", "findOne"}},
	{model.SideEffectNetwork, []string{"fetch", "axios", "http"}},
	{model.SideEffectNotification, []string{"email", "notification", "send"}},
}

var loggingKeywords = []string{"console.", "logger.", "log("}

// buildMethodFlow characterizes one method: complexity, control-flow
// shape, dependency usage, side effects, and suggested test titles.
func buildMethodFlow(m *parser.Method, deps []model.Dependency, errorPaths []model.ErrorPath) model.MethodFlow {
	score := m.Body.BranchScore()

	flow := model.MethodFlow{
		Name:             m.Name,
		Complexity:       model.ClassifyComplexity(score),
		ComplexityScore:  score,
		FlowType:         classifyFlowType(&m.Body),
		DependenciesUsed: dependenciesUsed(m.Name, deps),
		SideEffects:      detectSideEffects(m.Body.Text),
		ErrorPaths:       errorPaths,
	}

	mockable := 0
	for _, se := range flow.SideEffects {
		if se.NeedsMocking {
			mockable++
		}
	}
	flow.TestComplexity = 1 + len(m.Params)*paramWeight + len(errorPaths) + mockable
	if flow.TestComplexity > model.MaxTestComplexity {
		flow.TestComplexity = model.MaxTestComplexity
	}

	flow.SuggestedTests = suggestTests(m.Name, flow.FlowType, errorPaths)

	return flow
}

// classifyFlowType picks the dominant flow shape, most specific first:
// error-prone, async-chain, loop, conditional, then linear.
func classifyFlowType(b *parser.Body) model.FlowType {
	hasAwait := b.Awaits > 0
	switch {
	case len(b.Tries) > 0 && hasAwait:
		return model.FlowErrorProne
	case hasAwait && len(b.Calls) > 3:
		return model.FlowAsyncChain
	case b.Loops > 0:
		return model.FlowLoop
	case b.Conditionals+b.Ternaries+b.Switches > 0:
		return model.FlowConditional
	default:
		return model.FlowLinear
	}
}

func dependenciesUsed(method string, deps []model.Dependency) []string {
	used := make([]string, 0)
	for i := range deps {
		if deps[i].UsedBy(method) {
			used = append(used, deps[i].Name)
		}
	}
	return used
}

// detectSideEffects scans the raw body text for effect keywords. One
// side effect is reported per kind, listing every keyword that hit.
// Logging is reported for observability but never needs mocking.
func detectSideEffects(bodyText string) []model.SideEffect {
	effects := make([]model.SideEffect, 0)

	for _, entry := range sideEffectKeywords {
		hits := make([]string, 0)
		for _, kw := range entry.keywords {
			if strings.Contains(bodyText, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > 0 {
			effects = append(effects, model.SideEffect{
				Kind:         entry.kind,
				Description:  string(entry.kind) + " operation (" + strings.Join(hits, ", ") + ")",
				NeedsMocking: true,
			})
		}
	}

	for _, kw := range loggingKeywords {
		if strings.Contains(bodyText, kw) {
			effects = append(effects, model.SideEffect{
				Kind:         model.SideEffectLogging,
				Description:  "logging output",
				NeedsMocking: false,
			})
			break
		}
	}

	return effects
}

// suggestTests derives test-case titles: one success title from the
// method name, one per error path, and a branch-coverage title for
// conditional methods.
func suggestTests(name string, flowType model.FlowType, errorPaths []model.ErrorPath) []string {
	titles := make([]string, 0, len(errorPaths)+2)
	titles = append(titles, successTitle(name))

	for _, ep := range errorPaths {
		titles = append(titles, "handle "+ep.Condition)
	}
	if flowType == model.FlowConditional {
		titles = append(titles, "handle all conditional branches")
	}

	return titles
}

func successTitle(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "get"):
		return returnTitle(name[3:])
	case strings.HasPrefix(lower, "find"):
		return returnTitle(name[4:])
	case strings.HasPrefix(lower, "create"):
		return "create new entity successfully"
	default:
		return "execute " + name + " successfully"
	}
}

func returnTitle(remainder string) string {
	entity := humanize(remainder)
	if entity == "" {
		entity = "expected value"
	}
	return "return " + entity
}

// humanize turns a camel-case identifier fragment into lower-case
// words: "UserById" becomes "user by id".
func humanize(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
