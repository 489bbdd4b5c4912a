// Package analyzer turns a parsed class into its full test-planning
// analysis: dependency collaboration model, per-method flow and error
// paths, edge cases, boundary values, property tests, business
// patterns, and concrete scenarios.
package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/testlens-hq/testlens/internal/edgecase"
	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/internal/proptest"
	"github.com/testlens-hq/testlens/internal/scenario"
	"github.com/testlens-hq/testlens/pkg/model"
)

// MethodNotFoundError reports a focused-analysis request for a method
// the class does not declare, along with what it does declare.
type MethodNotFoundError struct {
	Class     string
	Method    string
	Available []string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %q not found in class %s (available: %s)",
		e.Method, e.Class, strings.Join(e.Available, ", "))
}

// Analyzer runs the analysis pipeline over parsed classes.
type Analyzer struct {
	log zerolog.Logger
}

// New creates an Analyzer.
func New(log zerolog.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// AnalyzeFile analyzes one class from a parsed file. An empty
// className selects the first class; an empty focusMethod analyzes
// every method.
func (a *Analyzer) AnalyzeFile(file *parser.ParsedFile, className, focusMethod string) (*model.AnalysisBundle, error) {
	cls, err := file.Class(className)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeClass(cls, file.Path, focusMethod)
}

// AnalyzeClass produces the complete analysis bundle for a class. The
// bundle is atomic: input errors fail the whole call, while per-param
// ambiguities and truncated traversals degrade into diagnostics.
func (a *Analyzer) AnalyzeClass(cls *parser.Class, filePath, focusMethod string) (*model.AnalysisBundle, error) {
	if focusMethod != "" && cls.Method(focusMethod) == nil {
		return nil, &MethodNotFoundError{
			Class:     cls.Name,
			Method:    focusMethod,
			Available: methodNames(cls),
		}
	}

	bundle := &model.AnalysisBundle{
		Dependencies: analyzeDependencies(cls),
		Methods:      make([]model.MethodAnalysis, 0),
		Diagnostics:  make([]model.Diagnostic, 0),
		GeneratedAt:  time.Now().UTC(),
	}
	bundle.Class = a.buildClassModel(cls, filePath, bundle)

	// flows are computed for every method so pattern detection sees
	// the whole class even under focused analysis
	flows := make([]model.MethodFlow, 0, len(cls.Methods))
	callers := selfCallers(cls)

	for i := range cls.Methods {
		m := &cls.Methods[i]
		paths := collectErrorPaths(m)
		for j := range paths {
			paths[j].PropagatesTo = callers[m.Name]
		}
		flow := buildMethodFlow(m, bundle.Dependencies, paths)
		flows = append(flows, flow)

		if m.Body.Truncated {
			bundle.Diagnostics = append(bundle.Diagnostics, model.Diagnostic{
				Level:   "warn",
				Method:  m.Name,
				Message: "body traversal truncated at node or depth ceiling",
			})
			a.log.Warn().
				Str("class", cls.Name).
				Str("method", m.Name).
				Msg("method body traversal truncated")
		}

		if focusMethod != "" && m.Name != focusMethod {
			continue
		}

		sig := bundle.Class.Methods[i]
		boundaries := edgecase.Boundaries(sig, &m.Body)
		bundle.Methods = append(bundle.Methods, model.MethodAnalysis{
			Flow:          flow,
			EdgeCases:     edgecase.Detect(sig, &m.Body),
			Boundaries:    boundaries,
			PropertyTests: proptest.Generate(sig, boundaries),
			Scenario:      scenario.Generate(sig, flow),
		})
	}

	bundle.Patterns = scenario.DetectPatterns(flows)

	return bundle, nil
}

// buildClassModel maps the parsed class to its serializable snapshot,
// classifying every parameter type and recording ambiguities.
func (a *Analyzer) buildClassModel(cls *parser.Class, filePath string, bundle *model.AnalysisBundle) model.ClassModel {
	cm := model.ClassModel{
		Name:         cls.Name,
		FilePath:     filePath,
		Methods:      make([]model.MethodSig, 0, len(cls.Methods)),
		Dependencies: make([]model.ConstructorParam, 0, len(cls.Dependencies)),
	}

	for _, d := range cls.Dependencies {
		cm.Dependencies = append(cm.Dependencies, model.ConstructorParam{
			Name: d.Name,
			Type: d.Type,
		})
	}

	for _, m := range cls.Methods {
		sig := model.MethodSig{
			Name:       m.Name,
			Params:     make([]model.Param, 0, len(m.Params)),
			ReturnType: m.ReturnType,
			Async:      m.Async,
			Visibility: m.Visibility,
			StartLine:  m.StartLine,
			EndLine:    m.EndLine,
		}

		for _, p := range m.Params {
			kind, ambiguous := ClassifyParamType(p.Type, p.Optional, p.Default != "")
			if ambiguous {
				bundle.Diagnostics = append(bundle.Diagnostics, model.Diagnostic{
					Level:   "warn",
					Method:  m.Name,
					Message: fmt.Sprintf("ambiguous type %q for parameter %s, classified as %s", p.Type, p.Name, kind),
				})
				a.log.Warn().
					Str("class", cls.Name).
					Str("method", m.Name).
					Str("param", p.Name).
					Str("type", p.Type).
					Msg("ambiguous parameter type")
			}
			sig.Params = append(sig.Params, model.Param{
				Name:       p.Name,
				Type:       p.Type,
				Kind:       kind,
				Optional:   p.Optional,
				HasDefault: p.Default != "",
			})
		}

		cm.Methods = append(cm.Methods, sig)
	}

	return cm
}

// selfCallers inverts the intra-class call graph: for each method, the
// sibling methods that invoke it.
func selfCallers(cls *parser.Class) map[string][]string {
	callers := make(map[string][]string)
	for i := range cls.Methods {
		m := &cls.Methods[i]
		for _, callee := range m.Body.SelfCalls() {
			if cls.Method(callee) != nil {
				callers[callee] = append(callers[callee], m.Name)
			}
		}
	}
	return callers
}

func methodNames(cls *parser.Class) []string {
	names := make([]string, 0, len(cls.Methods))
	for _, m := range cls.Methods {
		names = append(names, m.Name)
	}
	return names
}
