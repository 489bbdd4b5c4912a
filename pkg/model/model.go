// Package model defines the shared data model for class analysis and
// test planning. Types here are plain serializable structures passed
// between the analyzers, the planning engine, the HTTP API, and the CLI.
package model

import (
	"strings"
	"time"
)

// ParamKind is the classified category of a parameter type.
type ParamKind string

const (
	ParamArray    ParamKind = "array"
	ParamString   ParamKind = "string"
	ParamNumber   ParamKind = "number"
	ParamBoolean  ParamKind = "boolean"
	ParamObject   ParamKind = "object"
	ParamNullable ParamKind = "nullable"
)

// Complexity classes a method by its branching score.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// ComplexityThresholds: scores up to 3 are simple, up to 7 medium,
// everything above is complex.
const (
	SimpleMaxScore = 3
	MediumMaxScore = 7
)

// ClassifyComplexity maps a branching score to its complexity class.
func ClassifyComplexity(score int) Complexity {
	switch {
	case score <= SimpleMaxScore:
		return ComplexitySimple
	case score <= MediumMaxScore:
		return ComplexityMedium
	default:
		return ComplexityComplex
	}
}

// FlowType describes the dominant control-flow shape of a method.
type FlowType string

const (
	FlowLinear      FlowType = "linear"
	FlowConditional FlowType = "conditional"
	FlowLoop        FlowType = "loop"
	FlowAsyncChain  FlowType = "async-chain"
	FlowErrorProne  FlowType = "error-prone"
)

// MockStrategy is the recommended test-double style for a dependency.
type MockStrategy string

const (
	MockStub MockStrategy = "stub"
	MockSpy  MockStrategy = "spy"
	MockFake MockStrategy = "fake"
	MockReal MockStrategy = "real"
)

// SideEffectKind categorizes an observable external effect.
type SideEffectKind string

const (
	SideEffectDatabase     SideEffectKind = "database"
	SideEffectNetwork      SideEffectKind = "network"
	SideEffectNotification SideEffectKind = "notification"
	SideEffectLogging      SideEffectKind = "logging"
)

// Severity grades error paths, edge cases, and boundary values.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ErrorCategory classifies what kind of failure an error path represents.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryBusinessLogic ErrorCategory = "business-logic"
	CategorySystem        ErrorCategory = "system"
	CategorySecurity      ErrorCategory = "security"
)

// Priority orders methods and phases within a test plan.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Param is a single declared method parameter.
type Param struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Kind       ParamKind `json:"kind"`
	Optional   bool      `json:"optional"`
	HasDefault bool      `json:"hasDefault"`
}

// Nullable reports whether the declaration admits null or undefined
// through its type text, an optional marker, or a default.
func (p Param) Nullable() bool {
	t := strings.ToLower(p.Type)
	return p.Optional || p.HasDefault ||
		strings.Contains(t, "null") || strings.Contains(t, "undefined")
}

// MethodSig is the declared surface of one method.
type MethodSig struct {
	Name       string  `json:"name"`
	Params     []Param `json:"params"`
	ReturnType string  `json:"returnType,omitempty"`
	Async      bool    `json:"async"`
	Visibility string  `json:"visibility,omitempty"`
	StartLine  int     `json:"startLine"`
	EndLine    int     `json:"endLine"`
}

// ConstructorParam is one injected constructor dependency.
type ConstructorParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ClassModel is the parsed shape of a class under analysis. Methods and
// dependencies keep their declaration order.
type ClassModel struct {
	Name         string             `json:"name"`
	FilePath     string             `json:"filePath,omitempty"`
	Methods      []MethodSig        `json:"methods"`
	Dependencies []ConstructorParam `json:"dependencies"`
}

// Method returns the signature with the given name, or nil.
func (c *ClassModel) Method(name string) *MethodSig {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// MethodNames returns method names in declaration order.
func (c *ClassModel) MethodNames() []string {
	names := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	return names
}

// DependencyUsage records how one method touches a dependency.
type DependencyUsage struct {
	Method        string   `json:"method"`
	Members       []string `json:"members"`
	CallCount     int      `json:"callCount"`
	Conditional   bool     `json:"conditional"`
	ErrorHandling bool     `json:"errorHandling"`
}

// Dependency aggregates per-method usage of one constructor dependency
// and carries the recommended mock strategy.
type Dependency struct {
	Name          string            `json:"name"`
	Type          string            `json:"type"`
	Usages        []DependencyUsage `json:"usages"`
	CommonMethods []string          `json:"commonMethods"`
	MockStrategy  MockStrategy      `json:"mockStrategy"`
	TotalCalls    int               `json:"totalCalls"`
}

// UsedBy reports whether any usage belongs to the given method.
func (d *Dependency) UsedBy(method string) bool {
	for _, u := range d.Usages {
		if u.Method == method {
			return true
		}
	}
	return false
}

// SideEffect is one observable external effect of a method.
type SideEffect struct {
	Kind         SideEffectKind `json:"kind"`
	Description  string         `json:"description"`
	NeedsMocking bool           `json:"needsMocking"`
}

// ErrorPath describes one way a method can fail.
type ErrorPath struct {
	Condition    string        `json:"condition"`
	ErrorType    string        `json:"errorType"`
	Message      string        `json:"message,omitempty"`
	Expected     bool          `json:"expected"`
	Severity     Severity      `json:"severity"`
	Category     ErrorCategory `json:"category"`
	Recoverable  bool          `json:"recoverable"`
	NestedLevel  int           `json:"nestedLevel"`
	PropagatesTo []string      `json:"propagatesTo,omitempty"`
}

// MethodFlow is the control-flow and effect analysis of one method.
type MethodFlow struct {
	Name             string       `json:"name"`
	Complexity       Complexity   `json:"complexity"`
	ComplexityScore  int          `json:"complexityScore"`
	FlowType         FlowType     `json:"flowType"`
	DependenciesUsed []string     `json:"dependenciesUsed"`
	SideEffects      []SideEffect `json:"sideEffects"`
	ErrorPaths       []ErrorPath  `json:"errorPaths"`
	TestComplexity   int          `json:"testComplexity"`
	SuggestedTests   []string     `json:"suggestedTests"`
}

// MaxTestComplexity caps the test-effort estimate for any method.
const MaxTestComplexity = 10

// Diagnostic is a non-fatal condition surfaced during analysis, such as
// a truncated traversal or an ambiguous type annotation.
type Diagnostic struct {
	Level   string `json:"level"`
	Method  string `json:"method,omitempty"`
	Message string `json:"message"`
}

// MethodAnalysis bundles every analyzer's output for one method.
type MethodAnalysis struct {
	Flow          MethodFlow         `json:"flow"`
	EdgeCases     []EdgeCase         `json:"edgeCases"`
	Boundaries    []BoundaryAnalysis `json:"boundaries"`
	PropertyTests []PropertyTestCase `json:"propertyTests"`
	Scenario      TestScenario       `json:"scenario"`
}

// AnalysisBundle is the complete one-shot analysis of a class.
type AnalysisBundle struct {
	Class        ClassModel        `json:"class"`
	Dependencies []Dependency      `json:"dependencies"`
	Methods      []MethodAnalysis  `json:"methods"`
	Patterns     []BusinessPattern `json:"patterns"`
	Diagnostics  []Diagnostic      `json:"diagnostics,omitempty"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}

// MethodAnalysisFor returns the per-method analysis by name, or nil.
func (b *AnalysisBundle) MethodAnalysisFor(name string) *MethodAnalysis {
	for i := range b.Methods {
		if b.Methods[i].Flow.Name == name {
			return &b.Methods[i]
		}
	}
	return nil
}
