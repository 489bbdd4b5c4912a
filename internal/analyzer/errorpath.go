package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/pkg/model"
)

// categoryKeywords classify an error by scanning its type and message.
// Earlier entries win.
var categoryKeywords = []struct {
	category model.ErrorCategory
	keywords []string
}{
	{model.CategoryValidation, []string{"validation", "invalid", "required", "must be", "format", "empty"}},
	{model.CategorySecurity, []string{"unauthorized", "forbidden", "permission", "auth", "token", "credential"}},
	{model.CategoryBusinessLogic, []string{"not found", "duplicate", "already exists", "insufficient", "conflict", "exceeded"}},
	{model.CategorySystem, []string{"database", "connection", "timeout", "network", "internal", "unavailable"}},
}

// conditionLabels map message keywords to a canonical condition
// description. Earlier entries win.
var conditionLabels = []struct {
	keyword string
	label   string
}{
	{"required", "missing required parameter"},
	{"invalid", "invalid input provided"},
	{"not found", "entity not found"},
	{"unauthorized", "unauthorized access"},
	{"already exists", "duplicate entity"},
	{"duplicate", "duplicate entity"},
}

// guardPatterns recognize error-guard conditions: null and undefined
// comparisons, falsy checks, length checks, and validation calls.
var guardPatterns = []struct {
	re      *regexp.Regexp
	errType string
}{
	{regexp.MustCompile(`(?i)(^|[^a-zA-Z])null([^a-zA-Z]|$)`), "NullReferenceError"},
	{regexp.MustCompile(`(?i)undefined`), "NullReferenceError"},
	{regexp.MustCompile(`(^|[\s(&|])!\w`), "NullReferenceError"},
	{regexp.MustCompile(`\.length\s*(===?|!==?|<=?|>=?)`), "ValidationError"},
	{regexp.MustCompile(`(?i)(validate|isvalid|is_valid)`), "ValidationError"},
}

var errishKeywords = []string{"error", "fail", "invalid", "missing"}

// collectErrorPaths enumerates the ways a method can fail, in four
// independent passes: explicit throws, guarded conditionals, try/catch
// blocks, and explicit promise rejections in suspending methods.
func collectErrorPaths(m *parser.Method) []model.ErrorPath {
	paths := make([]model.ErrorPath, 0)

	paths = append(paths, throwPaths(m)...)
	paths = append(paths, guardPaths(m)...)
	paths = append(paths, tryCatchPaths(m)...)
	paths = append(paths, rejectionPaths(m)...)

	return paths
}

// throwPaths turns each throw statement into an error path classified
// by its type and message text.
func throwPaths(m *parser.Method) []model.ErrorPath {
	paths := make([]model.ErrorPath, 0, len(m.Body.Throws))

	for i, t := range m.Body.Throws {
		category := classifyError(t.ErrorType + " " + t.Message)
		if category == "" {
			category = model.CategoryBusinessLogic
		}
		condition := conditionLabel(t.Message)
		if condition == "" {
			condition = strings.TrimSpace(t.GuardCondition)
		}
		if condition == "" {
			condition = fmt.Sprintf("error condition %d", i+1)
		}

		paths = append(paths, model.ErrorPath{
			Condition:   condition,
			ErrorType:   t.ErrorType,
			Message:     t.Message,
			Expected:    true,
			Category:    category,
			Severity:    deriveSeverity(category, t.ErrorType),
			Recoverable: deriveRecoverable(category, t.ErrorType),
			NestedLevel: t.NestedLevel,
		})
	}

	return paths
}

// guardPaths finds conditionals that guard against bad input without
// throwing. Guards whose consequence throws are already covered by
// throwPaths.
func guardPaths(m *parser.Method) []model.ErrorPath {
	paths := make([]model.ErrorPath, 0)

	for _, g := range m.Body.Guards {
		if g.Throws {
			continue
		}
		errType, ok := matchGuard(g.Condition)
		if !ok {
			continue
		}

		category := classifyError(g.Condition)
		if category == "" {
			category = model.CategoryValidation
		}

		paths = append(paths, model.ErrorPath{
			Condition:   g.Condition,
			ErrorType:   errType,
			Expected:    true,
			Category:    category,
			Severity:    deriveSeverity(category, errType),
			Recoverable: deriveRecoverable(category, errType),
			NestedLevel: g.NestedLevel,
		})
	}

	return paths
}

// tryCatchPaths adds one system-category path per try/catch block.
// Deep nesting raises the severity; a finally block marks the path
// recoverable.
func tryCatchPaths(m *parser.Method) []model.ErrorPath {
	paths := make([]model.ErrorPath, 0)

	for _, tb := range m.Body.Tries {
		if !tb.HasCatch {
			continue
		}
		severity := model.SeverityMedium
		if tb.NestedLevel > 1 {
			severity = model.SeverityHigh
		}

		paths = append(paths, model.ErrorPath{
			Condition:   "try-catch block",
			ErrorType:   "Error",
			Expected:    false,
			Category:    model.CategorySystem,
			Severity:    severity,
			Recoverable: tb.HasFinally,
			NestedLevel: tb.NestedLevel,
		})
	}

	return paths
}

// rejectionPaths adds a rejection path for suspending methods whose
// body explicitly rejects.
func rejectionPaths(m *parser.Method) []model.ErrorPath {
	if !m.Async && m.Body.Awaits == 0 {
		return nil
	}
	if m.Body.RejectCalls == 0 {
		return nil
	}

	return []model.ErrorPath{{
		Condition:   "promise rejection",
		ErrorType:   "Error",
		Expected:    true,
		Category:    model.CategorySystem,
		Severity:    model.SeverityMedium,
		Recoverable: true,
		NestedLevel: 0,
	}}
}

// classifyError scans type and message text against the category
// keyword table. Empty result means no keyword matched.
func classifyError(text string) model.ErrorCategory {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return ""
}

func deriveSeverity(category model.ErrorCategory, errType string) model.Severity {
	switch {
	case category == model.CategorySecurity:
		return model.SeverityCritical
	case category == model.CategorySystem && strings.Contains(errType, "Database"):
		return model.SeverityHigh
	case category == model.CategoryBusinessLogic:
		return model.SeverityMedium
	case category == model.CategoryValidation:
		return model.SeverityLow
	default:
		return model.SeverityMedium
	}
}

func deriveRecoverable(category model.ErrorCategory, errType string) bool {
	switch {
	case category == model.CategoryValidation || category == model.CategoryBusinessLogic:
		return true
	case category == model.CategorySecurity:
		return false
	case strings.Contains(errType, "Fatal") || strings.Contains(errType, "Critical"):
		return false
	default:
		return true
	}
}

// conditionLabel maps an error message to a canonical condition
// description, or empty when no keyword applies.
func conditionLabel(message string) string {
	lower := strings.ToLower(message)
	for _, entry := range conditionLabels {
		if strings.Contains(lower, entry.keyword) {
			return entry.label
		}
	}
	return ""
}

// matchGuard reports whether a guard condition looks like an error
// guard and infers the error type it protects against.
func matchGuard(condition string) (string, bool) {
	for _, p := range guardPatterns {
		if p.re.MatchString(condition) {
			return p.errType, true
		}
	}
	lower := strings.ToLower(condition)
	for _, kw := range errishKeywords {
		if strings.Contains(lower, kw) {
			return "ValidationError", true
		}
	}
	return "", false
}
