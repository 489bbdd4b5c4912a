// Package edgecase derives adversarial and boundary input catalogs
// for method parameters, keyed by classified type and inferred
// constraints.
package edgecase

import (
	"strings"

	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/pkg/model"
)

// Detect builds the edge-case catalog for one method: type-keyed
// anomalies per parameter, method-context cases, and name-keyed
// business cases.
func Detect(sig model.MethodSig, body *parser.Body) []model.EdgeCase {
	cases := make([]model.EdgeCase, 0)

	for _, p := range sig.Params {
		cases = append(cases, paramCases(p)...)
	}
	cases = append(cases, contextCases(sig, body)...)
	cases = append(cases, businessCases(sig.Name)...)

	return cases
}

func paramCases(p model.Param) []model.EdgeCase {
	cases := make([]model.EdgeCase, 0, 8)
	add := func(kind model.EdgeCaseKind, desc, sample string, behavior model.ExpectedBehavior, sev model.Severity, cat model.EdgeCategory) {
		cases = append(cases, model.EdgeCase{
			Kind:             kind,
			Param:            p.Name,
			ParamType:        p.Kind,
			Description:      desc,
			Sample:           sample,
			ExpectedBehavior: behavior,
			Severity:         sev,
			Category:         cat,
		})
	}

	switch p.Kind {
	case model.ParamArray:
		add(model.EdgeEmptyArray, "empty array", "[]",
			model.ExpectEmptyResult, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeHugeArray, "very large array", "Array.from({ length: 100000 }, (_, i) => i)",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatPerformance)
		add(model.EdgeNullElement, "array containing null and undefined elements", "[null, undefined, 0]",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
		add(model.EdgeNestedArray, "deeply nested array", "[[1, [2]], [3]]",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatFormat)
		add(model.EdgeMixedTypeArray, "array mixing element types", "[1, 'two', true, {}]",
			model.ExpectError, model.SeverityMedium, model.EdgeCatFormat)

	case model.ParamString:
		add(model.EdgeEmptyString, "empty string", "''",
			model.ExpectError, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeWhitespaceString, "whitespace-only string", "'   '",
			model.ExpectError, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeVeryLongString, "very long string", "'x'.repeat(10000)",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatPerformance)
		add(model.EdgeUnicodeString, "unicode and emoji content", "'héllo 世界 🚀'",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatFormat)
		add(model.EdgeSpecialChars, "special characters", "'!@#$%^&*()'",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatFormat)
		add(model.EdgeSQLInjection, "SQL injection payload", `"'; DROP TABLE users; --"`,
			model.ExpectSecurityBlock, model.SeverityCritical, model.EdgeCatSecurity)
		add(model.EdgeXSSPayload, "script injection payload", "'<script>alert(1)</script>'",
			model.ExpectSecurityBlock, model.SeverityCritical, model.EdgeCatSecurity)
		add(model.EdgePathTraversal, "path traversal payload", "'../../etc/passwd'",
			model.ExpectSecurityBlock, model.SeverityCritical, model.EdgeCatSecurity)

	case model.ParamNumber:
		add(model.EdgeZeroValue, "zero", "0",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeNegativeNumber, "negative value", "-1",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
		add(model.EdgeMaxSafeInteger, "largest safe integer", "Number.MAX_SAFE_INTEGER",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
		add(model.EdgeMinSafeInteger, "smallest safe integer", "Number.MIN_SAFE_INTEGER",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
		add(model.EdgeFloatPrecision, "floating point precision drift", "0.1 + 0.2",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeNaNValue, "not-a-number", "NaN",
			model.ExpectError, model.SeverityHigh, model.EdgeCatInput)
		add(model.EdgeInfinityValue, "infinite value", "Infinity",
			model.ExpectError, model.SeverityHigh, model.EdgeCatInput)

	case model.ParamBoolean:
		add(model.EdgeTruthyCoercion, "truthy non-boolean value", "'true'",
			model.ExpectError, model.SeverityLow, model.EdgeCatInput)

	case model.ParamObject:
		add(model.EdgeEmptyObject, "empty object", "{}",
			model.ExpectError, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeMissingProperties, "object missing expected properties", "{ partial: true }",
			model.ExpectError, model.SeverityMedium, model.EdgeCatInput)
		add(model.EdgeExtraProperties, "object with unexpected extra properties", "{ id: 1, extra: 'field' }",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeCircularReference, "self-referencing object", "(() => { const o = {}; o.self = o; return o; })()",
			model.ExpectError, model.SeverityHigh, model.EdgeCatFormat)
		add(model.EdgeDeeplyNested, "deeply nested object", "{ a: { b: { c: { d: { e: {} } } } } }",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatPerformance)
	}

	if isDateLike(p) {
		add(model.EdgeInvalidDate, "unparseable date", "new Date('invalid')",
			model.ExpectError, model.SeverityMedium, model.EdgeCatFormat)
		add(model.EdgeEpochDate, "epoch date", "new Date(0)",
			model.ExpectGraceful, model.SeverityLow, model.EdgeCatInput)
		add(model.EdgeFarFutureDate, "maximum representable date", "new Date(8640000000000000)",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
	}

	if p.Kind == model.ParamNullable || p.Nullable() {
		add(model.EdgeNullValue, "explicit null", "null",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
		add(model.EdgeUndefinedValue, "undefined value", "undefined",
			model.ExpectGraceful, model.SeverityMedium, model.EdgeCatInput)
	}

	return cases
}

// contextCases adds cases driven by how the method executes rather
// than what it accepts.
func contextCases(sig model.MethodSig, body *parser.Body) []model.EdgeCase {
	cases := make([]model.EdgeCase, 0, 2)

	if sig.Async || body.Awaits > 0 {
		cases = append(cases, model.EdgeCase{
			Kind:             model.EdgeAsyncTimeout,
			Description:      "suspended operation never settles",
			Sample:           "new Promise(() => {})",
			ExpectedBehavior: model.ExpectTimeout,
			Severity:         model.SeverityHigh,
			Category:         model.EdgeCatConcurrency,
		})
	}
	if body.Loops > 0 && body.LoopMutation {
		cases = append(cases, model.EdgeCase{
			Kind:             model.EdgeConcurrentModification,
			Description:      "collection mutated while being iterated",
			Sample:           "sharedCollection",
			ExpectedBehavior: model.ExpectError,
			Severity:         model.SeverityHigh,
			Category:         model.EdgeCatConcurrency,
		})
	}

	return cases
}

// businessCases keys off the method name: creators risk duplicates,
// deleters risk cascades.
func businessCases(name string) []model.EdgeCase {
	lower := strings.ToLower(name)
	cases := make([]model.EdgeCase, 0, 1)

	if strings.HasPrefix(lower, "create") || strings.HasPrefix(lower, "add") {
		cases = append(cases, model.EdgeCase{
			Kind:             model.EdgeDuplicateCreation,
			Description:      "entity already exists",
			Sample:           "existingEntity",
			ExpectedBehavior: model.ExpectError,
			Severity:         model.SeverityMedium,
			Category:         model.EdgeCatBusiness,
		})
	}
	if strings.HasPrefix(lower, "delete") || strings.HasPrefix(lower, "remove") {
		cases = append(cases, model.EdgeCase{
			Kind:             model.EdgeCascadeDelete,
			Description:      "deletion cascades to dependent entities",
			Sample:           "entityWithDependents",
			ExpectedBehavior: model.ExpectGraceful,
			Severity:         model.SeverityHigh,
			Category:         model.EdgeCatBusiness,
		})
	}

	return cases
}

func isDateLike(p model.Param) bool {
	name := strings.ToLower(p.Name)
	typ := strings.ToLower(p.Type)
	return strings.Contains(name, "date") || strings.Contains(typ, "date") ||
		strings.Contains(name, "time") || strings.Contains(typ, "timestamp")
}
