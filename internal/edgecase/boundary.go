package edgecase

import (
	"fmt"

	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/pkg/model"
)

// JavaScript safe-integer extremes, always probed for numeric
// parameters regardless of inferred constraints.
const (
	maxSafeIntegerExpr = "Number.MAX_SAFE_INTEGER"
	minSafeIntegerExpr = "Number.MIN_SAFE_INTEGER"
)

// Boundaries derives the boundary-value study for every parameter of a
// method, folding in constraints inferred from the body text.
func Boundaries(sig model.MethodSig, body *parser.Body) []model.BoundaryAnalysis {
	analyses := make([]model.BoundaryAnalysis, 0, len(sig.Params))

	for _, p := range sig.Params {
		constraints := InferConstraints(p, body.Text)
		ba := model.BoundaryAnalysis{
			Param:       p.Name,
			ParamType:   p.Kind,
			Values:      boundaryValues(p, constraints),
			Constraints: constraints,
		}
		ba.Recommendations = recommendations(p, ba.Values)
		analyses = append(analyses, ba)
	}

	return analyses
}

func boundaryValues(p model.Param, c model.ParameterConstraints) []model.BoundaryValue {
	values := make([]model.BoundaryValue, 0, 8)
	add := func(cat model.BoundaryCategory, value string, risk model.Severity, behavior model.ExpectedBehavior) {
		values = append(values, model.BoundaryValue{
			Type:             p.Kind,
			Category:         cat,
			Value:            value,
			RiskLevel:        risk,
			ExpectedBehavior: behavior,
		})
	}

	switch p.Kind {
	case model.ParamNumber:
		add(model.BoundaryZero, "0", model.SeverityLow, model.ExpectGraceful)
		add(model.BoundaryPositive, "1", model.SeverityLow, model.ExpectGraceful)
		add(model.BoundaryNegative, "-1", model.SeverityMedium, model.ExpectGraceful)
		add(model.BoundaryOverflow, maxSafeIntegerExpr, model.SeverityCritical, model.ExpectGraceful)
		add(model.BoundaryOverflow, minSafeIntegerExpr, model.SeverityCritical, model.ExpectGraceful)

		if c.MinValue != nil {
			add(model.BoundaryMinimum, formatNumber(*c.MinValue), model.SeverityMedium, model.ExpectGraceful)
			add(model.BoundaryJustBelowMin, formatNumber(*c.MinValue-1), model.SeverityHigh, model.ExpectError)
		}
		if c.MaxValue != nil {
			add(model.BoundaryMaximum, formatNumber(*c.MaxValue), model.SeverityMedium, model.ExpectGraceful)
			add(model.BoundaryJustAboveMax, formatNumber(*c.MaxValue+1), model.SeverityHigh, model.ExpectError)
		}

	case model.ParamString:
		add(model.BoundaryEmpty, "''", model.SeverityMedium, model.ExpectError)
		add(model.BoundaryMinimum, "'a'", model.SeverityLow, model.ExpectGraceful)
		add(model.BoundaryOverflow, "'x'.repeat(10000)", model.SeverityHigh, model.ExpectError)

		if c.MinLength != nil {
			add(model.BoundaryMinimum, fmt.Sprintf("'a'.repeat(%d)", *c.MinLength), model.SeverityMedium, model.ExpectGraceful)
			if *c.MinLength > 0 {
				add(model.BoundaryJustBelowMin, fmt.Sprintf("'a'.repeat(%d)", *c.MinLength-1), model.SeverityHigh, model.ExpectError)
			}
		}
		if c.MaxLength != nil {
			add(model.BoundaryMaximum, fmt.Sprintf("'a'.repeat(%d)", *c.MaxLength), model.SeverityMedium, model.ExpectGraceful)
			add(model.BoundaryJustAboveMax, fmt.Sprintf("'a'.repeat(%d)", *c.MaxLength+1), model.SeverityHigh, model.ExpectError)
		}

	case model.ParamArray:
		add(model.BoundaryEmpty, "[]", model.SeverityMedium, model.ExpectEmptyResult)
		add(model.BoundaryMinimum, "[1]", model.SeverityLow, model.ExpectGraceful)
		add(model.BoundaryOverflow, "Array.from({ length: 100000 })", model.SeverityHigh, model.ExpectGraceful)

	case model.ParamBoolean:
		add(model.BoundaryMinimum, "false", model.SeverityLow, model.ExpectGraceful)
		add(model.BoundaryMaximum, "true", model.SeverityLow, model.ExpectGraceful)

	case model.ParamNullable:
		add(model.BoundaryEmpty, "null", model.SeverityMedium, model.ExpectGraceful)
		add(model.BoundaryEmpty, "undefined", model.SeverityMedium, model.ExpectGraceful)

	default:
		add(model.BoundaryEmpty, "{}", model.SeverityLow, model.ExpectGraceful)
	}

	return values
}

// recommendations are emitted only when critical-risk boundaries are
// present.
func recommendations(p model.Param, values []model.BoundaryValue) []string {
	hasCritical := false
	for _, v := range values {
		if v.RiskLevel == model.SeverityCritical {
			hasCritical = true
			break
		}
	}
	if !hasCritical {
		return nil
	}

	return []string{
		fmt.Sprintf("validate %s against safe integer limits before use", p.Name),
		fmt.Sprintf("add an explicit range check for %s", p.Name),
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
