// Package proptest synthesizes property-based test cases: input
// generation strategies paired with law-style assertions.
package proptest

import (
	"fmt"
	"strings"

	"github.com/testlens-hq/testlens/pkg/model"
)

// Iteration budgets per strategy.
const (
	ExhaustiveMaxIterations = 100
	RandomIterations        = 1000
	BoundaryIterations      = 200
	MutationIterations      = 500

	// RandomSeed fixes the sampling strategies for reproducible runs.
	RandomSeed int64 = 42

	// exhaustiveMaxParams bounds the combinatorial strategy.
	exhaustiveMaxParams = 3
)

// valueLattice is the small fixed value set per kind used by the
// exhaustive strategy.
var valueLattice = map[model.ParamKind][]string{
	model.ParamNumber:   {"0", "1", "-1", "100"},
	model.ParamString:   {"''", "'a'", "'test'"},
	model.ParamBoolean:  {"true", "false"},
	model.ParamArray:    {"[]", "[1]", "[1, 2, 3]"},
	model.ParamObject:   {"{}", "{ id: 1 }"},
	model.ParamNullable: {"null", "undefined"},
}

// randomGenerators are generator expressions per kind for the sampled
// strategies.
var randomGenerators = map[model.ParamKind]string{
	model.ParamNumber:   "integer(-1000, 1000)",
	model.ParamString:   "string(0, 100)",
	model.ParamBoolean:  "boolean()",
	model.ParamArray:    "array(anything(), 0, 50)",
	model.ParamObject:   "record(anything())",
	model.ParamNullable: "constantFrom(null, undefined)",
}

// mutationBases are the valid seeds the mutation strategy corrupts.
var mutationBases = map[model.ParamKind]string{
	model.ParamNumber:   "1",
	model.ParamString:   "'valid'",
	model.ParamBoolean:  "true",
	model.ParamArray:    "[1, 2, 3]",
	model.ParamObject:   "{ id: 1 }",
	model.ParamNullable: "null",
}

// metamorphicLaws tie method-name keywords to algebraic laws.
var metamorphicLaws = []struct {
	law      string
	keywords []string
	text     string
}{
	{"idempotence", []string{"get", "find", "search", "validate", "check"},
		"applying %s twice yields the same result as applying it once"},
	{"commutativity", []string{"add", "merge", "combine", "union"},
		"%s(a, b) equals %s(b, a)"},
	{"associativity", []string{"add", "concat", "merge", "union"},
		"grouping of repeated %s applications does not change the result"},
	{"order-invariance", []string{"sort", "aggregate", "count", "sum"},
		"input ordering does not affect the result of %s"},
}

// Generate produces the property-test cases for one method: an
// exhaustive-combination case when the parameter count allows it, a
// seeded random case, a boundary-driven case, a mutation case, and any
// metamorphic law cases the method name qualifies for.
func Generate(sig model.MethodSig, boundaries []model.BoundaryAnalysis) []model.PropertyTestCase {
	cases := make([]model.PropertyTestCase, 0, 5)

	if len(sig.Params) <= exhaustiveMaxParams {
		cases = append(cases, exhaustiveCase(sig))
	}
	cases = append(cases, randomCase(sig))
	cases = append(cases, boundaryCase(sig, boundaries))
	cases = append(cases, mutationCase(sig))
	cases = append(cases, metamorphicCases(sig)...)

	return cases
}

func exhaustiveCase(sig model.MethodSig) model.PropertyTestCase {
	inputs := make([]model.InputGenerator, 0, len(sig.Params))
	iterations := 1
	for _, p := range sig.Params {
		lattice := valueLattice[p.Kind]
		if lattice == nil {
			lattice = valueLattice[model.ParamObject]
		}
		inputs = append(inputs, model.InputGenerator{
			Param:   p.Name,
			Kind:    p.Kind,
			Lattice: lattice,
		})
		iterations *= len(lattice)
	}
	if iterations > ExhaustiveMaxIterations {
		iterations = ExhaustiveMaxIterations
	}

	return model.PropertyTestCase{
		Name:        sig.Name + " exhaustive combinations",
		Description: "every combination of lattice values per parameter",
		Strategy:    model.GenExhaustive,
		Inputs:      inputs,
		Assertions:  coreAssertions(sig),
		Iterations:  iterations,
	}
}

func randomCase(sig model.MethodSig) model.PropertyTestCase {
	seed := RandomSeed
	return model.PropertyTestCase{
		Name:        sig.Name + " random sampling",
		Description: "seeded random inputs across the full domain",
		Strategy:    model.GenRandom,
		Inputs:      generatorInputs(sig),
		Assertions:  coreAssertions(sig),
		Iterations:  RandomIterations,
		Seed:        &seed,
	}
}

func boundaryCase(sig model.MethodSig, boundaries []model.BoundaryAnalysis) model.PropertyTestCase {
	inputs := make([]model.InputGenerator, 0, len(sig.Params))
	for _, p := range sig.Params {
		lattice := make([]string, 0)
		for _, ba := range boundaries {
			if ba.Param != p.Name {
				continue
			}
			for _, v := range ba.Values {
				lattice = append(lattice, v.Value)
			}
		}
		inputs = append(inputs, model.InputGenerator{
			Param:   p.Name,
			Kind:    p.Kind,
			Lattice: lattice,
		})
	}

	return model.PropertyTestCase{
		Name:        sig.Name + " boundary probing",
		Description: "inputs drawn from the boundary-value catalog",
		Strategy:    model.GenBoundary,
		Inputs:      inputs,
		Assertions:  coreAssertions(sig),
		Iterations:  BoundaryIterations,
	}
}

func mutationCase(sig model.MethodSig) model.PropertyTestCase {
	inputs := make([]model.InputGenerator, 0, len(sig.Params))
	for _, p := range sig.Params {
		base := mutationBases[p.Kind]
		if base == "" {
			base = mutationBases[model.ParamObject]
		}
		inputs = append(inputs, model.InputGenerator{
			Param:     p.Name,
			Kind:      p.Kind,
			Generator: fmt.Sprintf("mutate(%s)", base),
		})
	}

	return model.PropertyTestCase{
		Name:        sig.Name + " input mutation",
		Description: "valid base values progressively corrupted",
		Strategy:    model.GenMutation,
		Inputs:      inputs,
		Assertions:  coreAssertions(sig),
		Iterations:  MutationIterations,
	}
}

func metamorphicCases(sig model.MethodSig) []model.PropertyTestCase {
	lower := strings.ToLower(sig.Name)
	cases := make([]model.PropertyTestCase, 0)

	for _, law := range metamorphicLaws {
		if !matchesLaw(lower, law.keywords) {
			continue
		}
		text := law.text
		if strings.Count(text, "%s") == 2 {
			text = fmt.Sprintf(text, sig.Name, sig.Name)
		} else {
			text = fmt.Sprintf(text, sig.Name)
		}

		seed := RandomSeed
		cases = append(cases, model.PropertyTestCase{
			Name:        fmt.Sprintf("%s %s law", sig.Name, law.law),
			Description: "metamorphic relation checked over generated inputs",
			Strategy:    model.GenRandom,
			Inputs:      generatorInputs(sig),
			Assertions: []model.PropertyAssertion{{
				Kind:     model.AssertMetamorphic,
				Text:     text,
				Priority: 2,
			}},
			Iterations: RandomIterations,
			Seed:       &seed,
		})
	}

	return cases
}

func matchesLaw(lowerName string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.HasPrefix(lowerName, kw) {
			return true
		}
	}
	return false
}

func generatorInputs(sig model.MethodSig) []model.InputGenerator {
	inputs := make([]model.InputGenerator, 0, len(sig.Params))
	for _, p := range sig.Params {
		gen := randomGenerators[p.Kind]
		if gen == "" {
			gen = randomGenerators[model.ParamObject]
		}
		inputs = append(inputs, model.InputGenerator{
			Param:     p.Name,
			Kind:      p.Kind,
			Generator: gen,
		})
	}
	return inputs
}

// coreAssertions are the invariant and postcondition properties every
// strategy checks: the call never crashes, the return type conforms,
// and lifecycle methods satisfy their CRUD postcondition.
func coreAssertions(sig model.MethodSig) []model.PropertyAssertion {
	assertions := []model.PropertyAssertion{{
		Kind:     model.AssertInvariant,
		Text:     "call completes without crashing the process",
		Priority: 1,
	}}

	if ret := strings.TrimSpace(sig.ReturnType); ret != "" && ret != "void" {
		assertions = append(assertions, model.PropertyAssertion{
			Kind:     model.AssertPostcondition,
			Text:     fmt.Sprintf("result conforms to declared return type %s", ret),
			Priority: 2,
		})
	}

	if post := crudPostcondition(sig.Name); post != "" {
		assertions = append(assertions, model.PropertyAssertion{
			Kind:     model.AssertPostcondition,
			Text:     post,
			Priority: 2,
		})
	}

	return assertions
}

func crudPostcondition(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(lower, "create") || strings.HasPrefix(lower, "add"):
		return "created entity is subsequently retrievable"
	case strings.HasPrefix(lower, "update") || strings.HasPrefix(lower, "edit"):
		return "entity reflects the updated fields afterwards"
	case strings.HasPrefix(lower, "delete") || strings.HasPrefix(lower, "remove"):
		return "entity is no longer retrievable afterwards"
	case strings.HasPrefix(lower, "get") || strings.HasPrefix(lower, "find"):
		return "lookup does not mutate observable state"
	default:
		return ""
	}
}
