package model

// GenStrategy selects how property-test inputs are produced.
type GenStrategy string

const (
	GenExhaustive GenStrategy = "exhaustive"
	GenRandom     GenStrategy = "random"
	GenBoundary   GenStrategy = "boundary"
	GenMutation   GenStrategy = "mutation"
)

// AssertionKind classifies a property assertion.
type AssertionKind string

const (
	AssertInvariant     AssertionKind = "invariant"
	AssertPostcondition AssertionKind = "postcondition"
	AssertPrecondition  AssertionKind = "precondition"
	AssertMetamorphic   AssertionKind = "metamorphic"
)

// InputGenerator describes how to produce values for one parameter.
// Lattice carries the fixed value set used by the exhaustive strategy;
// Generator is a generator expression for the sampled strategies.
type InputGenerator struct {
	Param     string    `json:"param"`
	Kind      ParamKind `json:"kind"`
	Generator string    `json:"generator,omitempty"`
	Lattice   []string  `json:"lattice,omitempty"`
}

// PropertyAssertion is one universally quantified claim to check on
// every generated input.
type PropertyAssertion struct {
	Kind     AssertionKind `json:"kind"`
	Text     string        `json:"text"`
	Priority int           `json:"priority"`
}

// PropertyTestCase is a generated property-based test: an input
// strategy, the assertions to hold, and the iteration budget.
type PropertyTestCase struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Strategy    GenStrategy         `json:"strategy"`
	Inputs      []InputGenerator    `json:"inputs"`
	Assertions  []PropertyAssertion `json:"assertions"`
	Iterations  int                 `json:"iterations"`
	Seed        *int64              `json:"seed,omitempty"`
}

// PatternKind names a recognized business pattern across the methods
// of a class.
type PatternKind string

const (
	PatternCRUD           PatternKind = "crud"
	PatternValidation     PatternKind = "validation"
	PatternTransformation PatternKind = "transformation"
	PatternWorkflow       PatternKind = "workflow"
)

// BusinessPattern ties a recognized pattern to the methods exhibiting
// it and a suggested testing strategy.
type BusinessPattern struct {
	Pattern  PatternKind `json:"pattern"`
	Methods  []string    `json:"methods"`
	Strategy string      `json:"strategy"`
}
