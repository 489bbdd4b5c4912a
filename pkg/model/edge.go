package model

// EdgeCaseKind is the closed catalog of anomalous-input shapes the
// detector can emit. Kinds are grouped by the parameter category that
// produces them, plus a handful keyed off method context and naming.
type EdgeCaseKind string

const (
	// Array-typed parameters.
	EdgeEmptyArray     EdgeCaseKind = "empty-array"
	EdgeHugeArray      EdgeCaseKind = "huge-array"
	EdgeNullElement    EdgeCaseKind = "null-element-array"
	EdgeNestedArray    EdgeCaseKind = "nested-array"
	EdgeMixedTypeArray EdgeCaseKind = "mixed-type-array"

	// String-typed parameters.
	EdgeEmptyString      EdgeCaseKind = "empty-string"
	EdgeWhitespaceString EdgeCaseKind = "whitespace-string"
	EdgeVeryLongString   EdgeCaseKind = "very-long-string"
	EdgeUnicodeString    EdgeCaseKind = "unicode-string"
	EdgeSpecialChars     EdgeCaseKind = "special-chars-string"
	EdgeSQLInjection     EdgeCaseKind = "sql-injection"
	EdgeXSSPayload       EdgeCaseKind = "xss-payload"
	EdgePathTraversal    EdgeCaseKind = "path-traversal"

	// Number-typed parameters.
	EdgeZeroValue      EdgeCaseKind = "zero-value"
	EdgeNegativeNumber EdgeCaseKind = "negative-number"
	EdgeMaxSafeInteger EdgeCaseKind = "max-safe-integer"
	EdgeMinSafeInteger EdgeCaseKind = "min-safe-integer"
	EdgeFloatPrecision EdgeCaseKind = "float-precision"
	EdgeNaNValue       EdgeCaseKind = "nan-value"
	EdgeInfinityValue  EdgeCaseKind = "infinity-value"

	// Boolean-typed parameters.
	EdgeTruthyCoercion EdgeCaseKind = "truthy-coercion"

	// Object-typed parameters.
	EdgeEmptyObject       EdgeCaseKind = "empty-object"
	EdgeMissingProperties EdgeCaseKind = "missing-properties"
	EdgeExtraProperties   EdgeCaseKind = "extra-properties"
	EdgeCircularReference EdgeCaseKind = "circular-reference"
	EdgeDeeplyNested      EdgeCaseKind = "deeply-nested-object"

	// Date-like parameters.
	EdgeInvalidDate   EdgeCaseKind = "invalid-date"
	EdgeEpochDate     EdgeCaseKind = "epoch-date"
	EdgeFarFutureDate EdgeCaseKind = "far-future-date"

	// Nullable parameters.
	EdgeNullValue      EdgeCaseKind = "null-value"
	EdgeUndefinedValue EdgeCaseKind = "undefined-value"

	// Method context.
	EdgeAsyncTimeout           EdgeCaseKind = "async-timeout"
	EdgeConcurrentModification EdgeCaseKind = "concurrent-modification"

	// Method naming.
	EdgeDuplicateCreation EdgeCaseKind = "duplicate-creation"
	EdgeCascadeDelete     EdgeCaseKind = "cascade-delete"
)

// EdgeCategory groups edge cases by testing concern.
type EdgeCategory string

const (
	EdgeCatInput       EdgeCategory = "input"
	EdgeCatFormat      EdgeCategory = "format"
	EdgeCatSecurity    EdgeCategory = "security"
	EdgeCatPerformance EdgeCategory = "performance"
	EdgeCatBusiness    EdgeCategory = "business"
	EdgeCatConcurrency EdgeCategory = "concurrency"
)

// ExpectedBehavior is what a well-behaved implementation should do when
// handed the anomalous input.
type ExpectedBehavior string

const (
	ExpectError         ExpectedBehavior = "error"
	ExpectGraceful      ExpectedBehavior = "graceful"
	ExpectEmptyResult   ExpectedBehavior = "empty-result"
	ExpectTimeout       ExpectedBehavior = "timeout"
	ExpectSecurityBlock ExpectedBehavior = "security-block"
)

// EdgeCase is one anomalous input worth a dedicated test.
type EdgeCase struct {
	Kind             EdgeCaseKind     `json:"kind"`
	Param            string           `json:"param,omitempty"`
	ParamType        ParamKind        `json:"paramType,omitempty"`
	Description      string           `json:"description"`
	Sample           string           `json:"sample"`
	ExpectedBehavior ExpectedBehavior `json:"expectedBehavior"`
	Severity         Severity         `json:"severity"`
	Category         EdgeCategory     `json:"category"`
}

// BoundaryCategory names the position of a boundary probe relative to
// the valid domain of a parameter.
type BoundaryCategory string

const (
	BoundaryMinimum      BoundaryCategory = "minimum"
	BoundaryMaximum      BoundaryCategory = "maximum"
	BoundaryJustBelowMin BoundaryCategory = "just-below-min"
	BoundaryJustAboveMax BoundaryCategory = "just-above-max"
	BoundaryZero         BoundaryCategory = "zero"
	BoundaryNegative     BoundaryCategory = "negative"
	BoundaryPositive     BoundaryCategory = "positive"
	BoundaryEmpty        BoundaryCategory = "empty"
	BoundaryOverflow     BoundaryCategory = "overflow"
)

// BoundaryValue is one literal probe value at or around a domain edge.
type BoundaryValue struct {
	Type             ParamKind        `json:"type"`
	Category         BoundaryCategory `json:"category"`
	Value            string           `json:"value"`
	RiskLevel        Severity         `json:"riskLevel"`
	ExpectedBehavior ExpectedBehavior `json:"expectedBehavior"`
}

// ParameterConstraints captures domain limits inferred from the
// parameter's name, type, and surrounding validation code.
type ParameterConstraints struct {
	MinValue  *float64 `json:"minValue,omitempty"`
	MaxValue  *float64 `json:"maxValue,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Nullable  bool     `json:"nullable"`
	Format    string   `json:"format,omitempty"`
}

// BoundaryAnalysis is the full boundary study of one parameter.
type BoundaryAnalysis struct {
	Param           string               `json:"param"`
	ParamType       ParamKind            `json:"paramType"`
	Values          []BoundaryValue      `json:"values"`
	Constraints     ParameterConstraints `json:"constraints"`
	Recommendations []string             `json:"recommendations,omitempty"`
}
