package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/testlens-hq/testlens/pkg/model"
)

func TestClassifyParamType(t *testing.T) {
	tests := []struct {
		name       string
		typeText   string
		optional   bool
		hasDefault bool
		wantKind   model.ParamKind
		wantAmbig  bool
	}{
		{"array suffix", "string[]", false, false, model.ParamArray, false},
		{"array generic", "Array<number>", false, false, model.ParamArray, false},
		{"string", "string", false, false, model.ParamString, false},
		{"number", "number", false, false, model.ParamNumber, false},
		{"int alias", "Int32", false, false, model.ParamNumber, false},
		{"boolean", "boolean", false, false, model.ParamBoolean, false},
		{"custom object", "UserDto", false, false, model.ParamObject, false},
		{"null literal", "null", false, false, model.ParamNullable, false},
		{"undefined literal", "undefined", false, false, model.ParamNullable, false},
		{"union with null keeps concrete kind", "string | null", false, false, model.ParamString, false},
		{"union with undefined", "number | undefined", false, false, model.ParamNumber, false},
		{"mixed concrete union is ambiguous", "string | number", false, false, model.ParamObject, true},
		{"three-way union is ambiguous", "string | number | boolean", false, false, model.ParamObject, true},
		{"object arm absorbs union", "UserDto | null", false, false, model.ParamObject, false},
		{"untyped optional", "", true, false, model.ParamNullable, false},
		{"untyped with default", "", false, true, model.ParamNullable, false},
		{"untyped plain", "", false, false, model.ParamObject, false},
		{"concrete optional stays concrete", "string", true, false, model.ParamString, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ambiguous := ClassifyParamType(tt.typeText, tt.optional, tt.hasDefault)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantAmbig, ambiguous)
		})
	}
}
