package analyzer

import (
	"strings"

	"github.com/testlens-hq/testlens/pkg/model"
)

// classifyArm applies the ordered substring rules to a single union
// arm. The empty kind means no rule matched.
func classifyArm(arm string) model.ParamKind {
	t := strings.ToLower(strings.TrimSpace(arm))
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "[]") || strings.Contains(t, "array"):
		return model.ParamArray
	case strings.Contains(t, "string"):
		return model.ParamString
	case strings.Contains(t, "number") || strings.Contains(t, "int") ||
		strings.Contains(t, "float") || strings.Contains(t, "double"):
		return model.ParamNumber
	case strings.Contains(t, "bool"):
		return model.ParamBoolean
	case strings.Contains(t, "null") || strings.Contains(t, "undefined") ||
		strings.Contains(t, "void"):
		return model.ParamNullable
	default:
		return model.ParamObject
	}
}

// kindPrecedence orders concrete kinds for resolving unions that match
// more than one rule.
var kindPrecedence = []model.ParamKind{
	model.ParamArray,
	model.ParamString,
	model.ParamNumber,
	model.ParamBoolean,
}

// ClassifyParamType maps a lexical type expression to a parameter
// kind. Union types are split and each arm classified independently;
// a single concrete arm decides the kind, and null-ish arms only mark
// nullability. The classifier never fails: unions matching several
// concrete kinds report ambiguity and fall back to object, the least
// specific category, as does anything unrecognized.
func ClassifyParamType(typeText string, optional, hasDefault bool) (kind model.ParamKind, ambiguous bool) {
	matched := make(map[model.ParamKind]bool)
	nullish := optional || hasDefault

	for _, arm := range strings.Split(typeText, "|") {
		switch k := classifyArm(arm); k {
		case "":
		case model.ParamNullable:
			nullish = true
		case model.ParamObject:
			matched[model.ParamObject] = true
		default:
			matched[k] = true
		}
	}

	concrete := make([]model.ParamKind, 0, len(matched))
	for _, k := range kindPrecedence {
		if matched[k] {
			concrete = append(concrete, k)
		}
	}

	switch {
	case len(concrete) == 1:
		return concrete[0], false
	case len(concrete) > 1:
		return model.ParamObject, true
	case matched[model.ParamObject]:
		return model.ParamObject, false
	case nullish:
		return model.ParamNullable, false
	default:
		return model.ParamObject, false
	}
}
