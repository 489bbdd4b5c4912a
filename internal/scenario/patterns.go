package scenario

import (
	"strings"

	"github.com/testlens-hq/testlens/pkg/model"
)

var lifecyclePrefixes = []string{
	"create", "add", "insert",
	"get", "find", "fetch", "read",
	"update", "edit", "modify",
	"delete", "remove",
}

var transformPrefixes = []string{
	"transform", "convert", "map", "format", "parse", "serialize",
}

// workflowMinDependencies is the collaborator count above which a
// method is considered an orchestration step.
const workflowMinDependencies = 2

// DetectPatterns classifies the class's methods into business-logic
// patterns: CRUD when at least two methods carry lifecycle-verb names,
// validation when any method has a validation-typed error path,
// transformation for transform-verb names, and workflow for
// async-chain methods or heavy collaborator use.
func DetectPatterns(flows []model.MethodFlow) []model.BusinessPattern {
	patterns := make([]model.BusinessPattern, 0, 4)

	if crud := methodsMatching(flows, lifecyclePrefixes); len(crud) >= 2 {
		patterns = append(patterns, model.BusinessPattern{
			Pattern:  model.PatternCRUD,
			Methods:  crud,
			Strategy: "exercise the full lifecycle: create, read, update, delete in sequence",
		})
	}

	if validation := validationMethods(flows); len(validation) > 0 {
		patterns = append(patterns, model.BusinessPattern{
			Pattern:  model.PatternValidation,
			Methods:  validation,
			Strategy: "probe each validation rule with passing and failing inputs",
		})
	}

	if transformation := methodsMatching(flows, transformPrefixes); len(transformation) > 0 {
		patterns = append(patterns, model.BusinessPattern{
			Pattern:  model.PatternTransformation,
			Methods:  transformation,
			Strategy: "compare output shape and content against representative fixtures",
		})
	}

	if workflow := workflowMethods(flows); len(workflow) > 0 {
		patterns = append(patterns, model.BusinessPattern{
			Pattern:  model.PatternWorkflow,
			Methods:  workflow,
			Strategy: "drive the happy path end to end, then fail each step in isolation",
		})
	}

	return patterns
}

func methodsMatching(flows []model.MethodFlow, prefixes []string) []string {
	matched := make([]string, 0)
	for _, f := range flows {
		lower := strings.ToLower(f.Name)
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p) {
				matched = append(matched, f.Name)
				break
			}
		}
	}
	return matched
}

func validationMethods(flows []model.MethodFlow) []string {
	matched := make([]string, 0)
	for _, f := range flows {
		for _, p := range f.ErrorPaths {
			if strings.Contains(p.ErrorType, "Validation") {
				matched = append(matched, f.Name)
				break
			}
		}
	}
	return matched
}

func workflowMethods(flows []model.MethodFlow) []string {
	matched := make([]string, 0)
	for _, f := range flows {
		if f.FlowType == model.FlowAsyncChain || len(f.DependenciesUsed) > workflowMinDependencies {
			matched = append(matched, f.Name)
		}
	}
	return matched
}
