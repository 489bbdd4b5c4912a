package edgecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/testlens-hq/testlens/pkg/model"
)

// Constraint inference scans raw body text for relational comparisons
// against a parameter. It is lexical and best-effort: results are
// optional bounds, absent whenever nothing matched.

// InferConstraints extracts bounds for one parameter from the method
// body text.
func InferConstraints(p model.Param, bodyText string) model.ParameterConstraints {
	c := model.ParameterConstraints{
		Nullable: p.Nullable(),
		Format:   inferFormat(p.Name),
	}

	name := regexp.QuoteMeta(p.Name)
	lengthRe := regexp.MustCompile(fmt.Sprintf(`\b%s\.length\s*(>=|<=|>|<|===|==)\s*(\d+)`, name))
	valueRe := regexp.MustCompile(fmt.Sprintf(`\b%s\s*(>=|<=|>|<)\s*(-?\d+)`, name))

	if m := lengthRe.FindStringSubmatch(bodyText); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			switch m[1] {
			case ">", ">=":
				c.MinLength = &n
			case "<", "<=":
				c.MaxLength = &n
			}
		}
	}
	if m := valueRe.FindStringSubmatch(bodyText); m != nil {
		if n, err := strconv.ParseFloat(m[2], 64); err == nil {
			switch m[1] {
			case ">", ">=":
				c.MinValue = &n
			case "<", "<=":
				c.MaxValue = &n
			}
		}
	}

	return c
}

// inferFormat guesses a well-known format from the parameter name.
func inferFormat(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "email"):
		return "email"
	case strings.Contains(lower, "url") || strings.Contains(lower, "uri"):
		return "url"
	case strings.Contains(lower, "date") || strings.Contains(lower, "time"):
		return "date"
	default:
		return ""
	}
}
