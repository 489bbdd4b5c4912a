package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/pkg/model"
)

func TestThrowPaths_Classification(t *testing.T) {
	tests := []struct {
		name            string
		throw           parser.ThrowSite
		wantCondition   string
		wantCategory    model.ErrorCategory
		wantSeverity    model.Severity
		wantRecoverable bool
	}{
		{
			name:            "required message",
			throw:           parser.ThrowSite{ErrorType: "Error", Message: "Email is required", GuardCondition: "!email", NestedLevel: 1},
			wantCondition:   "missing required parameter",
			wantCategory:    model.CategoryValidation,
			wantSeverity:    model.SeverityLow,
			wantRecoverable: true,
		},
		{
			name:            "unauthorized message",
			throw:           parser.ThrowSite{ErrorType: "Error", Message: "Unauthorized access"},
			wantCondition:   "unauthorized access",
			wantCategory:    model.CategorySecurity,
			wantSeverity:    model.SeverityCritical,
			wantRecoverable: false,
		},
		{
			name:            "not found message",
			throw:           parser.ThrowSite{ErrorType: "NotFoundError", Message: "User not found"},
			wantCondition:   "entity not found",
			wantCategory:    model.CategoryBusinessLogic,
			wantSeverity:    model.SeverityMedium,
			wantRecoverable: true,
		},
		{
			name:            "database error type",
			throw:           parser.ThrowSite{ErrorType: "DatabaseError", Message: "connection lost", GuardCondition: "retries > 3"},
			wantCondition:   "retries > 3",
			wantCategory:    model.CategorySystem,
			wantSeverity:    model.SeverityHigh,
			wantRecoverable: true,
		},
		{
			name:            "fatal type is unrecoverable",
			throw:           parser.ThrowSite{ErrorType: "FatalError", Message: "internal crash"},
			wantCondition:   "error condition 1",
			wantCategory:    model.CategorySystem,
			wantSeverity:    model.SeverityMedium,
			wantRecoverable: false,
		},
		{
			name:            "validation precedes security",
			throw:           parser.ThrowSite{ErrorType: "Error", Message: "Invalid token"},
			wantCondition:   "invalid input provided",
			wantCategory:    model.CategoryValidation,
			wantSeverity:    model.SeverityLow,
			wantRecoverable: true,
		},
		{
			name:            "no keyword falls back to business logic",
			throw:           parser.ThrowSite{ErrorType: "Error", Message: "boom"},
			wantCondition:   "error condition 1",
			wantCategory:    model.CategoryBusinessLogic,
			wantSeverity:    model.SeverityMedium,
			wantRecoverable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &parser.Method{Name: "m", Body: parser.Body{Throws: []parser.ThrowSite{tt.throw}}}
			paths := throwPaths(m)
			require.Len(t, paths, 1)
			p := paths[0]
			assert.Equal(t, tt.wantCondition, p.Condition)
			assert.Equal(t, tt.wantCategory, p.Category)
			assert.Equal(t, tt.wantSeverity, p.Severity)
			assert.Equal(t, tt.wantRecoverable, p.Recoverable)
			assert.True(t, p.Expected)
			assert.Equal(t, tt.throw.ErrorType, p.ErrorType)
			assert.Equal(t, tt.throw.NestedLevel, p.NestedLevel)
		})
	}
}

func TestThrowPaths_IndexedFallbackIsUnique(t *testing.T) {
	m := &parser.Method{Name: "m", Body: parser.Body{Throws: []parser.ThrowSite{
		{ErrorType: "Error", Message: "boom"},
		{ErrorType: "Error", Message: "bang"},
	}}}
	paths := throwPaths(m)
	require.Len(t, paths, 2)
	assert.Equal(t, "error condition 1", paths[0].Condition)
	assert.Equal(t, "error condition 2", paths[1].Condition)
}

func TestGuardPaths(t *testing.T) {
	tests := []struct {
		name     string
		guard    parser.GuardClause
		wantType string
		wantPath bool
	}{
		{"null comparison", parser.GuardClause{Condition: "user === null"}, "NullReferenceError", true},
		{"undefined comparison", parser.GuardClause{Condition: "value === undefined"}, "NullReferenceError", true},
		{"falsy check", parser.GuardClause{Condition: "!input"}, "NullReferenceError", true},
		{"length check", parser.GuardClause{Condition: "items.length === 0", NestedLevel: 2}, "ValidationError", true},
		{"validation call", parser.GuardClause{Condition: "isValid(email) === false"}, "ValidationError", true},
		{"errish keyword", parser.GuardClause{Condition: "hasError(response)"}, "ValidationError", true},
		{"plain numeric comparison", parser.GuardClause{Condition: "count > 5"}, "", false},
		{"throwing guard already covered", parser.GuardClause{Condition: "!email", Throws: true}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &parser.Method{Name: "m", Body: parser.Body{Guards: []parser.GuardClause{tt.guard}}}
			paths := guardPaths(m)
			if !tt.wantPath {
				assert.Empty(t, paths)
				return
			}
			require.Len(t, paths, 1)
			p := paths[0]
			assert.Equal(t, tt.wantType, p.ErrorType)
			assert.Equal(t, tt.guard.Condition, p.Condition)
			assert.Equal(t, tt.guard.NestedLevel, p.NestedLevel)
			assert.True(t, p.Expected)
		})
	}
}

func TestGuardPaths_DefaultCategoryIsValidation(t *testing.T) {
	m := &parser.Method{Name: "m", Body: parser.Body{Guards: []parser.GuardClause{
		{Condition: "user === null"},
	}}}
	paths := guardPaths(m)
	require.Len(t, paths, 1)
	assert.Equal(t, model.CategoryValidation, paths[0].Category)
	assert.Equal(t, model.SeverityLow, paths[0].Severity)
	assert.True(t, paths[0].Recoverable)
}

func TestTryCatchPaths(t *testing.T) {
	m := &parser.Method{Name: "m", Body: parser.Body{Tries: []parser.TryBlock{
		{HasCatch: true, NestedLevel: 0},
		{HasCatch: true, HasFinally: true, NestedLevel: 2},
		{HasCatch: false, NestedLevel: 0},
	}}}

	paths := tryCatchPaths(m)
	require.Len(t, paths, 2)

	assert.Equal(t, "try-catch block", paths[0].Condition)
	assert.Equal(t, model.CategorySystem, paths[0].Category)
	assert.Equal(t, model.SeverityMedium, paths[0].Severity)
	assert.False(t, paths[0].Recoverable)
	assert.False(t, paths[0].Expected)

	assert.Equal(t, model.SeverityHigh, paths[1].Severity)
	assert.True(t, paths[1].Recoverable)
}

func TestRejectionPaths(t *testing.T) {
	tests := []struct {
		name    string
		method  parser.Method
		wantOne bool
	}{
		{"async with reject", parser.Method{Async: true, Body: parser.Body{RejectCalls: 1}}, true},
		{"awaiting with reject", parser.Method{Body: parser.Body{Awaits: 2, RejectCalls: 1}}, true},
		{"async without reject", parser.Method{Async: true}, false},
		{"sync with reject", parser.Method{Body: parser.Body{RejectCalls: 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := rejectionPaths(&tt.method)
			if !tt.wantOne {
				assert.Empty(t, paths)
				return
			}
			require.Len(t, paths, 1)
			p := paths[0]
			assert.Equal(t, "promise rejection", p.Condition)
			assert.Equal(t, "Error", p.ErrorType)
			assert.Equal(t, model.CategorySystem, p.Category)
			assert.Equal(t, model.SeverityMedium, p.Severity)
			assert.True(t, p.Recoverable)
			assert.True(t, p.Expected)
		})
	}
}

func TestCollectErrorPaths_PassOrder(t *testing.T) {
	m := &parser.Method{
		Name:  "processPayment",
		Async: true,
		Body: parser.Body{
			Throws: []parser.ThrowSite{{ErrorType: "Error", Message: "Amount is required"}},
			Guards: []parser.GuardClause{{Condition: "account === null"}},
			Tries:  []parser.TryBlock{{HasCatch: true}},
			Awaits: 1, RejectCalls: 1,
		},
	}

	paths := collectErrorPaths(m)
	require.Len(t, paths, 4)
	assert.Equal(t, "missing required parameter", paths[0].Condition)
	assert.Equal(t, "account === null", paths[1].Condition)
	assert.Equal(t, "try-catch block", paths[2].Condition)
	assert.Equal(t, "promise rejection", paths[3].Condition)
}

func TestErrorPaths_SecurityInvariant(t *testing.T) {
	methods := []*parser.Method{
		{Name: "a", Body: parser.Body{Throws: []parser.ThrowSite{
			{ErrorType: "Error", Message: "Unauthorized access"},
			{ErrorType: "AuthError", Message: "token expired"},
			{ErrorType: "Error", Message: "permission denied"},
		}}},
		{Name: "b", Body: parser.Body{Guards: []parser.GuardClause{
			{Condition: "token === null"},
		}}},
	}

	for _, m := range methods {
		for _, p := range collectErrorPaths(m) {
			if p.Category == model.CategorySecurity {
				assert.Equal(t, model.SeverityCritical, p.Severity)
				assert.False(t, p.Recoverable)
			}
		}
	}
}
