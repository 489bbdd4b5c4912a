// Package engine composes the parser, analyzer, and session tracker
// into the operations transports expose: analyze a class, open a
// planning session, advance it, and record completed methods.
package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/testlens-hq/testlens/internal/analyzer"
	"github.com/testlens-hq/testlens/internal/events"
	"github.com/testlens-hq/testlens/internal/parser"
	"github.com/testlens-hq/testlens/internal/session"
	"github.com/testlens-hq/testlens/pkg/model"
)

// Engine wires the analysis pipeline to the session tracker.
type Engine struct {
	parser   *parser.Parser
	analyzer *analyzer.Analyzer
	store    *session.Store
	events   events.Publisher
	log      zerolog.Logger
}

// New assembles an engine around a session store and event publisher.
func New(store *session.Store, publisher events.Publisher, log zerolog.Logger) *Engine {
	store.OnExpire(func(sessionID string) {
		publisher.Emit(context.Background(), events.SubjectSessionExpired, events.Event{
			Type:      "session.expired",
			SessionID: sessionID,
		})
	})

	return &Engine{
		parser:   parser.NewParser(),
		analyzer: analyzer.New(log),
		store:    store,
		events:   publisher,
		log:      log,
	}
}

// AnalyzeRequest selects the source and class to analyze. When Source
// is set it is parsed directly, otherwise FilePath is read from disk.
type AnalyzeRequest struct {
	FilePath    string
	Source      string
	ClassName   string
	FocusMethod string
}

// SessionRequest opens a planning session over one class.
type SessionRequest struct {
	FilePath   string
	Source     string
	ClassName  string
	TestType   string
	OutputPath string
}

// AnalyzeClass runs the full analysis pipeline for one class.
func (e *Engine) AnalyzeClass(ctx context.Context, req AnalyzeRequest) (*model.AnalysisBundle, error) {
	file, err := e.parseInput(ctx, req)
	if err != nil {
		return nil, err
	}

	bundle, err := e.analyzer.AnalyzeFile(file, req.ClassName, req.FocusMethod)
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("class", bundle.Class.Name).
		Int("methods", len(bundle.Methods)).
		Int("dependencies", len(bundle.Dependencies)).
		Msg("class analyzed")

	e.events.Emit(ctx, events.SubjectAnalysisCompleted, events.Event{
		Type:      "analysis.completed",
		ClassName: bundle.Class.Name,
		FilePath:  bundle.Class.FilePath,
	})

	return bundle, nil
}

// CreateSession analyzes the class and opens a tracked session with
// its phased plan.
func (e *Engine) CreateSession(ctx context.Context, req SessionRequest) (*model.Session, *model.Plan, error) {
	bundle, err := e.AnalyzeClass(ctx, AnalyzeRequest{
		FilePath:  req.FilePath,
		Source:    req.Source,
		ClassName: req.ClassName,
	})
	if err != nil {
		return nil, nil, err
	}

	flows := make([]model.MethodFlow, 0, len(bundle.Methods))
	for _, m := range bundle.Methods {
		flows = append(flows, m.Flow)
	}
	statuses := session.StatusesFromFlows(flows)

	testType := req.TestType
	if testType == "" {
		testType = "unit"
	}

	sess, plan := e.store.Create(bundle.Class.FilePath, bundle.Class.Name, testType, req.OutputPath, statuses)

	e.events.Emit(ctx, events.SubjectSessionCreated, events.Event{
		Type:      "session.created",
		SessionID: sess.ID,
		ClassName: sess.ClassName,
		FilePath:  sess.FilePath,
	})

	return sess, plan, nil
}

// AdvanceSession picks the next method to generate tests for, or
// reports the session done.
func (e *Engine) AdvanceSession(ctx context.Context, sessionID string) (*model.NextMethod, error) {
	next, err := e.store.Next(sessionID)
	if err != nil {
		return nil, err
	}

	if !next.Done {
		e.events.Emit(ctx, events.SubjectSessionAdvanced, events.Event{
			Type:      "session.advanced",
			SessionID: sessionID,
			Method:    next.Method.Method,
		})
	}

	return next, nil
}

// CompleteMethod records a generated test artifact for a method and
// returns the updated progress.
func (e *Engine) CompleteMethod(ctx context.Context, sessionID, method, artifactPath string) (*model.Progress, error) {
	progress, err := e.store.Complete(sessionID, method, artifactPath)
	if err != nil {
		return nil, err
	}

	e.events.Emit(ctx, events.SubjectMethodCompleted, events.Event{
		Type:      "session.method_completed",
		SessionID: sessionID,
		Method:    method,
	})

	return progress, nil
}

// Session returns a tracked session.
func (e *Engine) Session(sessionID string) (*model.Session, error) {
	return e.store.Get(sessionID)
}

// Plan returns the plan derived for a session.
func (e *Engine) Plan(sessionID string) (*model.Plan, error) {
	return e.store.GetPlan(sessionID)
}

// Progress reports how far a session has advanced.
func (e *Engine) Progress(sessionID string) (*model.Progress, error) {
	return e.store.Progress(sessionID)
}

// DeleteSession discards a session and its plan.
func (e *Engine) DeleteSession(sessionID string) {
	e.store.Delete(sessionID)
}

func (e *Engine) parseInput(ctx context.Context, req AnalyzeRequest) (*parser.ParsedFile, error) {
	if req.Source != "" {
		return e.parser.ParseSource(ctx, req.FilePath, req.Source, parser.DetectLanguage(req.FilePath))
	}
	return e.parser.ParseFile(ctx, req.FilePath)
}
