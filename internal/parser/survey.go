package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// mutatorMembers are collection-mutating calls that, inside a loop,
// mark the body as mutating while iterating.
var mutatorMembers = map[string]bool{
	"push":    true,
	"pop":     true,
	"shift":   true,
	"unshift": true,
	"splice":  true,
	"set":     true,
	"add":     true,
	"delete":  true,
	"remove":  true,
}

type surveyor struct {
	source []byte
	body   *Body
	nodes  int
}

// surveyCtx carries the structural context of the node being visited.
type surveyCtx struct {
	nesting     int
	inTry       bool
	conditional bool
	inLoop      bool
	await       bool
	guard       string
}

// surveyBody walks one method body and produces its structural survey.
// Traversal stops at MaxNodesPerMethod nodes or MaxBodyDepth levels,
// flagging the body as truncated.
func surveyBody(node *sitter.Node, source []byte) Body {
	s := &surveyor{
		source: source,
		body: &Body{
			Text:   node.Content(source),
			Calls:  make([]Call, 0),
			Throws: make([]ThrowSite, 0),
			Guards: make([]GuardClause, 0),
			Tries:  make([]TryBlock, 0),
		},
	}
	s.walk(node, surveyCtx{}, 0)
	return *s.body
}

func (s *surveyor) walk(n *sitter.Node, ctx surveyCtx, depth int) {
	if n == nil {
		return
	}
	if depth > MaxBodyDepth || s.nodes >= MaxNodesPerMethod {
		s.body.Truncated = true
		return
	}
	s.nodes++

	switch n.Type() {
	case "if_statement":
		s.walkIf(n, ctx, depth)
		return

	case "try_statement":
		s.walkTry(n, ctx, depth)
		return

	case "ternary_expression":
		s.body.Ternaries++
		ctx.nesting++
		ctx.conditional = true

	case "for_statement", "for_in_statement", "while_statement", "do_statement":
		s.body.Loops++
		ctx.nesting++
		ctx.inLoop = true

	case "switch_statement":
		s.body.Switches++
		ctx.nesting++
		ctx.conditional = true

	case "throw_statement":
		s.recordThrow(n, ctx)

	case "await_expression":
		s.body.Awaits++
		ctx.await = true

	case "call_expression":
		s.recordCall(n, ctx)
		ctx.await = false
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		s.walk(n.Child(i), ctx, depth+1)
	}
}

// walkIf counts the conditional, records it as a guard candidate, and
// walks the consequence with the condition text as the active guard.
func (s *surveyor) walkIf(n *sitter.Node, ctx surveyCtx, depth int) {
	s.body.Conditionals++

	cond := n.ChildByFieldName("condition")
	cons := n.ChildByFieldName("consequence")
	alt := n.ChildByFieldName("alternative")

	condText := conditionText(cond, s.source)
	throws, returns := guardOutcome(cons)
	s.body.Guards = append(s.body.Guards, GuardClause{
		Condition:   condText,
		NestedLevel: ctx.nesting,
		Throws:      throws,
		Returns:     returns,
		Line:        int(n.StartPoint().Row) + 1,
	})

	inner := ctx
	inner.nesting++
	inner.conditional = true

	if cond != nil {
		s.walk(cond, inner, depth+1)
	}
	if cons != nil {
		branch := inner
		branch.guard = condText
		s.walk(cons, branch, depth+1)
	}
	if alt != nil {
		s.walk(alt, inner, depth+1)
	}
}

// walkTry records the block and walks every subtree with the in-try
// flag set, so call sites anywhere inside the construct count as
// error-handled.
func (s *surveyor) walkTry(n *sitter.Node, ctx surveyCtx, depth int) {
	body := n.ChildByFieldName("body")
	handler := n.ChildByFieldName("handler")
	finalizer := n.ChildByFieldName("finalizer")

	tb := TryBlock{
		NestedLevel: ctx.nesting,
		HasCatch:    handler != nil,
		HasFinally:  finalizer != nil,
		Line:        int(n.StartPoint().Row) + 1,
	}
	if handler != nil {
		if param := handler.ChildByFieldName("parameter"); param != nil {
			tb.CatchParam = param.Content(s.source)
		}
	}
	s.body.Tries = append(s.body.Tries, tb)

	inner := ctx
	inner.nesting++
	inner.inTry = true

	if body != nil {
		s.walk(body, inner, depth+1)
	}
	if handler != nil {
		s.walk(handler, inner, depth+1)
	}
	if finalizer != nil {
		s.walk(finalizer, inner, depth+1)
	}
}

func (s *surveyor) recordThrow(n *sitter.Node, ctx surveyCtx) {
	t := ThrowSite{
		ErrorType:      "Error",
		GuardCondition: ctx.guard,
		NestedLevel:    ctx.nesting,
		InTry:          ctx.inTry,
		Line:           int(n.StartPoint().Row) + 1,
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "new_expression":
			if ctor := child.ChildByFieldName("constructor"); ctor != nil {
				t.ErrorType = ctor.Content(s.source)
			}
			if args := child.ChildByFieldName("arguments"); args != nil {
				t.Message = firstStringArg(args, s.source)
			}
		case "identifier":
			t.ErrorType = child.Content(s.source)
		}
	}

	s.body.Throws = append(s.body.Throws, t)
}

func (s *surveyor) recordCall(n *sitter.Node, ctx surveyCtx) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}

	call := Call{
		Chain:       fn.Content(s.source),
		Await:       ctx.await,
		Conditional: ctx.conditional,
		InTry:       ctx.inTry,
		Line:        int(n.StartPoint().Row) + 1,
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		call.ArgCount = int(args.NamedChildCount())
	}
	call.Root, call.Dep, call.Member = splitChain(call.Chain)

	if call.Member == "reject" || strings.Contains(call.Chain, "reject") {
		s.body.RejectCalls++
	}
	if ctx.inLoop && mutatorMembers[call.Member] {
		s.body.LoopMutation = true
	}

	s.body.Calls = append(s.body.Calls, call)
}

// splitChain decomposes a call chain like this.userRepo.save into its
// root receiver, dependency segment, and final member. Chains that are
// not plain dotted identifiers keep only what can be read off safely.
func splitChain(chain string) (root, dep, member string) {
	clean := strings.ReplaceAll(chain, "?.", ".")
	if strings.ContainsAny(clean, "()[]") {
		return "", "", ""
	}

	segs := strings.Split(clean, ".")
	root = segs[0]
	member = segs[len(segs)-1]
	if root == "this" {
		switch len(segs) {
		case 1:
			member = ""
		case 2:
			// this.helper() is a sibling-method call, not a dependency
		default:
			dep = segs[1]
		}
	}
	return root, dep, member
}

// guardOutcome reports whether a consequence block throws or returns
// at its top level.
func guardOutcome(cons *sitter.Node) (throws, returns bool) {
	if cons == nil {
		return false, false
	}
	if cons.Type() == "statement_block" {
		for i := 0; i < int(cons.NamedChildCount()); i++ {
			switch cons.NamedChild(i).Type() {
			case "throw_statement":
				throws = true
			case "return_statement":
				returns = true
			}
		}
		return throws, returns
	}
	switch cons.Type() {
	case "throw_statement":
		return true, false
	case "return_statement":
		return false, true
	}
	return false, false
}

func conditionText(cond *sitter.Node, source []byte) string {
	if cond == nil {
		return ""
	}
	text := cond.Content(source)
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	return strings.TrimSpace(text)
}

// firstStringArg returns the unquoted text of the first string literal
// in an argument list.
func firstStringArg(args *sitter.Node, source []byte) string {
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		switch child.Type() {
		case "string", "template_string":
			return strings.Trim(child.Content(source), "'\"`")
		}
	}
	return ""
}
