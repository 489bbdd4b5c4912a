package parser

import (
	"fmt"
	"strings"
)

// Language represents a source language
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguageUnknown    Language = "unknown"
)

// Traversal ceilings. Bodies whose trees exceed these are surveyed
// partially and flagged truncated instead of aborting the parse.
const (
	MaxSourceBytes    = 2 << 20
	MaxNodesPerMethod = 50000
	MaxBodyDepth      = 200
)

// ParsedFile represents a parsed source file
type ParsedFile struct {
	Path     string
	Language Language
	Classes  []Class
}

// Class returns the class with the given name. An empty name selects
// the first class in the file. Unknown names produce a
// ClassNotFoundError listing what the file actually declares.
func (f *ParsedFile) Class(name string) (*Class, error) {
	if len(f.Classes) == 0 {
		return nil, &ClassNotFoundError{Name: name, Path: f.Path}
	}
	if name == "" {
		return &f.Classes[0], nil
	}
	for i := range f.Classes {
		if f.Classes[i].Name == name {
			return &f.Classes[i], nil
		}
	}
	available := make([]string, 0, len(f.Classes))
	for _, c := range f.Classes {
		available = append(available, c.Name)
	}
	return nil, &ClassNotFoundError{Name: name, Path: f.Path, Available: available}
}

// ClassNotFoundError reports a class lookup miss along with the
// classes the file does declare.
type ClassNotFoundError struct {
	Name      string
	Path      string
	Available []string
}

func (e *ClassNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no classes found in %s", e.Path)
	}
	return fmt.Sprintf("class %q not found in %s (available: %s)",
		e.Name, e.Path, strings.Join(e.Available, ", "))
}

// Class represents a parsed class declaration
type Class struct {
	Name         string
	StartLine    int
	EndLine      int
	Extends      string
	Methods      []Method
	Dependencies []ConstructorDep
}

// Method returns the method with the given name, or nil.
func (c *Class) Method(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// ConstructorDep is one constructor-injected dependency.
type ConstructorDep struct {
	Name string
	Type string
}

// Method represents a parsed class method
type Method struct {
	Name       string
	Params     []Param
	ReturnType string
	Async      bool
	Static     bool
	Visibility string
	StartLine  int
	EndLine    int
	Body       Body
}

// Param represents a declared method parameter
type Param struct {
	Name     string
	Type     string
	Default  string
	Optional bool
}

// Body is the structural survey of one method body: branch and loop
// counts, call sites, throw sites, guard clauses, and try blocks.
// Analyzers consume this instead of re-walking the syntax tree. Text
// keeps the raw body source for keyword and constraint scanning.
type Body struct {
	Text         string
	Conditionals int
	Ternaries    int
	Loops        int
	Switches     int
	Awaits       int
	RejectCalls  int
	Calls        []Call
	Throws       []ThrowSite
	Guards       []GuardClause
	Tries        []TryBlock
	LoopMutation bool
	Truncated    bool
}

// BranchScore is the raw branching score: one plus every conditional,
// loop, and switch in the body.
func (b *Body) BranchScore() int {
	return 1 + b.Conditionals + b.Ternaries + b.Loops + b.Switches
}

// SelfCalls returns the names of sibling methods invoked through the
// receiver, deduplicated in first-call order.
func (b *Body) SelfCalls() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, c := range b.Calls {
		if c.Root == "this" && c.Dep == "" && c.Member != "" && !seen[c.Member] {
			seen[c.Member] = true
			names = append(names, c.Member)
		}
	}
	return names
}

// Call is one call site inside a method body. For a chain like
// this.userRepo.save(user) the root is "this", the dependency is
// "userRepo", and the member is "save".
type Call struct {
	Chain       string
	Root        string
	Dep         string
	Member      string
	ArgCount    int
	Await       bool
	Conditional bool
	InTry       bool
	Line        int
}

// ThrowSite is one throw statement.
type ThrowSite struct {
	ErrorType      string
	Message        string
	GuardCondition string
	NestedLevel    int
	InTry          bool
	Line           int
}

// GuardClause is one if statement viewed as a potential guard: its
// condition text and whether its consequence throws or returns early.
type GuardClause struct {
	Condition   string
	NestedLevel int
	Throws      bool
	Returns     bool
	Line        int
}

// TryBlock is one try statement.
type TryBlock struct {
	NestedLevel int
	HasCatch    bool
	HasFinally  bool
	CatchParam  string
	Line        int
}
