// Package ast defines the parse tree the dispatcher executes: command
// lists joined by && / ||, pipelines of simple/compound commands,
// redirections, and the value expressions (arguments, quoted strings,
// variable references, list literals) that evaluate to word lists.
//
// Grounded on the teacher's ast.go/value.go, generalized with assignment,
// fn/for nodes, and indexed variable references needed by this shell's
// grammar.
package ast

// Program is a whole parsed script: a sequence of top-level statements.
type Program []Stmt

// Stmt is anything that can appear at top level or inside a block.
type Stmt interface{ isStmt() }

// Assign is a `name=value` or `name=(list...)` statement. Local assigns
// inside a block are distinguished by the parser wrapping the block body
// in a Compound whose assigns are popped on scope exit by internal/eval
// (see internal/table's stacking contract).
type Assign struct {
	Name   string
	Values []Value // zero values means `name=()`; one means a scalar form
}

// FuncDef defines a function: `fn name { body }`.
type FuncDef struct {
	Name string
	Body []Stmt
}

// Break exits the innermost enclosing for/while loop.
type Break struct{}

// Continue skips to the next iteration of the innermost enclosing
// for/while loop.
type Continue struct{}

func (Assign) isStmt()      {}
func (FuncDef) isStmt()     {}
func (CommandList) isStmt() {}
func (Break) isStmt()       {}
func (Continue) isStmt()    {}

// BinaryOp joins two command lists.
type BinaryOp int

const (
	LAnd BinaryOp = iota
	LOr
)

// CommandList is left-associative: ((a && b) || c).
type CommandList struct {
	Lhs *CommandList
	Op  BinaryOp
	Rhs Pipeline
}

// Pipeline is one or more commands connected by '|'. Background execution
// (trailing '&') is flagged here rather than modeled as its own node.
type Pipeline struct {
	Cmds       []Command
	Background bool
}

// Command is one element of a pipeline.
type Command interface {
	isCommand()
	Redirs() []Redirect
	SetRedirs([]Redirect)
}

// Simple is a plain argument-list command.
type Simple struct {
	Args   []Value
	redirs []Redirect
}

// Compound is a `{ ... }` block of statements.
type Compound struct {
	Body   []Stmt
	redirs []Redirect
}

// If is `if (cond) { body } else { else_ }`; Else may be nil.
type If struct {
	Cond   CommandList
	Body   []Stmt
	Else   []Stmt
	redirs []Redirect
}

// While is `while (cond) { body }`.
type While struct {
	Cond   CommandList
	Body   []Stmt
	redirs []Redirect
}

// For is `for (name in list) { body }`.
type For struct {
	Name   string
	List   []Value
	Body   []Stmt
	redirs []Redirect
}

func (*Simple) isCommand()   {}
func (*Compound) isCommand() {}
func (*If) isCommand()       {}
func (*While) isCommand()    {}
func (*For) isCommand()      {}

func (c *Simple) Redirs() []Redirect      { return c.redirs }
func (c *Simple) SetRedirs(r []Redirect)  { c.redirs = r }
func (c *Compound) Redirs() []Redirect     { return c.redirs }
func (c *Compound) SetRedirs(r []Redirect) { c.redirs = r }
func (c *If) Redirs() []Redirect           { return c.redirs }
func (c *If) SetRedirs(r []Redirect)       { c.redirs = r }
func (c *While) Redirs() []Redirect        { return c.redirs }
func (c *While) SetRedirs(r []Redirect)    { c.redirs = r }
func (c *For) Redirs() []Redirect          { return c.redirs }
func (c *For) SetRedirs(r []Redirect)      { c.redirs = r }

// RedirType is the kind of redirection queued by the parser and applied in
// order by the dispatcher (spec.md glossary: "redirection queue").
type RedirType int

const (
	RedirRead   RedirType = iota // '<'
	RedirWrite                   // '>' (fails if the file exists, unless -o is off)
	RedirClob                    // '>!'
	RedirAppend                  // '>>'
)

type Redirect struct {
	Type RedirType
	File Value
}

// Value is anything that evaluates to a list of words.
type Value interface{ isValue() }

// Argument is an unquoted word, subject to tilde expansion and (by the
// external glob layer) pattern expansion.
type Argument string

// String is a quoted word: no glob expansion, but variable references
// inside a double-quoted string still interpolate.
type String string

// Concat glues two adjacent values with no separating whitespace,
// cross-producing their word lists (rc's `a^b` / `a$x` adjacency rule).
type Concat struct{ Lhs, Rhs Value }

// ListLit is a parenthesized list literal: `(a b c)`.
type ListLit []Value

// VarRefKind selects how a variable reference's word list is shaped.
type VarRefKind int

const (
	VarExpand VarRefKind = iota // '$name': one word per list element
	VarFlatten                  // '$^name' or quoted '$name': joined into one word
	VarLength                   // '$#name': the element count, as one word
)

// VarRef is a variable reference, optionally subscripted: `$name(idx...)`.
// Each index Value may itself expand to several words; a word of the form
// "A-B" is a range, matching spec.md's example `$x(5-6 1-2)`.
type VarRef struct {
	Name    string
	Kind    VarRefKind
	Indices []Value // nil: no subscript, whole list
}

func (Argument) isValue() {}
func (String) isValue()   {}
func (Concat) isValue()   {}
func (ListLit) isValue()  {}
func (VarRef) isValue()   {}
