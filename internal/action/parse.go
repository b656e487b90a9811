package action

import (
	"fmt"

	"github.com/rbright/parola/internal/parse"
)

// Ident is a bare identifier argument, kept distinct from a quoted
// string so constructors can tell Text(clipboard) from Text("clipboard").
type Ident string

// Arg is one argument of a parsed call. Name is empty for positional
// arguments.
type Arg struct {
	Name  string
	Value any
}

// Call is one parsed action invocation: a function name and its
// arguments.
type Call struct {
	Function string
	Args     []Arg
}

// Expr is one node of a parsed action expression: either a single call
// or a group of expressions executed in order. A group runs Count
// times; when Extra is set the count is drawn from that extra at
// execution time instead.
type Expr struct {
	Call  *Call
	Items []Expr
	Count int
	Extra string
}

// ParseExpr parses an action expression such as
//
//	Key("c-c") Pause(20) Text("%(line)s") * 'count'
//
// into its expression tree. Calls may be grouped with parentheses and
// repeated with `* n` or `* 'extra'`.
func ParseExpr(source string) (Expr, error) {
	node, err := exprParser.ParseNode(source)
	if err != nil {
		return Expr{}, fmt.Errorf("action: parse %q: %w", source, err)
	}
	return buildSeries(node.ChildByName("series")), nil
}

// identChars are the characters a function or argument name may use.
const identChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_."

// exprParser parses the action expression language. The element tree is
// immutable and shared by every parse.
var exprParser = newExprParser()

// forwardElement breaks the construction cycle between the expression
// alternatives and the groups that contain them.
type forwardElement struct {
	target parse.Element
}

func (f *forwardElement) Name() string { return "" }

func (f *forwardElement) Children() []parse.Element { return nil }

func (f *forwardElement) Parse(s *parse.State) parse.Decoder { return f.target.Parse(s) }

func (f *forwardElement) Value(n *parse.Node) any { return f.target.Value(n) }

func newExprParser() *parse.Parser {
	ws := parse.NewWhitespace(true)
	call := newCallElement(ws)

	unitAdd := &forwardElement{}
	unitMul := &forwardElement{}

	factor := parse.NewAlternative(parse.NewUnsignedInteger(), parse.NewQuotedString())
	factor.SetName("factor")
	mul := parse.NewSequence(unitMul, parse.NewRepetition(
		parse.NewSequence(ws, parse.NewString("*"), ws, factor), 1, 0))
	mul.SetName("mul")

	series := parse.NewSequence(unitAdd, parse.NewRepetition(
		parse.NewSequence(ws, unitAdd), 0, 0))
	series.SetName("series")

	group := parse.NewSequence(
		parse.NewString("("), ws, series, ws, parse.NewString(")"))
	group.SetName("group")

	unitAdd.target = parse.NewAlternative(call, group, mul)
	unitMul.target = parse.NewAlternative(call, group)

	return parse.NewParser(parse.NewSequence(ws, series, ws))
}

// newCallElement builds the element for a single call. The argument
// value alternative tries numbers before quoted strings before bare
// identifiers, so `2` parses as an int and `"2"` as a string.
func newCallElement(ws parse.Element) parse.Element {
	function := parse.NewCharacterSeries(identChars)
	function.SetName("function")

	argID := parse.NewCharacterSeries(identChars)
	argID.SetName("argid")
	ident := parse.NewCharacterSeries(identChars)
	ident.SetName("ident")
	value := parse.NewAlternative(
		parse.NewInteger(), parse.NewFloat(), parse.NewQuotedString(), ident)
	value.SetName("value")
	arg := parse.NewSequence(
		parse.NewOptional(parse.NewSequence(argID, ws, parse.NewString("="), ws)),
		value)
	arg.SetName("arg")

	args := parse.NewOptional(parse.NewSequence(arg, parse.NewRepetition(
		parse.NewSequence(ws, parse.NewString(","), ws, arg), 0, 0)))

	call := parse.NewSequence(
		function, ws, parse.NewString("("), ws, args, ws, parse.NewString(")"))
	call.SetName("call")
	return call
}

// exprUnitKinds are the node names that form the steps of a series.
var exprUnitKinds = map[string]bool{
	"call":  true,
	"group": true,
	"mul":   true,
}

// exprUnits collects a node's expression units in textual order,
// without descending into them.
func exprUnits(n *parse.Node) []*parse.Node {
	var out []*parse.Node
	for _, child := range n.Children {
		name := child.Actor.Name()
		if exprUnitKinds[name] {
			out = append(out, child)
			continue
		}
		if name != "" {
			continue
		}
		out = append(out, exprUnits(child)...)
	}
	return out
}

func buildExpr(n *parse.Node) Expr {
	switch n.Actor.Name() {
	case "group":
		return buildSeries(n.ChildByName("series"))
	case "mul":
		return buildMul(n)
	default:
		return Expr{Call: buildCall(n), Count: 1}
	}
}

func buildSeries(n *parse.Node) Expr {
	units := exprUnits(n)
	items := make([]Expr, 0, len(units))
	for _, unit := range units {
		items = append(items, buildExpr(unit))
	}
	return groupExpr(items, 1, "")
}

// buildMul folds the unit's repeat factors left to right, so
// `foo() * 2 * 3` nests the doubled group inside the tripled one.
func buildMul(n *parse.Node) Expr {
	expr := buildExpr(exprUnits(n)[0])
	for _, fn := range n.ChildrenByName("factor") {
		switch factor := fn.Value().(type) {
		case int:
			expr = groupExpr([]Expr{expr}, factor, "")
		case string:
			expr = groupExpr([]Expr{expr}, 1, factor)
		}
	}
	return expr
}

// groupExpr builds a group node the way nested parentheses read: a
// single unrepeated item stands for itself, and unrepeated subgroups
// are spliced into their parent.
func groupExpr(items []Expr, count int, extra string) Expr {
	if len(items) == 1 && count == 1 && extra == "" {
		return items[0]
	}
	flat := make([]Expr, 0, len(items))
	for _, item := range items {
		if item.Call == nil && item.Count == 1 && item.Extra == "" {
			flat = append(flat, item.Items...)
		} else {
			flat = append(flat, item)
		}
	}
	return Expr{Items: flat, Count: count, Extra: extra}
}

func buildCall(n *parse.Node) *Call {
	call := &Call{Function: n.ChildByName("function").Match()}
	for _, argNode := range n.ChildrenByName("arg") {
		arg := Arg{Value: argValue(argNode.ChildByName("value"))}
		if id := argNode.ChildByName("argid"); id != nil {
			arg.Name = id.Match()
		}
		call.Args = append(call.Args, arg)
	}
	return call
}

// argValue evaluates an argument value node, wrapping bare identifiers
// so they stay distinguishable from quoted strings.
func argValue(n *parse.Node) any {
	if id := n.ChildByName("ident"); id != nil {
		return Ident(id.Match())
	}
	return n.Value()
}
