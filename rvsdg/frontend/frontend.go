// Package frontend is a minimal, test/example-only harness that turns a
// handful of literal Go function declarations into an RVSDG graph, walking
// the source with go-tree-sitter exactly as analyzer.Analyzer and
// golang.TreeSitterInspector do in the teacher. It stands in for the
// out-of-scope surface front-end: just enough syntax to drive golden dump
// tests and cmd/rvsdgdump's example invocation, never a general compiler.
//
// Supported subset: top-level `func name(a, b int) int { ... }`
// declarations (every parameter and result is a 32-bit integer), with
// bodies built from return statements, short/assign statements, if/else
// (mapped to a gamma), C-style for loops (mapped to a theta), binary
// arithmetic (+, -, *, ==, &, |) and calls to an already-built sibling
// function. Comparisons other than == are not representable: the
// operation algebra defines no ordering comparison (§4.1), only equality.
package frontend

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/rvsdg-ir/core/nodes"
	"github.com/rvsdg-ir/core/op"
	"github.com/rvsdg-ir/core/rvsdg"
	"github.com/rvsdg-ir/core/types"
)

var bit32 = types.NewBitType(32)
var memT = types.NewMemoryStateType()

// Builder accumulates lambdas as it walks successive top-level function
// declarations, so later functions can call earlier ones by name.
type Builder struct {
	graph *rvsdg.Graph
	funcs map[string]*nodes.Lambda
}

// NewBuilder constructs a Builder over a fresh graph.
func NewBuilder() *Builder {
	return &Builder{graph: rvsdg.NewGraph(), funcs: map[string]*nodes.Lambda{}}
}

// Graph returns the graph built so far.
func (b *Builder) Graph() *rvsdg.Graph { return b.graph }

// Lookup returns a previously-built function's lambda by name, or nil.
func (b *Builder) Lookup(name string) *nodes.Lambda { return b.funcs[name] }

// BuildGraph parses src, a snippet containing one or more top-level Go
// function declarations, builds a lambda for each in source order, and
// returns the resulting graph (§4.4 Lambda). A function may call any
// sibling declared earlier in src; forward references are not supported.
func BuildGraph(src string) (*rvsdg.Graph, error) {
	b := NewBuilder()
	if err := b.Parse(src); err != nil {
		return nil, err
	}
	return b.Graph(), nil
}

// Parse walks every top-level function_declaration in src and adds its
// lambda to b's graph.
func (b *Builder) Parse(src string) error {
	source := []byte(src)
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return fmt.Errorf("frontend: parse: %w", err)
	}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		decl := root.NamedChild(i)
		if decl.Type() != "function_declaration" {
			continue
		}
		if err := b.buildFunction(decl, source); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildFunction(decl *sitter.Node, src []byte) error {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		return fmt.Errorf("frontend: function declaration has no name")
	}
	name := nameNode.Content(src)

	var paramNames []string
	if params := decl.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() != "parameter_declaration" {
				continue
			}
			if pn := p.ChildByFieldName("name"); pn != nil {
				paramNames = append(paramNames, pn.Content(src))
			}
		}
	}

	numResults := 0
	if result := decl.ChildByFieldName("result"); result != nil {
		switch result.Type() {
		case "parameter_list":
			numResults = int(result.NamedChildCount())
		default:
			numResults = 1
		}
	}
	resultTypes := make([]types.Type, numResults)
	for i := range resultTypes {
		resultTypes[i] = bit32
	}
	argTypes := make([]types.Type, len(paramNames))
	for i := range argTypes {
		argTypes[i] = bit32
	}

	sig := types.NewFunctionType(argTypes, resultTypes)
	lambda, err := nodes.NewLambda(b.graph.Root(), sig)
	if err != nil {
		return fmt.Errorf("frontend: func %s: %w", name, err)
	}
	b.funcs[name] = lambda

	fb := &funcBuilder{builder: b, lambda: lambda}
	scope := map[string]rvsdg.Origin{}
	for i, pn := range paramNames {
		scope[pn] = lambda.Argument(i)
	}

	body := decl.ChildByFieldName("body")
	if body == nil {
		return fmt.Errorf("frontend: func %s: no body", name)
	}
	results, _, err := fb.walkBlock(lambda.Subregion(), scope, body, src)
	if err != nil {
		return fmt.Errorf("frontend: func %s: %w", name, err)
	}
	if len(results) != numResults {
		return fmt.Errorf("frontend: func %s: expected %d returned value(s), got %d", name, numResults, len(results))
	}
	if err := lambda.SetResults(results); err != nil {
		return fmt.Errorf("frontend: func %s: %w", name, err)
	}
	return nil
}

// funcBuilder holds the state threaded through one function's body walk.
type funcBuilder struct {
	builder *Builder
	lambda  *nodes.Lambda
}

// walkBlock walks every statement of a `block` node in order. It returns
// the function's return-statement values if a return was encountered
// (terminated==true); assignments update scope in place.
func (fb *funcBuilder) walkBlock(region *rvsdg.Region, scope map[string]rvsdg.Origin, block *sitter.Node, src []byte) ([]rvsdg.Origin, bool, error) {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		results, terminated, err := fb.walkStmt(region, scope, stmt, src)
		if err != nil {
			return nil, false, err
		}
		if terminated {
			return results, true, nil
		}
	}
	return nil, false, nil
}

func (fb *funcBuilder) walkStmt(region *rvsdg.Region, scope map[string]rvsdg.Origin, stmt *sitter.Node, src []byte) ([]rvsdg.Origin, bool, error) {
	switch stmt.Type() {
	case "return_statement":
		var results []rvsdg.Origin
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			v, err := fb.walkExpr(region, scope, stmt.NamedChild(i), src)
			if err != nil {
				return nil, false, err
			}
			results = append(results, v)
		}
		return results, true, nil

	case "short_var_declaration", "assignment_statement":
		left := stmt.ChildByFieldName("left")
		right := stmt.ChildByFieldName("right")
		if left == nil || right == nil {
			return nil, false, fmt.Errorf("unsupported assignment shape at byte %d", stmt.StartByte())
		}
		names := identifierList(left, src)
		values := exprList(right)
		if len(names) != len(values) {
			return nil, false, fmt.Errorf("assignment at byte %d: %d names, %d values", stmt.StartByte(), len(names), len(values))
		}
		for i, name := range names {
			v, err := fb.walkExpr(region, scope, values[i], src)
			if err != nil {
				return nil, false, err
			}
			scope[name] = v
		}
		return nil, false, nil

	case "expression_statement":
		expr := stmt.NamedChild(0)
		if expr != nil && expr.Type() == "call_expression" {
			if _, err := fb.walkExpr(region, scope, expr, src); err != nil {
				return nil, false, err
			}
		}
		return nil, false, nil

	case "if_statement":
		return fb.walkIf(region, scope, stmt, src)

	case "for_statement":
		if err := fb.walkFor(region, scope, stmt, src); err != nil {
			return nil, false, err
		}
		return nil, false, nil

	default:
		return nil, false, fmt.Errorf("unsupported statement %q at byte %d", stmt.Type(), stmt.StartByte())
	}
}

// walkIf builds a gamma whose two subregions mirror the consequence and
// alternative blocks (§4.4 Gamma). Both branches must return, matching the
// "gamma of constants"-shaped scenarios this harness targets: each branch's
// return values become the gamma's exit vars, and the enclosing function
// returns the gamma's outputs.
func (fb *funcBuilder) walkIf(region *rvsdg.Region, scope map[string]rvsdg.Origin, stmt *sitter.Node, src []byte) ([]rvsdg.Origin, bool, error) {
	condNode := stmt.ChildByFieldName("condition")
	consequence := stmt.ChildByFieldName("consequence")
	alternative := stmt.ChildByFieldName("alternative")
	if condNode == nil || consequence == nil || alternative == nil {
		return nil, false, fmt.Errorf("if at byte %d: a harness-built if must have both branches", stmt.StartByte())
	}
	pred, err := fb.walkExpr(region, scope, condNode, src)
	if err != nil {
		return nil, false, err
	}
	ctl2 := types.NewControlType(2)
	if !pred.Type().Equal(ctl2) {
		return nil, false, fmt.Errorf("if condition at byte %d must be a ctl2-producing comparison", stmt.StartByte())
	}

	gamma, err := nodes.NewGamma(region, pred, 2)
	if err != nil {
		return nil, false, err
	}

	// every free variable the branches might read is threaded through as an
	// entry var so each subregion body can see it.
	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	branchScopes := make([]map[string]rvsdg.Origin, len(gamma.Subregions()))
	for alt := range gamma.Subregions() {
		branchScopes[alt] = map[string]rvsdg.Origin{}
	}
	for _, name := range names {
		args, err := gamma.AddEntryVar(scope[name])
		if err != nil {
			return nil, false, err
		}
		for alt := range gamma.Subregions() {
			branchScopes[alt][name] = args[alt]
		}
	}

	branches := []*sitter.Node{consequence, alternative}
	var branchResults [][]rvsdg.Origin
	for alt, sub := range gamma.Subregions() {
		results, terminated, err := fb.walkBlock(sub, branchScopes[alt], branches[alt], src)
		if err != nil {
			return nil, false, err
		}
		if !terminated {
			return nil, false, fmt.Errorf("if branch %d at byte %d must end in a return", alt, stmt.StartByte())
		}
		branchResults = append(branchResults, results)
	}

	n := len(branchResults[0])
	outputs := make([]rvsdg.Origin, n)
	for i := 0; i < n; i++ {
		exits := make([]rvsdg.Origin, len(branchResults))
		for alt, results := range branchResults {
			exits[alt] = results[i]
		}
		out, err := gamma.AddExitVar(exits)
		if err != nil {
			return nil, false, err
		}
		outputs[i] = out
	}
	return outputs, true, nil
}

// walkFor builds a theta from a C-style `for init; cond; post { body }`
// loop (§4.4 Theta). Every name in scope once the initializer has run (the
// induction variable included) becomes a loop var; a name first declared
// inside the body stays local to the body. The source's condition expression is taken
// as-is for the theta's tail predicate (true continues, §4.4 Theta), so a
// harness snippet must phrase its condition as the continue test directly;
// only == is available as a comparison since the operation algebra defines
// no ordering comparisons (§4.1).
func (fb *funcBuilder) walkFor(region *rvsdg.Region, scope map[string]rvsdg.Origin, stmt *sitter.Node, src []byte) error {
	init := stmt.ChildByFieldName("initializer")
	cond := stmt.ChildByFieldName("condition")
	update := stmt.ChildByFieldName("update")
	body := stmt.ChildByFieldName("body")
	if init == nil || cond == nil || update == nil || body == nil {
		return fmt.Errorf("for at byte %d: only the full init;cond;post form is supported", stmt.StartByte())
	}

	if _, _, err := fb.walkStmt(region, scope, init, src); err != nil {
		return err
	}

	theta, err := nodes.NewTheta(region)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	pre := map[string]*rvsdg.Argument{}
	post := map[string]*rvsdg.Result{}
	bodyScope := map[string]rvsdg.Origin{}
	for _, name := range names {
		p, r, _, err := theta.AddLoopVar(scope[name])
		if err != nil {
			return err
		}
		pre[name], post[name] = p, r
		bodyScope[name] = p
	}

	sub := theta.Subregion()
	if _, terminated, err := fb.walkBlock(sub, bodyScope, body, src); err != nil {
		return err
	} else if terminated {
		return fmt.Errorf("for body at byte %d must not return", stmt.StartByte())
	}
	if _, _, err := fb.walkStmt(sub, bodyScope, update, src); err != nil {
		return err
	}
	for _, name := range names {
		if err := theta.SetPostResult(post[name], bodyScope[name]); err != nil {
			return err
		}
	}

	predOrigin, err := fb.walkExpr(sub, bodyScope, cond, src)
	if err != nil {
		return err
	}
	if _, err := theta.SetPredicate(predOrigin); err != nil {
		return err
	}

	for i, name := range names {
		scope[name] = theta.LoopVarOutput(i)
	}
	return nil
}

func (fb *funcBuilder) walkExpr(region *rvsdg.Region, scope map[string]rvsdg.Origin, expr *sitter.Node, src []byte) (rvsdg.Origin, error) {
	switch expr.Type() {
	case "parenthesized_expression":
		return fb.walkExpr(region, scope, expr.NamedChild(0), src)

	case "identifier":
		name := expr.Content(src)
		v, ok := scope[name]
		if !ok {
			return nil, fmt.Errorf("undefined identifier %q at byte %d", name, expr.StartByte())
		}
		return v, nil

	case "int_literal":
		value, err := strconv.ParseInt(expr.Content(src), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int literal %q: %w", expr.Content(src), err)
		}
		n, err := region.CreateNode(op.NewConstant(bit32, value), nil)
		if err != nil {
			return nil, err
		}
		return n.Output(0), nil

	case "binary_expression":
		return fb.walkBinary(region, scope, expr, src)

	case "call_expression":
		return fb.walkCall(region, scope, expr, src)

	default:
		return nil, fmt.Errorf("unsupported expression %q at byte %d", expr.Type(), expr.StartByte())
	}
}

func (fb *funcBuilder) walkBinary(region *rvsdg.Region, scope map[string]rvsdg.Origin, expr *sitter.Node, src []byte) (rvsdg.Origin, error) {
	leftNode := expr.ChildByFieldName("left")
	rightNode := expr.ChildByFieldName("right")
	operatorNode := expr.ChildByFieldName("operator")
	if leftNode == nil || rightNode == nil || operatorNode == nil {
		return nil, fmt.Errorf("malformed binary_expression at byte %d", expr.StartByte())
	}
	left, err := fb.walkExpr(region, scope, leftNode, src)
	if err != nil {
		return nil, err
	}
	right, err := fb.walkExpr(region, scope, rightNode, src)
	if err != nil {
		return nil, err
	}
	kind, err := arithKind(operatorNode.Content(src))
	if err != nil {
		return nil, err
	}
	n, err := region.CreateNode(op.NewBinaryArith(kind, bit32), []rvsdg.Origin{left, right})
	if err != nil {
		return nil, err
	}
	return n.Output(0), nil
}

func arithKind(token string) (op.ArithKind, error) {
	switch strings.TrimSpace(token) {
	case "+":
		return op.Add, nil
	case "-":
		return op.Sub, nil
	case "*":
		return op.Mul, nil
	case "==":
		return op.Eq, nil
	case "&":
		return op.And, nil
	case "|":
		return op.Or, nil
	default:
		return 0, fmt.Errorf("operator %q is not representable: the operation algebra defines only +,-,*,==,&,|", token)
	}
}

// walkCall resolves fn(args...) to a Direct call of an already-built
// sibling lambda (§4.4.3 lambda/call, §4.6.3 Call). The call's memory-state
// port is fed an undef sentinel: this harness never builds allocas/loads
// inside a callee, so there is no real memory-state edge to thread, and
// undef is exactly the encoder's own documented fallback for "no known
// state" (§4.6.3 "Failure semantics").
func (fb *funcBuilder) walkCall(region *rvsdg.Region, scope map[string]rvsdg.Origin, expr *sitter.Node, src []byte) (rvsdg.Origin, error) {
	fnNode := expr.ChildByFieldName("function")
	argsNode := expr.ChildByFieldName("arguments")
	if fnNode == nil || fnNode.Type() != "identifier" {
		return nil, fmt.Errorf("only direct calls to a named sibling function are supported at byte %d", expr.StartByte())
	}
	name := fnNode.Content(src)
	callee := fb.builder.Lookup(name)
	if callee == nil {
		return nil, fmt.Errorf("call to undeclared function %q at byte %d", name, expr.StartByte())
	}

	var argOrigins []rvsdg.Origin
	if argsNode != nil {
		for i := 0; i < int(argsNode.NamedChildCount()); i++ {
			v, err := fb.walkExpr(region, scope, argsNode.NamedChild(i), src)
			if err != nil {
				return nil, err
			}
			argOrigins = append(argOrigins, v)
		}
	}

	funcType := callee.Operation().(*nodes.LambdaOp).Signature
	undef, err := region.CreateNode(&op.UndefOp{Type: memT}, nil)
	if err != nil {
		return nil, err
	}
	callOrigins := append([]rvsdg.Origin{callee.Address()}, argOrigins...)
	callOrigins = append(callOrigins, undef.Output(0))
	call, err := region.CreateNode(&op.CallOp{FuncType: funcType, Direct: true}, callOrigins)
	if err != nil {
		return nil, err
	}
	if len(funcType.Results) == 0 {
		return nil, fmt.Errorf("call to %q at byte %d has no result to use as a value", name, expr.StartByte())
	}
	return call.Output(0), nil
}

// identifierList collects the leaf identifier names of a comma-joined LHS
// (one identifier, or an expression_list of them).
func identifierList(n *sitter.Node, src []byte) []string {
	if n.Type() == "identifier" {
		return []string{n.Content(src)}
	}
	var names []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		names = append(names, identifierList(n.NamedChild(i), src)...)
	}
	return names
}

// exprList collects the named children of a comma-joined RHS (one
// expression, or an expression_list of them).
func exprList(n *sitter.Node) []*sitter.Node {
	if n.Type() != "expression_list" {
		return []*sitter.Node{n}
	}
	exprs := make([]*sitter.Node, n.NamedChildCount())
	for i := range exprs {
		exprs[i] = n.NamedChild(i)
	}
	return exprs
}
