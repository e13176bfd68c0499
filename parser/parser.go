// Package parser implements the recursive-descent parser: it consumes
// a token sequence and produces a typed ast.Node tree, populating
// symbol tables as declarations are seen.
package parser

import (
	"fmt"

	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/lexer"
	"github.com/skx/cc64/symbol"
	"github.com/skx/cc64/token"
)

// Error is a fatal parse error: missing required punctuation, an
// unexpected token, or a redefined function. The parser does not
// attempt recovery.
type Error struct {
	Position token.Position
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Position.File, e.Position.Line, e.Position.Col, e.Message)
}

// Option configures non-default parser behavior.
type Option struct {
	// StrictVars, when true, turns off the default permissive
	// auto-declaration of an undeclared identifier: the parser still
	// succeeds, but leaves the name undeclared with symbol.Unknown type
	// for the checker to report. Off by default to preserve the
	// documented permissive behavior.
	StrictVars bool
}

// Parser holds the parsing state: the full token buffer (read once
// from the lexer) plus a single forward cursor with a few tokens of
// lookahead.
type Parser struct {
	tokens []token.Token
	pos    int
	opt    Option

	vars  *symbol.Table // locals + globals, shared across all functions
	funcs *symbol.Table // function names, global scope

	stringCounter int
}

// New lexes the given source in full and returns a ready Parser.
func New(file, source string, opt Option) (*Parser, error) {
	l := lexer.New(file, source)
	toks, err := l.Lex()
	if err != nil {
		return nil, err
	}
	return &Parser{
		tokens: toks,
		vars:   symbol.New(),
		funcs:  symbol.New(),
		opt:    opt,
	}, nil
}

// Vars returns the shared variable symbol table (globals plus every
// function's locals, distinguished by scope).
func (p *Parser) Vars() *symbol.Table { return p.vars }

// Funcs returns the function-name symbol table.
func (p *Parser) Funcs() *symbol.Table { return p.funcs }

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // End
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) fatalf(tok token.Token, format string, args ...interface{}) error {
	return &Error{Position: tok.Position, Message: fmt.Sprintf(format, args...)}
}

// expect consumes the current token if it has the given kind,
// otherwise reports a fatal error citing the offending token.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.fatalf(p.cur(), "expected %q, found %q (%q)", k, p.cur().Kind, p.cur().Lexeme)
	}
	return p.advance(), nil
}

// Parse consumes tokens until token.End, parsing one FuncDef at a
// time, and returns the resulting top-level definitions.
func (p *Parser) Parse() ([]*ast.FuncDef, error) {
	var defs []*ast.FuncDef
	for p.cur().Kind != token.End {
		fd, err := p.parseFuncDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, fd)
	}
	return defs, nil
}

// parseFuncDef parses:
//
//	[ type ] VARIABLE '(' params ')' '{' statement* '}'
//
// When the return type is omitted, it defaults to Int (matching the
// common "main(){...}" / "f(x){...}" style used throughout the test
// corpus). When a bare identifier appears where a type or a name is
// expected (VARIABLE VARIABLE '(' ...), the first identifier is taken
// as an attempted, unrecognized type name and recorded as
// symbol.Unknown so the checker can report it.
func (p *Parser) parseFuncDef() (*ast.FuncDef, error) {
	retType := symbol.Int
	retTypeName := ""

	switch p.cur().Kind {
	case token.INT:
		p.advance()
		retType = symbol.Int
	case token.CHAR:
		p.advance()
		retType = symbol.Char
	case token.INT_POINTER:
		p.advance()
		retType = symbol.IntPointer
	case token.CHAR_POINTER:
		p.advance()
		retType = symbol.CharPointer
	case token.VARIABLE:
		if p.peek(1).Kind == token.VARIABLE && p.peek(2).Kind == token.LPAREN {
			bad := p.advance()
			retType = symbol.Unknown
			retTypeName = bad.Lexeme
		}
	}

	nameTok, err := p.expect(token.VARIABLE)
	if err != nil {
		return nil, err
	}
	name := nameTok.Lexeme

	if _, ok := p.funcs.Search(symbol.GlobalScope, name); ok {
		return nil, p.fatalf(nameTok, "redefinition of function %q", name)
	}
	if err := p.funcs.Push(symbol.GlobalScope, name, retType, symbol.Identifier, nil); err != nil {
		return nil, p.fatalf(nameTok, "%s", err)
	}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	scope := symbol.FuncScope(name)

	var args []*ast.Variable
	for p.cur().Kind != token.RPAREN {
		argTok, err := p.expect(token.VARIABLE)
		if err != nil {
			return nil, err
		}
		if err := p.vars.Push(scope, argTok.Lexeme, symbol.Int, symbol.Identifier, nil); err != nil {
			return nil, p.fatalf(argTok, "%s", err)
		}
		args = append(args, &ast.Variable{Type: symbol.Int, Structure: symbol.Identifier, Name: argTok.Lexeme})

		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock(scope)
	if err != nil {
		return nil, err
	}

	return &ast.FuncDef{
		ReturnType: retType,
		TypeName:   retTypeName,
		Name:       name,
		Args:       args,
		Body:       body,
	}, nil
}

// parseBlock parses a brace-delimited statement list under the given
// scope.
func (p *Parser) parseBlock(scope symbol.Scope) (*ast.Statement, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	stmt := &ast.Statement{Name: scope.String()}
	for p.cur().Kind != token.RBRACE {
		if p.cur().Kind == token.End {
			return nil, p.fatalf(p.cur(), "unexpected end of input, expected '}'")
		}
		item, err := p.parseStatement(scope)
		if err != nil {
			return nil, err
		}
		if item != nil {
			stmt.Items = append(stmt.Items, item)
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseStatement(scope symbol.Scope) (ast.Node, error) {
	switch p.cur().Kind {
	case token.SEMI:
		p.advance()
		return nil, nil

	case token.LBRACE:
		return p.parseBlock(scope)

	case token.INT, token.CHAR, token.INT_POINTER, token.CHAR_POINTER:
		return p.parseDecl(scope)

	case token.IF:
		return p.parseIf(scope)

	case token.WHILE:
		return p.parseWhile(scope)

	case token.FOR:
		return p.parseFor(scope)

	case token.BREAK:
		p.advance()
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Break{}, nil

	case token.CONTINUE:
		p.advance()
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Continue{}, nil

	case token.RETURN:
		p.advance()
		if p.cur().Kind == token.SEMI {
			p.advance()
			return &ast.Return{}, nil
		}
		expr, err := p.parseCondition(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return &ast.Return{Expr: expr}, nil

	default:
		expr, err := p.parseCondition(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return expr, nil
	}
}

// parseDecl parses a local declaration inside a function body:
//
//	TYPE IDENT ('[' NUMBER ']')* ';'
func (p *Parser) parseDecl(scope symbol.Scope) (ast.Node, error) {
	var typ symbol.Type
	switch p.advance().Kind {
	case token.INT:
		typ = symbol.Int
	case token.CHAR:
		typ = symbol.Char
	case token.INT_POINTER:
		typ = symbol.IntPointer
	case token.CHAR_POINTER:
		typ = symbol.CharPointer
	}

	nameTok, err := p.expect(token.VARIABLE)
	if err != nil {
		return nil, err
	}

	structure := symbol.Identifier
	var dims []int
	for p.cur().Kind == token.LBRACKET {
		p.advance()
		numTok, err := p.expect(token.NUMBER)
		if err != nil {
			return nil, err
		}
		dims = append(dims, atoiPositive(numTok.Lexeme))
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		structure = symbol.Array
	}

	if err := p.vars.Push(scope, nameTok.Lexeme, typ, structure, dims); err != nil {
		return nil, p.fatalf(nameTok, "%s", err)
	}

	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	// A declaration is not itself an expression; it has no runtime
	// effect of its own (locals are uninitialized stack slots), so it
	// contributes nothing to the statement list.
	return nil, nil
}

func (p *Parser) parseIf(scope symbol.Scope) (ast.Node, error) {
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition(scope)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	then, err := p.parseBlock(scope)
	if err != nil {
		return nil, err
	}

	var els *ast.Statement
	if p.cur().Kind == token.ELSE {
		p.advance()
		els, err = p.parseBlock(scope)
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseWhile(scope symbol.Scope) (ast.Node, error) {
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition(scope)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(scope)
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor(scope symbol.Scope) (ast.Node, error) {
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var init, cond, step ast.Node
	var err error

	if p.cur().Kind != token.SEMI {
		init, err = p.parseCondition(scope)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	if p.cur().Kind != token.SEMI {
		cond, err = p.parseCondition(scope)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}

	if p.cur().Kind != token.RPAREN {
		step, err = p.parseCondition(scope)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock(scope)
	if err != nil {
		return nil, err
	}

	return &ast.For{Init: init, Cond: cond, Step: step, Body: body}, nil
}

// --- expression grammar, precedence low to high ---

// parseCondition: logical ('?' logical ':' logical)?
func (p *Parser) parseCondition(scope symbol.Scope) (ast.Node, error) {
	cond, err := p.parseLogical(scope)
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.QUESTION {
		return cond, nil
	}
	p.advance()

	then, err := p.parseLogical(scope)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	els, err := p.parseLogical(scope)
	if err != nil {
		return nil, err
	}
	return &ast.Condition{Cond: cond, Then: then, Else: els}, nil
}

// parseLogical: bitop (('&&'|'||') bitop)* | bitop ('=' logical) |
// bitop (compound-assign logical). Assignment is right-associative and
// terminates the level once seen; && / || fold left-associatively.
func (p *Parser) parseLogical(scope symbol.Scope) (ast.Node, error) {
	left, err := p.parseBitop(scope)
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Kind {
		case token.LAND:
			p.advance()
			right, err := p.parseBitop(scope)
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Op: ast.OpLogAnd, Left: left, Right: right}
		case token.LOR:
			p.advance()
			right, err := p.parseBitop(scope)
			if err != nil {
				return nil, err
			}
			left = &ast.BinOp{Op: ast.OpLogOr, Left: left, Right: right}
		case token.ASSIGN:
			p.advance()
			rhs, err := p.parseLogical(scope)
			if err != nil {
				return nil, err
			}
			return &ast.Assign{Lhs: left, Rhs: rhs}, nil
		case token.PLUSEQ, token.MINEQ, token.MULEQ, token.DIVEQ, token.MODEQ:
			op := compoundOp(p.advance().Kind)
			rhs, err := p.parseLogical(scope)
			if err != nil {
				return nil, err
			}
			return &ast.CompoundAssign{Op: op, Lhs: left, Rhs: rhs}, nil
		default:
			return left, nil
		}
	}
}

func compoundOp(k token.Kind) ast.CompoundAssignKind {
	switch k {
	case token.PLUSEQ:
		return ast.CompoundAdd
	case token.MINEQ:
		return ast.CompoundSub
	case token.MULEQ:
		return ast.CompoundMul
	case token.DIVEQ:
		return ast.CompoundDiv
	default:
		return ast.CompoundMod
	}
}

// parseBitop: relation (('&'|'|'|'^') relation)*
func (p *Parser) parseBitop(scope symbol.Scope) (ast.Node, error) {
	left, err := p.parseRelation(scope)
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.AMP:
			op = ast.OpBitAnd
		case token.PIPE:
			op = ast.OpBitOr
		case token.CARET:
			op = ast.OpBitXor
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelation(scope)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseRelation: shift (('=='|'!='|'<'|'<='|'>'|'>=') shift)*
func (p *Parser) parseRelation(scope symbol.Scope) (ast.Node, error) {
	left, err := p.parseShift(scope)
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.EQ:
			op = ast.OpEq
		case token.NEQ:
			op = ast.OpNeq
		case token.LT:
			op = ast.OpLt
		case token.LE:
			op = ast.OpLe
		case token.GT:
			op = ast.OpGt
		case token.GE:
			op = ast.OpGe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseShift(scope)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseShift: expr (('<<'|'>>') expr)*
func (p *Parser) parseShift(scope symbol.Scope) (ast.Node, error) {
	left, err := p.parseExpr(scope)
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.SHL:
			op = ast.OpShl
		case token.SHR:
			op = ast.OpShr
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseExpr(scope)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseExpr: term (('+'|'-') term)*
func (p *Parser) parseExpr(scope symbol.Scope) (ast.Node, error) {
	left, err := p.parseTerm(scope)
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.PLUS:
			op = ast.OpAdd
		case token.MINUS:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm(scope)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseTerm: factor (('*'|'/'|'%') factor)*
func (p *Parser) parseTerm(scope symbol.Scope) (ast.Node, error) {
	left, err := p.parseFactor(scope)
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinOpKind
		switch p.cur().Kind {
		case token.ASTERISK:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op, Left: left, Right: right}
	}
}

// parseFactor: number | string | '(' logical ')' | unary factor |
// identifier (possibly call, possibly array index, possibly
// postfix ++/--).
func (p *Parser) parseFactor(scope symbol.Scope) (ast.Node, error) {
	tok := p.cur()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return &ast.Factor{Value: atoi(tok.Lexeme)}, nil

	case token.STRING:
		p.advance()
		p.stringCounter++
		return &ast.StringLiteral{ID: p.stringCounter, Value: tok.Lexeme}, nil

	case token.LPAREN:
		p.advance()
		expr, err := p.parseLogical(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.PLUS:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpUnPlus, Expr: e}, nil

	case token.MINUS:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpUnMinus, Expr: e}, nil

	case token.BANG:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpNot, Expr: e}, nil

	case token.TILDE:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpBitReverse, Expr: e}, nil

	case token.AMP:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpAddressOf, Expr: e}, nil

	case token.ASTERISK:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpDereference, Expr: e}, nil

	case token.INC:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpPreInc, Expr: e}, nil

	case token.DEC:
		p.advance()
		e, err := p.parseFactor(scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpPreDec, Expr: e}, nil

	case token.SIZEOF:
		p.advance()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		e, err := p.parseLogical(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.UnOp{Op: ast.OpSizeOf, Expr: e}, nil

	case token.VARIABLE:
		return p.parseIdentifierFactor(scope)
	}

	return nil, p.fatalf(tok, "unexpected token %q (%q)", tok.Kind, tok.Lexeme)
}

// parseIdentifierFactor handles the four shapes an identifier can
// start: a call (name immediately followed by '('), an array index,
// a postfix ++/--, or a plain variable reference.
func (p *Parser) parseIdentifierFactor(scope symbol.Scope) (ast.Node, error) {
	nameTok := p.advance()
	name := nameTok.Lexeme

	if p.cur().Kind == token.LPAREN {
		return p.parseCall(scope, name)
	}

	variable := p.resolveVariable(scope, nameTok)
	var node ast.Node = variable

	// Track the element type/remaining dimensions as brackets are
	// consumed, so each index can be scaled by the byte size of what it
	// actually selects: "a[i]" on an int[4] must step 8 bytes per i, not
	// 1, or every element past a[0] aliases into its neighbor.
	isArray := variable.Structure == symbol.Array
	remainingDims := append([]int(nil), variable.Dims...)

	for p.cur().Kind == token.LBRACKET {
		p.advance()
		idx, err := p.parseLogical(scope)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}

		var scale int
		if isArray && len(remainingDims) > 0 {
			scale = symbol.TypeSize(variable.Type) * product(remainingDims[1:])
			remainingDims = remainingDims[1:]
			if len(remainingDims) == 0 {
				isArray = false
			}
		} else {
			scale = pointeeSize(variable.Type)
		}

		scaledIdx := idx
		if scale != 1 {
			scaledIdx = &ast.BinOp{Op: ast.OpMul, Left: idx, Right: &ast.Factor{Value: int64(scale)}}
		}

		node = &ast.UnOp{
			Op:   ast.OpDereference,
			Expr: &ast.BinOp{Op: ast.OpAdd, Left: node, Right: scaledIdx},
		}
	}

	switch p.cur().Kind {
	case token.INC:
		p.advance()
		return &ast.UnOp{Op: ast.OpPostInc, Expr: node}, nil
	case token.DEC:
		p.advance()
		return &ast.UnOp{Op: ast.OpPostDec, Expr: node}, nil
	}

	return node, nil
}

// product multiplies out a set of array dimensions; an empty slice (no
// further dimensions) yields the multiplicative identity.
func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}

// pointeeSize returns the byte size of the value a pointer of the given
// type refers to, for scaling index arithmetic on plain pointer
// variables (as opposed to arrays, which carry their own dimensions).
func pointeeSize(t symbol.Type) int {
	if t == symbol.CharPointer {
		return symbol.TypeSize(symbol.Char)
	}
	return symbol.TypeSize(symbol.Int)
}

// resolveVariable looks the name up in the current scope, falling back
// to the global scope. If not found in either, the default permissive
// behavior silently auto-declares it (unless StrictVars is set, in
// which case it is left for the checker to report).
func (p *Parser) resolveVariable(scope symbol.Scope, nameTok token.Token) *ast.Variable {
	name := nameTok.Lexeme

	if m, ok := p.vars.Search(scope, name); ok {
		return &ast.Variable{Type: m.Type, Structure: m.Structure, Dims: m.Dims, Name: name}
	}
	if m, ok := p.vars.Search(symbol.GlobalScope, name); ok {
		return &ast.Variable{Type: m.Type, Structure: m.Structure, Dims: m.Dims, Name: name}
	}

	if !p.opt.StrictVars {
		p.vars.PushUnknown(scope, name)
	}
	return &ast.Variable{Type: symbol.Unknown, Structure: symbol.UnknownStructure, Name: name}
}

// parseCall parses a call's argument list: identifiers or number
// literals only, separated by commas, terminated by ')'.
func (p *Parser) parseCall(scope symbol.Scope, name string) (ast.Node, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	args := &ast.Argment{}
	for p.cur().Kind != token.RPAREN {
		tok := p.cur()
		switch tok.Kind {
		case token.NUMBER:
			p.advance()
			args.Items = append(args.Items, &ast.Factor{Value: atoi(tok.Lexeme)})
		case token.VARIABLE:
			p.advance()
			args.Items = append(args.Items, p.resolveVariable(scope, tok))
		default:
			return nil, p.fatalf(tok, "expected identifier or number in call arguments, found %q", tok.Kind)
		}
		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}
		break
	}

	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	return &ast.CallFunc{Callee: name, Args: args}, nil
}

func atoi(s string) int64 {
	var v int64
	for _, c := range s {
		v = v*10 + int64(c-'0')
	}
	return v
}

func atoiPositive(s string) int {
	return int(atoi(s))
}
