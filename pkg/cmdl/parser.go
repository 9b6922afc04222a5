// Package cmdl implements the lexer-driven recursive-descent parser for the
// chemical model description language: a small textual notation for
// variable assignments and reactions that materialises directly into the
// expression engine's node types.
package cmdl

import (
	"io"

	"github.com/knut0815/stochsim/pkg/expr"
	"github.com/knut0815/stochsim/pkg/lexer"
	"github.com/knut0815/stochsim/pkg/token"
)

// Parser turns a token stream into a Model. Parsing is abort-on-first-error:
// once any production fails, Parse returns the first recorded error and the
// partially built Model is discarded.
type Parser struct {
	lex   *lexer.Lexer
	peek  *token.Token
	err   []error
	depth int
}

// New returns a new Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lex: l}
	p.move()
	return p
}

// Parse consumes the entire token stream and returns the resulting Model.
// On any lex, syntax, or stack-depth error it returns nil and the first
// error encountered.
func (p *Parser) Parse() (*Model, error) {
	m := &Model{}
	for p.peek.Tag != token.Error {
		stmt := p.parseStatement()
		if len(p.err) > 0 {
			return nil, p.err[0]
		}
		if stmt != nil {
			m.Statements = append(m.Statements, stmt)
		}
	}
	if p.peek.Err != nil && p.peek.Err != io.EOF {
		return nil, newError(LexError, p.peek.Ln, "%v", p.peek.Err)
	}
	if len(p.err) > 0 {
		return nil, p.err[0]
	}
	return m, nil
}

// parseStatement parses "assignment | reaction". Both productions share an
// IDENT-or-reaction-side prefix, so the grammar is disambiguated by
// lookahead: an assignment always starts "IDENT =", everything else (a
// possibly empty reactionSide up to "->") is a reaction.
func (p *Parser) parseStatement() Statement {
	if p.peek.Tag == token.Identifier {
		name := p.peek.Lex
		ln := p.peek.Ln
		save := *p.peek
		p.move()
		if p.peek.Tag == token.Equals {
			p.move()
			return p.parseAssignmentRHS(name, ln)
		}
		// Not an assignment after all: this identifier is the first term
		// of a reactant side. Re-synthesise it as a Variable and continue
		// parsing the reaction from there.
		return p.parseReactionFromFirstTerm(expr.NewVariable(save.Lex), ln)
	}
	return p.parseReaction()
}

func (p *Parser) parseAssignmentRHS(name string, ln int) Statement {
	if p.accept(token.LeftBracket) {
		e := p.parseExpression()
		p.expect(token.RightBracket)
		p.expect(token.Semicolon)
		return &Assignment{Name: name, Expr: e, Immediate: false, Ln: ln}
	}
	e := p.parseExpression()
	p.expect(token.Semicolon)
	return &Assignment{Name: name, Expr: e, Immediate: true, Ln: ln}
}

// parseReaction parses a full "reactionSide -> reactionSide , rate ;"
// statement whose reactant side may be empty (the next token is already
// "->").
func (p *Parser) parseReaction() Statement {
	ln := p.peek.Ln
	var reactants expr.Node
	if p.peek.Tag != token.Arrow {
		reactants = p.parseExpression()
	}
	return p.finishReaction(reactants, ln)
}

// parseReactionFromFirstTerm continues a reaction whose reactant side began
// with a single already-scanned identifier (see parseStatement).
func (p *Parser) parseReactionFromFirstTerm(first expr.Node, ln int) Statement {
	reactants := p.parseExpressionFrom(first)
	return p.finishReaction(reactants, ln)
}

// finishReaction parses "-> reactionSide , rate ;" given an already-parsed
// (possibly nil/empty) reactant side. Either side may be the empty
// production (∅), matching the grammar's "reactionSide ::= ... | ε"; a
// degradation reaction such as "A -> , [k*A] ;" has an empty product side.
func (p *Parser) finishReaction(reactants expr.Node, ln int) Statement {
	p.expect(token.Arrow)
	var products expr.Node
	if p.peek.Tag != token.Comma {
		products = p.parseExpression()
	}
	p.expect(token.Comma)
	var rate expr.Node
	immediate := true
	if p.accept(token.LeftBracket) {
		immediate = false
		rate = p.parseExpression()
		p.expect(token.RightBracket)
	} else {
		rate = p.parseExpression()
	}
	p.expect(token.Semicolon)

	reactantTerms, err := reactionSideTerms(reactants)
	if err != nil {
		p.err = append(p.err, err)
		return nil
	}
	productTerms, err := reactionSideTerms(products)
	if err != nil {
		p.err = append(p.err, err)
		return nil
	}
	return &Reaction{Reactants: reactantTerms, Products: productTerms, Rate: rate, Immediate: immediate, Ln: ln}
}

// parseExpression parses the full expression grammar at conditional
// precedence (the lowest): conditional < or < and < comparison < sum <
// product < unary < atom.
func (p *Parser) parseExpression() expr.Node {
	return p.parseConditional()
}

// parseExpressionFrom parses an expression whose first atom has already
// been scanned (used when the statement-level lookahead consumed an
// identifier before knowing whether it starts an assignment or a
// reaction). It resumes precedence climbing from the product level, since
// the first token was necessarily a bare atom.
func (p *Parser) parseExpressionFrom(first expr.Node) expr.Node {
	product := p.parseProductFrom(first)
	sum := p.parseSumFrom(product)
	return p.parseConditionalFrom(sum)
}

func (p *Parser) parseConditional() expr.Node {
	cond := p.parseOr()
	return p.parseConditionalFrom(cond)
}

func (p *Parser) parseConditionalFrom(cond expr.Node) expr.Node {
	cond = p.parseOrFrom(cond)
	if p.accept(token.Question) {
		ifTrue := p.parseExpression()
		p.expect(token.Colon)
		ifFalse := p.parseExpression()
		return expr.NewConditional(cond, ifTrue, ifFalse)
	}
	return cond
}

func (p *Parser) parseOr() expr.Node {
	return p.parseOrFrom(p.parseAnd())
}

func (p *Parser) parseOrFrom(left expr.Node) expr.Node {
	left = p.parseAndFrom(left)
	for p.accept(token.Or) {
		right := p.parseAnd()
		left = expr.NewComparison(expr.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() expr.Node {
	return p.parseAndFrom(p.parseComparison())
}

func (p *Parser) parseAndFrom(left expr.Node) expr.Node {
	left = p.parseComparisonFrom(left)
	for p.accept(token.And) {
		right := p.parseComparison()
		left = expr.NewComparison(expr.OpAnd, left, right)
	}
	return left
}

var compareTagOps = map[token.Tag]expr.CompareOp{
	token.Less:         expr.OpLess,
	token.LessEqual:    expr.OpLessEqual,
	token.Greater:      expr.OpGreater,
	token.GreaterEqual: expr.OpGreaterEqual,
	token.EqualEqual:   expr.OpEqual,
	token.NotEqual:     expr.OpNotEqual,
}

func (p *Parser) parseComparison() expr.Node {
	return p.parseComparisonFrom(p.parseSum())
}

func (p *Parser) parseComparisonFrom(left expr.Node) expr.Node {
	left = p.parseSumFrom(left)
	if op, ok := compareTagOps[p.peek.Tag]; ok {
		p.move()
		right := p.parseSum()
		return expr.NewComparison(op, left, right)
	}
	return left
}

func (p *Parser) parseSum() expr.Node {
	return p.parseSumFrom(p.parseProduct())
}

func (p *Parser) parseSumFrom(left expr.Node) expr.Node {
	terms := []expr.SumTerm{{Term: left}}
	for p.peek.Tag == token.Plus || p.peek.Tag == token.Minus {
		negative := p.peek.Tag == token.Minus
		p.move()
		terms = append(terms, expr.SumTerm{Negative: negative, Term: p.parseProduct()})
	}
	if len(terms) == 1 {
		return left
	}
	return expr.NewSum(terms...)
}

func (p *Parser) parseProduct() expr.Node {
	return p.parseProductFrom(p.parseUnary())
}

func (p *Parser) parseProductFrom(left expr.Node) expr.Node {
	factors := []expr.ProductFactor{{Factor: left}}
	for p.peek.Tag == token.Times || p.peek.Tag == token.Divide {
		invert := p.peek.Tag == token.Divide
		p.move()
		factors = append(factors, expr.ProductFactor{Invert: invert, Factor: p.parseUnary()})
	}
	if len(factors) == 1 {
		return left
	}
	return expr.NewProduct(factors...)
}

func (p *Parser) parseUnary() expr.Node {
	p.depth++
	if p.depth > maxParseDepth {
		p.err = append(p.err, newError(StackOverflow, p.peek.Ln, "expression nested too deeply"))
		p.depth--
		return expr.NewNumber(0)
	}
	defer func() { p.depth-- }()

	if p.accept(token.Not) {
		return expr.NewNot(p.parseUnary())
	}
	if p.accept(token.Minus) {
		return expr.NewProduct(
			expr.ProductFactor{Factor: expr.NewNumber(-1)},
			expr.ProductFactor{Factor: p.parseUnary()},
		)
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() expr.Node {
	switch p.peek.Tag {
	case token.Number:
		v := p.peek.Val
		p.move()
		return expr.NewNumber(v)
	case token.Identifier:
		name := p.peek.Lex
		p.move()
		return expr.NewVariable(name)
	case token.LeftParen:
		p.move()
		e := p.parseExpression()
		p.expect(token.RightParen)
		return e
	default:
		p.appendError()
		p.move()
		return expr.NewNumber(0)
	}
}

// move advances the token stream by one token.
func (p *Parser) move() {
	p.peek = p.lex.Scan()
}

// accept consumes the peek token and returns true if its tag matches t;
// otherwise it leaves the stream untouched and returns false.
func (p *Parser) accept(t token.Tag) bool {
	if p.peek.Tag == t {
		p.move()
		return true
	}
	return false
}

// expect behaves like accept but records a SyntaxError when the tag does
// not match.
func (p *Parser) expect(t token.Tag) bool {
	if p.accept(t) {
		return true
	}
	p.appendError()
	return false
}

func (p *Parser) appendError() {
	if p.peek.Tag == token.Error && p.peek.Err != nil && p.peek.Err != io.EOF {
		p.err = append(p.err, newError(LexError, p.peek.Ln, "%v", p.peek.Err))
		return
	}
	p.err = append(p.err, newError(SyntaxError, p.peek.Ln, "unexpected token near line %d", p.peek.Ln))
}
