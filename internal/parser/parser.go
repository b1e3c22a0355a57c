// Package parser is a thin recursive-descent front end lowering
// source straight into the instr.Instruction stream component C
// consumes -- no intermediate AST, mirroring how small the pack's
// surface language is kept once the vector-register machinery does
// the real work. It is scoped to the constructs the end-to-end
// scenarios exercise: numeric/vector literals, arithmetic and
// comparison, procedure declarations and calls, and print.
package parser

import (
	"fmt"

	"vecl/internal/instr"
	"vecl/internal/lexer"
	"vecl/internal/pipeline"
	"vecl/internal/stdcommands"
)

type procDef struct {
	paramNames []string
	proc       *instr.Proc
}

// Parser lowers a token stream into a flat instruction list using the
// caller's shared register allocator, so registers never collide with
// ones already allocated by an enclosing pass.
type Parser struct {
	toks  []lexer.Token
	pos   int
	alloc *pipeline.RegAlloc
	procs map[string]*procDef
}

func New(source string, alloc *pipeline.RegAlloc) *Parser {
	s := lexer.NewScanner(source)
	return &Parser{toks: s.ScanTokens(), alloc: alloc, procs: map[string]*procDef{}}
}

// Parse consumes the whole token stream, returning the instruction
// list for every top-level statement; function declarations register
// into p.procs as a side effect and emit no instructions of their own.
func (p *Parser) Parse() ([]instr.Instruction, error) {
	var out []instr.Instruction
	for !p.check(lexer.TokenEOF) {
		stmt, err := p.statement(p.alloc, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt...)
	}
	return out, nil
}

// env maps an in-scope identifier (a procedure's formal parameter) to
// the register holding it; nil at top level, where bare identifiers
// are undefined.
type env map[string]int

func (p *Parser) statement(a *pipeline.RegAlloc, e env) ([]instr.Instruction, error) {
	if p.check(lexer.TokenFn) {
		return nil, p.funcDecl()
	}
	line := p.line()
	reg, instrs, err := p.expr(a, e)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	_ = reg
	return append([]instr.Instruction{{Op: instr.OpLineNumber, Line: line}}, instrs...), nil
}

func (p *Parser) funcDecl() error {
	p.advance() // fn
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expect(lexer.TokenLParen); err != nil {
		return err
	}
	bodyAlloc := pipeline.NewRegAlloc(0)
	local := env{}
	var params []string
	for !p.check(lexer.TokenRParen) {
		pname, err := p.expectIdent()
		if err != nil {
			return err
		}
		local[pname] = bodyAlloc.Alloc()
		params = append(params, pname)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if err := p.expect(lexer.TokenRParen); err != nil {
		return err
	}
	reg, body, err := p.expr(bodyAlloc, local)
	if err != nil {
		return err
	}
	if err := p.expect(lexer.TokenSemicolon); err != nil {
		return err
	}
	formals := make([]int, len(params))
	for i, pname := range params {
		formals[i] = local[pname]
	}
	p.procs[name] = &procDef{
		paramNames: params,
		proc:       &instr.Proc{FormalRegs: formals, Body: body, ReturnReg: reg},
	}
	return nil
}

// expr parses a full precedence chain: comparison > additive >
// multiplicative > call/primary. Procedures are introduced with the
// lexer's existing `fn` keyword.
func (p *Parser) expr(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	return p.comparison(a, e)
}

func (p *Parser) comparison(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	reg, out, err := p.additive(a, e)
	if err != nil {
		return 0, nil, err
	}
	for p.check(lexer.TokenLT) {
		p.advance()
		rreg, rout, err := p.additive(a, e)
		if err != nil {
			return 0, nil, err
		}
		dst := a.Alloc()
		out = append(out, rout...)
		out = append(out, stdcommands.MakeCall("std", "lt", false,
			[]instr.DataFlow{instr.FlowOut, instr.FlowIn, instr.FlowIn}, []int{dst, reg, rreg}))
		reg = dst
	}
	return reg, out, nil
}

func (p *Parser) additive(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	reg, out, err := p.multiplicative(a, e)
	if err != nil {
		return 0, nil, err
	}
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := "add"
		if p.check(lexer.TokenMinus) {
			op = "sub"
		}
		p.advance()
		rreg, rout, err := p.multiplicative(a, e)
		if err != nil {
			return 0, nil, err
		}
		dst := a.Alloc()
		out = append(out, rout...)
		out = append(out, stdcommands.NewNumOpInstruction(op, dst, reg, rreg))
		reg = dst
	}
	return reg, out, nil
}

func (p *Parser) multiplicative(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	reg, out, err := p.unary(a, e)
	if err != nil {
		return 0, nil, err
	}
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) {
		op := "mul"
		if p.check(lexer.TokenSlash) {
			op = "div"
		}
		p.advance()
		rreg, rout, err := p.unary(a, e)
		if err != nil {
			return 0, nil, err
		}
		dst := a.Alloc()
		out = append(out, rout...)
		out = append(out, stdcommands.NewNumOpInstruction(op, dst, reg, rreg))
		reg = dst
	}
	return reg, out, nil
}

func (p *Parser) unary(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	return p.primary(a, e)
}

func (p *Parser) primary(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		var v float64
		fmt.Sscanf(tok.Lexeme, "%g", &v)
		dst := a.Alloc()
		return dst, []instr.Instruction{{Op: instr.OpNumberConst, Operands: []int{dst}, NumberVal: v}}, nil

	case lexer.TokenLBracket:
		return p.vectorLiteral(a, e)

	case lexer.TokenLParen:
		p.advance()
		reg, out, err := p.expr(a, e)
		if err != nil {
			return 0, nil, err
		}
		if err := p.expect(lexer.TokenRParen); err != nil {
			return 0, nil, err
		}
		return reg, out, nil

	case lexer.TokenIdent:
		name := tok.Lexeme
		p.advance()
		if p.check(lexer.TokenLParen) {
			return p.call(a, e, name)
		}
		if reg, ok := e[name]; ok {
			return reg, nil, nil
		}
		return 0, nil, fmt.Errorf("undefined identifier %q at line %d", name, tok.Line)

	default:
		return 0, nil, fmt.Errorf("unexpected token %s at line %d", tok.Type, tok.Line)
	}
}

func (p *Parser) vectorLiteral(a *pipeline.RegAlloc, e env) (int, []instr.Instruction, error) {
	p.advance() // [
	dst := a.Alloc()
	out := []instr.Instruction{{Op: instr.OpNil, Operands: []int{dst}}}
	for !p.check(lexer.TokenRBracket) {
		reg, elemOut, err := p.expr(a, e)
		if err != nil {
			return 0, nil, err
		}
		out = append(out, elemOut...)
		out = append(out, instr.Instruction{Op: instr.OpAppend, Operands: []int{dst, reg}})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if err := p.expect(lexer.TokenRBracket); err != nil {
		return 0, nil, err
	}
	return dst, out, nil
}

func (p *Parser) call(a *pipeline.RegAlloc, e env, name string) (int, []instr.Instruction, error) {
	p.advance() // (
	var args []int
	var out []instr.Instruction
	for !p.check(lexer.TokenRParen) {
		reg, argOut, err := p.expr(a, e)
		if err != nil {
			return 0, nil, err
		}
		out = append(out, argOut...)
		args = append(args, reg)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if err := p.expect(lexer.TokenRParen); err != nil {
		return 0, nil, err
	}

	if name == "print" {
		if len(args) != 1 {
			return 0, nil, fmt.Errorf("print takes exactly one argument")
		}
		out = append(out, stdcommands.NewPrintInstruction(args[0]))
		return args[0], out, nil
	}

	def, ok := p.procs[name]
	if !ok {
		return 0, nil, fmt.Errorf("call to undefined procedure %q", name)
	}
	dst := a.Alloc()
	operands := append(append([]int{}, args...), dst)
	out = append(out, instr.Instruction{Op: instr.OpProcCall, Operands: operands, Proc: def.proc})
	return dst, out, nil
}

func (p *Parser) line() int {
	if p.pos < len(p.toks) {
		return p.toks[p.pos].Line
	}
	return 0
}

func (p *Parser) peek() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) check(t lexer.TokenType) bool {
	return p.pos < len(p.toks) && p.toks[p.pos].Type == t
}
func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}
func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}
func (p *Parser) expect(t lexer.TokenType) error {
	if !p.check(t) {
		return fmt.Errorf("expected %s, got %s at line %d", t, p.peek().Type, p.peek().Line)
	}
	p.advance()
	return nil
}
func (p *Parser) expectIdent() (string, error) {
	if !p.check(lexer.TokenIdent) {
		return "", fmt.Errorf("expected identifier, got %s at line %d", p.peek().Type, p.peek().Line)
	}
	return p.advance().Lexeme, nil
}
