// Package pipeline implements component C: the instruction-rewriting
// pipeline. It owns the mutable instruction list plus ancillary state
// (register allocator, timing annotations, a definition store, a
// line-number cursor) and exposes a pass dispatcher that runs an
// ordered list of named transformations.
package pipeline

import (
	"time"

	"vecl/internal/complexpath"
	"vecl/internal/diag"
	"vecl/internal/instr"
)

// RegAlloc is the monotonically-increasing register allocator owned
// by the generation context, per the lifecycle rule in the data
// model.
type RegAlloc struct {
	next int
}

func NewRegAlloc(startAt int) *RegAlloc { return &RegAlloc{next: startAt} }

func (a *RegAlloc) Alloc() int {
	r := a.next
	a.next++
	return r
}

func (a *RegAlloc) MaxAllocated() int { return a.next - 1 }

// Pipeline holds the evolving instruction list and every piece of
// ancillary state the passes share.
type Pipeline struct {
	Instructions []instr.Instruction
	Alloc        *RegAlloc
	Defs         complexpath.DefinitionLookup

	// Times[i] is the estimated execution time in milliseconds of
	// Instructions[i], populated by the compile-run pass from each
	// command's ExecutionTime.
	Times map[int]float64

	// LineCursor is a source-line slot for the passes; no pass in this
	// package updates it; source positions during constant folding come
	// from the pre-image evaluator's own line tracking.
	LineCursor int

	// Verbosity gates pass-timing logging: each pass's name, duration
	// and resulting instruction count are logged at verbosity >= 2.
	Verbosity int
}

func New(defs complexpath.DefinitionLookup, alloc *RegAlloc) *Pipeline {
	return &Pipeline{Defs: defs, Alloc: alloc, Times: map[int]float64{}}
}

// Pass is one named transformation: it reads p.Instructions and
// returns the replacement list.
type Pass func(p *Pipeline) ([]instr.Instruction, error)

// run applies a pass, updating p.Instructions and logging the pass's
// timing at the pipeline's verbosity.
func (p *Pipeline) run(name string, pass Pass) error {
	start := time.Now()
	out, err := pass(p)
	if err != nil {
		return wrapPassErr(name, err)
	}
	p.Instructions = out
	diag.New(p.Verbosity).PassTiming(name, time.Since(start), len(out))
	return nil
}

// RunFixedFrontHalf runs the always-on front half in order: call,
// simplify, linearize, dealias, compile-run(is_last=false).
func (p *Pipeline) RunFixedFrontHalf(hooks CommandHooks) error {
	steps := []struct {
		name string
		pass Pass
	}{
		{"call", CallPass},
		{"simplify", SimplifyPass(p.Defs)},
		{"linearize", LinearizePass(p.Defs)},
		{"dealias", DealiasPass},
	}
	for _, s := range steps {
		if err := p.run(s.name, s.pass); err != nil {
			return err
		}
	}
	return p.run("compile-run", CompileRunPass(hooks, false))
}

// RunConfigured runs the user-provided pass-code string, one pass per
// character: p prune, c compile-run, m peephole, u reuse-common-value,
// e use-earliest, d reuse-dead-register, r retreat, a assign-regs.
// Passes may repeat; unknown codes fail.
func (p *Pipeline) RunConfigured(codes string, hooks CommandHooks) error {
	for _, code := range codes {
		name, pass, ok := resolveCode(code, hooks)
		if !ok {
			return wrapPassErr(string(code), errUnknownCode(code))
		}
		if err := p.run(name, pass); err != nil {
			return err
		}
	}
	return nil
}

// RunTail runs the fixed tail pass: a forced final timed compile-run
// (is_last=true) followed by pauses.
func (p *Pipeline) RunTail(hooks CommandHooks) error {
	if err := p.run("compile-run-final", CompileRunPass(hooks, true)); err != nil {
		return err
	}
	return p.run("pauses", PausesPass)
}

func resolveCode(code rune, hooks CommandHooks) (string, Pass, bool) {
	switch code {
	case 'p':
		return "prune", PrunePass, true
	case 'c':
		return "compile-run", CompileRunPass(hooks, false), true
	case 'm':
		return "peephole", PeepholePass, true
	case 'u':
		return "reuse-common-value", ReuseCommonValuePass, true
	case 'e':
		return "use-earliest", UseEarliestPass, true
	case 'd':
		return "reuse-dead-register", ReuseDeadRegisterPass, true
	case 'r':
		return "retreat", RetreatPass, true
	case 'a':
		return "assign-regs", AssignRegsPass, true
	default:
		return "", nil, false
	}
}
