package suite

import (
	"vecl/internal/command"
	"vecl/internal/errors"
)

// EncodeProgram flattens a sequence of compile-side commands into the
// flat cmds stream: opcode, arg, arg, ..., opcode, ... A command whose
// Serialize returns ok=false is compile-only and contributes nothing
// to the stream.
func EncodeProgram(commands []command.Compile, opcodeOf func(command.Compile) (int, error)) (ProgramCmd, error) {
	var cmds []interface{}
	for _, c := range commands {
		args, ok := c.Serialize()
		if !ok {
			continue
		}
		op, err := opcodeOf(c)
		if err != nil {
			return ProgramCmd{}, err
		}
		cmds = append(cmds, op)
		for _, a := range args {
			cmds = append(cmds, a)
		}
	}
	return ProgramCmd{Cmds: cmds}, nil
}

// DecodeProgram reads the cmds stream: consume one opcode, look up
// its declared argument count, consume that many values, invoke the
// deserialiser. A program ends when its array is exhausted.
func DecodeProgram(p ProgramCmd, suite *InterpretSuite) ([]command.Interp, error) {
	var out []command.Interp
	i := 0
	for i < len(p.Cmds) {
		opRaw := p.Cmds[i]
		op, err := asInt(opRaw)
		if err != nil {
			return nil, errors.NewLinkError("malformed opcode in cmds stream")
		}
		i++
		d, ok := suite.Dispatch(op)
		if !ok {
			return nil, errors.NewLinkError("unknown global opcode in cmds stream")
		}
		if i+d.Values > len(p.Cmds) {
			return nil, errors.NewLinkError("truncated cmds stream")
		}
		args := p.Cmds[i : i+d.Values]
		i += d.Values
		cmd, err := d.Deser(args)
		if err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, nil
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, errors.NewLinkError("opcode is not an integer")
	}
}
