package runtime

import "vecl/internal/errors"

// RegisterFile is a mapping from register numbers to InterpValue
// using the copy-on-write discipline of Cow. Both the runtime
// interpreter and the pre-image evaluator share this type.
type RegisterFile struct {
	slots map[int]Cow[InterpValue]
}

func NewRegisterFile() *RegisterFile {
	return &RegisterFile{slots: map[int]Cow[InterpValue]{}}
}

// Get reads register r's current value. Unwritten registers read as
// Empty.
func (rf *RegisterFile) Get(r int) InterpValue {
	if c, ok := rf.slots[r]; ok {
		return c.Get()
	}
	return EmptyValue()
}

// Set writes v into register r, giving r a fresh backing cell first if
// it is aliased, so its aliases keep the old value. The write is
// visible immediately; Commit is not needed for it.
func (rf *RegisterFile) Set(r int, v InterpValue) {
	c, ok := rf.slots[r]
	if !ok {
		rf.slots[r] = NewCow(v)
		return
	}
	c.Set(v)
	rf.slots[r] = c
}

// CopyReg aliases register dst to register src's backing cell: both
// registers observe src's committed value until either is next
// written, matching "a register may be aliased to another... then
// later promoted to its own value at first write".
func (rf *RegisterFile) CopyReg(dst, src int) {
	srcCow, ok := rf.slots[src]
	if !ok {
		srcCow = NewCow(EmptyValue())
		rf.slots[src] = srcCow
	}
	dstCow := rf.slots[dst]
	Copy(&dstCow, srcCow)
	rf.slots[dst] = dstCow
}

// Commit is a no-op marker retained for API symmetry with the
// original's commit-then-read discipline: because Cow.Set already
// performs copy-on-write eagerly, there is no pending-write buffer to
// flush, but callers still invoke Commit at the same points the
// specification requires it so that a future buffered implementation
// could be dropped in without changing call sites.
func (rf *RegisterFile) Commit() {}

// ExclusiveWrite attempts to mutate register r in place without
// cloning, returning a distinct error if the register is still
// shared with another alias.
func (rf *RegisterFile) ExclusiveWrite(r int, v InterpValue) error {
	c, ok := rf.slots[r]
	if !ok {
		rf.slots[r] = NewCow(v)
		return nil
	}
	if c.Shared() {
		return errors.NewRuntimeError("register is shared: exclusive write denied", 0)
	}
	c.Set(v)
	rf.slots[r] = c
	return nil
}

// Clone returns a RegisterFile snapshot sharing every current cell
// (cheap: no deep copy happens until a subsequent Set diverges).
func (rf *RegisterFile) Clone() *RegisterFile {
	out := NewRegisterFile()
	for r, c := range rf.slots {
		var dst Cow[InterpValue]
		Copy(&dst, c)
		out.slots[r] = dst
	}
	return out
}
