package vm

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"
)

// Executor is a single, non-reentrant execution frame: code, gas, program
// counter, stack, memory, calldata and block context, plus the returndata
// and halt status produced once a run stops. There is no sub-call support
// and no state database — the whole run lives in this one struct.
type Executor struct {
	frame    *Frame
	stack    *Stack
	memory   *Memory
	calldata Calldata
	block    BlockContext

	returndata []byte
	stopped    bool
	haltStatus Status
}

// NewExecutor builds an Executor ready to run code against the given gas
// budget, calldata and block context.
func NewExecutor(code []byte, gasLimit uint64, calldata []byte, block BlockContext) *Executor {
	return &Executor{
		frame:    NewFrame(code, gasLimit),
		stack:    NewStack(),
		memory:   NewMemory(),
		calldata: NewCalldata(calldata),
		block:    block,
	}
}

// Gas returns the gas remaining in the frame.
func (e *Executor) Gas() uint64 { return e.frame.Gas }

// Returndata returns the bytes produced by RETURN or REVERT, or nil if the
// run has not halted via either.
func (e *Executor) Returndata() []byte { return e.returndata }

// Stack exposes the execution stack, primarily for tests and tracing.
func (e *Executor) Stack() *Stack { return e.stack }

// Memory exposes the execution memory, primarily for tests and tracing.
func (e *Executor) Memory() *Memory { return e.memory }

// PC returns the current program counter.
func (e *Executor) PC() uint64 { return e.frame.PC }

// Run drives the fetch-decode-dispatch loop to completion and returns the
// terminal Status. Each iteration: fetches the opcode at PC via
// Frame.GetOp, looks it up in the jump table (StatusUndefinedInstruction
// if absent), runs its handler, and only on success charges the
// handler's static gas (StatusOutOfGas if insufficient). A handler that
// itself fails — a stack or memory violation, an out-of-range DUP/SWAP, a
// bad jump target — halts immediately without any gas being charged: a
// rejected instruction never executed, so it never cost anything.
func (e *Executor) Run() Status {
	for {
		if e.frame.PC >= uint64(len(e.frame.Code)) {
			return StatusCompletion
		}
		op := e.frame.GetOp(e.frame.PC)
		log.Debug("Step", "op", op, "pc", e.frame.PC, "gas", e.frame.Gas)
		entry := jumpTable[op]
		if entry == nil {
			return StatusUndefinedInstruction
		}
		if err := entry.execute(e); err != nil {
			return statusOf(err)
		}
		if !e.frame.UseGas(entry.constantGas) {
			return StatusOutOfGas
		}
		if e.stopped {
			return e.haltStatus
		}
	}
}

// statusOf extracts the Status from a handler's error, which is always an
// *ExecutionError in practice since every error-returning helper in this
// package constructs one via haltError.
func statusOf(err error) Status {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Status
	}
	return StatusUndefinedInstruction
}

// halt records a terminal status and its returndata (nil for STOP), and
// marks the executor stopped so Run returns on its next gas-charge check.
func (e *Executor) halt(status Status, data []byte) {
	e.stopped = true
	e.haltStatus = status
	e.returndata = data
}

// advance moves the program counter forward by n, used by every handler
// that does not jump.
func (e *Executor) advance(n uint64) {
	e.frame.PC += n
}

// jumpTo validates dest against the code length and, if valid, sets PC to
// it; otherwise it halts with StatusBadJumpDest. There is no separate
// JUMPDEST-analysis pass: any in-range destination is a legal jump
// target, and landing on a non-JUMPDEST byte simply means the next fetch
// decodes whatever byte is there.
func (e *Executor) jumpTo(op OpCode, dest *Word) error {
	if !dest.IsUint64() || dest.Uint64() >= uint64(len(e.frame.Code)) {
		return haltError(StatusBadJumpDest, op, "jump target past end of code")
	}
	e.frame.PC = dest.Uint64()
	return nil
}

// pop1 pops a single operand.
func (e *Executor) pop1() (Word, error) {
	return e.stack.Pop()
}

// pop2 pops two operands; a is the first popped (former top of stack), b
// the second. This matches the real EVM convention that e.g. SUB computes
// a-b and GT computes a>b, where a was pushed after b.
func (e *Executor) pop2() (a, b Word, err error) {
	if a, err = e.stack.Pop(); err != nil {
		return
	}
	b, err = e.stack.Pop()
	return
}

// pop3 pops three operands in push-reverse order: a first, then b, then c.
func (e *Executor) pop3() (a, b, c Word, err error) {
	if a, err = e.stack.Pop(); err != nil {
		return
	}
	if b, err = e.stack.Pop(); err != nil {
		return
	}
	c, err = e.stack.Pop()
	return
}

// push pushes val and advances PC by 1. Nearly every handler that pushes
// exactly one result and consumes exactly one opcode byte uses this.
func (e *Executor) push(val *Word) error {
	if err := e.stack.Push(val); err != nil {
		return err
	}
	e.advance(1)
	return nil
}

// pushBool pushes 1 for true, 0 for false, and advances PC by 1.
func (e *Executor) pushBool(v bool) error {
	var w Word
	if v {
		w.SetUint64(1)
	}
	return e.push(&w)
}
