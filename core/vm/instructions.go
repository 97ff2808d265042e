package vm

import "github.com/03ladr/xevm/crypto"

// executionFunc executes one instruction against the frame, stack and
// memory held by e. It is responsible for advancing e.frame.PC itself
// (by 1, by 1 plus any immediate bytes consumed, or by jumping).
// A non-nil return is always an *ExecutionError and is terminal: the
// dispatch loop in Run halts immediately without charging gas.
type executionFunc func(e *Executor) error

func opStop(e *Executor) error {
	e.halt(StatusCompletion, nil)
	return nil
}

func opAdd(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.Add(&a, &b)
	return e.push(&r)
}

func opSub(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.Sub(&a, &b)
	return e.push(&r)
}

func opMul(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.Mul(&a, &b)
	return e.push(&r)
}

func opDiv(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if b.IsZero() {
		r = zeroWord()
	} else {
		r.Div(&a, &b)
	}
	return e.push(&r)
}

func opSdiv(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if b.IsZero() {
		r = zeroWord()
	} else {
		r.SDiv(&a, &b)
	}
	return e.push(&r)
}

func opMod(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if b.IsZero() {
		r = zeroWord()
	} else {
		r.Mod(&a, &b)
	}
	return e.push(&r)
}

func opSmod(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if b.IsZero() {
		r = zeroWord()
	} else {
		r.SMod(&a, &b)
	}
	return e.push(&r)
}

func opAddmod(e *Executor) error {
	a, b, n, err := e.pop3()
	if err != nil {
		return err
	}
	var r Word
	if n.IsZero() {
		r = zeroWord()
	} else {
		r.AddMod(&a, &b, &n)
	}
	return e.push(&r)
}

func opMulmod(e *Executor) error {
	a, b, n, err := e.pop3()
	if err != nil {
		return err
	}
	var r Word
	if n.IsZero() {
		r = zeroWord()
	} else {
		r.MulMod(&a, &b, &n)
	}
	return e.push(&r)
}

func opExp(e *Executor) error {
	base, exponent, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.Exp(&base, &exponent)
	return e.push(&r)
}

func opSignExtend(e *Executor) error {
	back, num, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.ExtendSign(&num, &back)
	return e.push(&r)
}

func opLt(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	return e.pushBool(a.Lt(&b))
}

func opGt(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	return e.pushBool(a.Gt(&b))
}

func opSlt(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	return e.pushBool(a.Slt(&b))
}

func opSgt(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	return e.pushBool(a.Sgt(&b))
}

func opEq(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	return e.pushBool(a.Eq(&b))
}

func opIsZero(e *Executor) error {
	a, err := e.pop1()
	if err != nil {
		return err
	}
	return e.pushBool(a.IsZero())
}

func opAnd(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.And(&a, &b)
	return e.push(&r)
}

func opOr(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.Or(&a, &b)
	return e.push(&r)
}

func opXor(e *Executor) error {
	a, b, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	r.Xor(&a, &b)
	return e.push(&r)
}

func opNot(e *Executor) error {
	a, err := e.pop1()
	if err != nil {
		return err
	}
	var r Word
	r.Not(&a)
	return e.push(&r)
}

func opByte(e *Executor) error {
	n, w, err := e.pop2()
	if err != nil {
		return err
	}
	r := w
	r.Byte(&n)
	return e.push(&r)
}

const shiftSaturation = 256

func opShl(e *Executor) error {
	shift, value, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if !shift.IsUint64() || shift.Uint64() >= shiftSaturation {
		r = zeroWord()
	} else {
		r.Lsh(&value, uint(shift.Uint64()))
	}
	return e.push(&r)
}

func opShr(e *Executor) error {
	shift, value, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if !shift.IsUint64() || shift.Uint64() >= shiftSaturation {
		r = zeroWord()
	} else {
		r.Rsh(&value, uint(shift.Uint64()))
	}
	return e.push(&r)
}

func opSar(e *Executor) error {
	shift, value, err := e.pop2()
	if err != nil {
		return err
	}
	var r Word
	if !shift.IsUint64() || shift.Uint64() >= shiftSaturation {
		if isNegative(&value) {
			r.SetAllOne()
		} else {
			r = zeroWord()
		}
	} else {
		r.SRsh(&value, uint(shift.Uint64()))
	}
	return e.push(&r)
}

// signBit is 2^255, the two's-complement sign bit of a 256-bit word.
var signBit = func() Word {
	var w Word
	w.SetOne()
	w.Lsh(&w, 255)
	return w
}()

// isNegative reports whether w's top bit is set, i.e. w is negative under
// a two's-complement signed interpretation.
func isNegative(w *Word) bool {
	return !w.Lt(&signBit)
}

func opKeccak256(e *Executor) error {
	offset, length, err := e.pop2()
	if err != nil {
		return err
	}
	data, merr := e.memory.Load(truncateToOffset(&offset), truncateToOffset(&length))
	if merr != nil {
		return merr
	}
	digest := crypto.Keccak256(data)
	r := wordFromBytes32(digest)
	return e.push(&r)
}

func opCalldataLoad(e *Executor) error {
	offset, err := e.pop1()
	if err != nil {
		return err
	}
	r := e.calldata.Load(truncateToOffset(&offset))
	return e.push(&r)
}

func opCalldataSize(e *Executor) error {
	r := wordFromUint64(e.calldata.Size())
	return e.push(&r)
}

func opCalldataCopy(e *Executor) error {
	memOffset, dataOffset, length, err := e.pop3()
	if err != nil {
		return err
	}
	data := e.calldata.Copy(truncateToOffset(&dataOffset), truncateToOffset(&length))
	if merr := e.memory.Store(truncateToOffset(&memOffset), data); merr != nil {
		return merr
	}
	e.advance(1)
	return nil
}

func opCodeCopy(e *Executor) error {
	memOffset, codeOffset, length, err := e.pop3()
	if err != nil {
		return err
	}
	data := codeSlice(e.frame.Code, truncateToOffset(&codeOffset), truncateToOffset(&length))
	if merr := e.memory.Store(truncateToOffset(&memOffset), data); merr != nil {
		return merr
	}
	e.advance(1)
	return nil
}

func opReturndataSize(e *Executor) error {
	r := wordFromUint64(uint64(len(e.returndata)))
	return e.push(&r)
}

func opReturndataCopy(e *Executor) error {
	memOffset, dataOffset, length, err := e.pop3()
	if err != nil {
		return err
	}
	off := truncateToOffset(&dataOffset)
	l := truncateToOffset(&length)
	end := off + l
	if end < off || end > uint64(len(e.returndata)) {
		return haltError(StatusInvalidMemoryAccess, RETURNDATACOPY, "returndata copy out of bounds")
	}
	data := make([]byte, l)
	copy(data, e.returndata[off:end])
	if merr := e.memory.Store(truncateToOffset(&memOffset), data); merr != nil {
		return merr
	}
	e.advance(1)
	return nil
}

func opMcopy(e *Executor) error {
	dest, src, length, err := e.pop3()
	if err != nil {
		return err
	}
	data, merr := e.memory.Load(truncateToOffset(&src), truncateToOffset(&length))
	if merr != nil {
		return merr
	}
	if merr := e.memory.Store(truncateToOffset(&dest), data); merr != nil {
		return merr
	}
	e.advance(1)
	return nil
}

func opCoinbase(e *Executor) error {
	r := wordFromBytes32(e.block.Coinbase.Bytes())
	return e.push(&r)
}

func opTimestamp(e *Executor) error {
	r := wordFromUint64(e.block.Timestamp)
	return e.push(&r)
}

func opNumber(e *Executor) error {
	r := wordFromUint64(e.block.Number)
	return e.push(&r)
}

func opPrevRandao(e *Executor) error {
	r := e.block.Difficulty
	return e.push(&r)
}

func opGasLimit(e *Executor) error {
	r := wordFromUint64(e.block.GasLimit)
	return e.push(&r)
}

func opBaseFee(e *Executor) error {
	r := e.block.BaseFee
	return e.push(&r)
}

func opPop(e *Executor) error {
	if _, err := e.stack.Pop(); err != nil {
		return err
	}
	e.advance(1)
	return nil
}

func opMload(e *Executor) error {
	offset, err := e.pop1()
	if err != nil {
		return err
	}
	w, merr := e.memory.LoadWord(truncateToOffset(&offset))
	if merr != nil {
		return merr
	}
	return e.push(&w)
}

func opMstore(e *Executor) error {
	offset, val, err := e.pop2()
	if err != nil {
		return err
	}
	if merr := e.memory.StoreWord(truncateToOffset(&offset), &val); merr != nil {
		return merr
	}
	e.advance(1)
	return nil
}

func opMstore8(e *Executor) error {
	offset, val, err := e.pop2()
	if err != nil {
		return err
	}
	if merr := e.memory.StoreByte(truncateToOffset(&offset), &val); merr != nil {
		return merr
	}
	e.advance(1)
	return nil
}

func opJump(e *Executor) error {
	dest, err := e.pop1()
	if err != nil {
		return err
	}
	return e.jumpTo(JUMP, &dest)
}

func opJumpi(e *Executor) error {
	dest, cond, err := e.pop2()
	if err != nil {
		return err
	}
	if cond.IsZero() {
		e.advance(1)
		return nil
	}
	return e.jumpTo(JUMPI, &dest)
}

func opJumpdest(e *Executor) error {
	e.advance(1)
	return nil
}

func opPc(e *Executor) error {
	r := wordFromUint64(e.frame.PC)
	return e.push(&r)
}

func opMsize(e *Executor) error {
	r := wordFromUint64(uint64(e.memory.Len()))
	return e.push(&r)
}

func opGas(e *Executor) error {
	r := wordFromUint64(e.frame.Gas)
	return e.push(&r)
}

func opReturn(e *Executor) error {
	offset, length, err := e.pop2()
	if err != nil {
		return err
	}
	data, merr := e.memory.Load(truncateToOffset(&offset), truncateToOffset(&length))
	if merr != nil {
		return merr
	}
	e.halt(StatusCompletion, data)
	return nil
}

func opRevert(e *Executor) error {
	offset, length, err := e.pop2()
	if err != nil {
		return err
	}
	data, merr := e.memory.Load(truncateToOffset(&offset), truncateToOffset(&length))
	if merr != nil {
		return merr
	}
	e.halt(StatusRevert, data)
	return nil
}

func opInvalid(e *Executor) error {
	return haltError(StatusUndefinedInstruction, INVALID, "INVALID opcode")
}

// makePush returns an executionFunc pushing the n big-endian immediate
// bytes following the opcode, zero-filling any that run off the end of
// code, then advancing PC by n+1.
func makePush(n uint64) executionFunc {
	return func(e *Executor) error {
		start := e.frame.PC + 1
		data := codeSlice(e.frame.Code, start, n)
		w := wordFromBytes32(leftPad32(data))
		if err := e.stack.Push(&w); err != nil {
			return err
		}
		e.advance(n + 1)
		return nil
	}
}

// makeDup returns an executionFunc for DUPn.
func makeDup(n int) executionFunc {
	return func(e *Executor) error {
		if err := e.stack.Dup(n); err != nil {
			return err
		}
		e.advance(1)
		return nil
	}
}

// makeSwap returns an executionFunc for SWAPn.
func makeSwap(n int) executionFunc {
	return func(e *Executor) error {
		if err := e.stack.Swap(n); err != nil {
			return err
		}
		e.advance(1)
		return nil
	}
}

// codeSlice returns length bytes of code starting at offset, zero-filling
// whatever falls past the end of code. Used by PUSHn's immediate read and
// CODECOPY.
func codeSlice(code []byte, offset, length uint64) []byte {
	out := make([]byte, length)
	size := uint64(len(code))
	if offset >= size || length == 0 {
		return out
	}
	available := size - offset
	if available > length {
		available = length
	}
	copy(out, code[offset:offset+available])
	return out
}

// leftPad32 left-pads b with zeros to 32 bytes (or truncates a longer
// slice's leading bytes, which never happens for PUSH's bounded reads).
func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
