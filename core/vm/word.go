package vm

import "github.com/holiman/uint256"

// Word is the 256-bit unsigned integer type every stack slot and memory
// word holds. Arithmetic wraps modulo 2^256; signed operations reinterpret
// the same bit pattern as two's-complement. uint256.Int already implements
// this operation set (Add/Sub/Mul/Div/SDiv/Mod/SMod/AddMod/MulMod/Exp/Lsh/
// Rsh/SRsh/Byte/ExtendSign/Slt/Sgt/Eq/Lt/Gt/IsZero/SetBytes32/Bytes32), so
// Word is a plain alias rather than a wrapper: every uint256.Int method is
// a Word method too.
type Word = uint256.Int

// zeroWord returns a fresh Word set to zero.
func zeroWord() Word {
	return Word{}
}

// wordFromUint64 returns a fresh Word holding v.
func wordFromUint64(v uint64) Word {
	var w Word
	w.SetUint64(v)
	return w
}

// wordFromBytes32 returns a fresh Word from a 32-byte big-endian buffer.
func wordFromBytes32(b []byte) Word {
	var w Word
	w.SetBytes(b)
	return w
}

// truncateToOffset converts a Word to a byte offset/length by taking its
// low 64 bits. A Word that does not fit in 64 bits is already a
// practically-unaddressable offset, so truncation rather than saturation
// is an acceptable, well-defined choice.
func truncateToOffset(w *Word) uint64 {
	return w.Uint64()
}
