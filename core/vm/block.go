package vm

import "github.com/03ladr/xevm/core/types"

// BlockContext is the immutable set of block-level observables exposed
// to COINBASE/TIMESTAMP/NUMBER/PREVRANDAO/BASEFEE/GASLIMIT. It never
// changes during a run; a frame only ever sees one block.
type BlockContext struct {
	Coinbase   types.Address
	Timestamp  uint64
	Number     uint64
	Difficulty Word // PREVRANDAO post-merge, DIFFICULTY pre-merge; same opcode slot
	GasLimit   uint64
	BaseFee    Word
}
