package solana

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// System Program instruction types
const (
	SystemProgramTransferInstruction = uint32(2)
)

// System Transfer instruction data layout:
// [0..4]  = instruction type (u32 LE, 2 for Transfer)
// [4..12] = lamports (u64 LE)
const transferDataLen = 12

// TransferWithExtras builds a System Program transfer instruction moving
// lamports from `from` to `to`, with each address in `extras` appended as a
// read-only account meta in input order.
//
// The runtime resolves account roles by position, so the meta order is part
// of the instruction's contract:
//
//	[0]  from   (signer, writable)
//	[1]  to     (writable)
//	[2:] extras (read-only)
//
// No distinctness checks are performed: `to` may equal `from` and extras may
// duplicate either. The cluster, not this builder, decides whether such an
// instruction is acceptable.
func TransferWithExtras(from, to solana.PublicKey, lamports uint64, extras []solana.PublicKey) *solana.GenericInstruction {
	metas := make(solana.AccountMetaSlice, 0, len(extras)+2)
	metas = append(metas, solana.NewAccountMeta(from, true, true))
	metas = append(metas, solana.NewAccountMeta(to, true, false))
	for _, extra := range extras {
		metas = append(metas, solana.NewAccountMeta(extra, false, false))
	}

	data := make([]byte, transferDataLen)
	binary.LittleEndian.PutUint32(data[0:4], SystemProgramTransferInstruction)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return solana.NewInstruction(solana.SystemProgramID, metas, data)
}

// ParseTransfer decodes the lamports from a System Program Transfer
// instruction's data payload. Exact inverse of the encoding performed by
// TransferWithExtras for every uint64 value.
func ParseTransfer(data []byte) (uint64, error) {
	if len(data) < transferDataLen {
		return 0, fmt.Errorf("instruction data too short: %d bytes", len(data))
	}
	instructionType := binary.LittleEndian.Uint32(data[0:4])
	if instructionType != SystemProgramTransferInstruction {
		return 0, fmt.Errorf("not a transfer instruction: type %d", instructionType)
	}
	return binary.LittleEndian.Uint64(data[4:12]), nil
}
