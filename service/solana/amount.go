package solana

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// RandomSource yields uniformly distributed integers. The transfer amount
// selection takes this as an injected capability so tests can substitute a
// deterministic or boundary-valued source.
type RandomSource interface {
	// Uint64n returns a uniform value in [0, max). max must be > 0.
	Uint64n(max uint64) (uint64, error)
}

// CryptoSource is the production RandomSource, backed by crypto/rand.
type CryptoSource struct{}

// Uint64n draws a uniform value in [0, max) using rejection sampling so the
// result carries no modulo bias.
func (CryptoSource) Uint64n(max uint64) (uint64, error) {
	if max == 0 {
		return 0, fmt.Errorf("max must be positive")
	}
	// Largest multiple of max that fits in a uint64; draws at or above it
	// are rejected.
	limit := ^uint64(0) - (^uint64(0) % max)
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("failed to read random bytes: %w", err)
		}
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return v % max, nil
		}
	}
}

// ChooseAmount picks the lamports to self-transfer: a uniform sample from
// [0, balance/2). A balance below 2 lamports leaves that range empty and the
// amount is 0; that is not an error, the transfer is still attempted.
func ChooseAmount(src RandomSource, balance uint64) (uint64, error) {
	half := balance / 2
	if half == 0 {
		return 0, nil
	}
	amount, err := src.Uint64n(half)
	if err != nil {
		return 0, fmt.Errorf("failed to choose transfer amount: %w", err)
	}
	return amount, nil
}
