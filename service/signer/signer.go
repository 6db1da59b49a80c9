// Package signer resolves the fee payer's signing capability.
//
// A signer reference is either a path to a Solana keygen JSON file or an
// inline base58-encoded private key. Both variants share one contract, and
// the variant is picked once at resolution time; the rest of the program
// only ever sees the Signer interface.
package signer

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// ErrResolution indicates the signer reference could not be turned into a
// usable signing capability (bad path, malformed key material).
var ErrResolution = errors.New("unable to resolve signer")

// Signer owns private key material. It exposes its public identity and can
// produce a signature over arbitrary message bytes.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(message []byte) (solana.Signature, error)
}

// fileSigner is backed by a Solana keygen JSON keypair file on disk.
type fileSigner struct {
	key  solana.PrivateKey
	path string
}

func (s *fileSigner) PublicKey() solana.PublicKey { return s.key.PublicKey() }

func (s *fileSigner) Sign(message []byte) (solana.Signature, error) {
	sig, err := s.key.Sign(message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("keypair %s: %w", s.path, err)
	}
	return sig, nil
}

// rawKeySigner is backed by an inline base58-encoded private key.
type rawKeySigner struct {
	key solana.PrivateKey
}

func (s *rawKeySigner) PublicKey() solana.PublicKey { return s.key.PublicKey() }

func (s *rawKeySigner) Sign(message []byte) (solana.Signature, error) {
	return s.key.Sign(message)
}

// Resolve turns a signer reference into a Signer. A reference naming an
// existing file is loaded as a Solana keygen JSON keypair; anything else is
// tried as a base58-encoded private key.
func Resolve(ref string) (Signer, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: no keypair configured", ErrResolution)
	}

	if _, err := os.Stat(ref); err == nil {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: keypair file %s: %v", ErrResolution, ref, err)
		}
		return &fileSigner{key: key, path: ref}, nil
	}

	key, err := solana.PrivateKeyFromBase58(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is neither a keypair file nor a base58 private key", ErrResolution, ref)
	}
	return &rawKeySigner{key: key}, nil
}
