package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/mvines/burri/service/signer"
)

// SignTransaction signs tx in place, producing one signature per required
// signer, positionally aligned with the message's signer keys. Every
// required signer must be covered by one of the provided signers; a missing
// signer or a refused signature is fatal, there is no partial signing.
func SignTransaction(tx *solana.Transaction, signers ...signer.Signer) error {
	content, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: unable to serialize message: %v", ErrSigning, err)
	}

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return fmt.Errorf("%w: message requires %d signatures but has %d account keys",
			ErrSigning, required, len(tx.Message.AccountKeys))
	}

	tx.Signatures = make([]solana.Signature, required)
	for i, key := range tx.Message.AccountKeys[:required] {
		s := findSigner(signers, key)
		if s == nil {
			return fmt.Errorf("%w: no signer for required account %s", ErrSigning, key)
		}
		sig, err := s.Sign(content)
		if err != nil {
			return fmt.Errorf("%w: signer %s: %v", ErrSigning, key, err)
		}
		tx.Signatures[i] = sig
	}
	return nil
}

func findSigner(signers []signer.Signer, key solana.PublicKey) signer.Signer {
	for _, s := range signers {
		if s.PublicKey().Equals(key) {
			return s
		}
	}
	return nil
}
