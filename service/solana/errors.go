package solana

import "errors"

// Failure classes for a transfer run. Each fatal error out of this package
// wraps exactly one of these so callers can tell a construction-time query
// fault apart from a signing fault or a post-signing submission fault with
// errors.Is.
var (
	// ErrQuery covers balance and blockhash fetch failures; the pipeline
	// halts before signing.
	ErrQuery = errors.New("ledger query failed")

	// ErrSigning covers a missing required signer or a signer refusing to
	// produce a signature.
	ErrSigning = errors.New("failed to sign transaction")

	// ErrSubmission covers cluster rejection and confirmation timeouts
	// after the transaction was signed.
	ErrSubmission = errors.New("transaction submission failed")
)
