package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/mvines/burri/service/signer"
)

// SelfTransferParams contains the inputs for one self-transfer run.
type SelfTransferParams struct {
	// Signer is the fee payer; it both funds and receives the transfer.
	Signer signer.Signer

	// Extras are appended to the transfer instruction as read-only
	// account metas, in order.
	Extras []solana.PublicKey

	// Rand picks the transfer amount. Nil means crypto/rand.
	Rand RandomSource

	// OnAmountChosen, if set, observes the chosen amount right after
	// selection, before the transaction is assembled, signed or
	// submitted. The CLI uses it for its pre-submission verbose output.
	OnAmountChosen func(lamports uint64)
}

// Receipt describes a confirmed self-transfer.
type Receipt struct {
	Signature      solana.Signature   `json:"signature"`
	FeePayer       solana.PublicKey   `json:"fee_payer"`
	Lamports       uint64             `json:"lamports"`
	ExtraAddresses []solana.PublicKey `json:"extra_addresses,omitempty"`
}

// SendSelfTransfer runs the whole pipeline: query the fee payer's balance,
// pick a random amount in [0, balance/2), build the transfer instruction
// with the extra read-only addresses, bind it to a fresh blockhash, sign,
// and submit with confirmation tracking.
//
// The steps are strictly sequential and nothing is retried here; the first
// failure is final for the run. A zero amount (balance below 2 lamports) is
// not special-cased: the transaction is still built and submitted.
func (c *Client) SendSelfTransfer(ctx context.Context, p SelfTransferParams) (*Receipt, error) {
	payer := p.Signer.PublicKey()

	balance, err := c.Balance(ctx, payer)
	if err != nil {
		return nil, err
	}

	src := p.Rand
	if src == nil {
		src = CryptoSource{}
	}
	amount, err := ChooseAmount(src, balance)
	if err != nil {
		return nil, err
	}

	if p.OnAmountChosen != nil {
		p.OnAmountChosen(amount)
	}

	c.logger.DebugContext(ctx, "chose transfer amount",
		"fee_payer", payer.String(),
		"balance", balance,
		"lamports", amount,
		"extra_addresses", len(p.Extras),
	)

	instruction := TransferWithExtras(payer, payer, amount, p.Extras)

	// The blockhash is fetched last so the validity window starts as close
	// to signing as possible.
	blockhash, err := c.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		// Assembly happens before signing; this is a construction fault,
		// not a submission fault.
		return nil, fmt.Errorf("unable to assemble transaction: %w", err)
	}

	if err := SignTransaction(tx, p.Signer); err != nil {
		return nil, err
	}

	sig, err := c.SubmitAndConfirm(ctx, tx)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		Signature:      sig,
		FeePayer:       payer,
		Lamports:       amount,
		ExtraAddresses: p.Extras,
	}, nil
}
