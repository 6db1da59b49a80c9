package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvines/burri/service/config"
	"github.com/mvines/burri/service/signer"
	solanaservice "github.com/mvines/burri/service/solana"
)

// stubRPCClient is a happy-path RPC stub that snapshots the verbose output
// buffer at the moment the transaction is sent, so tests can pin what was
// visible before submission.
type stubRPCClient struct {
	out      *bytes.Buffer
	sendErr  error
	atSubmit string
}

func (s *stubRPCClient) GetBalance(
	ctx context.Context,
	account solana.PublicKey,
	commitment rpc.CommitmentType,
) (*rpc.GetBalanceResult, error) {
	return &rpc.GetBalanceResult{Value: 1_000_000}, nil
}

func (s *stubRPCClient) GetLatestBlockhash(
	ctx context.Context,
	commitment rpc.CommitmentType,
) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash: solana.Hash(solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")),
		},
	}, nil
}

func (s *stubRPCClient) SendTransactionWithOpts(
	ctx context.Context,
	tx *solana.Transaction,
	opts rpc.TransactionOpts,
) (solana.Signature, error) {
	s.atSubmit = s.out.String()
	if s.sendErr != nil {
		return solana.Signature{}, s.sendErr
	}
	return tx.Signatures[0], nil
}

func (s *stubRPCClient) GetSignatureStatuses(
	ctx context.Context,
	searchTransactionHistory bool,
	signatures ...solana.Signature,
) (*rpc.GetSignatureStatusesResult, error) {
	return &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		},
	}, nil
}

func newStubbedClient(stub *stubRPCClient) *solanaservice.Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := solanaservice.NewClient(stub, "test", nil, logger)
	client.PollInterval = time.Millisecond
	return client
}

func newRunSigner(t *testing.T) signer.Signer {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	s, err := signer.Resolve(key.String())
	require.NoError(t, err)
	return s
}

func TestSendSelfTransfer_VerboseOutputBeforeSubmission(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubRPCClient{out: &buf}
	payer := newRunSigner(t)
	cfg := &config.Config{RPCURL: "https://example.com/rpc", Verbose: true}

	receipt, err := sendSelfTransfer(context.Background(), newStubbedClient(stub), payer, cfg, &buf)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	out := buf.String()
	urlIdx := strings.Index(out, "JSON RPC URL: https://example.com/rpc")
	payerIdx := strings.Index(out, "Fee payer: "+payer.PublicKey().String())
	amountIdx := strings.Index(out, "Amount: ")
	extrasIdx := strings.Index(out, "Extra addresses: ")
	require.GreaterOrEqual(t, urlIdx, 0)
	require.GreaterOrEqual(t, payerIdx, 0)
	require.GreaterOrEqual(t, amountIdx, 0)
	require.GreaterOrEqual(t, extrasIdx, 0)
	assert.Less(t, urlIdx, payerIdx)
	assert.Less(t, payerIdx, amountIdx)

	// Everything the verbose output names was already visible when the
	// transaction went out.
	assert.Contains(t, stub.atSubmit, "JSON RPC URL:")
	assert.Contains(t, stub.atSubmit, "Fee payer:")
	assert.Contains(t, stub.atSubmit, "Amount:")
	assert.Contains(t, stub.atSubmit, "Extra addresses:")
}

func TestSendSelfTransfer_VerboseAmountShownOnRejection(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubRPCClient{out: &buf, sendErr: errors.New("Transaction simulation failed")}
	cfg := &config.Config{RPCURL: "https://example.com/rpc", Verbose: true}

	_, err := sendSelfTransfer(context.Background(), newStubbedClient(stub), newRunSigner(t), cfg, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Amount: ")
}

func TestSendSelfTransfer_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubRPCClient{out: &buf}
	cfg := &config.Config{RPCURL: "https://example.com/rpc"}

	_, err := sendSelfTransfer(context.Background(), newStubbedClient(stub), newRunSigner(t), cfg, &buf)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func testReceipt() *solanaservice.Receipt {
	return &solanaservice.Receipt{
		Signature: solana.MustSignatureFromBase58("5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tprA2TFg9wSyTLeYouxPBJEMzJinENTkpA52YStRW5Dia7"),
		FeePayer:  solana.MustPublicKeyFromBase58("SysvarC1ock11111111111111111111111111111111"),
		Lamports:  123_456,
	}
}

func TestPrintReceipt_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReceipt(&buf, testReceipt(), false, ""))
	assert.Equal(t,
		"Signature: 5j7s6NiJS3JAkvgkoc18WVAsiSaci2pxB2A6ueCJP4tprA2TFg9wSyTLeYouxPBJEMzJinENTkpA52YStRW5Dia7\n",
		buf.String(),
	)
}

func TestPrintReceipt_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReceipt(&buf, testReceipt(), true, ""))
	assert.Contains(t, buf.String(), `"lamports":123456`)
	assert.Contains(t, buf.String(), `"fee_payer":"SysvarC1ock11111111111111111111111111111111"`)
}

func TestPrintReceipt_JQFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReceipt(&buf, testReceipt(), true, ".lamports"))
	assert.Equal(t, "123456\n", buf.String())
}

func TestPrintReceipt_BadJQFilter(t *testing.T) {
	var buf bytes.Buffer
	err := printReceipt(&buf, testReceipt(), true, ".[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jq filter")
}
