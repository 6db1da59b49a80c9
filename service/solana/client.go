package solana

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/mvines/burri/service/metrics"
)

// RPCClient is an interface for the Solana RPC operations we need.
// This allows us to mock the RPC layer in tests without hitting real
// Solana nodes.
type RPCClient interface {
	GetBalance(
		ctx context.Context,
		account solana.PublicKey,
		commitment rpc.CommitmentType,
	) (*rpc.GetBalanceResult, error)

	GetLatestBlockhash(
		ctx context.Context,
		commitment rpc.CommitmentType,
	) (*rpc.GetLatestBlockhashResult, error)

	SendTransactionWithOpts(
		ctx context.Context,
		tx *solana.Transaction,
		opts rpc.TransactionOpts,
	) (solana.Signature, error)

	GetSignatureStatuses(
		ctx context.Context,
		searchTransactionHistory bool,
		signatures ...solana.Signature,
	) (*rpc.GetSignatureStatusesResult, error)
}

// Client wraps the RPC client with the ledger operations the transfer
// pipeline needs: balance and blockhash queries plus submission with
// confirmation tracking.
type Client struct {
	rpc      RPCClient
	logger   *slog.Logger
	metrics  *metrics.Metrics
	endpoint string // RPC endpoint identifier for metrics (e.g., "mainnet", rpc host)

	// PollInterval is how often SubmitAndConfirm checks signature
	// statuses. Tests lower it; the default suits public RPC rate limits.
	PollInterval time.Duration
}

// NewClient creates a new Solana client. The endpoint parameter is used for
// metrics labeling. If m is nil, no metrics will be recorded.
func NewClient(rpcClient RPCClient, endpoint string, m *metrics.Metrics, logger *slog.Logger) *Client {
	return &Client{
		rpc:          rpcClient,
		logger:       logger,
		metrics:      m,
		endpoint:     endpoint,
		PollInterval: 2 * time.Second,
	}
}

// Balance fetches the lamport balance of the given account at confirmed
// commitment.
func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	start := time.Now()
	out, err := c.rpc.GetBalance(ctx, account, rpc.CommitmentConfirmed)
	c.recordRPCCall("GetBalance", err, time.Since(start))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get balance",
			"account", account.String(),
			"error", err,
		)
		return 0, fmt.Errorf("%w: unable to get balance for %s: %v", ErrQuery, account, err)
	}
	c.logger.DebugContext(ctx, "fetched balance",
		"account", account.String(),
		"lamports", out.Value,
	)
	return out.Value, nil
}

// LatestBlockhash fetches a recent blockhash at confirmed commitment.
// Blockhashes expire after the cluster's validity window, so callers must
// fetch immediately before signing rather than cache across attempts.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	start := time.Now()
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	c.recordRPCCall("GetLatestBlockhash", err, time.Since(start))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get latest blockhash", "error", err)
		return solana.Hash{}, fmt.Errorf("%w: unable to get latest blockhash: %v", ErrQuery, err)
	}
	c.logger.DebugContext(ctx, "fetched latest blockhash",
		"blockhash", out.Value.Blockhash.String(),
		"last_valid_block_height", out.Value.LastValidBlockHeight,
	)
	return out.Value.Blockhash, nil
}

// SubmitAndConfirm sends a signed transaction and polls signature statuses
// until the cluster reports it confirmed (or better), reports a transaction
// error, or ctx expires. The bounded wait comes from the caller's context;
// a deadline surfaces as a submission error, never an indefinite block.
func (c *Client) SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	start := time.Now()
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	c.recordRPCCall("SendTransaction", err, time.Since(start))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to send transaction", "error", err)
		if c.metrics != nil {
			c.metrics.RecordTransferOutcome("rejected")
		}
		return solana.Signature{}, fmt.Errorf("%w: send transaction: %v", ErrSubmission, err)
	}

	c.logger.InfoContext(ctx, "transaction submitted, awaiting confirmation",
		"signature", sig.String(),
	)

	submitted := time.Now()
	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if c.metrics != nil {
				c.metrics.RecordTransferOutcome("timeout")
			}
			return solana.Signature{}, fmt.Errorf("%w: timed out waiting for confirmation of %s: %v",
				ErrSubmission, sig, ctx.Err())
		case <-ticker.C:
		}

		statusStart := time.Now()
		out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
		c.recordRPCCall("GetSignatureStatuses", err, time.Since(statusStart))
		if err != nil {
			// Transient status-poll failures are retried until the
			// deadline; the transaction may still land.
			c.logger.WarnContext(ctx, "failed to get signature status, will retry",
				"signature", sig.String(),
				"error", err,
			)
			continue
		}
		if len(out.Value) == 0 || out.Value[0] == nil {
			c.logger.DebugContext(ctx, "transaction not yet observed",
				"signature", sig.String(),
			)
			continue
		}

		status := out.Value[0]
		if status.Err != nil {
			if c.metrics != nil {
				c.metrics.RecordTransferOutcome("failed")
			}
			return solana.Signature{}, fmt.Errorf("%w: transaction %s failed: %v",
				ErrSubmission, sig, status.Err)
		}

		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			wait := time.Since(submitted)
			if c.metrics != nil {
				c.metrics.RecordTransferOutcome("confirmed")
				c.metrics.RecordConfirmationWait(c.endpoint, wait.Seconds())
			}
			c.logger.InfoContext(ctx, "transaction confirmed",
				"signature", sig.String(),
				"status", string(status.ConfirmationStatus),
				"wait", wait.String(),
			)
			return sig, nil
		default:
			c.logger.DebugContext(ctx, "transaction not yet confirmed",
				"signature", sig.String(),
				"status", string(status.ConfirmationStatus),
			)
		}
	}
}

func (c *Client) recordRPCCall(method string, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordRPCCall(method, status, c.endpoint, d.Seconds())
}
