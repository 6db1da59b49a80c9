package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/itchyny/gojq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/mvines/burri/service/config"
	"github.com/mvines/burri/service/metrics"
	"github.com/mvines/burri/service/signer"
	solanaservice "github.com/mvines/burri/service/solana"
)

func run(c *cli.Context) error {
	cfg, err := config.Load(config.Options{
		ConfigFile:     c.String("config"),
		Keypair:        c.String("keypair"),
		URL:            c.String("url"),
		Verbose:        c.Bool("verbose"),
		ConfirmTimeout: c.Duration("timeout"),
		ExtraAddresses: c.Args().Slice(),
	})
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	payer, err := signer.Resolve(cfg.KeypairRef)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	client := solanaservice.NewClient(
		solanaservice.NewRPCClient(cfg.RPCURL),
		cfg.RPCURL,
		metrics.NewMetrics(registry),
		logger,
	)
	defer func() {
		if err := metrics.Dump(registry, logger); err != nil {
			logger.Warn("failed to dump metrics", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(c.Context, cfg.ConfirmTimeout)
	defer cancel()

	receipt, err := sendSelfTransfer(ctx, client, payer, cfg, os.Stdout)
	if err != nil {
		return err
	}

	return printReceipt(os.Stdout, receipt, c.Bool("json") || c.String("jq") != "", c.String("jq"))
}

// sendSelfTransfer runs the pipeline with the verbose output wired in. The
// RPC URL is known up front but the amount only exists mid-pipeline, so the
// fee payer / amount / extra address lines go through the OnAmountChosen
// hook, which fires after amount selection and before the transaction is
// signed or submitted.
func sendSelfTransfer(ctx context.Context, client *solanaservice.Client, payer signer.Signer, cfg *config.Config, out io.Writer) (*solanaservice.Receipt, error) {
	params := solanaservice.SelfTransferParams{
		Signer: payer,
		Extras: cfg.ExtraAddresses,
	}
	if cfg.Verbose {
		fmt.Fprintf(out, "JSON RPC URL: %s\n", cfg.RPCURL)
		params.OnAmountChosen = func(lamports uint64) {
			fmt.Fprintf(out, "Fee payer: %s, Amount: %.9f SOL\n",
				payer.PublicKey(), float64(lamports)/float64(solana.LAMPORTS_PER_SOL))
			fmt.Fprintf(out, "Extra addresses: %v\n", cfg.ExtraAddresses)
		}
	}
	return client.SendSelfTransfer(ctx, params)
}

// printReceipt writes the run result to stdout: the plain confirmed
// signature by default, or the JSON receipt, optionally passed through a
// compiled jq filter.
func printReceipt(w io.Writer, receipt *solanaservice.Receipt, asJSON bool, jqFilter string) error {
	if !asJSON {
		fmt.Fprintf(w, "Signature: %s\n", receipt.Signature)
		return nil
	}

	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	if jqFilter == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}

	query, err := gojq.Parse(jqFilter)
	if err != nil {
		return fmt.Errorf("failed to parse jq filter %q: %w", jqFilter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq filter %q: %w", jqFilter, err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode receipt: %w", err)
	}

	iter := code.Run(v)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := out.(error); isErr {
			return fmt.Errorf("jq filter error: %w", err)
		}
		line, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to encode jq result: %w", err)
		}
		fmt.Fprintln(w, string(line))
	}
	return nil
}
