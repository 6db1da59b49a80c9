package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mvines/burri/service/config"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := &cli.App{
		Name:      "burri",
		Usage:     "Send yourself a random fraction of your SOL balance",
		ArgsUsage: "[ADDRESS...]",
		Description: `Submits a single self-transfer of a uniformly random amount in
[0, balance/2) lamports, with any ADDRESS arguments appended to the
transfer instruction as read-only account references.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"C"},
				Usage:   "Solana CLI configuration file to use",
				Value:   config.DefaultConfigFile(),
				EnvVars: []string{"SOLANA_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "keypair",
				Usage:   "Keypair file path or base58 private key [default: value from configuration file]",
				EnvVars: []string{"SOLANA_KEYPAIR"},
			},
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "JSON RPC URL or cluster moniker (m|d|t|l) [default: value from configuration file]",
				EnvVars: []string{"SOLANA_RPC_URL"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show additional information",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Value:   90 * time.Second,
				Usage:   "How long to wait for transaction confirmation",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the result as JSON",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON output (implies --json)",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
