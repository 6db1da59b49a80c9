// Package config resolves the tool's configuration once, up front, from
// CLI flags and the standard Solana CLI config file. Validation happens at
// construction time so the pipeline never sees a half-formed option.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"
)

// Config holds the fully resolved run options.
type Config struct {
	// ConfigFile is the Solana CLI config file the values were read from,
	// if any.
	ConfigFile string

	// KeypairRef identifies the fee payer's signing key: a keypair file
	// path or an inline base58 private key.
	KeypairRef string

	// RPCURL is the JSON RPC endpoint, with cluster monikers already
	// normalized to URLs.
	RPCURL string

	// Verbose enables debug logging and pre-submission detail output.
	Verbose bool

	// ConfirmTimeout bounds the wait for transaction confirmation.
	ConfirmTimeout time.Duration

	// ExtraAddresses are appended to the transfer instruction as
	// read-only account metas, in order.
	ExtraAddresses []solana.PublicKey
}

// Options are the raw, unvalidated inputs collected by the CLI layer.
type Options struct {
	ConfigFile     string
	Keypair        string
	URL            string
	Verbose        bool
	ConfirmTimeout time.Duration
	ExtraAddresses []string
}

// solanaCLIConfig mirrors the fields we use from the Solana CLI's YAML
// config file (~/.config/solana/cli/config.yml).
type solanaCLIConfig struct {
	JSONRPCURL  string `yaml:"json_rpc_url"`
	KeypairPath string `yaml:"keypair_path"`
}

// DefaultConfigFile returns the standard Solana CLI config file location,
// or "" if the home directory cannot be determined.
func DefaultConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "cli", "config.yml")
}

// Load resolves Options into a validated Config. Precedence for the RPC
// URL and keypair is: explicit flag, then config-file value, then default
// (mainnet-beta RPC; no default keypair). All validation errors are
// collected and reported together.
func Load(opts Options) (*Config, error) {
	cfg := &Config{
		ConfigFile:     opts.ConfigFile,
		Verbose:        opts.Verbose,
		ConfirmTimeout: opts.ConfirmTimeout,
	}
	var errs []error

	fileCfg, err := loadConfigFile(opts.ConfigFile)
	if err != nil {
		errs = append(errs, err)
	}

	cfg.KeypairRef = opts.Keypair
	if cfg.KeypairRef == "" && fileCfg != nil {
		cfg.KeypairRef = fileCfg.KeypairPath
	}
	if cfg.KeypairRef == "" {
		file := opts.ConfigFile
		if file == "" {
			file = DefaultConfigFile()
		}
		if file != "" {
			errs = append(errs, fmt.Errorf("no keypair: pass --keypair or set keypair_path in %s", file))
		} else {
			errs = append(errs, fmt.Errorf("no keypair: pass --keypair"))
		}
	}

	rawURL := opts.URL
	if rawURL == "" && fileCfg != nil {
		rawURL = fileCfg.JSONRPCURL
	}
	if rawURL == "" {
		rawURL = rpc.MainNetBeta_RPC
	}
	cfg.RPCURL = NormalizeURL(rawURL)

	if cfg.ConfirmTimeout <= 0 {
		errs = append(errs, fmt.Errorf("confirmation timeout must be positive, got %v", cfg.ConfirmTimeout))
	}

	cfg.ExtraAddresses = make([]solana.PublicKey, 0, len(opts.ExtraAddresses))
	for _, addr := range opts.ExtraAddresses {
		pk, err := solana.PublicKeyFromBase58(addr)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid extra address %q: %w", addr, err))
			continue
		}
		cfg.ExtraAddresses = append(cfg.ExtraAddresses, pk)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}
	return cfg, nil
}

// loadConfigFile reads a Solana CLI config file. A missing file is not an
// error (the Rust CLI falls back to defaults the same way); a present but
// unparseable file is.
func loadConfigFile(path string) (*solanaCLIConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	var fileCfg solanaCLIConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
	}
	return &fileCfg, nil
}

// NormalizeURL expands the Solana cluster monikers accepted by the stock
// tooling into their public RPC URLs. Anything else passes through
// unchanged.
func NormalizeURL(urlOrMoniker string) string {
	switch urlOrMoniker {
	case "m", "mainnet-beta":
		return rpc.MainNetBeta_RPC
	case "d", "devnet":
		return rpc.DevNet_RPC
	case "t", "testnet":
		return rpc.TestNet_RPC
	case "l", "localhost":
		return rpc.LocalNet_RPC
	default:
		return urlOrMoniker
	}
}
