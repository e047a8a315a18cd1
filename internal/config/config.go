package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Required configuration errors.
var (
	ErrMissingRPCURL   = errors.New("rpc url is not set (HARDHAT_NETWORK_URL or RPC_URL)")
	ErrMissingKey      = errors.New("signing key is not set (PRIVATE_KEY or MNEMONIC)")
	ErrMissingContract = errors.New("contract address is not set (CONTRACT_ADDRESS)")
	ErrInvalidContract = errors.New("contract address is not a valid hex address")
)

// Config is the connection context for one run.
type Config struct {
	// Endpoint and contract
	RPCURL          string
	ContractAddress string
	ABIPath         string

	// Signing key: PrivateKey wins over Mnemonic when both are set.
	PrivateKey   string
	Mnemonic     string
	AccountIndex uint32

	// ChainID overrides eth_chainId when non-zero.
	ChainID int64
	// GasLimit fixes the gas limit; zero lets the node estimate.
	GasLimit uint64

	// Confirmation
	ConfirmationDepth uint64
	PollInterval      time.Duration
	ConfirmTimeout    time.Duration // zero waits indefinitely

	DialTimeout time.Duration
	LogLevel    string
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		ABIPath: "contracts/Auction.json",

		ConfirmationDepth: 1,
		PollInterval:      1 * time.Second,
		ConfirmTimeout:    0,

		DialTimeout: 15 * time.Second,
		LogLevel:    "info",
	}
}

// Load reads the given .env files (missing files are ignored) and then
// builds the Config from the process environment.
// Variables already present in the environment are not overridden.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv returns a Config populated from environment variables,
// falling back to defaults for unset values.
func FromEnv() (Config, error) {
	cfg := Default()

	cfg.RPCURL = firstEnv("HARDHAT_NETWORK_URL", "RPC_URL")
	cfg.ContractAddress = os.Getenv("CONTRACT_ADDRESS")
	cfg.PrivateKey = os.Getenv("PRIVATE_KEY")
	cfg.Mnemonic = os.Getenv("MNEMONIC")

	if v := os.Getenv("CONTRACT_ABI_PATH"); v != "" {
		cfg.ABIPath = v
	}
	if v := os.Getenv("ACCOUNT_INDEX"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("ACCOUNT_INDEX: %w", err)
		}
		cfg.AccountIndex = uint32(n)
	}
	if v := os.Getenv("CHAIN_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("CHAIN_ID: %w", err)
		}
		cfg.ChainID = n
	}
	if v := os.Getenv("GAS_LIMIT"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("GAS_LIMIT: %w", err)
		}
		cfg.GasLimit = n
	}
	if v := os.Getenv("CONFIRMATION_DEPTH"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("CONFIRMATION_DEPTH: %w", err)
		}
		cfg.ConfirmationDepth = n
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := os.Getenv("CONFIRM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("CONFIRM_TIMEOUT: %w", err)
		}
		cfg.ConfirmTimeout = d
	}
	if v := os.Getenv("DIAL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("DIAL_TIMEOUT: %w", err)
		}
		cfg.DialTimeout = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	return cfg, nil
}

// Validate checks the fields a state-changing run needs.
func (c Config) Validate() error {
	if err := c.ValidateReadOnly(); err != nil {
		return err
	}
	if c.PrivateKey == "" && c.Mnemonic == "" {
		return ErrMissingKey
	}
	return nil
}

// ValidateReadOnly checks the fields a query-only run needs.
func (c Config) ValidateReadOnly() error {
	if c.RPCURL == "" {
		return ErrMissingRPCURL
	}
	if c.ContractAddress == "" {
		return ErrMissingContract
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("%w: %q", ErrInvalidContract, c.ContractAddress)
	}
	return nil
}

// Contract returns the parsed contract address. Call Validate first.
func (c Config) Contract() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
