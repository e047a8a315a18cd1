package tx

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/olehkaliuzhnyi/auction-demo/internal/wallet"
)

// ChainIDReader is the node call used to resolve the chain id (eth_chainId).
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// BuilderConfig holds configurable parameters for transaction options.
type BuilderConfig struct {
	// ChainID overrides the node-reported chain id when non-zero.
	ChainID int64
	// GasLimit fixes the gas limit; zero lets the node estimate it.
	GasLimit uint64
}

// Builder prepares signing options for state-changing contract calls.
// Nonce and fee selection are left to the node at send time.
type Builder struct {
	key    *wallet.Key
	chain  ChainIDReader
	logger *slog.Logger
	cfg    BuilderConfig
}

// NewBuilder creates a transaction options builder for key.
func NewBuilder(cfg BuilderConfig, key *wallet.Key, chain ChainIDReader) *Builder {
	return &Builder{
		key:    key,
		chain:  chain,
		logger: slog.Default().With("component", "tx_builder"),
		cfg:    cfg,
	}
}

// From returns the sending address.
func (b *Builder) From() string {
	return b.key.Address.Hex()
}

// TransactOpts returns EIP-155 signing options bound to the resolved chain id.
func (b *Builder) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := b.chainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(b.key.PrivateKey, chainID)
	if err != nil {
		return nil, fmt.Errorf("transactor: %w", err)
	}
	opts.Context = ctx
	opts.GasLimit = b.cfg.GasLimit

	b.logger.Info("transactor ready",
		"from", opts.From.Hex(),
		"chain_id", chainID,
		"gas_limit", opts.GasLimit,
	)
	return opts, nil
}

func (b *Builder) chainID(ctx context.Context) (*big.Int, error) {
	if b.cfg.ChainID != 0 {
		return big.NewInt(b.cfg.ChainID), nil
	}
	return b.chain.ChainID(ctx)
}
