package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Terminal confirmation failures.
var (
	ErrReverted = errors.New("transaction reverted")
	ErrTimeout  = errors.New("confirmation timed out")
)

// ReceiptFetcher abstracts the chain RPC calls needed to follow a transaction.
// Satisfied by *ethclient.Client (eth_getTransactionReceipt + eth_blockNumber).
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// PollingConfig holds configuration for the confirmation waiter.
type PollingConfig struct {
	ConfirmationDepth uint64        // blocks including the tx's own; 1 means "included"
	PollInterval      time.Duration // receipt/head polling period
	Timeout           time.Duration // zero waits until ctx is done
}

// Waiter blocks until a submitted transaction is included at the configured depth.
// It re-checks the receipt's block hash on every poll to notice chain reorganizations.
type Waiter struct {
	fetcher ReceiptFetcher
	cfg     PollingConfig
	logger  *slog.Logger
}

// NewWaiter returns a Waiter polling fetcher.
func NewWaiter(fetcher ReceiptFetcher, cfg PollingConfig) *Waiter {
	if cfg.ConfirmationDepth == 0 {
		cfg.ConfirmationDepth = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &Waiter{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  slog.Default().With("component", "listener"),
	}
}

// WaitConfirmed polls until tx is confirmed and returns its receipt.
// A receipt with failed status ends the wait with ErrReverted.
func (w *Waiter) WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	hash := tx.Hash()
	logger := w.logger.With("tx", hash.Hex())
	logger.Info("waiting for confirmation",
		"poll_interval", w.cfg.PollInterval,
		"confirmation_depth", w.cfg.ConfirmationDepth,
	)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	var seen *types.Receipt
	for {
		receipt, done, err := w.poll(ctx, logger, hash, &seen)
		if err != nil {
			return receipt, err
		}
		if done {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			if w.cfg.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, w.cfg.Timeout, hash.Hex())
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll performs one receipt check. seen carries the receipt observed on the
// previous poll so a moved or dropped receipt can be reported.
func (w *Waiter) poll(ctx context.Context, logger *slog.Logger, hash common.Hash, seen **types.Receipt) (*types.Receipt, bool, error) {
	receipt, err := w.fetcher.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		if *seen != nil {
			logger.Warn("chain reorganization detected: receipt dropped",
				"old_block", (*seen).BlockNumber,
				"old_hash", (*seen).BlockHash.Hex(),
			)
			*seen = nil
		}
		return nil, false, nil
	}
	if err != nil {
		logger.Error("poll failed", "error", err)
		return nil, false, nil
	}
	if receipt.BlockNumber == nil {
		return nil, false, nil
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, true, fmt.Errorf("%w: %s in block %d", ErrReverted, hash.Hex(), receipt.BlockNumber)
	}

	if prev := *seen; prev != nil && prev.BlockHash != receipt.BlockHash {
		logger.Warn("chain reorganization detected",
			"old_block", prev.BlockNumber,
			"old_hash", prev.BlockHash.Hex(),
			"new_block", receipt.BlockNumber,
			"new_hash", receipt.BlockHash.Hex(),
		)
	}
	*seen = receipt

	included := receipt.BlockNumber.Uint64()
	if w.cfg.ConfirmationDepth <= 1 {
		logger.Info("transaction confirmed", "block", included, "gas_used", receipt.GasUsed)
		return receipt, true, nil
	}

	head, err := w.fetcher.BlockNumber(ctx)
	if err != nil {
		logger.Error("poll failed", "error", err)
		return nil, false, nil
	}
	if head+1 >= included+w.cfg.ConfirmationDepth {
		logger.Info("transaction confirmed",
			"block", included,
			"depth", head-included+1,
			"gas_used", receipt.GasUsed,
		)
		return receipt, true, nil
	}

	logger.Debug("awaiting depth", "block", included, "head", head)
	return nil, false, nil
}
