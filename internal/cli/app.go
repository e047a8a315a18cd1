package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/olehkaliuzhnyi/auction-demo/internal/config"
	"github.com/olehkaliuzhnyi/auction-demo/internal/contract"
	"github.com/olehkaliuzhnyi/auction-demo/internal/listener"
	"github.com/olehkaliuzhnyi/auction-demo/internal/render"
	"github.com/olehkaliuzhnyi/auction-demo/internal/tx"
	"github.com/olehkaliuzhnyi/auction-demo/internal/wallet"
	"github.com/olehkaliuzhnyi/auction-demo/internal/workflow"
)

// options are the flags shared by every command.
type options struct {
	envFile  string
	output   string
	logLevel string
}

// session is the wired dependency graph for one command invocation.
type session struct {
	cfg    config.Config
	client *ethclient.Client
	key    *wallet.Key
	runner *workflow.Runner
}

// Close releases the RPC connection.
func (s *session) Close() {
	s.client.Close()
}

// openSession loads configuration, dials the node and builds the runner.
// signing selects whether a transactor is prepared for state-changing calls.
func openSession(cmd *cobra.Command, opts *options, signing bool) (*session, error) {
	ctx := cmd.Context()

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if signing {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateReadOnly()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	format, err := render.ParseFormat(opts.output)
	if err != nil {
		return nil, err
	}

	parsed, err := contract.LoadABI(cfg.ABIPath)
	if err != nil {
		return nil, fmt.Errorf("contract interface: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	client, err := ethclient.DialContext(dialCtx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}
	s := &session{cfg: cfg, client: client}

	var txOpts *bind.TransactOpts
	if signing {
		s.key, err = wallet.Resolve(cfg.PrivateKey, cfg.Mnemonic, cfg.AccountIndex)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("wallet: %w", err)
		}
		builder := tx.NewBuilder(tx.BuilderConfig{ChainID: cfg.ChainID, GasLimit: cfg.GasLimit}, s.key, client)
		txOpts, err = builder.TransactOpts(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
	}

	auction := contract.NewAuction(cfg.Contract(), parsed, client, txOpts)
	waiter := listener.NewWaiter(client, listener.PollingConfig{
		ConfirmationDepth: cfg.ConfirmationDepth,
		PollInterval:      cfg.PollInterval,
		Timeout:           cfg.ConfirmTimeout,
	})
	s.runner = workflow.NewRunner(auction, waiter, cmd.OutOrStdout(), format)

	slog.Debug("session ready", "rpc", cfg.RPCURL, "contract", cfg.Contract().Hex(), "signing", signing)
	return s, nil
}
