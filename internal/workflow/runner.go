// Package workflow runs the listing workflow: submit one createListing
// transaction, wait for it to confirm, then query and print all listings.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/olehkaliuzhnyi/auction-demo/internal/render"
	"github.com/olehkaliuzhnyi/auction-demo/pkg/models"
)

// Auction is the remote contract surface the runner drives.
type Auction interface {
	CreateListing(ctx context.Context, req models.ListingRequest) (*types.Transaction, error)
	FetchAllListings(ctx context.Context) (models.Listings, error)
}

// Confirmer waits for a sent transaction to be included.
type Confirmer interface {
	WaitConfirmed(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Runner executes the steps strictly in order; the first failure ends the run.
type Runner struct {
	auction   Auction
	confirmer Confirmer
	out       io.Writer
	format    render.Format
	logger    *slog.Logger
}

// NewRunner creates a runner writing console output to out.
func NewRunner(auction Auction, confirmer Confirmer, out io.Writer, format render.Format) *Runner {
	if format == "" {
		format = render.FormatText
	}
	return &Runner{
		auction:   auction,
		confirmer: confirmer,
		out:       out,
		format:    format,
		logger:    slog.Default().With("component", "workflow"),
	}
}

// SubmitListing sends the createListing transaction and returns its pending handle.
func (r *Runner) SubmitListing(ctx context.Context, req models.ListingRequest) (*models.Submission, error) {
	tx, err := r.auction.CreateListing(ctx, req)
	if err != nil {
		return nil, err
	}
	sub := models.NewSubmission(tx)

	if _, err := fmt.Fprintf(r.out, "Transaction hash: %s\n", sub.TxHash.Hex()); err != nil {
		return nil, err
	}
	return sub, nil
}

// AwaitConfirmation blocks until sub is included and marks it confirmed.
func (r *Runner) AwaitConfirmation(ctx context.Context, sub *models.Submission) error {
	if sub == nil || sub.Tx == nil {
		return errors.New("no submitted transaction to confirm")
	}
	receipt, err := r.confirmer.WaitConfirmed(ctx, sub.Tx)
	if err != nil {
		return err
	}
	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	sub.Confirm(block)

	_, err = fmt.Fprintln(r.out, "Listing created.")
	return err
}

// FetchListings queries every listing the contract holds.
func (r *Runner) FetchListings(ctx context.Context) (models.Listings, error) {
	return r.auction.FetchAllListings(ctx)
}

// Run submits req, waits for confirmation, then fetches and prints all listings.
func (r *Runner) Run(ctx context.Context, req models.ListingRequest) error {
	if _, err := r.Create(ctx, req); err != nil {
		return err
	}
	return r.List(ctx)
}

// Create submits req and waits for it to confirm, without querying listings.
func (r *Runner) Create(ctx context.Context, req models.ListingRequest) (*models.Submission, error) {
	sub, err := r.SubmitListing(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit listing: %w", err)
	}
	r.logger.Info("listing submitted", "tx_hash", sub.TxHash.Hex())

	if err := r.AwaitConfirmation(ctx, sub); err != nil {
		return sub, fmt.Errorf("await confirmation: %w", err)
	}
	r.logger.Info("listing confirmed", "tx_hash", sub.TxHash.Hex(), "block", sub.BlockNumber)
	return sub, nil
}

// List fetches all listings and prints them.
func (r *Runner) List(ctx context.Context) error {
	listings, err := r.FetchListings(ctx)
	if err != nil {
		return fmt.Errorf("fetch listings: %w", err)
	}
	r.logger.Info("listings fetched", "count", listings.Len())

	if err := render.Listings(r.out, r.format, listings); err != nil {
		return fmt.Errorf("print listings: %w", err)
	}
	return nil
}
