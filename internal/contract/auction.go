package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/olehkaliuzhnyi/auction-demo/pkg/models"
)

// Auction is a typed client for the deployed auction contract.
// Each remote operation has its own method; no dispatch by name leaks to callers.
type Auction struct {
	address common.Address
	bound   *bind.BoundContract
	opts    *bind.TransactOpts
	typed   bool
	logger  *slog.Logger
}

// NewAuction binds the contract at address. opts signs state-changing calls
// and may be nil for a read-only client.
func NewAuction(address common.Address, parsed abi.ABI, backend bind.ContractBackend, opts *bind.TransactOpts) *Auction {
	a := &Auction{
		address: address,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		opts:    opts,
		typed:   returnsListings(parsed),
		logger:  slog.Default().With("component", "auction", "contract", address.Hex()),
	}
	if !a.typed {
		a.logger.Warn("listing tuple differs from the known layout; listings are printed as decoded")
	}
	return a
}

// Address returns the bound contract address.
func (a *Auction) Address() common.Address {
	return a.address
}

// CreateListing sends a createListing transaction and returns it without waiting for inclusion.
func (a *Auction) CreateListing(ctx context.Context, req models.ListingRequest) (*types.Transaction, error) {
	if a.opts == nil {
		return nil, errors.New("auction client has no transactor")
	}
	opts := *a.opts
	opts.Context = ctx

	a.logger.Debug("sending createListing",
		"id", req.ID,
		"title", req.Title,
		"min_bid", req.MinBid,
		"duration", req.Duration,
		"beneficiary", req.Beneficiary.Hex(),
	)

	tx, err := a.bound.Transact(&opts, MethodCreateListing,
		req.ID,
		req.Title,
		req.ContentHash,
		req.MinBid,
		req.DurationSeconds(),
		req.Beneficiary,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", MethodCreateListing, err)
	}

	a.logger.Info("transaction sent", "tx_hash", tx.Hash().Hex(), "nonce", tx.Nonce())
	return tx, nil
}

// FetchAllListings calls the read-only fetchAllListings and returns the listings in contract order.
// Results whose tuple layout is not models.Listing come back in Raw, unconverted.
func (a *Auction) FetchAllListings(ctx context.Context) (models.Listings, error) {
	var out []interface{}
	if err := a.bound.Call(&bind.CallOpts{Context: ctx}, &out, MethodFetchAllListings); err != nil {
		return models.Listings{}, fmt.Errorf("%s: %w", MethodFetchAllListings, err)
	}
	if len(out) != 1 {
		return models.Listings{}, fmt.Errorf("%s: got %d return values, want 1", MethodFetchAllListings, len(out))
	}

	if !a.typed {
		result := models.Listings{Raw: out[0]}
		a.logger.Debug("fetched listings", "count", result.Len(), "typed", false)
		return result, nil
	}

	items, err := convertListings(out[0])
	if err != nil {
		return models.Listings{}, fmt.Errorf("%s: %w", MethodFetchAllListings, err)
	}
	a.logger.Debug("fetched listings", "count", len(items), "typed", true)
	return models.Listings{Items: items}, nil
}

// convertListings maps the ABI-decoded tuple slice onto models.Listing.
// abi.ConvertType panics on a shape mismatch, which happens when the loaded
// interface definition disagrees with models.Listing.
func convertListings(v interface{}) (listings []models.Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode listings: %v", r)
		}
	}()
	converted := abi.ConvertType(v, new([]models.Listing)).(*[]models.Listing)
	return *converted, nil
}
