package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/olehkaliuzhnyi/auction-demo/pkg/models"
)

// Listing defaults; an unset beneficiary falls back to the signing address.
const (
	defaultListingID   = "1"
	defaultTitle       = "Painting"
	defaultContentHash = "QmImageHashExample"
	defaultMinBidEther = "0.1"
	defaultDuration    = time.Hour
)

type listingFlags struct {
	id          string
	title       string
	contentHash string
	minBid      string
	duration    time.Duration
	beneficiary string
}

func (f *listingFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.id, "id", defaultListingID, "listing identifier (uint256)")
	flags.StringVar(&f.title, "title", defaultTitle, "listing title")
	flags.StringVar(&f.contentHash, "hash", defaultContentHash, "content hash (e.g. IPFS CID)")
	flags.StringVar(&f.minBid, "min-bid", defaultMinBidEther, "minimum bid in ether")
	flags.DurationVar(&f.duration, "duration", defaultDuration, "auction duration (whole seconds are sent)")
	flags.StringVar(&f.beneficiary, "beneficiary", "", "beneficiary address (default: signing address)")
}

// request converts the flags into a ListingRequest. Only parsing happens
// here; value checks are the contract's job. An unset beneficiary stays
// zero until defaultBeneficiary fills it.
func (f *listingFlags) request() (models.ListingRequest, error) {
	id, ok := new(big.Int).SetString(f.id, 0)
	if !ok {
		return models.ListingRequest{}, fmt.Errorf("--id: invalid integer %q", f.id)
	}
	minBid, err := models.ParseEther(f.minBid)
	if err != nil {
		return models.ListingRequest{}, fmt.Errorf("--min-bid: %w", err)
	}

	var beneficiary common.Address
	if f.beneficiary != "" {
		if !common.IsHexAddress(f.beneficiary) {
			return models.ListingRequest{}, fmt.Errorf("--beneficiary: invalid address %q", f.beneficiary)
		}
		beneficiary = common.HexToAddress(f.beneficiary)
	}

	return models.ListingRequest{
		ID:          id,
		Title:       f.title,
		ContentHash: f.contentHash,
		MinBid:      minBid,
		Duration:    f.duration,
		Beneficiary: beneficiary,
	}, nil
}

// defaultBeneficiary sets the beneficiary to sender unless --beneficiary was given.
func (f *listingFlags) defaultBeneficiary(req *models.ListingRequest, sender common.Address) {
	if f.beneficiary == "" {
		req.Beneficiary = sender
	}
}
