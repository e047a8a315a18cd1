package models

import (
	"math/big"
	"reflect"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ListingRequest holds the arguments of a createListing call.
// Values are passed to the contract as-is; the contract rejects anything malformed.
type ListingRequest struct {
	ID          *big.Int       `json:"id"`
	Title       string         `json:"title"`
	ContentHash string         `json:"content_hash"`
	MinBid      *big.Int       `json:"min_bid"` // wei
	Duration    time.Duration  `json:"duration"`
	Beneficiary common.Address `json:"beneficiary"`
}

// DurationSeconds returns the listing duration as the uint256 the contract expects.
func (r ListingRequest) DurationSeconds() *big.Int {
	return big.NewInt(int64(r.Duration / time.Second))
}

// Listing mirrors the Listing tuple returned by fetchAllListings.
// Field order and names must match the ABI components: the binding converts positionally.
type Listing struct {
	Id            *big.Int       `json:"id" yaml:"id"`
	Seller        common.Address `json:"seller" yaml:"seller"`
	Title         string         `json:"title" yaml:"title"`
	IpfsHash      string         `json:"ipfs_hash" yaml:"ipfs_hash"`
	MinBid        *big.Int       `json:"min_bid" yaml:"min_bid"`
	EndTime       *big.Int       `json:"end_time" yaml:"end_time"`
	Beneficiary   common.Address `json:"beneficiary" yaml:"beneficiary"`
	HighestBidder common.Address `json:"highest_bidder" yaml:"highest_bidder"`
	HighestBid    *big.Int       `json:"highest_bid" yaml:"highest_bid"`
	Ended         bool           `json:"ended" yaml:"ended"`
}

// Listings is the result of fetchAllListings. Items is filled when the
// contract returns Listing tuples; otherwise Raw holds the decoded values
// exactly as the contract reported them.
type Listings struct {
	Items []Listing
	Raw   interface{}
}

// Len returns the number of listings in either form.
func (l Listings) Len() int {
	if l.Raw == nil {
		return len(l.Items)
	}
	v := reflect.ValueOf(l.Raw)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return v.Len()
	}
	return 1
}

// SubmissionState is the lifecycle state of a submitted transaction.
type SubmissionState string

// Submission states. A submission only ever moves from pending to confirmed.
const (
	SubmissionPending   SubmissionState = "pending"
	SubmissionConfirmed SubmissionState = "confirmed"
)

// Submission is the handle for a state-changing call sent to the contract.
type Submission struct {
	TxHash      common.Hash        `json:"tx_hash"`
	State       SubmissionState    `json:"state"`
	BlockNumber uint64             `json:"block_number,omitempty"`
	Tx          *types.Transaction `json:"-"`
}

// NewSubmission wraps a freshly sent transaction in a pending handle.
func NewSubmission(tx *types.Transaction) *Submission {
	return &Submission{
		TxHash: tx.Hash(),
		State:  SubmissionPending,
		Tx:     tx,
	}
}

// Confirm marks the submission as included at the given block.
func (s *Submission) Confirm(blockNumber uint64) {
	s.State = SubmissionConfirmed
	s.BlockNumber = blockNumber
}
