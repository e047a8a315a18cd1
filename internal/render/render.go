package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olehkaliuzhnyi/auction-demo/pkg/models"
)

// Format selects how listings are written to the console.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Listings writes the query result after the "All listings:" label.
// Values are printed as returned by the contract, without filtering or reordering.
func Listings(w io.Writer, format Format, listings models.Listings) error {
	value := printable(listings)
	switch format {
	case FormatJSON:
		if _, err := io.WriteString(w, "All listings: "); err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case FormatYAML:
		if _, err := io.WriteString(w, "All listings:\n"); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintf(w, "All listings: %v\n", value)
		return err
	}
}

// listingView is the printable form of a listing: addresses as checksummed
// hex and amounts as base-10 strings.
type listingView struct {
	ID            string `json:"id" yaml:"id"`
	Seller        string `json:"seller" yaml:"seller"`
	Title         string `json:"title" yaml:"title"`
	IpfsHash      string `json:"ipfs_hash" yaml:"ipfs_hash"`
	MinBid        string `json:"min_bid" yaml:"min_bid"`
	EndTime       string `json:"end_time" yaml:"end_time"`
	Beneficiary   string `json:"beneficiary" yaml:"beneficiary"`
	HighestBidder string `json:"highest_bidder" yaml:"highest_bidder"`
	HighestBid    string `json:"highest_bid" yaml:"highest_bid"`
	Ended         bool   `json:"ended" yaml:"ended"`
}

// printable returns the view slice for typed listings and the decoded value otherwise.
func printable(listings models.Listings) interface{} {
	if listings.Raw != nil {
		return listings.Raw
	}
	return toViews(listings.Items)
}

func toViews(listings []models.Listing) []listingView {
	views := make([]listingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, listingView{
			ID:            l.Id.String(),
			Seller:        l.Seller.Hex(),
			Title:         l.Title,
			IpfsHash:      l.IpfsHash,
			MinBid:        l.MinBid.String(),
			EndTime:       l.EndTime.String(),
			Beneficiary:   l.Beneficiary.Hex(),
			HighestBidder: l.HighestBidder.Hex(),
			HighestBid:    l.HighestBid.String(),
			Ended:         l.Ended,
		})
	}
	return views
}
