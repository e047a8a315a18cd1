package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Remote operations exposed by the auction contract.
const (
	MethodCreateListing    = "createListing"
	MethodFetchAllListings = "fetchAllListings"
)

// Interface definition errors.
var (
	ErrMissingMethod = errors.New("contract interface is missing method")
	ErrNotCollection = errors.New("fetchAllListings does not return a single collection")
)

// listingFields are the tuple components, in order, that decode into models.Listing.
var listingFields = []struct {
	name string
	typ  string
}{
	{"id", "uint256"},
	{"seller", "address"},
	{"title", "string"},
	{"ipfsHash", "string"},
	{"minBid", "uint256"},
	{"endTime", "uint256"},
	{"beneficiary", "address"},
	{"highestBidder", "address"},
	{"highestBid", "uint256"},
	{"ended", "bool"},
}

// artifact is the subset of a Hardhat/Truffle build artifact we read.
type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

// LoadABI reads a contract interface definition from path.
// The file may be a build artifact with an "abi" field or a bare ABI array.
func LoadABI(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("read abi: %w", err)
	}
	return ParseABI(data)
}

// ParseABI parses and checks an interface definition.
func ParseABI(data []byte) (abi.ABI, error) {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '{' {
		var a artifact
		if err := json.Unmarshal(raw, &a); err != nil {
			return abi.ABI{}, fmt.Errorf("decode artifact: %w", err)
		}
		if len(a.ABI) == 0 {
			return abi.ABI{}, errors.New("decode artifact: no abi field")
		}
		raw = a.ABI
	}

	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	if err := checkMethods(parsed); err != nil {
		return abi.ABI{}, err
	}
	return parsed, nil
}

func checkMethods(parsed abi.ABI) error {
	create, ok := parsed.Methods[MethodCreateListing]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingMethod, MethodCreateListing)
	}
	if len(create.Inputs) != 6 {
		return fmt.Errorf("%w: %s takes %d arguments, want 6", ErrMissingMethod, MethodCreateListing, len(create.Inputs))
	}
	fetch, ok := parsed.Methods[MethodFetchAllListings]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingMethod, MethodFetchAllListings)
	}
	if len(fetch.Outputs) != 1 {
		return fmt.Errorf("%w: got %d return values", ErrNotCollection, len(fetch.Outputs))
	}
	if t := fetch.Outputs[0].Type; t.T != abi.SliceTy && t.T != abi.ArrayTy {
		return fmt.Errorf("%w: returns %s", ErrNotCollection, t.String())
	}
	return nil
}

// returnsListings reports whether fetchAllListings yields tuples laid out
// exactly like models.Listing. Any other element shape is printed as decoded.
func returnsListings(parsed abi.ABI) bool {
	fetch, ok := parsed.Methods[MethodFetchAllListings]
	if !ok || len(fetch.Outputs) != 1 {
		return false
	}
	elem := fetch.Outputs[0].Type.Elem
	if elem == nil || elem.T != abi.TupleTy || len(elem.TupleElems) != len(listingFields) {
		return false
	}
	for i, f := range listingFields {
		if elem.TupleRawNames[i] != f.name || elem.TupleElems[i].String() != f.typ {
			return false
		}
	}
	return true
}
