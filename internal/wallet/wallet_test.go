package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	hardhatMnemonic = "test test test test test test test test test test test junk"
	// First account of the default Hardhat/Anvil node.
	hardhatKey0  = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4ff2f80"
	hardhatAddr0 = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestFromHex_KnownAddress(t *testing.T) {
	key, err := FromHex(hardhatKey0)
	if err != nil {
		t.Fatal(err)
	}
	if key.Address != common.HexToAddress(hardhatAddr0) {
		t.Errorf("address = %s, want %s", key.Address.Hex(), hardhatAddr0)
	}
	if key.DerivationPath != "" {
		t.Errorf("raw key should have no derivation path, got %s", key.DerivationPath)
	}
}

func TestFromHex_WithoutPrefix(t *testing.T) {
	a, err := FromHex(hardhatKey0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromHex(strings.TrimPrefix(hardhatKey0, "0x"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Address != b.Address {
		t.Errorf("0x prefix changed the address: %s vs %s", a.Address.Hex(), b.Address.Hex())
	}
}

func TestFromHex_Invalid(t *testing.T) {
	tests := []string{"", "0xzz", "0x1234", strings.Repeat("00", 32)}
	for _, in := range tests {
		if _, err := FromHex(in); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("FromHex(%q) error = %v, want ErrInvalidKey", in, err)
		}
	}
}

func TestFromMnemonic_KnownAddresses(t *testing.T) {
	tests := []struct {
		mnemonic string
		want     string
	}{
		{abandonMnemonic, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"},
		{hardhatMnemonic, hardhatAddr0},
	}
	for _, tt := range tests {
		key, err := FromMnemonic(tt.mnemonic, "", 0)
		if err != nil {
			t.Fatal(err)
		}
		if key.Address != common.HexToAddress(tt.want) {
			t.Errorf("address = %s, want %s", key.Address.Hex(), tt.want)
		}
		if key.DerivationPath != "m/44'/60'/0'/0/0" {
			t.Errorf("path = %s", key.DerivationPath)
		}
	}
}

func TestFromMnemonic_DifferentIndices(t *testing.T) {
	k0, err := FromMnemonic(abandonMnemonic, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	k1, err := FromMnemonic(abandonMnemonic, "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if k0.Address == k1.Address {
		t.Error("different indices produced same address")
	}
}

func TestFromMnemonic_InvalidChecksum(t *testing.T) {
	_, err := FromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", "", 0)
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

// The btcec/Keccak address path must agree with go-ethereum's own derivation.
func TestAddressMatchesGethDerivation(t *testing.T) {
	for i := uint32(0); i < 5; i++ {
		key, err := FromMnemonic(hardhatMnemonic, "", i)
		if err != nil {
			t.Fatal(err)
		}
		if want := crypto.PubkeyToAddress(*key.PublicKey()); key.Address != want {
			t.Errorf("index %d: address = %s, geth = %s", i, key.Address.Hex(), want.Hex())
		}
	}
}

func TestResolve(t *testing.T) {
	key, err := Resolve(hardhatKey0, abandonMnemonic, 0)
	if err != nil {
		t.Fatal(err)
	}
	if key.Address != common.HexToAddress(hardhatAddr0) {
		t.Errorf("private key should take precedence, got %s", key.Address.Hex())
	}

	key, err = Resolve("", abandonMnemonic, 0)
	if err != nil {
		t.Fatal(err)
	}
	if key.DerivationPath == "" {
		t.Error("mnemonic key should carry its derivation path")
	}

	if _, err := Resolve("", "", 0); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}
