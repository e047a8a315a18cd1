package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/sha3"
)

// ethCoinType is the BIP-44 coin type for Ethereum.
const ethCoinType = 60

// FromHex builds a Key from a hex-encoded secp256k1 private key (with or without 0x).
func FromHex(privateKeyHex string) (*Key, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return fromBytes(raw, "")
}

// FromMnemonic derives the Ethereum key at m/44'/60'/0'/0/{index} from a BIP-39 mnemonic.
func FromMnemonic(mnemonic, passphrase string, index uint32) (*Key, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: mnemonic failed checksum", ErrInvalidKey)
	}
	seed := bip39.NewSeed(mnemonic, passphrase)

	key, err := deriveKey(seed, ethCoinType, index)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return fromBytes(common.LeftPadBytes(key, 32), fmt.Sprintf("m/44'/60'/0'/0/%d", index))
}

func fromBytes(raw []byte, path string) (*Key, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidKey, len(raw))
	}

	priv, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return &Key{
		PrivateKey:     priv,
		Address:        addressFromPrivKey(raw),
		DerivationPath: path,
	}, nil
}

// addressFromPrivKey computes the Ethereum address:
// last 20 bytes of Keccak256(uncompressed public key without the 0x04 prefix).
func addressFromPrivKey(raw []byte) common.Address {
	_, pubKey := btcec.PrivKeyFromBytes(raw)
	pubBytes := pubKey.SerializeUncompressed()
	hash := keccak256(pubBytes[1:])
	return common.BytesToAddress(hash[12:])
}

// PublicKey returns the ECDSA public key of k.
func (k *Key) PublicKey() *ecdsa.PublicKey {
	return &k.PrivateKey.PublicKey
}

// deriveKey derives a child private key from a BIP-39 seed using BIP-32/BIP-44.
// Path: m/44'/{coinType}'/0'/0/{index}
func deriveKey(seed []byte, coinType uint32, index uint32) ([]byte, error) {
	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}

	// m/44'
	purpose, err := masterKey.NewChildKey(bip32.FirstHardenedChild + 44)
	if err != nil {
		return nil, fmt.Errorf("derive purpose: %w", err)
	}

	// m/44'/{coinType}'
	coin, err := purpose.NewChildKey(bip32.FirstHardenedChild + coinType)
	if err != nil {
		return nil, fmt.Errorf("derive coin: %w", err)
	}

	// m/44'/{coinType}'/0'
	account, err := coin.NewChildKey(bip32.FirstHardenedChild + 0)
	if err != nil {
		return nil, fmt.Errorf("derive account: %w", err)
	}

	// m/44'/{coinType}'/0'/0
	change, err := account.NewChildKey(0)
	if err != nil {
		return nil, fmt.Errorf("derive change: %w", err)
	}

	// m/44'/{coinType}'/0'/0/{index}
	child, err := change.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child: %w", err)
	}

	return child.Key, nil
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
