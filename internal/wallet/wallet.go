package wallet

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidKey is returned when key material cannot be turned into a signing key.
var ErrInvalidKey = errors.New("invalid signing key")

// Key is an Ethereum signing key with its address.
// In production the private key would stay behind an HSM or KMS.
type Key struct {
	PrivateKey     *ecdsa.PrivateKey
	Address        common.Address
	DerivationPath string // empty for raw keys
}

// Resolve picks the signing key from the configured material.
// A raw private key takes precedence over a mnemonic.
func Resolve(privateKeyHex, mnemonic string, index uint32) (*Key, error) {
	switch {
	case privateKeyHex != "":
		return FromHex(privateKeyHex)
	case mnemonic != "":
		return FromMnemonic(mnemonic, "", index)
	default:
		return nil, ErrInvalidKey
	}
}
