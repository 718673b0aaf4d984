package keyGenerator

import (
	"context"
	"encoding/hex"

	"github.com/Factom-Asset-Tokens/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// GeneratedKey is a secp256k1 signing key and the address it controls on
// the configured chain. PrivateKeyHex and Wif are only set for keys
// generated in process.
type GeneratedKey struct {
	KeyId         string
	PublicKey     []byte
	Address       string
	PrivateKeyHex string
	Wif           string
}

// PublicKeyHex returns the compressed public key, hex encoded
func (g *GeneratedKey) PublicKeyHex() string {
	return hex.EncodeToString(g.PublicKey)
}

// Keychain returns the key in the same shape the address generation
// endpoint uses.
func (g *GeneratedKey) Keychain() *types.AddressKeychain {
	return &types.AddressKeychain{
		Address: g.Address,
		Public:  g.PublicKeyHex(),
		Private: g.PrivateKeyHex,
		Wif:     g.Wif,
	}
}

type IKeyGenerator interface {
	GenerateKey(ctx context.Context, keyName string, aliasName string) (*GeneratedKey, error)
	GetKeyById(ctx context.Context, keyId string) (*GeneratedKey, error)
	Signer(ctx context.Context, keyId string) (digestSigner.IDigestSigner, error)
}

// DeriveAddress returns the P2PKH address of publicKey on the chain
// described by cfg, or an empty string when the chain's version byte is
// unknown.
func DeriveAddress(publicKey []byte, cfg *config.ClientConfig) (string, error) {
	version, ok := cfg.AddressVersion()
	if !ok {
		return "", nil
	}
	return digestSigner.PubKeyAddress(publicKey, version)
}

// EncodeWif encodes key as a compressed-pubkey WIF string for the chain
// described by cfg. An empty string is returned for unknown chains.
func EncodeWif(key *secp256k1.PrivateKey, cfg *config.ClientConfig) string {
	version, ok := cfg.WifVersion()
	if !ok {
		return ""
	}
	payload := append(key.Serialize(), 0x01)
	return base58.CheckEncode(payload, version)
}
