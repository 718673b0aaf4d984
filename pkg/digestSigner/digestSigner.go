package digestSigner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Factom-Asset-Tokens/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// DigestLength is the size of every transaction digest handed out in a
// skeleton's tosign list
const DigestLength = 32

// IDigestSigner signs 32-byte transaction digests with a secp256k1 key.
type IDigestSigner interface {
	// KeyId identifies the key in logs. It never contains key material.
	KeyId() string

	// PublicKey returns the 33-byte compressed public key
	PublicKey(ctx context.Context) ([]byte, error)

	// SignDigest returns a DER-encoded, low-S ECDSA signature over digest
	SignDigest(ctx context.Context, digest []byte) ([]byte, error)
}

// DecodeDigest decodes one hex digest of a tosign list. index is only used
// for error reporting.
func DecodeDigest(index int, digestHex string) ([]byte, error) {
	digest, err := hex.DecodeString(strings.TrimPrefix(digestHex, "0x"))
	if err != nil {
		return nil, &types.SigningError{Reason: "digest is not valid hex", Index: index, Err: types.ErrInvalidDigest}
	}
	if len(digest) != DigestLength {
		return nil, &types.SigningError{
			Reason: fmt.Sprintf("digest must be %d bytes, got %d", DigestLength, len(digest)),
			Index:  index,
			Err:    types.ErrInvalidDigest,
		}
	}
	return digest, nil
}

// VerifyDigestSignature checks a DER signature produced by a signer against
// the compressed public key. High-S signatures are rejected.
func VerifyDigestSignature(publicKey []byte, digest []byte, derSignature []byte) error {
	sig, err := ecdsa.ParseDERSignature(derSignature)
	if err != nil {
		return fmt.Errorf("failed to parse DER signature: %w", err)
	}
	r := sig.R()
	s := sig.S()
	rBytes := r.Bytes()
	sBytes := s.Bytes()

	compact := make([]byte, 64)
	copy(compact[0:32], rBytes[:])
	copy(compact[32:64], sBytes[:])

	if !ethcrypto.VerifySignature(publicKey, digest, compact) {
		return fmt.Errorf("signature does not verify against public key %x", publicKey)
	}
	return nil
}

// NewLowSSignature builds a canonical DER signature from raw R and S
// scalars, negating S when it is in the upper half of the curve order.
func NewLowSSignature(rBytes []byte, sBytes []byte) ([]byte, error) {
	if len(rBytes) > 32 || len(sBytes) > 32 {
		return nil, fmt.Errorf("signature scalars must be at most 32 bytes")
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(rBytes); overflow || r.IsZero() {
		return nil, fmt.Errorf("signature R is out of range")
	}
	if overflow := s.SetByteSlice(sBytes); overflow || s.IsZero() {
		return nil, fmt.Errorf("signature S is out of range")
	}
	if s.IsOverHalfOrder() {
		s.Negate()
	}
	return ecdsa.NewSignature(&r, &s).Serialize(), nil
}

// PubKeyAddress returns the base58check P2PKH address of a compressed public
// key for the given address version byte.
func PubKeyAddress(publicKey []byte, version byte) (string, error) {
	if _, err := secp256k1.ParsePubKey(publicKey); err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}
	sum := sha256.Sum256(publicKey)
	h := ripemd160.New()
	_, _ = h.Write(sum[:])
	return base58.CheckEncode(h.Sum(nil), version), nil
}
