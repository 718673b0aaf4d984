package localDigestSigner

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Factom-Asset-Tokens/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

const (
	privateKeyHexLength = 64
	// compressed WIF payloads carry a trailing 0x01 after the scalar
	compressedWifFlag = 0x01
)

// LocalDigestSigner signs digests with an in-memory secp256k1 private key.
// Signatures are deterministic (RFC6979) and low-S.
type LocalDigestSigner struct {
	keyId      string
	privateKey *secp256k1.PrivateKey
	logger     *zap.Logger
}

// NewLocalDigestSigner parses privateKey (64 hex chars, optionally 0x
// prefixed, or a compressed WIF) into a signer.
func NewLocalDigestSigner(privateKey string, logger *zap.Logger) (*LocalDigestSigner, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	key, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return &LocalDigestSigner{
		keyId:      fmt.Sprintf("local-key-%s", uuid.New().String()),
		privateKey: key,
		logger:     logger,
	}, nil
}

// ParsePrivateKey decodes a hex or WIF encoded secp256k1 private key. The
// scalar must lie in [1, n-1].
func ParsePrivateKey(privateKey string) (*secp256k1.PrivateKey, error) {
	trimmed := strings.TrimSpace(privateKey)
	if trimmed == "" {
		return nil, invalidKey("private key is empty")
	}

	var keyBytes []byte
	hexKey := strings.TrimPrefix(trimmed, "0x")
	if len(hexKey) == privateKeyHexLength {
		b, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, invalidKey("private key is not valid hex")
		}
		keyBytes = b
	} else {
		b, err := decodeWif(trimmed)
		if err != nil {
			return nil, err
		}
		keyBytes = b
	}
	defer zeroBytes(keyBytes)

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		scalar.Zero()
		return nil, invalidKey("private key is not a valid secp256k1 scalar")
	}
	key := secp256k1.NewPrivateKey(&scalar)
	scalar.Zero()
	return key, nil
}

func decodeWif(wif string) ([]byte, error) {
	payload, _, err := base58.CheckDecode(wif, 1)
	if err != nil {
		return nil, invalidKey("private key is neither 32-byte hex nor WIF")
	}
	switch {
	case len(payload) == 33 && payload[32] == compressedWifFlag:
		return payload[:32], nil
	case len(payload) == 32:
		zeroBytes(payload)
		return nil, invalidKey("uncompressed WIF keys are not supported")
	default:
		zeroBytes(payload)
		return nil, invalidKey(fmt.Sprintf("unexpected WIF payload length %d", len(payload)))
	}
}

func (l *LocalDigestSigner) KeyId() string {
	return l.keyId
}

func (l *LocalDigestSigner) PublicKey(ctx context.Context) ([]byte, error) {
	if l.privateKey == nil {
		return nil, invalidKey("signer key has been zeroed")
	}
	return l.privateKey.PubKey().SerializeCompressed(), nil
}

func (l *LocalDigestSigner) SignDigest(ctx context.Context, digest []byte) ([]byte, error) {
	if l.privateKey == nil {
		return nil, invalidKey("signer key has been zeroed")
	}
	if len(digest) != digestSigner.DigestLength {
		return nil, &types.SigningError{
			Reason: fmt.Sprintf("digest must be %d bytes, got %d", digestSigner.DigestLength, len(digest)),
			Index:  -1,
			Err:    types.ErrInvalidDigest,
		}
	}

	signature := ecdsa.Sign(l.privateKey, digest).Serialize()

	l.logger.Debug("Signed digest with local key",
		zap.String("keyId", l.keyId),
		zap.String("digest", hex.EncodeToString(digest)),
		zap.Int("signatureLen", len(signature)),
	)
	return signature, nil
}

// Zero wipes the private key. The signer is unusable afterwards.
func (l *LocalDigestSigner) Zero() {
	if l.privateKey != nil {
		l.privateKey.Zero()
		l.privateKey = nil
	}
}

func invalidKey(reason string) error {
	return &types.SigningError{Reason: reason, Index: -1, Err: types.ErrInvalidPrivateKey}
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Compile-time check to ensure LocalDigestSigner implements IDigestSigner
var _ digestSigner.IDigestSigner = (*LocalDigestSigner)(nil)
