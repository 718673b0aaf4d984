package localDigestSigner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

const (
	keyOneHex             = "0000000000000000000000000000000000000000000000000000000000000001"
	keyOneWifCompressed   = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"
	keyOneWifUncompressed = "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"
	keyOnePubKey          = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	curveOrderHex         = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	testPrivateKeyHex     = "1af97b1f428ac89b7d35323ea7a68aba8cad178a04eddbbf591f65671bae48a2"
)

func Test_ParsePrivateKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"hex", keyOneHex},
		{"0x hex", "0x" + keyOneHex},
		{"upper case hex", strings.ToUpper(keyOneHex)},
		{"surrounding whitespace", "  " + keyOneHex + "\n"},
		{"compressed wif", keyOneWifCompressed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParsePrivateKey(tt.input)
			require.NoError(t, err)
			assert.Equal(t, keyOnePubKey, hex.EncodeToString(key.PubKey().SerializeCompressed()))
		})
	}
}

func Test_ParsePrivateKey_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"zero scalar", strings.Repeat("0", 64)},
		{"curve order", curveOrderHex},
		{"above curve order", strings.Repeat("f", 64)},
		{"not hex", strings.Repeat("g", 64)},
		{"short hex", keyOneHex[:62]},
		{"uncompressed wif", keyOneWifUncompressed},
		{"bad wif checksum", keyOneWifCompressed[:len(keyOneWifCompressed)-1] + "o"},
		{"garbage", "not-a-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrivateKey(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidPrivateKey)
			if tt.input != "" {
				assert.NotContains(t, err.Error(), tt.input)
			}
		})
	}
}

func Test_LocalDigestSigner_SignDigest(t *testing.T) {
	ctx := context.Background()
	signer, err := NewLocalDigestSigner(testPrivateKeyHex, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signer.KeyId(), "local-key-"))
	assert.NotContains(t, signer.KeyId(), testPrivateKeyHex)

	pub, err := signer.PublicKey(ctx)
	require.NoError(t, err)
	assert.Len(t, pub, 33)

	digest := sha256.Sum256([]byte("tosign"))
	first, err := signer.SignDigest(ctx, digest[:])
	require.NoError(t, err)
	second, err := signer.SignDigest(ctx, digest[:])
	require.NoError(t, err)
	assert.Equal(t, first, second, "signatures are deterministic")

	require.NoError(t, digestSigner.VerifyDigestSignature(pub, digest[:], first))

	parsed, err := ecdsa.ParseDERSignature(first)
	require.NoError(t, err)
	s := parsed.S()
	assert.False(t, s.IsOverHalfOrder())
}

func Test_LocalDigestSigner_RejectsBadDigest(t *testing.T) {
	signer, err := NewLocalDigestSigner(testPrivateKeyHex, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = signer.SignDigest(context.Background(), make([]byte, 31))
	assert.ErrorIs(t, err, types.ErrInvalidDigest)
	_, err = signer.SignDigest(context.Background(), make([]byte, 33))
	assert.ErrorIs(t, err, types.ErrInvalidDigest)
}

func Test_LocalDigestSigner_Zero(t *testing.T) {
	signer, err := NewLocalDigestSigner(testPrivateKeyHex, zaptest.NewLogger(t))
	require.NoError(t, err)

	signer.Zero()
	signer.Zero()

	_, err = signer.PublicKey(context.Background())
	assert.ErrorIs(t, err, types.ErrInvalidPrivateKey)
	digest := sha256.Sum256([]byte("tosign"))
	_, err = signer.SignDigest(context.Background(), digest[:])
	assert.ErrorIs(t, err, types.ErrInvalidPrivateKey)
}

func Test_NewLocalDigestSigner_RequiresLogger(t *testing.T) {
	_, err := NewLocalDigestSigner(testPrivateKeyHex, nil)
	assert.Error(t, err)
}
