package awsKmsDigestSigner

import (
	"context"
	"crypto/sha256"
	"encoding/asn1"
	"errors"
	"math/big"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmsTypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
)

var (
	oidEcPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1   = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// fakeKms holds a secp256k1 key and answers like AWS KMS does: SPKI public
// keys and DER signatures without any low-S guarantee.
type fakeKms struct {
	key        *secp256k1.PrivateKey
	signingKey *secp256k1.PrivateKey
	keySpec    kmsTypes.KeySpec
	forceHighS bool
	signCalls  int
	signErr    error
}

func newFakeKms(t *testing.T) *fakeKms {
	t.Helper()
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return &fakeKms{key: key, signingKey: key, keySpec: kmsTypes.KeySpecEccSecgP256k1, forceHighS: true}
}

func (f *fakeKms) GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error) {
	spki, err := asn1.Marshal(asn1EcPublicKey{
		EcPublicKeyInfo: asn1EcPublicKeyInfo{Algorithm: oidEcPublicKey, Parameters: oidSecp256k1},
		PublicKey: asn1.BitString{
			Bytes:     f.key.PubKey().SerializeUncompressed(),
			BitLength: 65 * 8,
		},
	})
	if err != nil {
		return nil, err
	}
	return &kms.GetPublicKeyOutput{
		KeyId:     params.KeyId,
		KeySpec:   f.keySpec,
		PublicKey: spki,
	}, nil
}

func (f *fakeKms) Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error) {
	f.signCalls++
	if f.signErr != nil {
		return nil, f.signErr
	}
	if params.MessageType != kmsTypes.MessageTypeDigest || params.SigningAlgorithm != kmsTypes.SigningAlgorithmSpecEcdsaSha256 {
		return nil, errors.New("unexpected signing parameters")
	}

	sig := ecdsa.Sign(f.signingKey, params.Message)
	r := sig.R()
	s := sig.S()
	if f.forceHighS && !s.IsOverHalfOrder() {
		s.Negate()
	}
	rBytes := r.Bytes()
	sBytes := s.Bytes()

	der, err := asn1.Marshal(struct {
		R *big.Int
		S *big.Int
	}{
		R: new(big.Int).SetBytes(rBytes[:]),
		S: new(big.Int).SetBytes(sBytes[:]),
	})
	if err != nil {
		return nil, err
	}
	return &kms.SignOutput{KeyId: params.KeyId, Signature: der}, nil
}

func Test_AWSKMSDigestSigner_SignDigest(t *testing.T) {
	ctx := context.Background()
	fake := newFakeKms(t)

	signer, err := NewAWSKMSDigestSignerWithClient(ctx, fake, "alias/blockcypher", "us-east-1", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "alias/blockcypher", signer.KeyId())

	pub, err := signer.PublicKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, fake.key.PubKey().SerializeCompressed(), pub)

	digest := sha256.Sum256([]byte("kms digest"))
	sig, err := signer.SignDigest(ctx, digest[:])
	require.NoError(t, err)
	assert.Equal(t, 1, fake.signCalls)

	// KMS answered with a high S value, the signer must have normalized it
	parsed, err := ecdsa.ParseDERSignature(sig)
	require.NoError(t, err)
	s := parsed.S()
	assert.False(t, s.IsOverHalfOrder())
	require.NoError(t, digestSigner.VerifyDigestSignature(pub, digest[:], sig))

	// and it is the same signature a local signer produces
	assert.Equal(t, ecdsa.Sign(fake.key, digest[:]).Serialize(), sig)
}

func Test_AWSKMSDigestSigner_RejectsWrongKeySpec(t *testing.T) {
	fake := newFakeKms(t)
	fake.keySpec = kmsTypes.KeySpecEccNistP256

	_, err := NewAWSKMSDigestSignerWithClient(context.Background(), fake, "alias/p256", "us-east-1", zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(kmsTypes.KeySpecEccSecgP256k1))
}

func Test_AWSKMSDigestSigner_RejectsForeignSignature(t *testing.T) {
	fake := newFakeKms(t)
	other, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	fake.signingKey = other

	signer, err := NewAWSKMSDigestSignerWithClient(context.Background(), fake, "alias/blockcypher", "us-east-1", zaptest.NewLogger(t))
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("kms digest"))
	_, err = signer.SignDigest(context.Background(), digest[:])
	assert.Error(t, err)
}

func Test_AWSKMSDigestSigner_Errors(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	fake := newFakeKms(t)

	_, err := NewAWSKMSDigestSignerWithClient(ctx, nil, "alias/blockcypher", "us-east-1", logger)
	assert.Error(t, err)
	_, err = NewAWSKMSDigestSignerWithClient(ctx, fake, "", "us-east-1", logger)
	assert.Error(t, err)
	_, err = NewAWSKMSDigestSignerWithClient(ctx, fake, "alias/blockcypher", "us-east-1", nil)
	assert.Error(t, err)

	signer, err := NewAWSKMSDigestSignerWithClient(ctx, fake, "alias/blockcypher", "us-east-1", logger)
	require.NoError(t, err)

	_, err = signer.SignDigest(ctx, []byte{0x01})
	assert.Error(t, err)
	assert.Equal(t, 0, fake.signCalls)

	fake.signErr = errors.New("AccessDeniedException")
	digest := sha256.Sum256([]byte("kms digest"))
	_, err = signer.SignDigest(ctx, digest[:])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDeniedException")
	assert.Contains(t, err.Error(), "alias/blockcypher")
}
