package awsKms

import (
	"context"
	"crypto/sha256"
	"encoding/asn1"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
)

type spki struct {
	Algorithm struct {
		Algorithm  asn1.ObjectIdentifier
		Parameters asn1.ObjectIdentifier
	}
	PublicKey asn1.BitString
}

// fakeKms keeps created keys in memory
type fakeKms struct {
	keys      map[string]*secp256k1.PrivateKey
	aliases   map[string]string
	createIn  *kms.CreateKeyInput
	createErr error
	aliasErr  error
}

func newFakeKms() *fakeKms {
	return &fakeKms{
		keys:    make(map[string]*secp256k1.PrivateKey),
		aliases: make(map[string]string),
	}
}

func (f *fakeKms) resolve(keyId string) (*secp256k1.PrivateKey, error) {
	if target, ok := f.aliases[keyId]; ok {
		keyId = target
	}
	key, ok := f.keys[keyId]
	if !ok {
		return nil, fmt.Errorf("NotFoundException: %s", keyId)
	}
	return key, nil
}

func (f *fakeKms) CreateKey(ctx context.Context, params *kms.CreateKeyInput, optFns ...func(*kms.Options)) (*kms.CreateKeyOutput, error) {
	f.createIn = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	keyId := fmt.Sprintf("key-%d", len(f.keys)+1)
	f.keys[keyId] = key
	return &kms.CreateKeyOutput{KeyMetadata: &types.KeyMetadata{KeyId: aws.String(keyId)}}, nil
}

func (f *fakeKms) CreateAlias(ctx context.Context, params *kms.CreateAliasInput, optFns ...func(*kms.Options)) (*kms.CreateAliasOutput, error) {
	if f.aliasErr != nil {
		return nil, f.aliasErr
	}
	f.aliases[aws.ToString(params.AliasName)] = aws.ToString(params.TargetKeyId)
	return &kms.CreateAliasOutput{}, nil
}

func (f *fakeKms) GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error) {
	key, err := f.resolve(aws.ToString(params.KeyId))
	if err != nil {
		return nil, err
	}
	var info spki
	info.Algorithm.Algorithm = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	info.Algorithm.Parameters = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
	info.PublicKey = asn1.BitString{Bytes: key.PubKey().SerializeUncompressed(), BitLength: 65 * 8}
	der, err := asn1.Marshal(info)
	if err != nil {
		return nil, err
	}
	return &kms.GetPublicKeyOutput{KeyId: params.KeyId, KeySpec: types.KeySpecEccSecgP256k1, PublicKey: der}, nil
}

func (f *fakeKms) Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error) {
	key, err := f.resolve(aws.ToString(params.KeyId))
	if err != nil {
		return nil, err
	}
	return &kms.SignOutput{KeyId: params.KeyId, Signature: ecdsa.Sign(key, params.Message).Serialize()}, nil
}

func bcyTest() *config.ClientConfig {
	return &config.ClientConfig{Currency: config.Currency_BlockCypher, Network: config.Network_Test}
}

func Test_AWSKMSKeyGenerator_GenerateKey(t *testing.T) {
	ctx := context.Background()
	fake := newFakeKms()
	gen := NewAWSKMSKeyGeneratorWithClient(fake, "us-east-1", bcyTest(), zaptest.NewLogger(t))

	key, err := gen.GenerateKey(ctx, "treasury", "treasury-signer")
	require.NoError(t, err)
	assert.Equal(t, "key-1", key.KeyId)
	assert.Equal(t, fake.keys["key-1"].PubKey().SerializeCompressed(), key.PublicKey)
	assert.Empty(t, key.PrivateKeyHex)
	assert.Empty(t, key.Wif)

	expected, err := digestSigner.PubKeyAddress(key.PublicKey, 0x1b)
	require.NoError(t, err)
	assert.Equal(t, expected, key.Address)

	require.NotNil(t, fake.createIn)
	assert.Equal(t, types.KeySpecEccSecgP256k1, fake.createIn.KeySpec)
	assert.Equal(t, types.KeyUsageTypeSignVerify, fake.createIn.KeyUsage)
	assert.Equal(t, "key-1", fake.aliases["alias/treasury-signer"])

	tags := make(map[string]string)
	for _, tag := range fake.createIn.Tags {
		tags[aws.ToString(tag.TagKey)] = aws.ToString(tag.TagValue)
	}
	assert.Equal(t, "treasury", tags["Name"])
	assert.Equal(t, "bcy/test", tags["Chain"])

	byAlias, err := gen.GetKeyById(ctx, "alias/treasury-signer")
	require.NoError(t, err)
	assert.Equal(t, key.Address, byAlias.Address)
}

func Test_AWSKMSKeyGenerator_NoAlias(t *testing.T) {
	fake := newFakeKms()
	gen := NewAWSKMSKeyGeneratorWithClient(fake, "us-east-1", bcyTest(), zaptest.NewLogger(t))

	_, err := gen.GenerateKey(context.Background(), "no-alias", "")
	require.NoError(t, err)
	assert.Empty(t, fake.aliases)
}

func Test_AWSKMSKeyGenerator_Signer(t *testing.T) {
	ctx := context.Background()
	fake := newFakeKms()
	gen := NewAWSKMSKeyGeneratorWithClient(fake, "us-east-1", bcyTest(), zaptest.NewLogger(t))

	key, err := gen.GenerateKey(ctx, "signer", "")
	require.NoError(t, err)

	signer, err := gen.Signer(ctx, key.KeyId)
	require.NoError(t, err)
	digest := sha256.Sum256([]byte("kms generated key"))
	sig, err := signer.SignDigest(ctx, digest[:])
	require.NoError(t, err)
	assert.NoError(t, digestSigner.VerifyDigestSignature(key.PublicKey, digest[:], sig))
}

func Test_AWSKMSKeyGenerator_Errors(t *testing.T) {
	ctx := context.Background()

	fake := newFakeKms()
	fake.createErr = errors.New("LimitExceededException")
	gen := NewAWSKMSKeyGeneratorWithClient(fake, "us-east-1", bcyTest(), zaptest.NewLogger(t))
	_, err := gen.GenerateKey(ctx, "k", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LimitExceededException")
	assert.Contains(t, err.Error(), "us-east-1")

	fake = newFakeKms()
	fake.aliasErr = errors.New("AlreadyExistsException")
	gen = NewAWSKMSKeyGeneratorWithClient(fake, "us-east-1", bcyTest(), zaptest.NewLogger(t))
	_, err = gen.GenerateKey(ctx, "k", "taken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alias taken")

	_, err = gen.GetKeyById(ctx, "missing")
	assert.Error(t, err)
}
