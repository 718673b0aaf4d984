package awsKmsDigestSigner

import (
	"context"
	"encoding/asn1"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmsTypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
)

// KmsApi is the subset of the AWS KMS client used for signing
type KmsApi interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

// AWSKMSDigestSigner signs digests with an ECC_SECG_P256K1 key held in AWS
// KMS. The private key never leaves KMS.
type AWSKMSDigestSigner struct {
	logger    *zap.Logger
	kmsClient KmsApi
	keyId     string
	awsRegion string
	publicKey []byte
}

// NewAWSKMSDigestSigner creates a signer for keyId using the KMS client
// built from awsCfg. The public key is fetched once, up front.
func NewAWSKMSDigestSigner(ctx context.Context, awsCfg aws.Config, keyId string, logger *zap.Logger) (*AWSKMSDigestSigner, error) {
	return NewAWSKMSDigestSignerWithClient(ctx, kms.NewFromConfig(awsCfg), keyId, awsCfg.Region, logger)
}

func NewAWSKMSDigestSignerWithClient(ctx context.Context, kmsClient KmsApi, keyId string, awsRegion string, logger *zap.Logger) (*AWSKMSDigestSigner, error) {
	if kmsClient == nil {
		return nil, fmt.Errorf("kms client is required")
	}
	if keyId == "" {
		return nil, fmt.Errorf("kms key id is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &AWSKMSDigestSigner{
		logger:    logger,
		kmsClient: kmsClient,
		keyId:     keyId,
		awsRegion: awsRegion,
	}

	pubKey, err := a.getPublicKey(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get public key for key %s in region %s", keyId, awsRegion)
	}
	a.publicKey = pubKey

	logger.Info("Loaded AWS KMS signing key",
		zap.String("keyId", keyId),
		zap.String("region", awsRegion),
		zap.String("publicKey", fmt.Sprintf("%x", pubKey)),
	)
	return a, nil
}

func (a *AWSKMSDigestSigner) KeyId() string {
	return a.keyId
}

func (a *AWSKMSDigestSigner) PublicKey(ctx context.Context) ([]byte, error) {
	return append([]byte(nil), a.publicKey...), nil
}

func (a *AWSKMSDigestSigner) SignDigest(ctx context.Context, digest []byte) ([]byte, error) {
	if len(digest) != digestSigner.DigestLength {
		return nil, fmt.Errorf("digest must be exactly %d bytes, got %d", digestSigner.DigestLength, len(digest))
	}

	signOutput, err := a.kmsClient.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(a.keyId),
		Message:          digest,
		SigningAlgorithm: kmsTypes.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      kmsTypes.MessageTypeDigest,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign digest with key %s in region %s", a.keyId, a.awsRegion)
	}

	var sigAsn1 asn1EcSig
	if _, err := asn1.Unmarshal(signOutput.Signature, &sigAsn1); err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 signature: %w", err)
	}

	// KMS does not guarantee low-S, bitcoin relay policy requires it
	signature, err := digestSigner.NewLowSSignature(trimLeadingZeros(sigAsn1.R.Bytes), trimLeadingZeros(sigAsn1.S.Bytes))
	if err != nil {
		return nil, fmt.Errorf("invalid signature returned by KMS: %w", err)
	}

	if err := digestSigner.VerifyDigestSignature(a.publicKey, digest, signature); err != nil {
		return nil, fmt.Errorf("KMS signature failed verification for key %s: %w", a.keyId, err)
	}

	a.logger.Debug("Signed digest with AWS KMS key",
		zap.String("keyId", a.keyId),
		zap.Int("signatureLen", len(signature)),
	)
	return signature, nil
}

// getPublicKey fetches the key from KMS and returns it compressed
func (a *AWSKMSDigestSigner) getPublicKey(ctx context.Context) ([]byte, error) {
	result, err := a.kmsClient.GetPublicKey(ctx, &kms.GetPublicKeyInput{
		KeyId: aws.String(a.keyId),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	if result.KeySpec != kmsTypes.KeySpecEccSecgP256k1 {
		return nil, fmt.Errorf("key spec must be %s, got %s", kmsTypes.KeySpecEccSecgP256k1, result.KeySpec)
	}

	var asn1pubk asn1EcPublicKey
	if _, err := asn1.Unmarshal(result.PublicKey, &asn1pubk); err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 public key: %w", err)
	}
	pubKey, err := crypto.UnmarshalPubkey(asn1pubk.PublicKey.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal public key: %w", err)
	}
	return crypto.CompressPubkey(pubKey), nil
}

// DER INTEGERs carry a leading zero byte when the high bit is set
func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}

type asn1EcSig struct {
	R asn1.RawValue
	S asn1.RawValue
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}

// Compile-time check to ensure AWSKMSDigestSigner implements IDigestSigner
var _ digestSigner.IDigestSigner = (*AWSKMSDigestSigner)(nil)
