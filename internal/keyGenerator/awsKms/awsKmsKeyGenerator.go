package awsKms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/internal/keyGenerator"
	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner/awsKmsDigestSigner"
)

// KmsKeyApi is the subset of the AWS KMS client needed to create keys and
// sign with them
type KmsKeyApi interface {
	awsKmsDigestSigner.KmsApi
	CreateKey(ctx context.Context, params *kms.CreateKeyInput, optFns ...func(*kms.Options)) (*kms.CreateKeyOutput, error)
	CreateAlias(ctx context.Context, params *kms.CreateAliasInput, optFns ...func(*kms.Options)) (*kms.CreateAliasOutput, error)
}

type AWSKMSKeyGenerator struct {
	logger    *zap.Logger
	kmsClient KmsKeyApi
	awsRegion string
	cfg       *config.ClientConfig
}

func NewAWSKMSKeyGenerator(awsCfg aws.Config, cfg *config.ClientConfig, logger *zap.Logger) *AWSKMSKeyGenerator {
	return NewAWSKMSKeyGeneratorWithClient(kms.NewFromConfig(awsCfg), awsCfg.Region, cfg, logger)
}

func NewAWSKMSKeyGeneratorWithClient(kmsClient KmsKeyApi, awsRegion string, cfg *config.ClientConfig, logger *zap.Logger) *AWSKMSKeyGenerator {
	return &AWSKMSKeyGenerator{
		logger:    logger,
		kmsClient: kmsClient,
		awsRegion: awsRegion,
		cfg:       cfg,
	}
}

// GenerateKey creates an ECC_SECG_P256K1 signing key in KMS and, when
// aliasName is set, points alias/<aliasName> at it.
func (a *AWSKMSKeyGenerator) GenerateKey(ctx context.Context, keyName string, aliasName string) (*keyGenerator.GeneratedKey, error) {
	keyRes, err := a.createSigningKey(ctx, keyName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create signing key %s in region %s", keyName, a.awsRegion)
	}
	keyId := aws.ToString(keyRes.KeyMetadata.KeyId)

	if aliasName != "" {
		if err := a.createKeyAlias(ctx, keyId, aliasName); err != nil {
			return nil, errors.Wrapf(err, "failed to create alias %s for key %s in region %s", aliasName, keyId, a.awsRegion)
		}
	}

	return a.GetKeyById(ctx, keyId)
}

func (a *AWSKMSKeyGenerator) GetKeyById(ctx context.Context, keyId string) (*keyGenerator.GeneratedKey, error) {
	signer, err := a.signer(ctx, keyId)
	if err != nil {
		return nil, err
	}
	pubKey, err := signer.PublicKey(ctx)
	if err != nil {
		return nil, err
	}

	address, err := keyGenerator.DeriveAddress(pubKey, a.cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive address for key %s in region %s", keyId, a.awsRegion)
	}

	return &keyGenerator.GeneratedKey{
		KeyId:     keyId,
		PublicKey: pubKey,
		Address:   address,
	}, nil
}

func (a *AWSKMSKeyGenerator) Signer(ctx context.Context, keyId string) (digestSigner.IDigestSigner, error) {
	signer, err := a.signer(ctx, keyId)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func (a *AWSKMSKeyGenerator) signer(ctx context.Context, keyId string) (*awsKmsDigestSigner.AWSKMSDigestSigner, error) {
	return awsKmsDigestSigner.NewAWSKMSDigestSignerWithClient(ctx, a.kmsClient, keyId, a.awsRegion, a.logger)
}

func (a *AWSKMSKeyGenerator) createSigningKey(ctx context.Context, keyName string) (*kms.CreateKeyOutput, error) {
	input := &kms.CreateKeyInput{
		KeyUsage:    types.KeyUsageTypeSignVerify,
		KeySpec:     types.KeySpecEccSecgP256k1,
		Description: aws.String(fmt.Sprintf("secp256k1 key for %s/%s transaction signing - %s", a.cfg.Currency, a.cfg.Network, keyName)),
		Tags: []types.Tag{
			{
				TagKey:   aws.String("Name"),
				TagValue: aws.String(keyName),
			},
			{
				TagKey:   aws.String("Chain"),
				TagValue: aws.String(fmt.Sprintf("%s/%s", a.cfg.Currency, a.cfg.Network)),
			},
			{
				TagKey:   aws.String("Purpose"),
				TagValue: aws.String("signing-key"),
			},
			{
				TagKey:   aws.String("Curve"),
				TagValue: aws.String("secp256k1"),
			},
		},
	}

	result, err := a.kmsClient.CreateKey(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create KMS key: %w", err)
	}
	if result.KeyMetadata == nil || result.KeyMetadata.KeyId == nil {
		return nil, fmt.Errorf("KMS returned no key metadata")
	}
	return result, nil
}

func (a *AWSKMSKeyGenerator) createKeyAlias(ctx context.Context, keyId, aliasName string) error {
	input := &kms.CreateAliasInput{
		AliasName:   aws.String(fmt.Sprintf("alias/%s", aliasName)),
		TargetKeyId: aws.String(keyId),
	}

	if _, err := a.kmsClient.CreateAlias(ctx, input); err != nil {
		return fmt.Errorf("failed to create key alias: %w", err)
	}

	a.logger.Sugar().Infow("Created KMS key alias", "alias", fmt.Sprintf("alias/%s", aliasName), "keyId", keyId)
	return nil
}

// Compile-time check to ensure AWSKMSKeyGenerator implements IKeyGenerator
var _ keyGenerator.IKeyGenerator = (*AWSKMSKeyGenerator)(nil)
