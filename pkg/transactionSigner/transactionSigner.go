package transactionSigner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/internal/aws"
	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner/awsKmsDigestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner/localDigestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// ITransactionSigner provides the build -> sign -> submit workflow for
// BlockCypher transaction skeletons
type ITransactionSigner interface {
	// NewTransaction requests an unsigned skeleton paying amount from
	// inputAddresses to outputAddresses
	NewTransaction(ctx context.Context, inputAddresses []string, outputAddresses []string, amount int64) (*types.TxSkeleton, error)

	// SignSkeleton fills the skeleton's signatures and public keys in place
	SignSkeleton(ctx context.Context, skel *types.TxSkeleton, privateKey string) error

	// SignSkeletonWith is SignSkeleton for an arbitrary digest signer
	SignSkeletonWith(ctx context.Context, skel *types.TxSkeleton, signer digestSigner.IDigestSigner) error

	// SendTransaction submits a signed skeleton for broadcast
	SendTransaction(ctx context.Context, skel *types.TxSkeleton) (*types.TxSkeleton, error)

	// SignAndSend signs a skeleton with privateKey and submits it
	SignAndSend(ctx context.Context, skel *types.TxSkeleton, privateKey string) (*types.TxSkeleton, error)

	// SendMoney builds, signs and submits a payment from a single address
	SendMoney(ctx context.Context, fromAddress string, toAddresses []string, amount int64, privateKey string) (*types.TxSkeleton, error)

	// SignMicroTx fills the signatures of a micro transaction in place
	SignMicroTx(ctx context.Context, mtx *types.MicroTx, privateKey string) error
}

// NewDigestSigner creates the digest signer selected by cfg: a local key or
// an AWS KMS key.
func NewDigestSigner(ctx context.Context, cfg *config.SignerConfig, logger *zap.Logger) (digestSigner.IDigestSigner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("signer config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signer config: %w", err)
	}

	if cfg.UsesAWSKMS() {
		awsCfg, err := aws.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		kmsSigner, err := awsKmsDigestSigner.NewAWSKMSDigestSigner(ctx, awsCfg, cfg.AWSKMSKeyId, logger)
		if err != nil {
			return nil, err
		}
		return kmsSigner, nil
	}

	localSigner, err := localDigestSigner.NewLocalDigestSigner(cfg.PrivateKey, logger)
	if err != nil {
		return nil, err
	}
	return localSigner, nil
}
