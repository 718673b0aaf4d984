package transactionSigner

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/pkg/clients/blockcypher"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner/localDigestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// SkeletonSigner implements ITransactionSigner on top of a BlockCypher client
type SkeletonSigner struct {
	client blockcypher.IBlockCypher
	logger *zap.Logger
}

// NewSkeletonSigner creates a new SkeletonSigner
func NewSkeletonSigner(client blockcypher.IBlockCypher, logger *zap.Logger) (*SkeletonSigner, error) {
	if client == nil {
		return nil, fmt.Errorf("blockcypher client is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &SkeletonSigner{
		client: client,
		logger: logger,
	}, nil
}

func (s *SkeletonSigner) NewTransaction(ctx context.Context, inputAddresses []string, outputAddresses []string, amount int64) (*types.TxSkeleton, error) {
	if len(inputAddresses) == 0 {
		return nil, fmt.Errorf("at least one input address is required: %w", types.ErrInvalidArgument)
	}
	if len(outputAddresses) == 0 {
		return nil, fmt.Errorf("at least one output address is required: %w", types.ErrInvalidArgument)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d: %w", amount, types.ErrInvalidArgument)
	}

	skel, err := s.client.NewTx(ctx, types.NewTxRequest(inputAddresses, outputAddresses, amount))
	if err != nil {
		return nil, err
	}
	if skel == nil {
		return nil, fmt.Errorf("empty response from /txs/new")
	}

	s.logger.Sugar().Infow("Created transaction skeleton",
		"inputs", inputAddresses,
		"outputs", outputAddresses,
		"amount", amount,
		"toSign", len(skel.ToSign),
	)
	return skel, nil
}

func (s *SkeletonSigner) SignSkeleton(ctx context.Context, skel *types.TxSkeleton, privateKey string) error {
	signer, err := localDigestSigner.NewLocalDigestSigner(privateKey, s.logger)
	if err != nil {
		return err
	}
	defer signer.Zero()

	return s.SignSkeletonWith(ctx, skel, signer)
}

func (s *SkeletonSigner) SignSkeletonWith(ctx context.Context, skel *types.TxSkeleton, signer digestSigner.IDigestSigner) error {
	if skel == nil {
		return fmt.Errorf("skeleton cannot be nil: %w", types.ErrInvalidArgument)
	}
	if signer == nil {
		return fmt.Errorf("signer cannot be nil: %w", types.ErrInvalidArgument)
	}
	if addresses := skel.InputAddresses(); len(addresses) > 1 {
		s.logger.Sugar().Warnw("Refusing to sign skeleton spending from several addresses with one key",
			"inputAddresses", addresses,
			"keyId", signer.KeyId(),
		)
		return &types.SigningError{
			Reason: fmt.Sprintf("skeleton spends from %d addresses", len(addresses)),
			Index:  -1,
			Err:    types.ErrMultipleSigningKeys,
		}
	}

	signatures, publicKey, err := SignDigestsWith(ctx, skel.ToSign, signer)
	if err != nil {
		return err
	}

	pubKeys := make([]string, len(signatures))
	for i := range pubKeys {
		pubKeys[i] = publicKey
	}
	skel.Signatures = signatures
	skel.PubKeys = pubKeys

	s.logger.Sugar().Infow("Signed transaction skeleton",
		"keyId", signer.KeyId(),
		"publicKey", publicKey,
		"signatures", len(signatures),
	)
	return nil
}

func (s *SkeletonSigner) SendTransaction(ctx context.Context, skel *types.TxSkeleton) (*types.TxSkeleton, error) {
	if skel == nil {
		return nil, fmt.Errorf("skeleton cannot be nil: %w", types.ErrInvalidArgument)
	}
	if err := skel.CheckSigned(); err != nil {
		return nil, err
	}

	sent, err := s.client.SendTx(ctx, skel)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	if sent == nil {
		return nil, fmt.Errorf("empty response from /txs/send")
	}

	s.logger.Sugar().Infow("Sent transaction",
		"hash", sent.Trans.Hash,
		"fees", sent.Trans.Fees,
	)
	return sent, nil
}

func (s *SkeletonSigner) SignAndSend(ctx context.Context, skel *types.TxSkeleton, privateKey string) (*types.TxSkeleton, error) {
	if err := s.SignSkeleton(ctx, skel, privateKey); err != nil {
		return nil, err
	}
	return s.SendTransaction(ctx, skel)
}

func (s *SkeletonSigner) SendMoney(ctx context.Context, fromAddress string, toAddresses []string, amount int64, privateKey string) (*types.TxSkeleton, error) {
	if fromAddress == "" {
		return nil, fmt.Errorf("from address cannot be empty: %w", types.ErrInvalidArgument)
	}
	// a malformed key must fail before /txs/new is called
	signer, err := localDigestSigner.NewLocalDigestSigner(privateKey, s.logger)
	if err != nil {
		return nil, err
	}
	defer signer.Zero()

	skel, err := s.NewTransaction(ctx, []string{fromAddress}, toAddresses, amount)
	if err != nil {
		return nil, err
	}
	if err := s.SignSkeletonWith(ctx, skel, signer); err != nil {
		return nil, err
	}
	return s.SendTransaction(ctx, skel)
}

func (s *SkeletonSigner) SignMicroTx(ctx context.Context, mtx *types.MicroTx, privateKey string) error {
	if mtx == nil {
		return fmt.Errorf("micro transaction cannot be nil: %w", types.ErrInvalidArgument)
	}
	signatures, _, err := SignDigests(mtx.ToSign, privateKey)
	if err != nil {
		return err
	}
	mtx.Signatures = signatures
	return nil
}

// SignDigests signs every hex digest of toSign with privateKey and returns
// the hex DER signatures, in order, plus the hex compressed public key. It
// performs no I/O and does not retain the key.
func SignDigests(toSign []string, privateKey string) ([]string, string, error) {
	signer, err := localDigestSigner.NewLocalDigestSigner(privateKey, zap.NewNop())
	if err != nil {
		return nil, "", err
	}
	defer signer.Zero()

	return SignDigestsWith(context.Background(), toSign, signer)
}

// SignDigestsWith is SignDigests for an arbitrary digest signer. Every
// signature is verified against the signer's public key before returning.
func SignDigestsWith(ctx context.Context, toSign []string, signer digestSigner.IDigestSigner) ([]string, string, error) {
	if len(toSign) == 0 {
		return nil, "", &types.SigningError{Reason: "tosign is empty", Index: -1, Err: types.ErrNothingToSign}
	}

	digests := make([][]byte, len(toSign))
	for i, digestHex := range toSign {
		digest, err := digestSigner.DecodeDigest(i, digestHex)
		if err != nil {
			return nil, "", err
		}
		digests[i] = digest
	}

	publicKey, err := signer.PublicKey(ctx)
	if err != nil {
		return nil, "", asSigningError("failed to get public key", -1, err)
	}

	signatures := make([]string, len(digests))
	for i, digest := range digests {
		sig, err := signer.SignDigest(ctx, digest)
		if err != nil {
			return nil, "", asSigningError("signer failed", i, err)
		}
		if err := digestSigner.VerifyDigestSignature(publicKey, digest, sig); err != nil {
			return nil, "", asSigningError("signature self-check failed", i, err)
		}
		signatures[i] = hex.EncodeToString(sig)
	}
	return signatures, hex.EncodeToString(publicKey), nil
}

func asSigningError(reason string, index int, err error) error {
	var signingErr *types.SigningError
	if errors.As(err, &signingErr) {
		return err
	}
	return &types.SigningError{Reason: reason, Index: index, Err: err}
}

// Compile-time check to ensure SkeletonSigner implements ITransactionSigner
var _ ITransactionSigner = (*SkeletonSigner)(nil)
