package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/blockcypher/blockcypher-go/internal/aws"
	"github.com/blockcypher/blockcypher-go/internal/keyGenerator/awsKms"
	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/logger"
)

// Signs a throwaway digest with the KMS key in BLOCKCYPHER_AWS_KMS_KEY_ID,
// verifies it locally and prints the key's address on the chain selected
// by BLOCKCYPHER_CURRENCY / BLOCKCYPHER_NETWORK (default bcy/test).
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	ctx := context.Background()

	awsCfg, err := aws.LoadAWSConfig(ctx, os.Getenv(config.EnvAWSRegion))
	if err != nil {
		panic(err)
	}

	keyId := os.Getenv(config.EnvAWSKMSKeyId)
	if keyId == "" {
		l.Sugar().Fatalf("%s environment variable is not set", config.EnvAWSKMSKeyId)
	}

	cfg := config.DefaultClientConfig()
	cfg.Currency = config.Currency_BlockCypher
	cfg.Network = config.Network_Test
	if c := os.Getenv(config.EnvBlockCypherCurrency); c != "" {
		cfg.Currency = config.Currency(c)
	}
	if n := os.Getenv(config.EnvBlockCypherNetwork); n != "" {
		cfg.Network = config.Network(n)
	}
	if err := cfg.Validate(); err != nil {
		l.Sugar().Fatalw("invalid chain", "error", err)
	}

	keyGen := awsKms.NewAWSKMSKeyGenerator(awsCfg, cfg, l)

	key, err := keyGen.GetKeyById(ctx, keyId)
	if err != nil {
		l.Sugar().Fatalw("failed to load KMS key", "error", err)
	}

	signer, err := keyGen.Signer(ctx, keyId)
	if err != nil {
		l.Sugar().Fatalw("failed to create KMS signer", "error", err)
	}

	digest := sha256.Sum256([]byte("blockcypher-go kms signer check"))
	sig, err := signer.SignDigest(ctx, digest[:])
	if err != nil {
		l.Sugar().Fatalw("failed to sign digest", "error", err)
	}
	if err := digestSigner.VerifyDigestSignature(key.PublicKey, digest[:], sig); err != nil {
		l.Sugar().Fatalw("signature did not verify", "error", err)
	}

	l.Sugar().Infow("KMS key signs correctly",
		"keyId", key.KeyId,
		"chain", cfg.ChainPath(),
		"publicKeyHex", key.PublicKeyHex(),
		"address", key.Address,
		"signature", hex.EncodeToString(sig),
	)
}
