package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/internal/aws"
	"github.com/blockcypher/blockcypher-go/internal/keyGenerator"
	"github.com/blockcypher/blockcypher-go/internal/keyGenerator/awsKms"
	"github.com/blockcypher/blockcypher-go/internal/keyGenerator/localKeyGenerator"
	"github.com/blockcypher/blockcypher-go/pkg/clients/blockcypher"
	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner/localDigestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/logger"
	"github.com/blockcypher/blockcypher-go/pkg/transactionSigner"
	"github.com/blockcypher/blockcypher-go/pkg/types"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "blockcypher-client",
		Usage: "Query the BlockCypher API and send signed transactions",
		Description: `A thin command line front end for the blockcypher-go library.

Transactions are built remotely, signed locally (or with an AWS KMS key)
and submitted back for broadcast. Results are printed as JSON.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "BlockCypher API base URL",
				Value:   config.DefaultBaseUrl,
				EnvVars: []string{config.EnvBlockCypherBaseUrl},
			},
			&cli.StringFlag{
				Name:    "currency",
				Usage:   "Coin: btc, ltc, doge, dash or bcy",
				Value:   string(config.Currency_Bitcoin),
				EnvVars: []string{config.EnvBlockCypherCurrency},
			},
			&cli.StringFlag{
				Name:    "network",
				Usage:   "Chain: main, test or test3",
				Value:   string(config.Network_Main),
				EnvVars: []string{config.EnvBlockCypherNetwork},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "BlockCypher API token",
				EnvVars: []string{config.EnvBlockCypherToken},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "HTTP request timeout",
				Value: config.DefaultTimeout,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvBlockCypherDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "chain",
				Usage:  "Show the current state of the chain",
				Action: chainCommand,
			},
			{
				Name:      "block",
				Usage:     "Show a block by hash or height",
				ArgsUsage: "<hash|height>",
				Action:    blockCommand,
			},
			{
				Name:      "tx",
				Usage:     "Show a transaction",
				ArgsUsage: "<hash>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "include-hex", Usage: "Include the raw transaction"},
				},
				Action: txCommand,
			},
			{
				Name:      "balance",
				Usage:     "Show the balance of an address",
				ArgsUsage: "<address>",
				Action:    balanceCommand,
			},
			{
				Name:   "address-generate",
				Usage:  "Generate a new address and keypair",
				Action: addressGenerateCommand,
			},
			{
				Name:  "key-address",
				Usage: "Print the public key and address of a private key on the configured chain",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "private-key",
						Usage:    "Private key (hex or WIF)",
						EnvVars:  []string{config.EnvPrivateKey},
						Required: true,
					},
				},
				Action: keyAddressCommand,
			},
			{
				Name:  "key-generate",
				Usage: "Generate a signing key locally or in AWS KMS and print its address",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "kms", Usage: "Create the key in AWS KMS instead of in process"},
					&cli.StringFlag{Name: "key-name", Usage: "Name tag of the KMS key", Value: "blockcypher-signer"},
					&cli.StringFlag{Name: "alias", Usage: "KMS alias (without the alias/ prefix)"},
					&cli.StringFlag{
						Name:    "aws-region",
						Usage:   "AWS region of the KMS key",
						EnvVars: []string{config.EnvAWSRegion},
					},
				},
				Action: keyGenerateCommand,
			},
			{
				Name:  "kms-key-info",
				Usage: "Print the public key and address of an AWS KMS key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kms-key-id",
						Usage:    "AWS KMS key id or alias",
						EnvVars:  []string{config.EnvAWSKMSKeyId},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "aws-region",
						Usage:   "AWS region of the KMS key",
						EnvVars: []string{config.EnvAWSRegion},
					},
				},
				Action: kmsKeyInfoCommand,
			},
			{
				Name:  "faucet",
				Usage: "Fund an address on bcy/test or btc/test3",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Usage: "Address to fund", Required: true},
					&cli.Int64Flag{Name: "amount", Usage: "Amount in satoshis", Value: 100000},
				},
				Action: faucetCommand,
			},
			{
				Name:      "push",
				Usage:     "Broadcast a signed raw transaction",
				ArgsUsage: "<hex>",
				Action:    pushCommand,
			},
			{
				Name:      "decode",
				Usage:     "Decode a raw transaction without broadcasting it",
				ArgsUsage: "<hex>",
				Action:    decodeCommand,
			},
			{
				Name:  "send",
				Usage: "Build, sign and broadcast a payment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "Input address", Required: true},
					&cli.StringSliceFlag{Name: "to", Usage: "Output address (repeatable)", Required: true},
					&cli.Int64Flag{Name: "amount", Usage: "Amount in satoshis", Required: true},
					&cli.StringFlag{
						Name:    "private-key",
						Usage:   "Private key of the input address (hex or WIF)",
						EnvVars: []string{config.EnvPrivateKey},
					},
					&cli.StringFlag{
						Name:    "kms-key-id",
						Usage:   "AWS KMS secp256k1 key id used instead of --private-key",
						EnvVars: []string{config.EnvAWSKMSKeyId},
					},
					&cli.StringFlag{
						Name:    "aws-region",
						Usage:   "AWS region of the KMS key",
						EnvVars: []string{config.EnvAWSRegion},
					},
				},
				Action: sendCommand,
			},
			{
				Name:   "hooks",
				Usage:  "List webhooks of the token",
				Action: hooksCommand,
			},
			{
				Name:  "forward",
				Usage: "Create a payment forwarding address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "destination", Usage: "Destination address", Required: true},
					&cli.StringFlag{Name: "callback-url", Usage: "URL notified on each forward"},
					&cli.BoolFlag{Name: "enable-confirmations", Usage: "Also notify on confirmations"},
				},
				Action: forwardCommand,
			},
		},
	}
}

// createClient creates a BlockCypher client and logger from CLI flags
func createClient(c *cli.Context) (*blockcypher.Client, *zap.Logger, error) {
	zapLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	cfg := config.DefaultClientConfig()
	cfg.BaseUrl = c.String("base-url")
	cfg.Currency = config.Currency(c.String("currency"))
	cfg.Network = config.Network(c.String("network"))
	cfg.Token = c.String("token")
	cfg.Timeout = c.Duration("timeout")

	client, err := blockcypher.NewClient(cfg, zapLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create BlockCypher client: %w", err)
	}
	return client, zapLogger, nil
}

func printJSON(c *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one argument: %s", name)
	}
	return c.Args().First(), nil
}

func chainCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	chain, err := client.GetChain(c.Context)
	if err != nil {
		return fmt.Errorf("failed to get chain: %w", err)
	}
	return printJSON(c, chain)
}

func blockCommand(c *cli.Context) error {
	id, err := requireArg(c, "<hash|height>")
	if err != nil {
		return err
	}
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	block, err := client.GetBlock(c.Context, id, nil)
	if err != nil {
		return fmt.Errorf("failed to get block: %w", err)
	}
	return printJSON(c, block)
}

func txCommand(c *cli.Context) error {
	hash, err := requireArg(c, "<hash>")
	if err != nil {
		return err
	}
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	tx, err := client.GetTx(c.Context, hash, &blockcypher.TxOptions{IncludeHex: c.Bool("include-hex")})
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}
	return printJSON(c, tx)
}

func balanceCommand(c *cli.Context) error {
	address, err := requireArg(c, "<address>")
	if err != nil {
		return err
	}
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	balance, err := client.GetAddressBalance(c.Context, address)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	return printJSON(c, balance)
}

func addressGenerateCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	keychain, err := client.GenerateAddress(c.Context)
	if err != nil {
		return fmt.Errorf("failed to generate address: %w", err)
	}
	return printJSON(c, keychain)
}

func faucetCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	txRef, err := client.Faucet(c.Context, c.String("address"), c.Int64("amount"))
	if err != nil {
		return fmt.Errorf("faucet request failed: %w", err)
	}
	return printJSON(c, &types.FaucetResponse{TxRef: txRef})
}

func pushCommand(c *cli.Context) error {
	rawTx, err := requireArg(c, "<hex>")
	if err != nil {
		return err
	}
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	pushed, err := client.PushTx(c.Context, rawTx)
	if err != nil {
		return fmt.Errorf("failed to push transaction: %w", err)
	}
	return printJSON(c, pushed)
}

func decodeCommand(c *cli.Context) error {
	rawTx, err := requireArg(c, "<hex>")
	if err != nil {
		return err
	}
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	tx, err := client.DecodeTx(c.Context, rawTx)
	if err != nil {
		return fmt.Errorf("failed to decode transaction: %w", err)
	}
	return printJSON(c, tx)
}

func sendCommand(c *cli.Context) error {
	client, zapLogger, err := createClient(c)
	if err != nil {
		return err
	}

	signerCfg := &config.SignerConfig{
		PrivateKey:  c.String("private-key"),
		AWSKMSKeyId: c.String("kms-key-id"),
		AWSRegion:   c.String("aws-region"),
	}
	if err := signerCfg.Validate(); err != nil {
		return fmt.Errorf("invalid signer flags: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
	defer cancel()

	if signerCfg.UsesAWSKMS() {
		if err := logCallerIdentity(ctx, signerCfg.AWSRegion, zapLogger); err != nil {
			return err
		}
	}

	signer, err := transactionSigner.NewDigestSigner(ctx, signerCfg, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create signer: %w", err)
	}
	defer releaseSigner(signer)

	warnOnAddressMismatch(ctx, client, signer, c.String("from"), zapLogger)

	txSigner, err := transactionSigner.NewSkeletonSigner(client, zapLogger)
	if err != nil {
		return err
	}

	skel, err := txSigner.NewTransaction(ctx, []string{c.String("from")}, c.StringSlice("to"), c.Int64("amount"))
	if err != nil {
		return fmt.Errorf("failed to build transaction: %w", err)
	}
	if err := txSigner.SignSkeletonWith(ctx, skel, signer); err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	sent, err := txSigner.SendTransaction(ctx, skel)
	if err != nil {
		return err
	}
	return printJSON(c, sent)
}

// releaseSigner wipes in-process key material once the command is done.
// KMS signers hold no secret.
func releaseSigner(signer digestSigner.IDigestSigner) {
	if local, ok := signer.(*localDigestSigner.LocalDigestSigner); ok {
		local.Zero()
	}
}

// warnOnAddressMismatch logs when the signing key does not own the input
// address. Non P2PKH inputs (multisig, segwit) are not checked.
func warnOnAddressMismatch(ctx context.Context, client *blockcypher.Client, signer digestSigner.IDigestSigner, from string, zapLogger *zap.Logger) {
	publicKey, err := signer.PublicKey(ctx)
	if err != nil {
		return
	}
	cfg := client.Config()
	address, err := keyGenerator.DeriveAddress(publicKey, &cfg)
	if err != nil || address == "" {
		return
	}
	if address != from {
		zapLogger.Sugar().Warnw("Signing key does not match the input address",
			"from", from,
			"keyAddress", address,
			"keyId", signer.KeyId(),
		)
	}
}

func keyAddressCommand(c *cli.Context) error {
	client, zapLogger, err := createClient(c)
	if err != nil {
		return err
	}
	signer, err := localDigestSigner.NewLocalDigestSigner(c.String("private-key"), zapLogger)
	if err != nil {
		return fmt.Errorf("failed to load private key: %w", err)
	}
	defer signer.Zero()

	publicKey, err := signer.PublicKey(c.Context)
	if err != nil {
		return err
	}
	cfg := client.Config()
	address, err := keyGenerator.DeriveAddress(publicKey, &cfg)
	if err != nil {
		return err
	}
	return printJSON(c, &types.AddressKeychain{Public: hex.EncodeToString(publicKey), Address: address})
}

func keyGenerateCommand(c *cli.Context) error {
	client, zapLogger, err := createClient(c)
	if err != nil {
		return err
	}

	cfg := client.Config()
	var generator keyGenerator.IKeyGenerator
	if c.Bool("kms") {
		awsCfg, err := aws.LoadAWSConfig(c.Context, c.String("aws-region"))
		if err != nil {
			return fmt.Errorf("failed to load AWS config: %w", err)
		}
		generator = awsKms.NewAWSKMSKeyGenerator(awsCfg, &cfg, zapLogger)
	} else {
		generator = localKeyGenerator.NewLocalKeyGenerator(&cfg, zapLogger)
	}

	key, err := generator.GenerateKey(c.Context, c.String("key-name"), c.String("alias"))
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	return printJSON(c, &generatedKeyOutput{KeyId: key.KeyId, AddressKeychain: key.Keychain()})
}

func kmsKeyInfoCommand(c *cli.Context) error {
	client, zapLogger, err := createClient(c)
	if err != nil {
		return err
	}
	awsCfg, err := aws.LoadAWSConfig(c.Context, c.String("aws-region"))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	cfg := client.Config()
	key, err := awsKms.NewAWSKMSKeyGenerator(awsCfg, &cfg, zapLogger).GetKeyById(c.Context, c.String("kms-key-id"))
	if err != nil {
		return fmt.Errorf("failed to load KMS key: %w", err)
	}
	return printJSON(c, &generatedKeyOutput{KeyId: key.KeyId, AddressKeychain: key.Keychain()})
}

type generatedKeyOutput struct {
	KeyId string `json:"key_id"`
	*types.AddressKeychain
}

func logCallerIdentity(ctx context.Context, region string, zapLogger *zap.Logger) error {
	awsCfg, err := aws.LoadAWSConfig(ctx, region)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}
	arn, err := aws.CallerArn(ctx, sts.NewFromConfig(awsCfg))
	if err != nil {
		return err
	}
	zapLogger.Sugar().Infow("Signing with AWS identity", "arn", arn)
	return nil
}

func hooksCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	hooks, err := client.ListHooks(c.Context)
	if err != nil {
		return fmt.Errorf("failed to list hooks: %w", err)
	}
	return printJSON(c, hooks)
}

func forwardCommand(c *cli.Context) error {
	client, _, err := createClient(c)
	if err != nil {
		return err
	}
	forward, err := client.CreatePaymentForward(c.Context, c.String("destination"), &blockcypher.PaymentForwardOptions{
		CallbackUrl:         c.String("callback-url"),
		EnableConfirmations: c.Bool("enable-confirmations"),
	})
	if err != nil {
		return fmt.Errorf("failed to create payment forward: %w", err)
	}
	return printJSON(c, forward)
}
