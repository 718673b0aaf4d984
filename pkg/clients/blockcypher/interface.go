package blockcypher

import (
	"context"
	"net/http"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// IBlockCypher defines the interface for interacting with the BlockCypher
// REST API. It abstracts the HTTP client so the transaction signer and the
// CLI can be tested against fakes.
type IBlockCypher interface {
	// SetHttpClient allows setting a custom HTTP client, e.g. for tests.
	SetHttpClient(client *http.Client)

	// Blockchain API
	GetChain(ctx context.Context) (*types.Blockchain, error)
	GetBlock(ctx context.Context, hashOrHeight string, opts *BlockOptions) (*types.Block, error)
	GetTx(ctx context.Context, hash string, opts *TxOptions) (*types.Tx, error)
	GetUnconfirmedTxs(ctx context.Context) ([]types.Tx, error)
	GetTxConfidence(ctx context.Context, hash string) (*types.TxConfidence, error)

	// Transaction API
	NewTx(ctx context.Context, tx *types.Tx) (*types.TxSkeleton, error)
	SendTx(ctx context.Context, skel *types.TxSkeleton) (*types.TxSkeleton, error)
	PushTx(ctx context.Context, hex string) (*types.TxSkeleton, error)
	DecodeTx(ctx context.Context, hex string) (*types.Tx, error)
	SendMicroTx(ctx context.Context, mtx *types.MicroTx) (*types.MicroTx, error)

	// Address API
	GenerateAddress(ctx context.Context) (*types.AddressKeychain, error)
	GetAddress(ctx context.Context, address string, opts *AddressOptions) (*types.Address, error)
	GetAddressBalance(ctx context.Context, address string) (*types.AddressBalance, error)
	GetAddressFull(ctx context.Context, address string, opts *AddressOptions) (*types.Address, error)
	GetAddressFinalBalance(ctx context.Context, address string) (int64, error)

	// Wallet API
	CreateWallet(ctx context.Context, wallet *types.Wallet) (*types.Wallet, error)
	ListWallets(ctx context.Context) ([]string, error)
	GetWallet(ctx context.Context, name string) (*types.Wallet, error)
	AddAddressesToWallet(ctx context.Context, name string, addresses []string) (*types.Wallet, error)
	GetWalletAddresses(ctx context.Context, name string) ([]string, error)
	DeleteAddressesFromWallet(ctx context.Context, name string, addresses []string) error
	GenerateAddressInWallet(ctx context.Context, name string) (*types.WalletAddressKeychain, error)
	DeleteWallet(ctx context.Context, name string) error

	// Events API
	CreateHook(ctx context.Context, hook *types.Hook) (*types.Hook, error)
	ListHooks(ctx context.Context) ([]types.Hook, error)
	GetHook(ctx context.Context, id string) (*types.Hook, error)
	DeleteHook(ctx context.Context, id string) error

	// Payment forwarding API
	CreatePaymentForward(ctx context.Context, destination string, opts *PaymentForwardOptions) (*types.PaymentForward, error)
	ListPaymentForwards(ctx context.Context) ([]types.PaymentForward, error)
	DeletePaymentForward(ctx context.Context, id string) error

	// Asset API
	GenerateAssetAddress(ctx context.Context) (*types.AddressKeychain, error)
	IssueAsset(ctx context.Context, issue *types.OAPIssue) (*types.OAPTx, error)
	TransferAsset(ctx context.Context, assetId string, transfer *types.OAPTransfer) (*types.OAPTx, error)
	ListAssetTxs(ctx context.Context, assetId string) ([]string, error)
	GetAssetAddress(ctx context.Context, assetId string, address string) (*types.Address, error)

	// Faucet funds an address on bcy/test or btc/test3.
	Faucet(ctx context.Context, address string, amount int64) (string, error)
}

// Compile-time check to ensure Client implements IBlockCypher
var _ IBlockCypher = (*Client)(nil)
