package blockcypher

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// CreateWallet creates a named wallet with an optional initial address list
func (c *Client) CreateWallet(ctx context.Context, wallet *types.Wallet) (*types.Wallet, error) {
	if wallet == nil || wallet.Name == "" {
		return nil, fmt.Errorf("wallet name cannot be empty: %w", types.ErrInvalidArgument)
	}
	return doJSON[types.Wallet](ctx, c, MethodPost, "/wallets", nil, wallet)
}

// ListWallets returns the names of all wallets owned by the token
func (c *Client) ListWallets(ctx context.Context) ([]string, error) {
	names, err := doJSON[types.WalletNames](ctx, c, MethodGet, "/wallets", nil, nil)
	if err != nil || names == nil {
		return nil, err
	}
	return names.WalletNames, nil
}

// GetWallet returns a wallet by name
func (c *Client) GetWallet(ctx context.Context, name string) (*types.Wallet, error) {
	n, err := pathSegment("wallet name", name)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Wallet](ctx, c, MethodGet, "/wallets/"+n, nil, nil)
}

// AddAddressesToWallet appends addresses to a wallet and returns the result
func (c *Client) AddAddressesToWallet(ctx context.Context, name string, addresses []string) (*types.Wallet, error) {
	n, err := pathSegment("wallet name", name)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("addresses cannot be empty: %w", types.ErrInvalidArgument)
	}
	return doJSON[types.Wallet](ctx, c, MethodPost, "/wallets/"+n+"/addresses", nil, &types.Wallet{Addresses: addresses})
}

// GetWalletAddresses returns the addresses of a wallet
func (c *Client) GetWalletAddresses(ctx context.Context, name string) ([]string, error) {
	n, err := pathSegment("wallet name", name)
	if err != nil {
		return nil, err
	}
	wallet, err := doJSON[types.Wallet](ctx, c, MethodGet, "/wallets/"+n+"/addresses", nil, nil)
	if err != nil || wallet == nil {
		return nil, err
	}
	return wallet.Addresses, nil
}

// DeleteAddressesFromWallet removes addresses from a wallet
func (c *Client) DeleteAddressesFromWallet(ctx context.Context, name string, addresses []string) error {
	n, err := pathSegment("wallet name", name)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("addresses cannot be empty: %w", types.ErrInvalidArgument)
	}
	q := url.Values{}
	q.Set("address", strings.Join(addresses, ";"))
	_, err = c.call(ctx, MethodDelete, "/wallets/"+n+"/addresses", q, nil, nil)
	return err
}

// GenerateAddressInWallet creates a new address and adds it to the wallet
func (c *Client) GenerateAddressInWallet(ctx context.Context, name string) (*types.WalletAddressKeychain, error) {
	n, err := pathSegment("wallet name", name)
	if err != nil {
		return nil, err
	}
	return doJSON[types.WalletAddressKeychain](ctx, c, MethodPost, "/wallets/"+n+"/addresses/generate", nil, nil)
}

// DeleteWallet deletes a wallet; its addresses are left untouched
func (c *Client) DeleteWallet(ctx context.Context, name string) error {
	n, err := pathSegment("wallet name", name)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, MethodDelete, "/wallets/"+n, nil, nil, nil)
	return err
}
