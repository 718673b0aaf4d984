package blockcypher

import (
	"context"
	"fmt"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// GenerateAssetAddress creates a new OAP address
func (c *Client) GenerateAssetAddress(ctx context.Context) (*types.AddressKeychain, error) {
	return doJSON[types.AddressKeychain](ctx, c, MethodPost, "/oap/addrs", nil, nil)
}

// IssueAsset issues a new asset to issue.ToAddress
func (c *Client) IssueAsset(ctx context.Context, issue *types.OAPIssue) (*types.OAPTx, error) {
	if err := checkAssetRequest(issue); err != nil {
		return nil, err
	}
	return doJSON[types.OAPTx](ctx, c, MethodPost, "/oap/issue", nil, issue)
}

// TransferAsset moves an amount of an existing asset to transfer.ToAddress
func (c *Client) TransferAsset(ctx context.Context, assetId string, transfer *types.OAPTransfer) (*types.OAPTx, error) {
	id, err := pathSegment("asset id", assetId)
	if err != nil {
		return nil, err
	}
	if err := checkAssetRequest((*types.OAPIssue)(transfer)); err != nil {
		return nil, err
	}
	return doJSON[types.OAPTx](ctx, c, MethodPost, "/oap/"+id+"/transfer", nil, transfer)
}

// ListAssetTxs returns the hashes of all transactions of an asset
func (c *Client) ListAssetTxs(ctx context.Context, assetId string) ([]string, error) {
	id, err := pathSegment("asset id", assetId)
	if err != nil {
		return nil, err
	}
	return doList[string](ctx, c, MethodGet, "/oap/"+id+"/txs", nil)
}

// GetAssetAddress returns the asset holdings of an OAP address
func (c *Client) GetAssetAddress(ctx context.Context, assetId string, address string) (*types.Address, error) {
	id, err := pathSegment("asset id", assetId)
	if err != nil {
		return nil, err
	}
	a, err := pathSegment("address", address)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Address](ctx, c, MethodGet, "/oap/"+id+"/addrs/"+a, nil, nil)
}

func checkAssetRequest(req *types.OAPIssue) error {
	if req == nil || req.Priv == "" || req.ToAddress == "" {
		return fmt.Errorf("asset request needs a private key and a destination: %w", types.ErrInvalidArgument)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("asset amount must be positive: %w", types.ErrInvalidArgument)
	}
	return nil
}
