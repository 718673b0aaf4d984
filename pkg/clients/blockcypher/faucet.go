package blockcypher

import (
	"context"
	"fmt"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// Faucet funds address with amount satoshis on a test chain and returns
// the funding transaction hash
func (c *Client) Faucet(ctx context.Context, address string, amount int64) (string, error) {
	if !c.config.HasFaucet() {
		return "", fmt.Errorf("faucet is not available on %s/%s: %w", c.config.Currency, c.config.Network, types.ErrInvalidArgument)
	}
	if address == "" || amount <= 0 {
		return "", fmt.Errorf("faucet needs an address and a positive amount: %w", types.ErrInvalidArgument)
	}
	resp, err := doJSON[types.FaucetResponse](ctx, c, MethodPost, "/faucet", nil, &types.FaucetRequest{
		Address: address,
		Amount:  amount,
	})
	if err != nil || resp == nil {
		return "", err
	}
	return resp.TxRef, nil
}
