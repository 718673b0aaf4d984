package blockcypher

import (
	"context"
	"fmt"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// PaymentForwardOptions lists every optional setting of a forwarding address
type PaymentForwardOptions struct {
	CallbackUrl         string
	EnableConfirmations bool
	MiningFeesSatoshis  int64
	ProcessFeesAddress  string
	ProcessFeesSatoshis int64
	ProcessFeesPercent  float64
}

// CreatePaymentForward creates an input address whose funds are relayed to
// destination
func (c *Client) CreatePaymentForward(ctx context.Context, destination string, opts *PaymentForwardOptions) (*types.PaymentForward, error) {
	if destination == "" {
		return nil, fmt.Errorf("destination cannot be empty: %w", types.ErrInvalidArgument)
	}
	payload := &types.PaymentForward{
		Destination: destination,
		Token:       c.config.Token,
	}
	if opts != nil {
		if opts.ProcessFeesSatoshis > 0 && opts.ProcessFeesPercent > 0 {
			return nil, fmt.Errorf("only one of process fees satoshis or percent may be set: %w", types.ErrInvalidArgument)
		}
		payload.CallbackUrl = opts.CallbackUrl
		payload.EnableConfirmations = opts.EnableConfirmations
		payload.MiningFeesSatoshis = opts.MiningFeesSatoshis
		payload.ProcessFeesAddress = opts.ProcessFeesAddress
		payload.ProcessFeesSatoshis = opts.ProcessFeesSatoshis
		payload.ProcessFeesPercent = opts.ProcessFeesPercent
	}
	return doJSON[types.PaymentForward](ctx, c, MethodPost, "/payments", nil, payload)
}

// ListPaymentForwards returns all forwarding addresses of the token
func (c *Client) ListPaymentForwards(ctx context.Context) ([]types.PaymentForward, error) {
	return doList[types.PaymentForward](ctx, c, MethodGet, "/payments", nil)
}

// DeletePaymentForward removes a forwarding address
func (c *Client) DeletePaymentForward(ctx context.Context, id string) error {
	payId, err := pathSegment("payment forward id", id)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, MethodDelete, "/payments/"+payId, nil, nil, nil)
	return err
}
