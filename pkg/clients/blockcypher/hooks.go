package blockcypher

import (
	"context"
	"fmt"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// Webhook event names
const (
	EventUnconfirmedTx  = "unconfirmed-tx"
	EventNewBlock       = "new-block"
	EventConfirmedTx    = "confirmed-tx"
	EventTxConfirmation = "tx-confirmation"
	EventDoubleSpendTx  = "double-spend-tx"
	EventTxConfidence   = "tx-confidence"
)

// CreateHook registers a webhook. The client token is used when the hook
// does not carry its own.
func (c *Client) CreateHook(ctx context.Context, hook *types.Hook) (*types.Hook, error) {
	if hook == nil || hook.Url == "" || hook.Event == "" {
		return nil, fmt.Errorf("hook needs a url and an event: %w", types.ErrInvalidArgument)
	}
	payload := *hook
	if payload.Token == "" {
		payload.Token = c.config.Token
	}
	return doJSON[types.Hook](ctx, c, MethodPost, "/hooks", nil, &payload)
}

// ListHooks returns all webhooks registered with the token
func (c *Client) ListHooks(ctx context.Context) ([]types.Hook, error) {
	return doList[types.Hook](ctx, c, MethodGet, "/hooks", nil)
}

// GetHook returns a webhook by id
func (c *Client) GetHook(ctx context.Context, id string) (*types.Hook, error) {
	hookId, err := pathSegment("hook id", id)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Hook](ctx, c, MethodGet, "/hooks/"+hookId, nil, nil)
}

// DeleteHook removes a webhook
func (c *Client) DeleteHook(ctx context.Context, id string) error {
	hookId, err := pathSegment("hook id", id)
	if err != nil {
		return err
	}
	_, err = c.call(ctx, MethodDelete, "/hooks/"+hookId, nil, nil, nil)
	return err
}
