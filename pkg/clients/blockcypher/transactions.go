package blockcypher

import (
	"context"
	"fmt"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// NewTx asks the API for a transaction skeleton spending the given
// template. The returned skeleton carries the digests to sign.
func (c *Client) NewTx(ctx context.Context, tx *types.Tx) (*types.TxSkeleton, error) {
	if tx == nil || len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return nil, fmt.Errorf("transaction needs at least one input and one output: %w", types.ErrInvalidArgument)
	}
	return doJSON[types.TxSkeleton](ctx, c, MethodPost, "/txs/new", nil, tx)
}

// SendTx submits a signed skeleton for final assembly and broadcast. The
// signature and public key counts are checked before anything is sent.
func (c *Client) SendTx(ctx context.Context, skel *types.TxSkeleton) (*types.TxSkeleton, error) {
	if skel == nil {
		return nil, fmt.Errorf("skeleton cannot be nil: %w", types.ErrInvalidArgument)
	}
	if err := skel.CheckSigned(); err != nil {
		return nil, err
	}
	return doJSON[types.TxSkeleton](ctx, c, MethodPost, "/txs/send", nil, skel)
}

// PushTx broadcasts a fully signed raw transaction
func (c *Client) PushTx(ctx context.Context, hex string) (*types.TxSkeleton, error) {
	if hex == "" {
		return nil, fmt.Errorf("raw transaction cannot be empty: %w", types.ErrInvalidArgument)
	}
	return doJSON[types.TxSkeleton](ctx, c, MethodPost, "/txs/push", nil, &types.PushRequest{Tx: hex})
}

// DecodeTx decodes a raw transaction without broadcasting it
func (c *Client) DecodeTx(ctx context.Context, hex string) (*types.Tx, error) {
	if hex == "" {
		return nil, fmt.Errorf("raw transaction cannot be empty: %w", types.ErrInvalidArgument)
	}
	return doJSON[types.Tx](ctx, c, MethodPost, "/txs/decode", nil, &types.PushRequest{Tx: hex})
}

// SendMicroTx sends a micro transaction. When only FromPubKey is set the
// response carries ToSign and must be resubmitted with Signatures.
func (c *Client) SendMicroTx(ctx context.Context, mtx *types.MicroTx) (*types.MicroTx, error) {
	if mtx == nil || mtx.ToAddress == "" {
		return nil, fmt.Errorf("micro transaction needs a destination address: %w", types.ErrInvalidArgument)
	}
	if mtx.ValueSatoshis <= 0 {
		return nil, fmt.Errorf("micro transaction value must be positive: %w", types.ErrInvalidArgument)
	}
	if mtx.FromPubKey == "" && mtx.FromPrivate == "" && mtx.FromWif == "" {
		return nil, fmt.Errorf("micro transaction needs one of from_pubkey, from_private or from_wif: %w", types.ErrInvalidArgument)
	}
	return doJSON[types.MicroTx](ctx, c, MethodPost, "/txs/micro", nil, mtx)
}
