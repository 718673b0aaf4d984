package blockcypher

import (
	"context"
	"net/url"
	"strconv"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// BlockOptions pages through the txids of a block
type BlockOptions struct {
	TxStart int
	Limit   int
}

func (o *BlockOptions) values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.TxStart > 0 {
		q.Set("txstart", strconv.Itoa(o.TxStart))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// TxOptions controls how much of a transaction is returned
type TxOptions struct {
	Limit             int
	InStart           int
	OutStart          int
	IncludeHex        bool
	IncludeConfidence bool
}

func (o *TxOptions) values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.InStart > 0 {
		q.Set("instart", strconv.Itoa(o.InStart))
	}
	if o.OutStart > 0 {
		q.Set("outstart", strconv.Itoa(o.OutStart))
	}
	if o.IncludeHex {
		q.Set("includeHex", "true")
	}
	if o.IncludeConfidence {
		q.Set("includeConfidence", "true")
	}
	return q
}

// GetChain returns the current state of the configured chain
func (c *Client) GetChain(ctx context.Context) (*types.Blockchain, error) {
	return doJSON[types.Blockchain](ctx, c, MethodGet, "", nil, nil)
}

// GetBlock returns a block by hash or height
func (c *Client) GetBlock(ctx context.Context, hashOrHeight string, opts *BlockOptions) (*types.Block, error) {
	id, err := pathSegment("block hash or height", hashOrHeight)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Block](ctx, c, MethodGet, "/blocks/"+id, opts.values(), nil)
}

// GetTx returns a transaction by hash
func (c *Client) GetTx(ctx context.Context, hash string, opts *TxOptions) (*types.Tx, error) {
	h, err := pathSegment("transaction hash", hash)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Tx](ctx, c, MethodGet, "/txs/"+h, opts.values(), nil)
}

// GetUnconfirmedTxs returns the most recent unconfirmed transactions
func (c *Client) GetUnconfirmedTxs(ctx context.Context) ([]types.Tx, error) {
	return doList[types.Tx](ctx, c, MethodGet, "/txs", nil)
}

// GetTxConfidence returns the double spend confidence of an unconfirmed transaction
func (c *Client) GetTxConfidence(ctx context.Context, hash string) (*types.TxConfidence, error) {
	h, err := pathSegment("transaction hash", hash)
	if err != nil {
		return nil, err
	}
	return doJSON[types.TxConfidence](ctx, c, MethodGet, "/txs/"+h+"/confidence", nil, nil)
}
