package blockcypher

import (
	"context"
	"net/url"
	"strconv"

	"github.com/blockcypher/blockcypher-go/pkg/types"
)

// AddressOptions filters the transaction references of an address
type AddressOptions struct {
	UnspentOnly       bool
	IncludeScript     bool
	IncludeConfidence bool
	Before            int64
	After             int64
	Limit             int
	Confirmations     int
}

func (o *AddressOptions) values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.UnspentOnly {
		q.Set("unspentOnly", "true")
	}
	if o.IncludeScript {
		q.Set("includeScript", "true")
	}
	if o.IncludeConfidence {
		q.Set("includeConfidence", "true")
	}
	if o.Before > 0 {
		q.Set("before", strconv.FormatInt(o.Before, 10))
	}
	if o.After > 0 {
		q.Set("after", strconv.FormatInt(o.After, 10))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Confirmations > 0 {
		q.Set("confirmations", strconv.Itoa(o.Confirmations))
	}
	return q
}

// GenerateAddress creates a new address and returns it with its keys
func (c *Client) GenerateAddress(ctx context.Context) (*types.AddressKeychain, error) {
	return doJSON[types.AddressKeychain](ctx, c, MethodPost, "/addrs", nil, nil)
}

// GetAddress returns an address with its transaction references
func (c *Client) GetAddress(ctx context.Context, address string, opts *AddressOptions) (*types.Address, error) {
	a, err := pathSegment("address", address)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Address](ctx, c, MethodGet, "/addrs/"+a, opts.values(), nil)
}

// GetAddressBalance returns only the balance fields of an address
func (c *Client) GetAddressBalance(ctx context.Context, address string) (*types.AddressBalance, error) {
	a, err := pathSegment("address", address)
	if err != nil {
		return nil, err
	}
	return doJSON[types.AddressBalance](ctx, c, MethodGet, "/addrs/"+a+"/balance", nil, nil)
}

// GetAddressFull returns an address with full transactions
func (c *Client) GetAddressFull(ctx context.Context, address string, opts *AddressOptions) (*types.Address, error) {
	a, err := pathSegment("address", address)
	if err != nil {
		return nil, err
	}
	return doJSON[types.Address](ctx, c, MethodGet, "/addrs/"+a+"/full", opts.values(), nil)
}

// GetAddressFinalBalance returns the balance of an address including
// unconfirmed transactions, in satoshis
func (c *Client) GetAddressFinalBalance(ctx context.Context, address string) (int64, error) {
	addr, err := c.GetAddress(ctx, address, nil)
	if err != nil {
		return 0, err
	}
	if addr == nil {
		return 0, nil
	}
	return addr.FinalBalance, nil
}
