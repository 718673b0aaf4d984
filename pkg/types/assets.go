package types

import (
	"time"
)

// OAPIssue issues a new Open Assets Protocol asset
type OAPIssue struct {
	Priv      string `json:"from_private"`
	ToAddress string `json:"to_address"`
	Amount    int64  `json:"amount"`
	Metadata  string `json:"metadata,omitempty"`
}

// OAPTransfer moves an existing asset. The asset id is part of the request
// path, the body has the same shape as an issuance.
type OAPTransfer OAPIssue

// OAPTx is an asset issuance or transfer transaction
type OAPTx struct {
	Ver         int          `json:"ver"`
	AssetId     string       `json:"assetid"`
	Hash        string       `json:"hash"`
	Confirmed   *time.Time   `json:"confirmed,omitempty"`
	Received    *time.Time   `json:"received"`
	Metadata    string       `json:"oap_meta,omitempty"`
	DoubleSpend bool         `json:"double_spend"`
	Inputs      []OAPTxInput `json:"inputs"`
	Outputs     []OAPTxOut   `json:"outputs"`
}

// OAPTxInput is an input of an asset transaction
type OAPTxInput struct {
	PrevHash    string `json:"prev_hash"`
	OutputIndex int    `json:"output_index"`
	Address     string `json:"address"`
	OutputValue int64  `json:"output_value"`
}

// OAPTxOut is an output of an asset transaction
type OAPTxOut struct {
	Address         string `json:"address"`
	Value           int64  `json:"value"`
	OriginalAddress string `json:"original_address"`
}
