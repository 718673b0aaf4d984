package types

import (
	"time"
)

// Blockchain describes the current state of a coin/chain pair
type Blockchain struct {
	Name             string    `json:"name"`
	Height           int64     `json:"height"`
	Hash             string    `json:"hash"`
	Time             time.Time `json:"time"`
	PrevHash         string    `json:"previous_hash"`
	PeerCount        int       `json:"peer_count"`
	HighFee          int64     `json:"high_fee_per_kb"`
	MediumFee        int64     `json:"medium_fee_per_kb"`
	LowFee           int64     `json:"low_fee_per_kb"`
	UnconfirmedCount int       `json:"unconfirmed_count"`
	LastForkHeight   int64     `json:"last_fork_height,omitempty"`
	LastForkHash     string    `json:"last_fork_hash,omitempty"`
}

// Block is a block as returned by /blocks/{hash|height}
type Block struct {
	Hash         string    `json:"hash"`
	Height       int64     `json:"height"`
	Depth        int64     `json:"depth"`
	Chain        string    `json:"chain"`
	Total        int64     `json:"total"`
	Fees         int64     `json:"fees"`
	Ver          int       `json:"ver"`
	Time         time.Time `json:"time"`
	ReceivedTime time.Time `json:"received_time"`
	RelayedBy    string    `json:"relayed_by,omitempty"`
	Bits         int64     `json:"bits"`
	Nonce        int64     `json:"nonce"`
	NumTxs       int       `json:"n_tx"`
	PrevBlock    string    `json:"prev_block"`
	MerkleRoot   string    `json:"mrkl_root"`
	TxIds        []string  `json:"txids"`
	NextTxs      string    `json:"next_txids,omitempty"`
}

// Tx is a transaction. The same shape is used for unsigned skeleton
// transactions, where most of the chain metadata is empty.
type Tx struct {
	BlockHash     string     `json:"block_hash,omitempty"`
	BlockHeight   int64      `json:"block_height,omitempty"`
	Hash          string     `json:"hash,omitempty"`
	Addresses     []string   `json:"addresses,omitempty"`
	Total         int64      `json:"total,omitempty"`
	Fees          int64      `json:"fees,omitempty"`
	Size          int        `json:"size,omitempty"`
	Preference    string     `json:"preference,omitempty"`
	RelayedBy     string     `json:"relayed_by,omitempty"`
	Received      *time.Time `json:"received,omitempty"`
	Confirmed     *time.Time `json:"confirmed,omitempty"`
	Confirmations int        `json:"confirmations,omitempty"`
	Confidence    float64    `json:"confidence,omitempty"`
	Ver           int        `json:"ver,omitempty"`
	LockTime      int64      `json:"lock_time,omitempty"`
	DoubleSpend   bool       `json:"double_spend,omitempty"`
	DoubleOf      string     `json:"double_of,omitempty"`
	ReceiveCount  int        `json:"receive_count,omitempty"`
	VinSize       int        `json:"vin_sz,omitempty"`
	VoutSize      int        `json:"vout_sz,omitempty"`
	Hex           string     `json:"hex,omitempty"`
	DataProtocol  string     `json:"data_protocol,omitempty"`
	ChangeAddress string     `json:"change_address,omitempty"`
	NextInputs    string     `json:"next_inputs,omitempty"`
	NextOutputs   string     `json:"next_outputs,omitempty"`
	Inputs        []TxInput  `json:"inputs"`
	Outputs       []TxOutput `json:"outputs"`
}

// TxInput is a transaction input. When building a new transaction only
// Addresses (or WalletName) is set.
type TxInput struct {
	PrevHash    string   `json:"prev_hash,omitempty"`
	OutputIndex int      `json:"output_index,omitempty"`
	OutputValue int64    `json:"output_value,omitempty"`
	Addresses   []string `json:"addresses,omitempty"`
	Sequence    int64    `json:"sequence,omitempty"`
	ScriptType  string   `json:"script_type,omitempty"`
	Script      string   `json:"script,omitempty"`
	Age         int64    `json:"age,omitempty"`
	WalletName  string   `json:"wallet_name,omitempty"`
}

// TxOutput is a transaction output
type TxOutput struct {
	SpentBy    string   `json:"spent_by,omitempty"`
	Value      int64    `json:"value"`
	Addresses  []string `json:"addresses,omitempty"`
	ScriptType string   `json:"script_type,omitempty"`
	Script     string   `json:"script,omitempty"`
	DataHex    string   `json:"data_hex,omitempty"`
	DataString string   `json:"data_string,omitempty"`
}

// TxConfidence is returned by /txs/{hash}/confidence
type TxConfidence struct {
	AgeMillis    int64   `json:"age_millis"`
	ReceiveCount int     `json:"receive_count,omitempty"`
	Confidence   float64 `json:"confidence"`
	TxHash       string  `json:"txhash"`
}

// TxRef is a condensed reference to a transaction input or output
// belonging to an address
type TxRef struct {
	Address       string     `json:"address,omitempty"`
	BlockHeight   int64      `json:"block_height"`
	TxHash        string     `json:"tx_hash"`
	TxInputN      int        `json:"tx_input_n"`
	TxOutputN     int        `json:"tx_output_n"`
	Value         int64      `json:"value"`
	Preference    string     `json:"preference,omitempty"`
	Spent         bool       `json:"spent"`
	SpentBy       string     `json:"spent_by,omitempty"`
	DoubleSpend   bool       `json:"double_spend"`
	DoubleOf      string     `json:"double_of,omitempty"`
	Confirmations int        `json:"confirmations"`
	Script        string     `json:"script,omitempty"`
	RefBalance    int64      `json:"ref_balance,omitempty"`
	Confidence    float64    `json:"confidence,omitempty"`
	Confirmed     *time.Time `json:"confirmed,omitempty"`
	Received      *time.Time `json:"received,omitempty"`
}

// AddressBalance is returned by /addrs/{address}/balance
type AddressBalance struct {
	Address            string  `json:"address"`
	Wallet             *Wallet `json:"wallet,omitempty"`
	TotalReceived      int64   `json:"total_received"`
	TotalSent          int64   `json:"total_sent"`
	Balance            int64   `json:"balance"`
	UnconfirmedBalance int64   `json:"unconfirmed_balance"`
	FinalBalance       int64   `json:"final_balance"`
	NumTx              int     `json:"n_tx"`
	UnconfirmedNumTx   int     `json:"unconfirmed_n_tx"`
	FinalNumTx         int     `json:"final_n_tx"`
}

// Address is returned by /addrs/{address} and /addrs/{address}/full. TxRefs
// are populated by the former, Txs by the latter.
type Address struct {
	AddressBalance
	TxRefs            []TxRef `json:"txrefs,omitempty"`
	UnconfirmedTxRefs []TxRef `json:"unconfirmed_txrefs,omitempty"`
	Txs               []Tx    `json:"txs,omitempty"`
	HasMore           bool    `json:"hasMore,omitempty"`
	TxUrl             string  `json:"tx_url,omitempty"`
}

// AddressKeychain is a freshly generated address together with its keys.
// Private and Wif are secrets and must not be logged.
type AddressKeychain struct {
	Address         string   `json:"address,omitempty"`
	Private         string   `json:"private,omitempty"`
	Public          string   `json:"public,omitempty"`
	Wif             string   `json:"wif,omitempty"`
	PubKeys         []string `json:"pubkeys,omitempty"`
	ScriptType      string   `json:"script_type,omitempty"`
	OriginalAddress string   `json:"original_address,omitempty"`
	OAPAddress      string   `json:"oap_address,omitempty"`
}

// Wallet is a named set of addresses
type Wallet struct {
	Name      string   `json:"name,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// WalletAddressKeychain is returned when generating an address inside a
// wallet: the updated wallet and the new keychain side by side.
type WalletAddressKeychain struct {
	Wallet
	AddressKeychain
}

// WalletNames is returned by GET /wallets
type WalletNames struct {
	WalletNames []string `json:"wallet_names"`
}

// Hook is a webhook subscription
type Hook struct {
	Id             string  `json:"id,omitempty"`
	Event          string  `json:"event"`
	Hash           string  `json:"hash,omitempty"`
	WalletName     string  `json:"wallet_name,omitempty"`
	Token          string  `json:"token,omitempty"`
	Address        string  `json:"address,omitempty"`
	Confirmations  int     `json:"confirmations,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Script         string  `json:"script,omitempty"`
	Url            string  `json:"url,omitempty"`
	CallbackErrors int     `json:"callback_errors,omitempty"`
}

// PaymentForward is a forwarding address that relays everything it receives
// to Destination
type PaymentForward struct {
	Id                  string   `json:"id,omitempty"`
	Token               string   `json:"token,omitempty"`
	Destination         string   `json:"destination"`
	InputAddress        string   `json:"input_address,omitempty"`
	ProcessFeesAddress  string   `json:"process_fees_address,omitempty"`
	ProcessFeesSatoshis int64    `json:"process_fees_satoshis,omitempty"`
	ProcessFeesPercent  float64  `json:"process_fees_percent,omitempty"`
	CallbackUrl         string   `json:"callback_url,omitempty"`
	EnableConfirmations bool     `json:"enable_confirmations,omitempty"`
	MiningFeesSatoshis  int64    `json:"mining_fees_satoshis,omitempty"`
	Txs                 []string `json:"transactions,omitempty"`
}

// FaucetRequest funds a test address (bcy/test and btc/test3 only)
type FaucetRequest struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// FaucetResponse references the funding transaction
type FaucetResponse struct {
	TxRef string `json:"tx_ref"`
}

// PushRequest carries a fully signed raw transaction in hex
type PushRequest struct {
	Tx string `json:"tx"`
}

// MicroTx is a micro transaction. Either FromPrivate / FromWif (server side
// signing) or FromPubKey (client side signing of ToSign) is set.
type MicroTx struct {
	FromPubKey    string     `json:"from_pubkey,omitempty"`
	FromPrivate   string     `json:"from_private,omitempty"`
	FromWif       string     `json:"from_wif,omitempty"`
	ToAddress     string     `json:"to_address"`
	ValueSatoshis int64      `json:"value_satoshis"`
	ChangeAddress string     `json:"change_address,omitempty"`
	WaitGuarantee bool       `json:"wait_guarantee,omitempty"`
	ToSign        []string   `json:"tosign,omitempty"`
	Signatures    []string   `json:"signatures,omitempty"`
	Inputs        []TxInput  `json:"inputs,omitempty"`
	Outputs       []TxOutput `json:"outputs,omitempty"`
	Fees          int64      `json:"fees,omitempty"`
	Hash          string     `json:"hash,omitempty"`
}
