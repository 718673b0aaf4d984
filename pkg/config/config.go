package config

import (
	"fmt"
	"net/url"
	"time"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the blockcypher client
const (
	EnvBlockCypherToken    = "BLOCKCYPHER_TOKEN"
	EnvBlockCypherCurrency = "BLOCKCYPHER_CURRENCY"
	EnvBlockCypherNetwork  = "BLOCKCYPHER_NETWORK"
	EnvBlockCypherBaseUrl  = "BLOCKCYPHER_BASE_URL"
	EnvBlockCypherDebug    = "BLOCKCYPHER_DEBUG"
	EnvPrivateKey          = "BLOCKCYPHER_PRIVATE_KEY"
	EnvAWSKMSKeyId         = "BLOCKCYPHER_AWS_KMS_KEY_ID"
	EnvAWSRegion           = "AWS_REGION"
)

const (
	DefaultBaseUrl = "https://api.blockcypher.com"
	DefaultTimeout = 30 * time.Second
)

type Version string

const (
	Version_V1 Version = "v1"
)

type Currency string

func (c Currency) String() string {
	return string(c)
}

const (
	Currency_Bitcoin  Currency = "btc"
	Currency_Litecoin Currency = "ltc"
	Currency_Dogecoin Currency = "doge"
	Currency_Dash     Currency = "dash"
	// Currency_BlockCypher is the BlockCypher test chain ("bcy/test")
	Currency_BlockCypher Currency = "bcy"
)

type Network string

func (n Network) String() string {
	return string(n)
}

const (
	Network_Main  Network = "main"
	Network_Test  Network = "test"
	Network_Test3 Network = "test3"
)

var supportedCurrencies = []string{
	string(Currency_Bitcoin),
	string(Currency_Litecoin),
	string(Currency_Dogecoin),
	string(Currency_Dash),
	string(Currency_BlockCypher),
}

var supportedNetworks = []string{
	string(Network_Main),
	string(Network_Test),
	string(Network_Test3),
}

// faucetChains lists the chains where /faucet is available
var faucetChains = map[Currency]Network{
	Currency_BlockCypher: Network_Test,
	Currency_Bitcoin:     Network_Test3,
}

type chain struct {
	currency Currency
	network  Network
}

// addressVersions holds the base58 version bytes of pay-to-pubkey-hash
// addresses and WIF private keys on each chain
var addressVersions = map[chain]struct{ p2pkh, wif byte }{
	{Currency_Bitcoin, Network_Main}:     {0x00, 0x80},
	{Currency_Bitcoin, Network_Test3}:    {0x6f, 0xef},
	{Currency_Litecoin, Network_Main}:    {0x30, 0xb0},
	{Currency_Dogecoin, Network_Main}:    {0x1e, 0x9e},
	{Currency_Dash, Network_Main}:        {0x4c, 0xcc},
	{Currency_BlockCypher, Network_Test}: {0x1b, 0x49},
}

// ClientConfig is the immutable configuration of a blockcypher client
type ClientConfig struct {
	BaseUrl  string   `json:"baseUrl" yaml:"baseUrl"`
	Version  Version  `json:"version" yaml:"version"`
	Currency Currency `json:"currency" yaml:"currency"`
	Network  Network  `json:"network" yaml:"network"`
	// Token is appended as the "token" query parameter to every request
	Token   string        `json:"token" yaml:"token"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// RequestsPerSecond enables client side rate limiting when > 0
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
}

// DefaultClientConfig returns a configuration for bitcoin mainnet without a token
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseUrl:  DefaultBaseUrl,
		Version:  Version_V1,
		Currency: Currency_Bitcoin,
		Network:  Network_Main,
		Timeout:  DefaultTimeout,
	}
}

func (c *ClientConfig) Validate() error {
	var allErrors field.ErrorList

	if c.BaseUrl == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("baseUrl"), "baseUrl is required"))
	} else if u, err := url.Parse(c.BaseUrl); err != nil || u.Scheme == "" || u.Host == "" {
		allErrors = append(allErrors, field.Invalid(field.NewPath("baseUrl"), c.BaseUrl, "must be an absolute URL"))
	}
	if c.Version == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("version"), "version is required"))
	}
	if !contains(supportedCurrencies, string(c.Currency)) {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("currency"), c.Currency, supportedCurrencies))
	}
	if !contains(supportedNetworks, string(c.Network)) {
		allErrors = append(allErrors, field.NotSupported(field.NewPath("network"), c.Network, supportedNetworks))
	}
	if c.Timeout < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("timeout"), c.Timeout.String(), "must not be negative"))
	}
	if c.RequestsPerSecond < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("requestsPerSecond"), c.RequestsPerSecond, "must not be negative"))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// ChainPath returns the "<version>/<currency>/<network>" URL prefix
func (c *ClientConfig) ChainPath() string {
	return fmt.Sprintf("%s/%s/%s", c.Version, c.Currency, c.Network)
}

// HasFaucet reports whether the configured chain supports /faucet
func (c *ClientConfig) HasFaucet() bool {
	network, ok := faucetChains[c.Currency]
	return ok && network == c.Network
}

// AddressVersion returns the P2PKH address version byte of the configured
// chain, if known
func (c *ClientConfig) AddressVersion() (byte, bool) {
	v, ok := addressVersions[chain{c.Currency, c.Network}]
	return v.p2pkh, ok
}

// WifVersion returns the WIF private key version byte of the configured
// chain, if known
func (c *ClientConfig) WifVersion() (byte, bool) {
	v, ok := addressVersions[chain{c.Currency, c.Network}]
	return v.wif, ok
}

// SignerConfig selects how transaction digests are signed: with a local
// private key (hex or WIF) or with an AWS KMS secp256k1 key.
type SignerConfig struct {
	PrivateKey  string `json:"privateKey" yaml:"privateKey"`
	AWSKMSKeyId string `json:"awsKmsKeyId" yaml:"awsKmsKeyId"`
	AWSRegion   string `json:"awsRegion" yaml:"awsRegion"`
}

func (sc *SignerConfig) Validate() error {
	var allErrors field.ErrorList
	if sc.PrivateKey == "" && sc.AWSKMSKeyId == "" {
		allErrors = append(allErrors, field.Required(field.NewPath("privateKey"), "one of privateKey or awsKmsKeyId is required"))
	}
	if sc.PrivateKey != "" && sc.AWSKMSKeyId != "" {
		allErrors = append(allErrors, field.Forbidden(field.NewPath("awsKmsKeyId"), "awsKmsKeyId cannot be combined with privateKey"))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// UsesAWSKMS reports whether signing is delegated to AWS KMS
func (sc *SignerConfig) UsesAWSKMS() bool {
	return sc.AWSKMSKeyId != ""
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
