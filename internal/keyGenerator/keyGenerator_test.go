package keyGenerator

import (
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockcypher/blockcypher-go/pkg/config"
)

func keyOne(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	b, err := hex.DecodeString("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	return secp256k1.PrivKeyFromBytes(b)
}

func Test_EncodeWif(t *testing.T) {
	key := keyOne(t)

	mainnet := &config.ClientConfig{Currency: config.Currency_Bitcoin, Network: config.Network_Main}
	assert.Equal(t, "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn", EncodeWif(key, mainnet))

	testnet := &config.ClientConfig{Currency: config.Currency_Bitcoin, Network: config.Network_Test3}
	assert.Equal(t, "cMahea7zqjxrtgAbB7LSGbcQUr1uX1ojuat9jZodMN87JcbXMTcA", EncodeWif(key, testnet))

	unknown := &config.ClientConfig{Currency: config.Currency_Litecoin, Network: config.Network_Test}
	assert.Empty(t, EncodeWif(key, unknown))
}

func Test_DeriveAddress(t *testing.T) {
	pub := keyOne(t).PubKey().SerializeCompressed()

	addr, err := DeriveAddress(pub, &config.ClientConfig{Currency: config.Currency_Bitcoin, Network: config.Network_Main})
	require.NoError(t, err)
	assert.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", addr)

	addr, err = DeriveAddress(pub, &config.ClientConfig{Currency: config.Currency_Litecoin, Network: config.Network_Test})
	require.NoError(t, err)
	assert.Empty(t, addr)

	_, err = DeriveAddress([]byte{0x02, 0x01}, &config.ClientConfig{Currency: config.Currency_Bitcoin, Network: config.Network_Main})
	assert.Error(t, err)
}

func Test_GeneratedKey_Keychain(t *testing.T) {
	key := keyOne(t)
	g := &GeneratedKey{
		KeyId:     "local-key-1",
		PublicKey: key.PubKey().SerializeCompressed(),
		Address:   "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH",
	}

	kc := g.Keychain()
	assert.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", kc.Public)
	assert.Equal(t, g.Address, kc.Address)
	assert.Empty(t, kc.Private)
	assert.Empty(t, kc.Wif)
}
