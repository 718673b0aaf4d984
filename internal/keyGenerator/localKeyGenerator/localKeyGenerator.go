package localKeyGenerator

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blockcypher/blockcypher-go/internal/keyGenerator"
	"github.com/blockcypher/blockcypher-go/pkg/config"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner"
	"github.com/blockcypher/blockcypher-go/pkg/digestSigner/localDigestSigner"
)

// keyEntry stores the private key and metadata for a key
type keyEntry struct {
	privateKey *secp256k1.PrivateKey
	keyName    string
	aliasName  string
	address    string
}

// LocalKeyGenerator creates secp256k1 keys in process and keeps them in
// memory for the lifetime of the generator.
type LocalKeyGenerator struct {
	logger   *zap.Logger
	cfg      *config.ClientConfig
	keyStore map[string]*keyEntry // keyId -> keyEntry
	mu       sync.RWMutex
}

func NewLocalKeyGenerator(cfg *config.ClientConfig, logger *zap.Logger) *LocalKeyGenerator {
	return &LocalKeyGenerator{
		logger:   logger,
		cfg:      cfg,
		keyStore: make(map[string]*keyEntry),
	}
}

func (l *LocalKeyGenerator) GenerateKey(ctx context.Context, keyName string, aliasName string) (*keyGenerator.GeneratedKey, error) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}

	address, err := keyGenerator.DeriveAddress(privateKey.PubKey().SerializeCompressed(), l.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}

	keyId := fmt.Sprintf("local-key-%s", uuid.New().String())

	entry := &keyEntry{
		privateKey: privateKey,
		keyName:    keyName,
		aliasName:  aliasName,
		address:    address,
	}
	l.mu.Lock()
	l.keyStore[keyId] = entry
	l.mu.Unlock()

	l.logger.Sugar().Infow("Generated local signing key",
		"keyId", keyId,
		"keyName", keyName,
		"alias", aliasName,
		"address", address,
	)
	return l.toGeneratedKey(keyId, entry), nil
}

func (l *LocalKeyGenerator) GetKeyById(ctx context.Context, keyId string) (*keyGenerator.GeneratedKey, error) {
	entry, err := l.get(keyId)
	if err != nil {
		return nil, err
	}
	return l.toGeneratedKey(keyId, entry), nil
}

// Signer returns a digest signer backed by the stored key
func (l *LocalKeyGenerator) Signer(ctx context.Context, keyId string) (digestSigner.IDigestSigner, error) {
	entry, err := l.get(keyId)
	if err != nil {
		return nil, err
	}
	signer, err := localDigestSigner.NewLocalDigestSigner(hex.EncodeToString(entry.privateKey.Serialize()), l.logger)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

// ListKeys returns the ids of all keys generated so far
func (l *LocalKeyGenerator) ListKeys() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keyIds := make([]string, 0, len(l.keyStore))
	for keyId := range l.keyStore {
		keyIds = append(keyIds, keyId)
	}
	return keyIds
}

func (l *LocalKeyGenerator) get(keyId string) (*keyEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.keyStore[keyId]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", keyId)
	}
	return entry, nil
}

func (l *LocalKeyGenerator) toGeneratedKey(keyId string, entry *keyEntry) *keyGenerator.GeneratedKey {
	return &keyGenerator.GeneratedKey{
		KeyId:         keyId,
		PublicKey:     entry.privateKey.PubKey().SerializeCompressed(),
		Address:       entry.address,
		PrivateKeyHex: hex.EncodeToString(entry.privateKey.Serialize()),
		Wif:           keyGenerator.EncodeWif(entry.privateKey, l.cfg),
	}
}

// Compile-time check to ensure LocalKeyGenerator implements IKeyGenerator
var _ keyGenerator.IKeyGenerator = (*LocalKeyGenerator)(nil)
