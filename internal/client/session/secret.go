package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/snapgram/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/snapgram/internal/common"
)

// secretSize is the length in bytes of a generated signing key.
const secretSize = 32

// LoadOrCreateSecret returns the key that signs session tokens. A non-empty
// configured value is used as is. Otherwise the key stored under
// metadata.KeySessionSecret is returned, and on first run a random one is
// generated and stored there.
func LoadOrCreateSecret(ctx context.Context, repo metadata.Repository, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	stored, err := repo.Get(ctx, metadata.KeySessionSecret)
	if err != nil {
		return nil, fmt.Errorf("load session secret: %w", err)
	}
	if len(stored) > 0 {
		return stored, nil
	}

	secret := common.GenerateRandByteArray(secretSize)
	if err := repo.Set(ctx, metadata.KeySessionSecret, secret); err != nil {
		return nil, fmt.Errorf("store session secret: %w", err)
	}
	return secret, nil
}
