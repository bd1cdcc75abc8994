// Package keymanager issues per-student encryption keys and derives usable
// key material from the process secret. Raw key bytes are never persisted:
// material is a deterministic function of (secret, keyID), which keeps
// decryption repeatable and leaves room to swap in an HSM-backed provider.
package keymanager

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/anovikov/journalvault/internal/common"
	"github.com/anovikov/journalvault/internal/cryptox"
	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/models"
	"github.com/anovikov/journalvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// Algorithm recorded on every issued key row.
const Algorithm = "aes-256-gcm"

// Resolver derives key material for a previously issued keyID. It is an
// interface so production deployments can plug in envelope encryption
// without touching the journal service.
type Resolver interface {
	Resolve(keyID string) ([]byte, error)
}

type Manager struct {
	secret []byte
	rm     repomanager.RepositoryManager
}

func NewManager(secret string, rm repomanager.RepositoryManager) *Manager {
	return &Manager{secret: []byte(secret), rm: rm}
}

// Generate creates and persists a new key record bound to ownerID. The db
// handle may be an open transaction so the key row commits atomically with
// the entry that uses it.
func (m *Manager) Generate(ctx context.Context, db dbx.DBTX, ownerID string) (*models.EncryptionKey, error) {
	key := &models.EncryptionKey{
		KeyID:       uuid.NewString(),
		Algorithm:   Algorithm,
		CreatedBy:   ownerID,
		ActivatedAt: time.Now().UTC(),
	}

	if err := m.rm.Keys(db).Create(ctx, key); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyPersistence, err)
	}

	return key, nil
}

// Resolve derives 32 bytes of AES key material via HKDF-SHA256 with the
// keyID as salt. Same inputs always yield the same output; the stored row is
// not consulted, so a syntactically invalid keyID is the only failure mode.
func (m *Manager) Resolve(keyID string) ([]byte, error) {
	if _, err := uuid.Parse(keyID); err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrKeyNotFound, keyID)
	}

	material := make([]byte, cryptox.KeySize)
	r := hkdf.New(sha256.New, m.secret, []byte(keyID), []byte("journal-entry-key"))
	if _, err := io.ReadFull(r, material); err != nil {
		return nil, err
	}
	return material, nil
}
