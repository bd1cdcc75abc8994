package keymanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/anovikov/journalvault/internal/common"
	"github.com/anovikov/journalvault/internal/cryptox"
	"github.com/anovikov/journalvault/internal/dbx"
	"github.com/anovikov/journalvault/internal/server/models"
	"github.com/anovikov/journalvault/internal/server/repositories/attachments"
	"github.com/anovikov/journalvault/internal/server/repositories/audit"
	"github.com/anovikov/journalvault/internal/server/repositories/emotions"
	"github.com/anovikov/journalvault/internal/server/repositories/entries"
	"github.com/anovikov/journalvault/internal/server/repositories/keys"
	"github.com/anovikov/journalvault/internal/server/repositories/tags"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubKeysRepo struct {
	keys.Repository
	created   []*models.EncryptionKey
	createErr error
}

func (s *stubKeysRepo) Create(ctx context.Context, key *models.EncryptionKey) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, key)
	return nil
}

type stubRepoManager struct {
	keysRepo *stubKeysRepo
}

func (m *stubRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *stubRepoManager) Entries(db dbx.DBTX) entries.Repository             { return nil }
func (m *stubRepoManager) Keys(db dbx.DBTX) keys.Repository                   { return m.keysRepo }
func (m *stubRepoManager) Emotions(db dbx.DBTX) emotions.Repository           { return nil }
func (m *stubRepoManager) Tags(db dbx.DBTX) tags.Repository                   { return nil }
func (m *stubRepoManager) Attachments(db dbx.DBTX) attachments.Repository     { return nil }
func (m *stubRepoManager) Audit(db dbx.DBTX) audit.Repository                 { return nil }

func TestGenerate(t *testing.T) {
	repo := &stubKeysRepo{}
	m := NewManager("secret", &stubRepoManager{keysRepo: repo})

	key, err := m.Generate(context.Background(), nil, "student-1")
	require.NoError(t, err)

	assert.Equal(t, Algorithm, key.Algorithm)
	assert.Equal(t, "student-1", key.CreatedBy)
	_, err = uuid.Parse(key.KeyID)
	assert.NoError(t, err, "keyID must be a uuid")
	assert.False(t, key.ActivatedAt.IsZero())

	require.Len(t, repo.created, 1)
	assert.Same(t, key, repo.created[0])
}

func TestGenerate_PersistenceFailure(t *testing.T) {
	repo := &stubKeysRepo{createErr: errors.New("connection refused")}
	m := NewManager("secret", &stubRepoManager{keysRepo: repo})

	_, err := m.Generate(context.Background(), nil, "student-1")
	assert.ErrorIs(t, err, common.ErrKeyPersistence)
}

func TestResolve_Deterministic(t *testing.T) {
	m := NewManager("secret", nil)
	keyID := uuid.NewString()

	a, err := m.Resolve(keyID)
	require.NoError(t, err)
	b, err := m.Resolve(keyID)
	require.NoError(t, err)

	assert.Len(t, a, cryptox.KeySize)
	assert.Equal(t, a, b, "same keyID must derive the same material")
}

func TestResolve_DistinctInputsDistinctMaterial(t *testing.T) {
	m := NewManager("secret", nil)

	a, err := m.Resolve(uuid.NewString())
	require.NoError(t, err)
	b, err := m.Resolve(uuid.NewString())
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "distinct keyIDs must derive distinct material")

	keyID := uuid.NewString()
	c, err := m.Resolve(keyID)
	require.NoError(t, err)
	d, err := NewManager("other secret", nil).Resolve(keyID)
	require.NoError(t, err)
	assert.NotEqual(t, c, d, "distinct secrets must derive distinct material")
}

func TestResolve_InvalidKeyID(t *testing.T) {
	m := NewManager("secret", nil)

	_, err := m.Resolve("not-a-uuid")
	assert.ErrorIs(t, err, common.ErrKeyNotFound)
}
