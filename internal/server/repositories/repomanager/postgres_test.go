package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
)

func TestRepositoriesAreConstructed(t *testing.T) {
	m := NewPostgresRepositoryManager()

	assert.NotNil(t, m.Entries(nil))
	assert.NotNil(t, m.Keys(nil))
	assert.NotNil(t, m.Emotions(nil))
	assert.NotNil(t, m.Tags(nil))
	assert.NotNil(t, m.Attachments(nil))
	assert.NotNil(t, m.Audit(nil))
}

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var called bool
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		assert.Equal(t, ".", dir)
		return nil
	}

	m := NewPostgresRepositoryManager()
	err := m.RunMigrations(context.Background(), nil)
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("migration failed")
	}

	m := NewPostgresRepositoryManager()
	err := m.RunMigrations(context.Background(), nil)
	assert.Error(t, err)
}
