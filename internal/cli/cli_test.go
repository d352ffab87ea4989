package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

func TestInitDBCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "library.sqlite")
	var out bytes.Buffer

	cmd := &InitDBCommand{Out: &out}
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Database initialized at "+dbPath)
	assert.Contains(t, out.String(), "  - authors")
	assert.Contains(t, out.String(), "  - books")
	assert.Contains(t, out.String(), "  - audit_events")

	// idempotent
	out.Reset()
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "  - books")
}

func TestInitDBCommand_UnknownFlag(t *testing.T) {
	cmd := NewInitDBCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-nope"}))
}

func TestSeedCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.sqlite")
	var out bytes.Buffer

	cmd := &SeedCommand{Out: &out}
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Seeded 4 authors and 7 books")
	assert.Contains(t, out.String(), "'Emma' (1815) by Jane Austen (1775-12-16 – 1817-07-18)")

	out.Reset()
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "skipping")

	db, err := database.NewDatabaseWithLogLevel(dbPath, logger.Silent)
	require.NoError(t, err)
	defer db.Close()

	var authors, books int64
	require.NoError(t, db.DB.Model(&entities.Author{}).Count(&authors).Error)
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&books).Error)
	assert.Equal(t, int64(4), authors)
	assert.Equal(t, int64(7), books)
}

func TestSeedCommand_Force(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.sqlite")
	var out bytes.Buffer

	cmd := &SeedCommand{DatabasePath: dbPath, Out: &out}
	require.NoError(t, cmd.Run())
	cmd.Force = true
	require.NoError(t, cmd.Run())

	assert.Equal(t, 2, strings.Count(out.String(), "Seeded 4 authors"))
}

func TestHashPasswordCommand(t *testing.T) {
	t.Run("from flag", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &HashPasswordCommand{In: strings.NewReader(""), Out: &out}
		require.NoError(t, cmd.ParseFlags([]string{"-password", "s3cret"}))
		require.NoError(t, cmd.Run())

		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	})

	t.Run("from stdin", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &HashPasswordCommand{In: strings.NewReader("s3cret\n"), Out: &out}
		require.NoError(t, cmd.Run())

		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	})

	t.Run("empty", func(t *testing.T) {
		cmd := &HashPasswordCommand{In: strings.NewReader(""), Out: &bytes.Buffer{}}
		assert.Error(t, cmd.Run())
	})
}
