package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"create clients", "create_clients"},
		{"Create-Quote-Lines", "create_quote_lines"},
		{"ADD_PAYMENTS_COLUMN", "add_payments_column"},
		{"add__sequence__row", "add_sequence_row"},
		{"index invoices v2", "index_invoices_v2"},
		{"   padded   ", "padded"},
		{"accents-ignorés", "accents_ignors"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add payment index", "index on invoice payments")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, "add payment index", mf.Name)

	base := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	assert.Equal(t, mf.Version+"_add_payment_index", base)
	assert.Equal(t, base, strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_payment_index")
	assert.Contains(t, string(up), "-- Description: index on invoice payments")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "-- Migration: add_payment_index (Rollback)")
	assert.Contains(t, string(down), "Rollback for index on invoice payments")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(nested, "create refunds", "refund tracking")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
}

func TestCreateMigration_UnusableName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "???", "nothing survives sanitizing")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"20260105100000_create_clients.up.sql",
		"20260105100000_create_clients.down.sql",
		"20260105100300_create_quotes.up.sql",
		"20260105100300_create_quotes.down.sql",
		"20260105100400_create_invoices.up.sql",
		"20260105100400_create_invoices.down.sql",
		"README.md",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- stub"), 0o644))
	}

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260105100000_create_clients",
		"20260105100300_create_quotes",
		"20260105100400_create_invoices",
	}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "never-created"))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListMigrations_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260105100000_create_clients.up.sql"), []byte("-- stub"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260105100000_create_clients"}, names)
}
