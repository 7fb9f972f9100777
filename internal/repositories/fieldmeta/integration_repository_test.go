package fieldmeta_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/repositories/fieldmeta"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func getTestDB(t *testing.T) *sqlx.DB {
	// Use environment variables or defaults for test DB
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbUser := os.Getenv("DB_USER_NAME")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "profilesync"
	}

	dsn := "host=" + dbHost + " user=" + dbUser + " password=" + dbPass + " dbname=" + dbName + " sslmode=disable"
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	return db
}

func TestFieldMetaRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	repo := fieldmeta.NewRepository(db, getTestLogger())
	ctx := context.Background()

	formID := uuid.New().String()
	meta := json.RawMessage(`{"type":"text","label":"First Name"}`)

	created, err := repo.Upsert(ctx, formID, "field_main_map_first_name", meta)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, formID, created.FormID)
	assert.Equal(t, "field_main_map_first_name", created.FieldKey)
	assert.JSONEq(t, string(meta), string(created.Meta))

	fetched, err := repo.GetByKey(ctx, formID, "field_main_map_first_name")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, created.ID, fetched.ID)

	// A second upsert for the same key replaces the blob in place.
	updatedMeta := json.RawMessage(`{"type":"text","label":"Given Name"}`)
	updated, err := repo.Upsert(ctx, formID, "field_main_map_first_name", updatedMeta)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.JSONEq(t, string(updatedMeta), string(updated.Meta))

	_, err = repo.Upsert(ctx, formID, "field_main_map_last_name", json.RawMessage(`{"type":"text"}`))
	require.NoError(t, err)

	defs, err := repo.ListByForm(ctx, formID)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "field_main_map_first_name", defs[0].FieldKey)
	assert.Equal(t, "field_main_map_last_name", defs[1].FieldKey)

	err = repo.Delete(ctx, formID, "field_main_map_first_name")
	require.NoError(t, err)

	gone, err := repo.GetByKey(ctx, formID, "field_main_map_first_name")
	require.NoError(t, err)
	assert.Nil(t, gone)

	remaining, err := repo.ListByForm(ctx, formID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "field_main_map_last_name", remaining[0].FieldKey)
}

func TestFieldMetaRepository_GetByKey_MissingIsNil(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := getTestDB(t)
	defer db.Close()

	repo := fieldmeta.NewRepository(db, getTestLogger())

	def, err := repo.GetByKey(context.Background(), uuid.New().String(), "field_main_map_first_name")
	require.NoError(t, err)
	assert.Nil(t, def)
}
