package db

import (
	"testing"

	"aquasmart/confs"
	"aquasmart/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
)

func TestConnect_SQLiteMigrates(t *testing.T) {
	database, err := Connect(confs.StoreConfig{Driver: "sqlite", Path: ":memory:"}, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer database.Close()

	m := database.GetDB().Migrator()
	assert.True(t, m.HasTable(&entities.LocalStorageItem{}))
	assert.True(t, m.HasTable(&entities.WateringRun{}))
	assert.True(t, m.HasTable(&entities.ActivityEvent{}))
}

func TestConnect_RejectsBadConfig(t *testing.T) {
	_, err := Connect(confs.StoreConfig{Driver: "postgres"}, zap.NewNop().Sugar())
	assert.Error(t, err)

	_, err = Connect(confs.StoreConfig{Driver: "mongo"}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestDialector_PostgresSSLMode(t *testing.T) {
	log := zap.NewNop().Sugar()
	for dsn, want := range map[string]string{
		"postgres://u:p@db.example.com/aqua":               "postgres://u:p@db.example.com/aqua?sslmode=require",
		"postgres://u:p@localhost/aqua?connect_timeout=5": "postgres://u:p@localhost/aqua?connect_timeout=5&sslmode=disable",
		"postgres://u:p@db/aqua?sslmode=verify-full":       "postgres://u:p@db/aqua?sslmode=verify-full",
	} {
		d, err := dialectorFor(confs.StoreConfig{Driver: "postgres", DSN: dsn}, log)
		require.NoError(t, err)
		pg, ok := d.(*postgres.Dialector)
		require.True(t, ok)
		assert.Equal(t, want, pg.Config.DSN)
	}
}
