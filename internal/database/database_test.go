package database

import (
	"context"
	"errors"
	"testing"

	"alumnet/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite is pinned to a single connection regardless of config.
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		driver   string
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"hybrid dev", config.Config{Env: "development"}, DriverPostgres, true, true, false},
		{"hybrid prod", config.Config{Env: "production", DBSchemaMode: "hybrid"}, DriverPostgres, true, false, false},
		{"sql", config.Config{Env: "development", DBSchemaMode: "SQL"}, DriverPostgres, true, false, false},
		{"auto dev", config.Config{Env: "development", DBSchemaMode: "auto"}, DriverPostgres, false, true, false},
		{"auto prod refused", config.Config{Env: "production", DBSchemaMode: "auto"}, DriverPostgres, false, false, true},
		{"auto prod allowed", config.Config{Env: "production", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, DriverPostgres, false, true, false},
		{"sqlite always auto", config.Config{Env: "production", DBSchemaMode: "sql"}, DriverSQLite, false, true, false},
		{"unknown mode", config.Config{DBSchemaMode: "yolo"}, DriverPostgres, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg, tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, runSQL)
			assert.Equal(t, tt.wantAuto, runAuto)
		})
	}
}

func TestConnectSQLiteAppliesSchema(t *testing.T) {
	cfg := &config.Config{Env: "test", DBDriver: DriverSQLite, DBPath: ":memory:"}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, table := range []string{"users", "user_skills", "verification_requests", "connections", "events", "event_rsvps", "posts", "comments", "likes", "messages", "job_postings", "donations", "funds", "expenses"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, status.Driver)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := ConnectWithOptions(&config.Config{DBDriver: "oracle"}, ConnectOptions{})
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Equal(t, "init", all[0].Name)
	assert.Contains(t, all[0].UpScript, "CREATE UNIQUE INDEX IF NOT EXISTS idx_connection_pair")
	assert.Contains(t, all[0].DownScript, "DROP TABLE IF EXISTS users")
	assert.Equal(t, "000001_init", all[0].String())

	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999))

	fund := GetMigrationByVersion(2)
	require.NotNil(t, fund)
	assert.Equal(t, "fund_singleton", fund.Name)
	assert.Contains(t, fund.UpScript, "CHECK (id = 1)")
	assert.Contains(t, fund.UpScript, "ON CONFLICT (id) DO NOTHING")
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))
	err := validateAppliedVersions([]int{1, 7}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}

func TestIsMissingTableError(t *testing.T) {
	assert.True(t, isMissingTableError(errors.New(`ERROR: relation "migration_logs" does not exist`)))
	assert.True(t, isMissingTableError(errors.New("no such table: migration_logs")))
	assert.False(t, isMissingTableError(errors.New("connection refused")))
}
