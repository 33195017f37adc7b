package database

import (
	"context"
	"testing"
	"testing/fstest"

	"skillswap/internal/config"
	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	}
}

func TestConnect_SQLiteAutoMigrates(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model), "%T table missing", model)
	}
	assert.False(t, IsPostgres(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_SQLiteEnforcesCascade(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)

	alice := models.User{Email: "a@x.io", Username: "alice", PasswordHash: "h", Name: "Alice", IsActive: true}
	bob := models.User{Email: "b@x.io", Username: "bob", PasswordHash: "h", Name: "Bob", IsActive: true}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	skill := models.SkillOffered{UserID: bob.ID, Name: "Go", Status: models.SkillStatusApproved}
	require.NoError(t, db.Create(&skill).Error)
	swap := models.Swap{RequesterID: alice.ID, ProviderID: bob.ID, SkillOfferedID: &skill.ID, Status: models.SwapStatusPending}
	require.NoError(t, db.Create(&swap).Error)

	// Deleting the skill nulls the swap reference.
	require.NoError(t, db.Delete(&skill).Error)
	var reloaded models.Swap
	require.NoError(t, db.First(&reloaded, swap.ID).Error)
	assert.Nil(t, reloaded.SkillOfferedID)

	// Deleting a participant removes the swap.
	require.NoError(t, db.Delete(&alice).Error)
	var count int64
	require.NoError(t, db.Model(&models.Swap{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", SQLiteDSN(":memory:"))
	assert.Equal(t, "file:x.db?cache=shared&_foreign_keys=on", SQLiteDSN("file:x.db?cache=shared"))
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000002_second.up.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"m/000002_second.down.sql": {Data: []byte("DROP TABLE b;")},
		"m/000001_first.up.sql":    {Data: []byte("CREATE TABLE a (id INT);")},
		"m/000001_first.down.sql":  {Data: []byte("DROP TABLE a;")},
		"m/README.md":              {Data: []byte("ignored")},
		"m/bad.up.sql":             {Data: []byte("ignored")},
	}

	got, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Version)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "DROP TABLE a;", got[0].DownScript)
	assert.Equal(t, "000002_second", got[1].String())
}

func TestLoadMigrations_MissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"m/000001_first.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := LoadMigrations(fsys, "m")
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	all, err := GetMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Contains(t, all[0].UpScript, "CREATE TABLE IF NOT EXISTS swaps")

	m, err := GetMigrationByVersion(1)
	require.NoError(t, err)
	require.NotNil(t, m)
	m, err = GetMigrationByVersion(999)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}
	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))
	err := validateAppliedVersions([]int{1, 7, 3}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000003, 000007")
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		env      string
		dialect  string
		wantSQL  bool
		wantAuto bool
		wantErr  bool
	}{
		{"sqlite always auto", "sql", "development", "sqlite", false, true, false},
		{"default is sql", "", "development", "postgres", true, false, false},
		{"auto in development", "auto", "development", "postgres", false, true, false},
		{"auto refused in production", "auto", "production", "postgres", false, false, true},
		{"hybrid in development", "hybrid", "development", "postgres", true, true, false},
		{"hybrid in production", "hybrid", "production", "postgres", true, false, false},
		{"unknown mode", "magic", "development", "postgres", false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{DBSchemaMode: tt.mode, Env: tt.env}
			runSQL, runAuto, err := schemaPolicy(cfg, tt.dialect)
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

func TestGetSchemaStatus_SQLite(t *testing.T) {
	db, err := Connect(sqliteConfig())
	require.NoError(t, err)

	status, err := GetSchemaStatus(context.Background(), db, sqliteConfig())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Dialect)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
	assert.Empty(t, status.PendingMigrations)
}
