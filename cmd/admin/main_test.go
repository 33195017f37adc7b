package main

import (
	"bytes"
	"strings"
	"testing"

	"skillswap/internal/auth"
	"skillswap/internal/config"
	"skillswap/internal/models"
	"skillswap/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func runCLI(t *testing.T, db *gorm.DB, stdin string, args ...string) (string, error) {
	t.Helper()
	app := &cliApp{db: db, cfg: &config.Config{Env: "test", DBSchemaMode: "sql"}}
	root := newRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPromoteAndListAdmins(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "alice")

	out, err := runCLI(t, db, "", "list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, "No admins found")

	out, err = runCLI(t, db, "", "promote", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "promoted to admin")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, alice.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)

	out, err = runCLI(t, db, "", "list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: alice")
}

func TestBanAndUnban(t *testing.T) {
	db := testutil.NewTestDB(t)
	admin := testutil.CreateUser(t, db, "root", testutil.AsAdmin)
	bob := testutil.CreateUser(t, db, "bob")

	_, err := runCLI(t, db, "", "ban", "2")
	require.NoError(t, err)
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, bob.ID).Error)
	assert.True(t, reloaded.IsBanned)

	_, err = runCLI(t, db, "", "unban", "2")
	require.NoError(t, err)
	require.NoError(t, db.First(&reloaded, bob.ID).Error)
	assert.False(t, reloaded.IsBanned)

	_, err = runCLI(t, db, "", "ban", "1")
	assert.True(t, models.HasCode(err, models.CodeForbidden), "admin %d must not be bannable", admin.ID)

	_, err = runCLI(t, db, "", "ban", "abc")
	assert.ErrorContains(t, err, "invalid user id")

	_, err = runCLI(t, db, "", "promote", "99")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestCreateAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)

	out, err := runCLI(t, db, "", "create-admin", "--email", "ops@example.com", "--username", "ops", "--password", "long-password")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin ops")

	var ops models.User
	require.NoError(t, db.Where("username = ?", "ops").First(&ops).Error)
	assert.Equal(t, models.RoleAdmin, ops.Role)
	assert.Equal(t, models.VisibilityPrivate, ops.Visibility)
	assert.True(t, auth.VerifyPassword("long-password", ops.PasswordHash))

	_, err = runCLI(t, db, "prompted-secret\n", "create-admin", "--email", "ops2@example.com", "--username", "ops2")
	require.NoError(t, err)
	var ops2 models.User
	require.NoError(t, db.Where("username = ?", "ops2").First(&ops2).Error)
	assert.True(t, auth.VerifyPassword("prompted-secret", ops2.PasswordHash))

	_, err = runCLI(t, db, "", "create-admin", "--email", "ops3@example.com", "--username", "ops3")
	assert.ErrorContains(t, err, "password is required")

	_, err = runCLI(t, db, "", "create-admin", "--email", "ops@example.com", "--username", "other", "--password", "long-password")
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestMigrateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)

	out, err := runCLI(t, db, "", "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "dialect=sqlite")
	assert.Contains(t, out, "run_sql=false")
}
