package bootstrap

import (
	"context"
	"testing"

	"alumnet/internal/config"
	"alumnet/internal/models"
	"alumnet/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func devConfig() *config.Config {
	return &config.Config{
		Env:              "development",
		BcryptCost:       bcrypt.MinCost,
		DevBootstrapRoot: true,
		DevRootEmail:     "Root@Alumnet.Local",
		DevRootPassword:  "RootPassw0rd",
	}
}

func TestEnsureDevRootAdmin_CreatesAdmin(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, ensureDevRootAdmin(context.Background(), devConfig(), db))

	var root models.User
	require.NoError(t, db.Where("email = ?", "root@alumnet.local").First(&root).Error)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.True(t, root.IsActive)
	assert.Equal(t, models.VerificationApproved, root.VerificationStatus)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("RootPassw0rd")))
}

func TestEnsureDevRootAdmin_PromotesExistingUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	existing := testutil.CreateUser(t, db, testutil.WithEmail("root@alumnet.local"), testutil.Inactive())

	require.NoError(t, ensureDevRootAdmin(context.Background(), devConfig(), db))

	var root models.User
	require.NoError(t, db.First(&root, existing.ID).Error)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.True(t, root.IsActive)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureDevRootAdmin_Skipped(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"production", func(c *config.Config) { c.Env = "production" }},
		{"flag off", func(c *config.Config) { c.DevBootstrapRoot = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewTestDB(t)
			cfg := devConfig()
			tt.mutate(cfg)

			require.NoError(t, ensureDevRootAdmin(context.Background(), cfg, db))

			var count int64
			require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestEnsureDevRootAdmin_RequiresPassword(t *testing.T) {
	cfg := devConfig()
	cfg.DevRootPassword = ""
	assert.Error(t, ensureDevRootAdmin(context.Background(), cfg, testutil.NewTestDB(t)))
}

func TestPrepare_SeedsOnlyEmptyDatabase(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := devConfig()

	require.NoError(t, Prepare(context.Background(), cfg, db, Options{SeedPreset: "small"}))
	var first int64
	require.NoError(t, db.Model(&models.Post{}).Count(&first).Error)
	assert.Positive(t, first)

	require.NoError(t, Prepare(context.Background(), cfg, db, Options{SeedPreset: "small"}))
	var second int64
	require.NoError(t, db.Model(&models.Post{}).Count(&second).Error)
	assert.Equal(t, first, second)
}

func TestPrepare_UnknownPreset(t *testing.T) {
	cfg := devConfig()
	cfg.DevBootstrapRoot = false
	assert.Error(t, Prepare(context.Background(), cfg, testutil.NewTestDB(t), Options{SeedPreset: "nope"}))
}
