package seed

import (
	"testing"

	"fitcheck/internal/database"
	"fitcheck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedPopulatesAllTables(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 10, PostsPerUser: 2}))

	var userCount, followCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&followCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)

	assert.GreaterOrEqual(t, userCount, int64(8))
	assert.NotZero(t, followCount)
	assert.Equal(t, userCount*2, postCount)
}

func TestSeedCleanRemovesPreviousData(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.User{
		Username: "leftover",
		Email:    "leftover@example.com",
		Password: "x",
	}).Error)

	require.NoError(t, Seed(db, Options{NumUsers: 3, PostsPerUser: 1, ShouldClean: true}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("username = ?", "leftover").Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeedFollowMeshExcludesSelf(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 6, PostsPerUser: 0}))

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).
		Where("follower_id = followee_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}
