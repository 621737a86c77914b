package testhelpers

import (
	"testing"

	"github.com/pageza/handlog/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t)
	require.NotNil(t, db)

	food := &models.FoodItem{Name: "eggs"}
	require.NoError(t, db.Create(food).Error)
	assert.NotZero(t, food.ID)

	var count int64
	require.NoError(t, db.Model(&models.FoodItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSetupTestDBIsIsolated(t *testing.T) {
	db := SetupTestDB(t)

	var count int64
	require.NoError(t, db.Model(&models.FoodItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMigrationsDir(t *testing.T) {
	dir := MigrationsDir(t)
	assert.FileExists(t, dir+"/000001_init.sql")
}
