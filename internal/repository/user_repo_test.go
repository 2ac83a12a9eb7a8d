package repository

import (
	"context"
	"testing"

	"cashierhub-api/internal/model"
	"cashierhub-api/internal/testutil"
	"cashierhub-api/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	testutil.SeedUser(t, db, "budi", model.RoleCashier)

	err := repo.Create(ctx, &model.User{Username: "budi", Password: "x", Name: "B", Email: "other@x.id", Role: model.RoleCashier})
	require.Error(t, err)
	assert.True(t, apperr.IsUniqueViolation(err, "username"))

	err = repo.Create(ctx, &model.User{Username: "budi2", Password: "x", Name: "B", Email: "budi@cashierhub.test", Role: model.RoleCashier})
	require.Error(t, err)
	assert.True(t, apperr.IsUniqueViolation(err, "email"))
}

func TestUserSoftDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "siti", model.RoleCashier)

	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err := repo.FindByUsername(ctx, "siti")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	exists, err := repo.ExistsTx(db, u.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// the username is free again
	testutil.SeedUser(t, db, "siti", model.RoleCashier)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), gorm.ErrRecordNotFound)
}

func TestUserUpdate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	u := testutil.SeedUser(t, db, "andi", model.RoleAdmin)

	require.NoError(t, repo.Update(ctx, u.ID, map[string]interface{}{"phone": "0812", "profile_picture": nil}))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "0812", got.Phone)
	assert.Nil(t, got.ProfilePicture)
	assert.Equal(t, "andi", got.Username)

	assert.ErrorIs(t, repo.Update(ctx, uuid.New(), map[string]interface{}{"phone": "1"}), gorm.ErrRecordNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
