package repository

import (
	"context"
	"testing"

	"cashierhub-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFindOrCreate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepo(db)

	first, err := repo.FindOrCreate(db, "Minuman")
	require.NoError(t, err)
	second, err := repo.FindOrCreate(db, "Minuman")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = repo.FindOrCreate(db, "Alat Tulis")
	require.NoError(t, err)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alat Tulis", all[0].Name)
	assert.Equal(t, "Minuman", all[1].Name)
}
