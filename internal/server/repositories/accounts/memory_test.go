package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupfinal/accounts/internal/common"
	"github.com/groupfinal/accounts/internal/server/models"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)

func account(username string, active bool) models.Account {
	return models.Account{
		Credentials: models.Credentials{Username: username, Password: "pw"},
		Active:      active,
		Status:      models.StatusPending,
	}
}

func TestMemoryRepository_SaveAssignsIDs(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	a := account("alice", true)
	_, err := r.Save(ctx, &a)
	require.NoError(t, err)
	b := account("bob", true)
	_, err = r.Save(ctx, &b)
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, 2, r.Len())
}

func TestMemoryRepository_FindActiveByUsernameSkipsInactive(t *testing.T) {
	r := NewMemoryRepository(account("alice", false))
	ctx := context.Background()

	_, err := r.FindActiveByUsername(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	active := account("alice", true)
	_, err = r.Save(ctx, &active)
	require.NoError(t, err)

	got, err := r.FindActiveByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository(account("alice", true))
	ctx := context.Background()

	got, err := r.FindByID(ctx, 1)
	require.NoError(t, err)
	got.Status = models.StatusJoined

	again, err := r.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, again.Status, "unsaved change leaked into the store")

	_, err = r.Save(ctx, got)
	require.NoError(t, err)
	again, err = r.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusJoined, again.Status)
}

func TestMemoryRepository_SeedKeepsExplicitIDs(t *testing.T) {
	admin := account("root", true)
	admin.ID = 10
	r := NewMemoryRepository(admin)

	next := account("next", true)
	_, err := r.Save(context.Background(), &next)
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID)
}

func TestMemoryRepository_FindAllOrderedByID(t *testing.T) {
	r := NewMemoryRepository(account("a", true), account("b", false), account("c", true))

	all, err := r.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, a := range all {
		assert.Equal(t, int64(i+1), a.ID)
	}
}

func TestMemoryRepository_SaveUnknownID(t *testing.T) {
	r := NewMemoryRepository()
	_, err := r.Save(context.Background(), &models.Account{ID: 5})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
