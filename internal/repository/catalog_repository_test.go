package repository

import (
	"context"
	"testing"
	"time"

	"krubolab/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferingRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewOfferingRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	laser := model.ServiceOffering{
		ID: "S001", Name: "Corte láser", Price: 45000, Duration: "2 horas",
		Category: "Fabricación", CreatedAt: now, UpdatedAt: now,
	}
	repair := model.ServiceOffering{
		ID: "S002", Name: "Reparación", Price: 30000, Duration: "1 día",
		Category: "Mantenimiento", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, &laser))
	require.NoError(t, repo.Upsert(ctx, []model.ServiceOffering{repair}))
	assert.Equal(t, model.ErrDuplicateRecord, repo.Create(ctx, &laser))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "S001", all[0].ID)

	found := func(query string) []string {
		t.Helper()
		res, err := repo.Search(ctx, query)
		require.NoError(t, err)
		var ids []string
		for _, o := range res {
			ids = append(ids, o.ID)
		}
		return ids
	}
	assert.Equal(t, []string{"S001"}, found("CORTE"))
	assert.Equal(t, []string{"S002"}, found("manten"))
	assert.Equal(t, []string{"S001"}, found("2 horas"))
	assert.Equal(t, []string{"S001", "S002"}, found("  "))
	assert.Nil(t, found("pintura"))

	laser.Duration = "3 horas"
	updated, err := repo.Update(ctx, &laser)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := repo.GetByID(ctx, "S001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "3 horas", got.Duration)

	deleted, err := repo.Delete(ctx, "S002")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err = repo.GetByID(ctx, "S002")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestContactRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewContactRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	c := model.Contact{
		ID: "C001", Name: "Ana Gómez", Email: "ana@example.com", Phone: "3001234567",
		Company: "Taller Ana", Status: model.ContactLead, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, &c))

	c.Status = model.ContactActive
	found, err := repo.Update(ctx, &c)
	require.NoError(t, err)
	assert.True(t, found)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.ContactActive, all[0].Status)
	assert.Equal(t, now, all[0].CreatedAt.UTC())

	missing := model.Contact{ID: "C404", Name: "Nadie", Status: model.ContactLead}
	found, err = repo.Update(ctx, &missing)
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err := repo.Delete(ctx, "C001")
	require.NoError(t, err)
	assert.True(t, deleted)
}
