package staff_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/auth"
	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database/dbtest"
	"github.com/Additional-Code/geosstore/internal/entity"
	workerrepo "github.com/Additional-Code/geosstore/internal/repository/worker"
	"github.com/Additional-Code/geosstore/internal/service/staff"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

func newService(t *testing.T) (*staff.Service, *auth.Authenticator) {
	t.Helper()
	a := auth.New(config.Config{Auth: config.Auth{
		JWTSecret:      "test-secret",
		WorkerTokenTTL: time.Hour,
		BcryptCost:     4,
	}})
	return staff.NewService(workerrepo.NewRepository(dbtest.Open(t)), a, zap.NewNop()), a
}

func TestCreateWorker(t *testing.T) {
	svc, a := newService(t)
	ctx := context.Background()

	w, err := svc.Create(ctx, staff.CreateInput{
		Name:     " Paulo Neto ",
		Email:    " Paulo@GeosStore.AO ",
		Password: "armazem2024",
	})
	require.NoError(t, err)
	assert.NotZero(t, w.ID)
	assert.Equal(t, "Paulo Neto", w.Name)
	assert.Equal(t, "paulo@geosstore.ao", w.Email)
	assert.Equal(t, entity.DefaultWorkerRole, w.Role)
	assert.Equal(t, entity.DefaultWorkerStatus, w.Status)
	assert.NotEqual(t, "armazem2024", w.PasswordHash)
	require.NoError(t, a.ComparePassword(w.PasswordHash, "armazem2024"))

	_, err = svc.Create(ctx, staff.CreateInput{
		Name:     "Outro",
		Email:    "paulo@geosstore.ao",
		Password: "armazem2024",
	})
	assert.True(t, errorbank.Is(err, errorbank.KindConflict))

	g, err := svc.Create(ctx, staff.CreateInput{
		Name:     "Rosa",
		Email:    "rosa@geosstore.ao",
		Password: "gerencia2024",
		Role:     "Gerente",
		Status:   "Offline",
	})
	require.NoError(t, err)

	workers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, g.ID, workers[0].ID)
	assert.Equal(t, "Gerente", workers[0].Role)

	require.NoError(t, svc.Delete(ctx, w.ID))
	workers, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "rosa@geosstore.ao", workers[0].Email)
}

func TestCreateWorkerRejectsInvalidInput(t *testing.T) {
	svc, _ := newService(t)

	cases := map[string]staff.CreateInput{
		"missing name":   {Email: "a@b.ao", Password: "armazem2024"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "armazem2024"},
		"short password": {Name: "A", Email: "a@b.ao", Password: "curta"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))
		})
	}
}
