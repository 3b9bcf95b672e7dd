package catalog_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/geosstore/internal/cache"
	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database/dbtest"
	"github.com/Additional-Code/geosstore/internal/entity"
	repo "github.com/Additional-Code/geosstore/internal/repository/product"
	"github.com/Additional-Code/geosstore/internal/service/catalog"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

func newService(t *testing.T) (*catalog.Service, *cache.MemoryStore) {
	t.Helper()
	store := cache.NewMemoryStore(time.Minute)
	svc := catalog.New(repo.NewRepository(dbtest.Open(t)), store, time.Minute, config.Uploads{
		Dir:       t.TempDir(),
		URLPrefix: "IMG/",
		MaxBytes:  1 << 10,
		MaxFiles:  2,
	}, nil)
	return svc, store
}

func shoe(name string, price int64, category string) catalog.ProductInput {
	return catalog.ProductInput{
		Name:     name,
		Brand:    "Geos",
		Price:    price,
		Category: category,
		Sizes:    "39,40,41",
		Stock:    5,
	}
}

func TestListFiltersSortsAndPaginates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	inputs := []catalog.ProductInput{
		shoe("Air Runner", 45000, "sapatilhas"),
		shoe("Court Classic", 30000, "sapatilhas"),
		shoe("Beach Slide", 8000, "chinelos"),
	}
	hidden := shoe("Old Model", 1000, "sapatilhas")
	hidden.Status = entity.ProductStatusInactive
	inputs = append(inputs, hidden)
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, catalog.ListQuery{Category: "todos", Sort: repo.SortPriceAsc})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	assert.Equal(t, "Beach Slide", page.Products[0].Name)
	assert.Equal(t, "Air Runner", page.Products[2].Name)

	page, err = svc.List(ctx, catalog.ListQuery{Category: "sapatilhas", Sort: repo.SortName, Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Court Classic", page.Products[0].Name)

	page, err = svc.List(ctx, catalog.ListQuery{Search: "RUNNER"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Air Runner", page.Products[0].Name)

	page, err = svc.List(ctx, catalog.ListQuery{Status: entity.ProductStatusInactive})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Old Model", page.Products[0].Name)
}

func TestGetCachesAndWritesEvict(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, shoe("Air Runner", 45000, "sapatilhas"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	_, err = store.Get(ctx, cache.ProductKey(created.ID))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateInventory(ctx, created.ID, catalog.InventoryInput{Sizes: "42", Stock: 9, Location: "A3"}))
	_, err = store.Get(ctx, cache.ProductKey(created.ID))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Stock)
	assert.Equal(t, "A3", got.Location)

	update := shoe("Air Runner Pro", 50000, "sapatilhas")
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Air Runner Pro", updated.Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errorbank.Is(err, errorbank.KindNotFound))
}

func TestRejectsInvalidProducts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	bad := shoe("", 100, "sapatilhas")
	_, err := svc.Create(ctx, bad)
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	negative := shoe("Air Runner", 100, "sapatilhas")
	negative.Stock = -1
	_, err = svc.Create(ctx, negative)
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	err = svc.UpdateInventory(ctx, 1, catalog.InventoryInput{Stock: -3})
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	err = svc.UpdateInventory(ctx, 404, catalog.InventoryInput{Stock: 1})
	assert.True(t, errorbank.Is(err, errorbank.KindNotFound))
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUpload(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	urls, err := svc.Upload(ctx, []catalog.File{{Name: "shoe.png", Size: int64(len(pngHeader)), Reader: bytes.NewReader(pngHeader)}})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.True(t, strings.HasPrefix(urls[0], "IMG/product-"), urls[0])
	assert.True(t, strings.HasSuffix(urls[0], ".png"), urls[0])

	_, err = svc.Upload(ctx, []catalog.File{{Name: "notes.txt", Size: 5, Reader: strings.NewReader("hello")}})
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	big := append(append([]byte{}, pngHeader...), make([]byte, 2<<10)...)
	_, err = svc.Upload(ctx, []catalog.File{{Name: "big.png", Reader: bytes.NewReader(big)}})
	assert.True(t, errorbank.Is(err, errorbank.KindTooLarge))

	three := make([]catalog.File, 3)
	for i := range three {
		three[i] = catalog.File{Name: "x.png", Reader: bytes.NewReader(pngHeader)}
	}
	_, err = svc.Upload(ctx, three)
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	_, err = svc.Upload(ctx, nil)
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))
}

func TestUploadWritesIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	svc := catalog.New(repo.NewRepository(dbtest.Open(t)), nil, 0, config.Uploads{
		Dir: dir, URLPrefix: "IMG/", MaxBytes: 1 << 10, MaxFiles: 10,
	}, nil)

	urls, err := svc.Upload(context.Background(), []catalog.File{{Name: "a.png", Reader: bytes.NewReader(pngHeader)}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(urls[0], "IMG/")))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}
