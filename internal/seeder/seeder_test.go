package seeder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/geosstore/internal/database/dbtest"
	productrepo "github.com/Additional-Code/geosstore/internal/repository/product"
	reviewrepo "github.com/Additional-Code/geosstore/internal/repository/review"
)

func TestCatalogSeedsOnce(t *testing.T) {
	conns := dbtest.Open(t)
	products := productrepo.NewRepository(conns)
	s := New(products, reviewrepo.NewRepository(conns), nil)
	ctx := context.Background()

	res, err := s.Catalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Products: 22, Reviews: 6}, res)

	res, err = s.Catalog(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	n, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22, n)

	page, total, err := products.List(ctx, productrepo.Filter{Status: "active", Category: "crianca", Sort: productrepo.SortPriceAsc, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "Old Skool V", page[0].Name)
}
