package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/database/dbtest"
	"github.com/Additional-Code/geosstore/internal/entity"
	customerrepo "github.com/Additional-Code/geosstore/internal/repository/customer"
	dashboardrepo "github.com/Additional-Code/geosstore/internal/repository/dashboard"
	newsletterrepo "github.com/Additional-Code/geosstore/internal/repository/newsletter"
	orderrepo "github.com/Additional-Code/geosstore/internal/repository/order"
	productrepo "github.com/Additional-Code/geosstore/internal/repository/product"
	customerservice "github.com/Additional-Code/geosstore/internal/service/customer"
	"github.com/Additional-Code/geosstore/internal/service/dashboard"
	"github.com/Additional-Code/geosstore/internal/service/order"
)

func place(t *testing.T, svc *order.Service, email string, productID int64, qty int, price int64) *entity.Order {
	t.Helper()
	placed, _, err := svc.Place(context.Background(), order.PlaceInput{
		Customer: order.Customer{FirstName: "Rui", LastName: "Neto", Email: email, Phone: "923111222"},
		Shipping: order.Shipping{Address: "Rua 1", City: "Luanda", Province: "Luanda"},
		Items: []order.Item{
			{ProductID: &productID, Name: "Air Force 1", Quantity: qty, UnitPrice: price},
		},
		Subtotal:     int64(qty) * price,
		ShippingCost: 1000,
	})
	require.NoError(t, err)
	return placed
}

func TestOverviewAndCustomerAggregates(t *testing.T) {
	conns := dbtest.Open(t)
	ctx := context.Background()

	product := &entity.Product{Name: "Air Force 1", Brand: "Nike", Price: 45000, Category: "unisexo", Stock: 10, Status: entity.ProductStatusActive}
	require.NoError(t, productrepo.NewRepository(conns).Create(ctx, product))
	require.NoError(t, newsletterrepo.NewRepository(conns).Subscribe(ctx, "lead@example.ao"))

	customers := customerrepo.NewRepository(conns)
	require.NoError(t, customers.Create(ctx, &entity.Customer{
		FirstName: "Rui", LastName: "Neto", Email: "rui@example.ao", Phone: "923111222", PasswordHash: "x",
	}))
	require.NoError(t, customers.Create(ctx, &entity.Customer{
		FirstName: "Sem", LastName: "Pedidos", Email: "quiet@example.ao", Phone: "923000000", PasswordHash: "x",
	}))

	orders := order.New(orderrepo.NewRepository(conns), nil, nil, zap.NewNop(), order.Options{})
	place(t, orders, "Rui@Example.ao", product.ID, 1, 45000)
	place(t, orders, "rui@example.ao", product.ID, 2, 45000)
	cancelled := place(t, orders, "rui@example.ao", product.ID, 1, 45000)
	_, err := orders.UpdateStatus(ctx, cancelled.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)

	svc := dashboard.NewService(dashboardrepo.NewRepository(conns), orders)
	overview, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(46000+91000), overview.Stats.Revenue)
	assert.Equal(t, 3, overview.Stats.Orders)
	assert.Equal(t, 1, overview.Stats.Leads)
	assert.Equal(t, 1, overview.Stats.Products)
	assert.Equal(t, map[string]int{
		entity.OrderStatusPending:   2,
		entity.OrderStatusCancelled: 1,
	}, overview.Stats.OrdersByStatus)
	require.Len(t, overview.Recent, 3)
	assert.Equal(t, cancelled.ID, overview.Recent[0].ID)
	assert.Len(t, overview.Recent[0].Items, 1)

	rows, err := customerservice.NewService(customers, zap.NewNop()).List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byEmail := make(map[string]customerrepo.Summary, len(rows))
	for _, row := range rows {
		byEmail[row.Email] = row
	}
	rui := byEmail["rui@example.ao"]
	assert.Equal(t, int64(2), rui.OrderCount)
	assert.Equal(t, int64(46000+91000), rui.TotalSpent)
	assert.NotNil(t, rui.FirstOrder)

	quiet := byEmail["quiet@example.ao"]
	assert.Zero(t, quiet.OrderCount)
	assert.Zero(t, quiet.TotalSpent)
	assert.Nil(t, quiet.FirstOrder)
}
