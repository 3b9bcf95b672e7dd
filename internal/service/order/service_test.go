package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/cache"
	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/database/dbtest"
	"github.com/Additional-Code/geosstore/internal/entity"
	"github.com/Additional-Code/geosstore/internal/messaging"
	repo "github.com/Additional-Code/geosstore/internal/repository/order"
	productrepo "github.com/Additional-Code/geosstore/internal/repository/product"
	"github.com/Additional-Code/geosstore/internal/service/order"
	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

var errInjected = errors.New("injected storage failure")

type fixture struct {
	conns    *database.Connections
	repo     *repo.Repository
	products *productrepo.Repository
	cache    *cache.MemoryStore
	bus      *recordingBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conns := dbtest.Open(t)
	return &fixture{
		conns:    conns,
		repo:     repo.NewRepository(conns),
		products: productrepo.NewRepository(conns),
		cache:    cache.NewMemoryStore(0),
		bus:      &recordingBus{},
	}
}

func (f *fixture) service(store order.Store, opts order.Options) *order.Service {
	if store == nil {
		store = f.repo
	}
	return order.New(store, f.cache, f.bus, zap.NewNop(), opts)
}

func (f *fixture) product(t *testing.T, name string, price int64, stock int) int64 {
	t.Helper()
	p := &entity.Product{
		Name:     name,
		Brand:    "Geos",
		Price:    price,
		Category: "sapatilhas",
		Sizes:    "40,41,42",
		Stock:    stock,
		Status:   entity.ProductStatusActive,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) count(t *testing.T, model any) int {
	t.Helper()
	n, err := f.conns.Writer.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func checkout(items ...order.Item) order.PlaceInput {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * int64(it.Quantity)
	}
	return order.PlaceInput{
		Customer: order.Customer{
			FirstName: "Maria",
			LastName:  "Domingos",
			Email:     "Maria@Example.ao",
			Phone:     "923456789",
		},
		Shipping: order.Shipping{
			Address:  "Rua Amílcar Cabral 12",
			City:     "Luanda",
			Province: "Luanda",
		},
		Items:    items,
		Subtotal: subtotal,
	}
}

func ref(id int64) *int64 { return &id }

func TestPlaceScenarioTwoLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.product(t, "Air Runner", 1000, 10)
	second := f.product(t, "Court Classic", 5000, 4)

	in := checkout(
		order.Item{ProductID: ref(first), Name: "Air Runner", Size: "42", Quantity: 2, UnitPrice: 1000},
		order.Item{ProductID: ref(second), Name: "Court Classic", Size: "40", Quantity: 1, UnitPrice: 5000},
	)
	in.ShippingCost = 1500
	require.Equal(t, int64(7000), in.Subtotal)

	placed, code, err := f.service(nil, order.Options{}).Place(ctx, in)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^GS-[A-Z0-9]{6}$`), code)
	assert.Equal(t, code, placed.Number)
	assert.Equal(t, int64(8500), placed.Total)
	assert.Equal(t, entity.OrderStatusPending, placed.Status)
	assert.Equal(t, entity.DefaultPaymentMethod, placed.PaymentMethod)
	assert.Equal(t, "maria@example.ao", placed.Email)
	require.Len(t, placed.Items, 2)

	assert.Equal(t, 8, f.stock(t, first))
	assert.Equal(t, 3, f.stock(t, second))
	assert.Equal(t, 2, f.count(t, (*entity.OrderItem)(nil)))
}

func TestPlaceClampsStockAtZero(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Last Pair", 2500, 1)

	placed, _, err := f.service(nil, order.Options{}).Place(context.Background(), checkout(
		order.Item{ProductID: ref(id), Name: "Last Pair", Quantity: 3, UnitPrice: 2500},
	))
	require.NoError(t, err)

	require.Len(t, placed.Items, 1)
	assert.Equal(t, 3, placed.Items[0].Quantity)
	assert.Equal(t, 0, f.stock(t, id))
}

type faultyStore struct {
	*repo.Repository
	failOnDecrement int
}

func (s *faultyStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repo.Tx) error) error {
	return s.Repository.RunInTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		return fn(ctx, &faultyTx{Tx: tx, failOn: s.failOnDecrement})
	})
}

type faultyTx struct {
	repo.Tx
	failOn int
	calls  int
}

func (t *faultyTx) DecrementStock(ctx context.Context, productID int64, qty int) error {
	t.calls++
	if t.calls == t.failOn {
		return errInjected
	}
	return t.Tx.DecrementStock(ctx, productID, qty)
}

func TestPlaceRollsBackOnStockFailure(t *testing.T) {
	f := newFixture(t)
	first := f.product(t, "Air Runner", 1000, 10)
	second := f.product(t, "Court Classic", 5000, 4)

	svc := f.service(&faultyStore{Repository: f.repo, failOnDecrement: 2}, order.Options{})
	_, _, err := svc.Place(context.Background(), checkout(
		order.Item{ProductID: ref(first), Name: "Air Runner", Quantity: 2, UnitPrice: 1000},
		order.Item{ProductID: ref(second), Name: "Court Classic", Quantity: 1, UnitPrice: 5000},
	))
	require.Error(t, err)

	assert.True(t, errorbank.Is(err, errorbank.KindInternal))
	assert.NotContains(t, errorbank.From(err).Message(), errInjected.Error())
	assert.ErrorIs(t, err, errInjected)

	assert.Zero(t, f.count(t, (*entity.Order)(nil)))
	assert.Zero(t, f.count(t, (*entity.OrderItem)(nil)))
	assert.Equal(t, 10, f.stock(t, first))
	assert.Equal(t, 4, f.stock(t, second))
	assert.Empty(t, f.bus.events())
}

func TestPlaceRetriesOnCodeCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	taken := checkout(order.Item{Name: "Gift card", Quantity: 1, UnitPrice: 100})
	_, _, err := f.service(nil, order.Options{Codes: fixedCodes("GS-AAAAAA")}).Place(ctx, taken)
	require.NoError(t, err)

	svc := f.service(nil, order.Options{CodeAttempts: 3, Codes: fixedCodes("GS-AAAAAA", "GS-BBBBBB")})
	placed, code, err := svc.Place(ctx, checkout(order.Item{Name: "Gift card", Quantity: 1, UnitPrice: 100}))
	require.NoError(t, err)
	assert.Equal(t, "GS-BBBBBB", code)
	assert.Equal(t, "GS-BBBBBB", placed.Number)
	assert.Equal(t, 2, f.count(t, (*entity.Order)(nil)))
}

func TestPlaceGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Air Runner", 1000, 10)

	_, _, err := f.service(nil, order.Options{Codes: fixedCodes("GS-ZZZZZZ")}).Place(ctx,
		checkout(order.Item{Name: "Gift card", Quantity: 1, UnitPrice: 100}))
	require.NoError(t, err)

	svc := f.service(nil, order.Options{CodeAttempts: 3, Codes: fixedCodes("GS-ZZZZZZ")})
	_, _, err = svc.Place(ctx, checkout(order.Item{ProductID: ref(id), Name: "Air Runner", Quantity: 1, UnitPrice: 1000}))
	require.Error(t, err)
	assert.True(t, errorbank.Is(err, errorbank.KindConflict))
	assert.Equal(t, 1, f.count(t, (*entity.Order)(nil)))
	assert.Equal(t, 10, f.stock(t, id))
}

func TestPlaceStrictPolicyRejectsOversell(t *testing.T) {
	f := newFixture(t)
	covered := f.product(t, "Air Runner", 1000, 5)
	scarce := f.product(t, "Last Pair", 2500, 1)

	svc := f.service(nil, order.Options{StockPolicy: config.StockPolicyStrict})
	_, _, err := svc.Place(context.Background(), checkout(
		order.Item{ProductID: ref(covered), Name: "Air Runner", Quantity: 2, UnitPrice: 1000},
		order.Item{ProductID: ref(scarce), Name: "Last Pair", Quantity: 3, UnitPrice: 2500},
	))
	require.Error(t, err)
	assert.True(t, errorbank.Is(err, errorbank.KindUnprocessableEntity))
	assert.Equal(t, 5, f.stock(t, covered))
	assert.Equal(t, 1, f.stock(t, scarce))
	assert.Zero(t, f.count(t, (*entity.Order)(nil)))
}

func TestPlaceStrictPolicyAcceptsCoveredOrder(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Air Runner", 1000, 3)

	svc := f.service(nil, order.Options{StockPolicy: config.StockPolicyStrict})
	_, _, err := svc.Place(context.Background(), checkout(
		order.Item{ProductID: ref(id), Name: "Air Runner", Quantity: 3, UnitPrice: 1000},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, id))
}

func TestPlaceUnknownProduct(t *testing.T) {
	for _, policy := range []string{config.StockPolicyLenient, config.StockPolicyStrict} {
		t.Run(policy, func(t *testing.T) {
			f := newFixture(t)
			_, _, err := f.service(nil, order.Options{StockPolicy: policy}).Place(context.Background(), checkout(
				order.Item{ProductID: ref(9999), Name: "Ghost", Quantity: 1, UnitPrice: 100},
			))
			require.Error(t, err)
			assert.True(t, errorbank.Is(err, errorbank.KindUnprocessableEntity))
			assert.Zero(t, f.count(t, (*entity.Order)(nil)))
		})
	}
}

func TestPlaceAdHocLineLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Air Runner", 1000, 7)

	placed, _, err := f.service(nil, order.Options{}).Place(context.Background(), checkout(
		order.Item{Name: "Engraving", Quantity: 1, UnitPrice: 300},
	))
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Nil(t, placed.Items[0].ProductID)
	assert.Equal(t, 7, f.stock(t, id))
}

func TestPlaceValidation(t *testing.T) {
	cases := map[string]func(in *order.PlaceInput){
		"no items":          func(in *order.PlaceInput) { in.Items = nil; in.Subtotal = 0 },
		"missing name":      func(in *order.PlaceInput) { in.Customer.FirstName = "  " },
		"missing phone":     func(in *order.PlaceInput) { in.Customer.Phone = "" },
		"missing address":   func(in *order.PlaceInput) { in.Shipping.Address = "" },
		"missing province":  func(in *order.PlaceInput) { in.Shipping.Province = "" },
		"bad email":         func(in *order.PlaceInput) { in.Customer.Email = "not-an-email" },
		"zero quantity":     func(in *order.PlaceInput) { in.Items[0].Quantity = 0 },
		"negative price":    func(in *order.PlaceInput) { in.Items[0].UnitPrice = -1 },
		"negative shipping": func(in *order.PlaceInput) { in.ShippingCost = -100 },
		"subtotal mismatch": func(in *order.PlaceInput) { in.Subtotal++ },
		"phone too long":    func(in *order.PlaceInput) { in.Customer.Phone = strings.Repeat("9", 31) },
		"size too long":     func(in *order.PlaceInput) { in.Items[0].Size = strings.Repeat("4", 11) },
		"wrapping line total": func(in *order.PlaceInput) {
			in.Items[0].Quantity = 4
			in.Items[0].UnitPrice = 1 << 62
			in.Subtotal = 0
		},
		"lines above column range": func(in *order.PlaceInput) {
			in.Items = []order.Item{
				{Name: "Relógio", Quantity: 2, UnitPrice: order.MaxAmount},
				{Name: "Pulseira", Quantity: 1, UnitPrice: 1},
			}
			in.Subtotal = 1
		},
		"huge shipping":     func(in *order.PlaceInput) { in.ShippingCost = math.MaxInt64 },
		"total above range": func(in *order.PlaceInput) { in.ShippingCost = order.MaxAmount },
		"quantity too large": func(in *order.PlaceInput) {
			in.Items[0].Quantity = math.MaxInt32 + 1
			in.Subtotal = 1000 * (math.MaxInt32 + 1)
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			id := f.product(t, "Air Runner", 1000, 4)
			in := checkout(order.Item{ProductID: ref(id), Name: "Air Runner", Quantity: 1, UnitPrice: 1000})
			mutate(&in)

			_, _, err := f.service(nil, order.Options{}).Place(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errorbank.Is(err, errorbank.KindBadRequest), "got %v", err)
			assert.Zero(t, f.count(t, (*entity.Order)(nil)))
			assert.Equal(t, 4, f.stock(t, id))
		})
	}
}

func TestPlaceAcceptsValuesAtColumnLimits(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Air Runner", 1000, 4)

	in := checkout(order.Item{ProductID: ref(id), Name: "Air Runner", Size: strings.Repeat("4", 10), Quantity: 1, UnitPrice: 1000})
	in.Customer.Phone = strings.Repeat("9", 30)
	in.ShippingCost = order.MaxAmount - in.Subtotal

	placed, _, err := f.service(nil, order.Options{}).Place(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, order.MaxAmount, placed.Total)
	assert.Equal(t, strings.Repeat("9", 30), placed.Phone)
}

func TestPlaceReadBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Air Runner", 1000, 10)

	in := checkout(
		order.Item{ProductID: ref(id), Name: "Air Runner", Image: "IMG/air.jpg", Size: "41", Quantity: 2, UnitPrice: 1000},
		order.Item{Name: "Socks", Quantity: 3, UnitPrice: 250},
	)
	in.PaymentMethod = "multicaixa"
	in.Shipping.Notes = "Ligar antes"

	svc := f.service(nil, order.Options{})
	placed, _, err := svc.Place(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Number, got.Number)
	assert.Equal(t, "multicaixa", got.PaymentMethod)
	assert.Equal(t, "Ligar antes", got.Notes)
	assert.Equal(t, got.Subtotal+got.Shipping, got.Total)
	require.Len(t, got.Items, len(in.Items))
	for i, item := range got.Items {
		assert.Equal(t, in.Items[i].Quantity, item.Quantity)
		assert.Equal(t, in.Items[i].UnitPrice, item.Price)
		assert.Equal(t, in.Items[i].Name, item.ProductName)
	}

	_, err = f.cache.Get(ctx, cache.OrderKey(placed.ID))
	assert.NoError(t, err)
}

func TestPlaceConcurrentOrdersNeverDriveStockNegative(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Air Runner", 1000, 5)
	svc := f.service(nil, order.Options{})

	const buyers = 8
	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Place(context.Background(), checkout(
				order.Item{ProductID: ref(id), Name: "Air Runner", Quantity: 2, UnitPrice: 1000},
			))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 0, f.stock(t, id))
	assert.Equal(t, buyers, f.count(t, (*entity.Order)(nil)))
}

func TestPlaceDoesNotWaitOnUndrainedBus(t *testing.T) {
	f := newFixture(t)
	id := f.product(t, "Air Runner", 1000, 10)
	bus := messaging.NewMemoryBus("geosstore.orders", 1, messaging.RetryPolicy{Attempts: 1}, zap.NewNop())
	svc := order.New(f.repo, f.cache, bus, zap.NewNop(), order.Options{})

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		start := time.Now()
		_, _, err := svc.Place(ctx, checkout(
			order.Item{ProductID: ref(id), Name: "Air Runner", Quantity: 1, UnitPrice: 1000},
		))
		require.NoError(t, err)
		assert.NoError(t, ctx.Err())
		assert.Less(t, time.Since(start), 500*time.Millisecond)
		cancel()
	}
	assert.Equal(t, 3, f.count(t, (*entity.Order)(nil)))
	assert.Equal(t, 7, f.stock(t, id))
}

func TestPlaceEvictsProductCacheAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.product(t, "Air Runner", 1000, 10)
	require.NoError(t, f.cache.Set(ctx, cache.ProductKey(id), []byte(`{}`), 0))

	placed, code, err := f.service(nil, order.Options{}).Place(ctx, checkout(
		order.Item{ProductID: ref(id), Name: "Air Runner", Quantity: 1, UnitPrice: 1000},
	))
	require.NoError(t, err)

	_, err = f.cache.Get(ctx, cache.ProductKey(id))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	events := f.bus.events()
	require.Len(t, events, 1)
	assert.Equal(t, order.EventPlaced, events[0].Type)
	assert.Equal(t, code, events[0].Number)
	assert.Equal(t, placed.ID, events[0].OrderID)
	assert.NotEmpty(t, events[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(nil, order.Options{})

	placed, _, err := svc.Place(ctx, checkout(order.Item{Name: "Gift card", Quantity: 1, UnitPrice: 100}))
	require.NoError(t, err)

	_, err = svc.Get(ctx, placed.ID)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, placed.ID, entity.OrderStatusShipped)
	assert.True(t, errorbank.Is(err, errorbank.KindConflict))

	_, err = svc.UpdateStatus(ctx, placed.ID, "lost")
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	_, err = svc.UpdateStatus(ctx, 4242, entity.OrderStatusConfirmed)
	assert.True(t, errorbank.Is(err, errorbank.KindNotFound))

	updated, err := svc.UpdateStatus(ctx, placed.ID, entity.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, updated.Status)

	got, err := svc.Get(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, got.Status)

	for _, next := range []string{entity.OrderStatusShipped, entity.OrderStatusDelivered} {
		_, err = svc.UpdateStatus(ctx, placed.ID, next)
		require.NoError(t, err)
	}
	_, err = svc.UpdateStatus(ctx, placed.ID, entity.OrderStatusCancelled)
	assert.True(t, errorbank.Is(err, errorbank.KindConflict))

	events := f.bus.events()
	require.Len(t, events, 4)
	assert.Equal(t, order.EventStatusChanged, events[1].Type)
	assert.Equal(t, entity.OrderStatusPending, events[1].PrevStatus)
}

func TestListAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.service(nil, order.Options{Codes: fixedCodes("GS-LIST01", "GS-LIST02")})

	first, _, err := svc.Place(ctx, checkout(order.Item{Name: "Gift card", Quantity: 1, UnitPrice: 100}))
	require.NoError(t, err)
	second := checkout(order.Item{Name: "Gift card", Quantity: 1, UnitPrice: 100})
	second.Customer.FirstName = "Joaquim"
	_, _, err = svc.Place(ctx, second)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, first.ID, entity.OrderStatusCancelled)
	require.NoError(t, err)

	all, err := svc.List(ctx, order.ListQuery{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cancelled, err := svc.List(ctx, order.ListQuery{Status: entity.OrderStatusCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "GS-LIST01", cancelled[0].Number)

	_, err = svc.List(ctx, order.ListQuery{Status: "archived"})
	assert.True(t, errorbank.Is(err, errorbank.KindBadRequest))

	found, err := svc.Search(ctx, "joaq")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "GS-LIST02", found[0].Number)

	found, err = svc.Search(ctx, "gs-list")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	recent, err := svc.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Len(t, recent[0].Items, 1)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.OrderStatusPending, entity.OrderStatusConfirmed, true},
		{entity.OrderStatusPending, entity.OrderStatusCancelled, true},
		{entity.OrderStatusPending, entity.OrderStatusShipped, false},
		{entity.OrderStatusConfirmed, entity.OrderStatusShipped, true},
		{entity.OrderStatusConfirmed, entity.OrderStatusCancelled, true},
		{entity.OrderStatusShipped, entity.OrderStatusDelivered, true},
		{entity.OrderStatusShipped, entity.OrderStatusCancelled, false},
		{entity.OrderStatusDelivered, entity.OrderStatusPending, false},
		{entity.OrderStatusCancelled, entity.OrderStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, order.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNewCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^GS-[A-Z0-9]{6}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code, err := order.NewCode()
		require.NoError(t, err)
		require.Regexp(t, pattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 490)
}

// fixedCodes yields the given codes in order, repeating the last one.
func fixedCodes(codes ...string) order.CodeGenerator {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}

type recordingBus struct {
	mu       sync.Mutex
	payloads [][]byte
}

var _ messaging.Client = (*recordingBus)(nil)

func (b *recordingBus) Publish(_ context.Context, _ []byte, value []byte, _ ...messaging.Header) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payloads = append(b.payloads, value)
	return nil
}

func (b *recordingBus) Consume(ctx context.Context, _ messaging.Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (b *recordingBus) Topic() string { return "geosstore.orders" }

func (b *recordingBus) events() []order.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]order.Event, 0, len(b.payloads))
	for _, p := range b.payloads {
		var e order.Event
		if err := json.Unmarshal(p, &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}
