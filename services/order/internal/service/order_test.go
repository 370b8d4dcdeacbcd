package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	"github.com/Skotchmaster/medimarket/pkg/db/dbtest"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/services/order/internal/models"
	"github.com/Skotchmaster/medimarket/services/order/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMedicines struct {
	mu        sync.Mutex
	medicines map[uuid.UUID]catalogclient.Medicine
	down      bool
}

func (f *fakeMedicines) GetMedicine(_ context.Context, id uuid.UUID) (*catalogclient.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errors.New("catalog unreachable")
	}
	m, ok := f.medicines[id]
	if !ok {
		return nil, fmt.Errorf("medicine %s: %w", id, apperr.ErrNotFound)
	}
	return &m, nil
}

func (f *fakeMedicines) setPrice(id uuid.UUID, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.medicines[id]
	m.Price = decimal.RequireFromString(price)
	f.medicines[id] = m
}

type testEnv struct {
	svc       *OrderService
	repo      *repo.GormRepo
	medicines *fakeMedicines
	events    *events.Recorder

	ibuprofen   uuid.UUID
	vitaminC    uuid.UUID
	amoxicillin uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t, &models.Order{}, &models.OrderLine{})
	env := &testEnv{
		repo:        &repo.GormRepo{DB: db},
		events:      &events.Recorder{},
		ibuprofen:   uuid.New(),
		vitaminC:    uuid.New(),
		amoxicillin: uuid.New(),
	}
	env.medicines = &fakeMedicines{medicines: map[uuid.UUID]catalogclient.Medicine{
		env.ibuprofen:   {ID: env.ibuprofen, Name: "Ibuprofen", Dosage: "200mg", Price: decimal.RequireFromString("8.99")},
		env.vitaminC:    {ID: env.vitaminC, Name: "Vitamin C", Dosage: "500mg", Price: decimal.RequireFromString("4.50")},
		env.amoxicillin: {ID: env.amoxicillin, Name: "Amoxicillin", Dosage: "250mg", Price: decimal.RequireFromString("12.00"), RequiresPrescription: true},
	}}
	env.svc = &OrderService{Repo: env.repo, Medicines: env.medicines, Events: env.events}
	return env
}

func (env *testEnv) place(t *testing.T, userID uuid.UUID, lines ...LineInput) *models.Order {
	t.Helper()
	o, err := env.svc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: "12 Lenina St, Moscow",
		PaymentMethod:   models.PaymentCard,
	})
	require.NoError(t, err)
	return o
}

func TestPlaceOrder_FreezesPrices(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	o := env.place(t, user, LineInput{MedicineID: env.ibuprofen, Quantity: 2})
	assert.Equal(t, models.StatusPending, o.Status)
	assert.True(t, decimal.RequireFromString("17.98").Equal(o.TotalPrice), o.TotalPrice.String())
	require.Len(t, o.Lines, 1)
	assert.True(t, decimal.RequireFromString("8.99").Equal(o.Lines[0].UnitPrice))
	assert.Equal(t, []string{"order_placed"}, env.events.Types(events.TopicOrders))

	env.medicines.setPrice(env.ibuprofen, "10.00")

	got, err := env.svc.GetByID(ctx, o.ID, user)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("17.98").Equal(got.TotalPrice), got.TotalPrice.String())
	assert.True(t, decimal.RequireFromString("8.99").Equal(got.Lines[0].UnitPrice))
	assert.Equal(t, "Ibuprofen", got.Lines[0].Name)
}

func TestPlaceOrder_PrescriptionBlocksWholeOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := env.svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID: user,
		Lines: []LineInput{
			{MedicineID: env.vitaminC, Quantity: 1},
			{MedicineID: env.amoxicillin, Quantity: 1},
		},
		ShippingAddress: "somewhere",
		PaymentMethod:   models.PaymentCash,
	})
	require.ErrorIs(t, err, apperr.ErrPrescriptionRequired)

	total, orders, err := env.svc.ListForUser(ctx, user, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
	assert.Empty(t, env.events.Events())
}

func TestPlaceOrder_MergesDuplicateLines(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()

	o := env.place(t, user,
		LineInput{MedicineID: env.vitaminC, Quantity: 1},
		LineInput{MedicineID: env.ibuprofen, Quantity: 1},
		LineInput{MedicineID: env.vitaminC, Quantity: 2},
	)

	require.Len(t, o.Lines, 2)
	assert.Equal(t, env.vitaminC, o.Lines[0].MedicineID)
	assert.Equal(t, 3, o.Lines[0].Quantity)
	assert.Equal(t, env.ibuprofen, o.Lines[1].MedicineID)
	assert.True(t, decimal.RequireFromString("22.49").Equal(o.TotalPrice), o.TotalPrice.String())

	got, err := env.svc.GetByID(context.Background(), o.ID, user)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, env.vitaminC, got.Lines[0].MedicineID)
}

func TestPlaceOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	valid := func() PlaceOrderInput {
		return PlaceOrderInput{
			UserID:          uuid.New(),
			Lines:           []LineInput{{MedicineID: env.ibuprofen, Quantity: 1}},
			ShippingAddress: "12 Lenina St",
			PaymentMethod:   models.PaymentInsurance,
		}
	}

	tests := []struct {
		name   string
		mutate func(*PlaceOrderInput)
		want   error
	}{
		{"no lines", func(in *PlaceOrderInput) { in.Lines = nil }, apperr.ErrInvalidRequest},
		{"zero quantity", func(in *PlaceOrderInput) { in.Lines[0].Quantity = 0 }, apperr.ErrInvalidRequest},
		{"quantity above limit", func(in *PlaceOrderInput) { in.Lines[0].Quantity = models.MaxQuantity + 1 }, apperr.ErrInvalidRequest},
		{"duplicates overflow", func(in *PlaceOrderInput) {
			in.Lines = []LineInput{
				{MedicineID: env.ibuprofen, Quantity: math.MaxInt},
				{MedicineID: env.ibuprofen, Quantity: math.MaxInt},
			}
		}, apperr.ErrInvalidRequest},
		{"duplicates above limit", func(in *PlaceOrderInput) {
			in.Lines = []LineInput{
				{MedicineID: env.ibuprofen, Quantity: models.MaxQuantity},
				{MedicineID: env.ibuprofen, Quantity: 1},
			}
		}, apperr.ErrInvalidRequest},
		{"nil medicine", func(in *PlaceOrderInput) { in.Lines[0].MedicineID = uuid.Nil }, apperr.ErrInvalidRequest},
		{"blank address", func(in *PlaceOrderInput) { in.ShippingAddress = "   " }, apperr.ErrInvalidRequest},
		{"unknown payment", func(in *PlaceOrderInput) { in.PaymentMethod = "crypto" }, apperr.ErrInvalidRequest},
		{"unknown medicine", func(in *PlaceOrderInput) { in.Lines[0].MedicineID = uuid.New() }, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := env.svc.PlaceOrder(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlaceOrder_TotalTooLarge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pricey := uuid.New()
	env.medicines.medicines[pricey] = catalogclient.Medicine{ID: pricey, Name: "Orphan drug", Dosage: "1 vial", Price: decimal.RequireFromString("99999999.99")}

	user := uuid.New()
	_, err := env.svc.PlaceOrder(ctx, PlaceOrderInput{
		UserID:          user,
		Lines:           []LineInput{{MedicineID: pricey, Quantity: 200}},
		ShippingAddress: "12 Lenina St",
		PaymentMethod:   models.PaymentInsurance,
	})
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	total, _, err := env.svc.ListForUser(ctx, user, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaceOrder_DuplicatesUpToLimit(t *testing.T) {
	env := newTestEnv(t)
	o := env.place(t, uuid.New(),
		LineInput{MedicineID: env.vitaminC, Quantity: models.MaxQuantity - 1},
		LineInput{MedicineID: env.vitaminC, Quantity: 1},
	)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, models.MaxQuantity, o.Lines[0].Quantity)
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	o := env.place(t, user, LineInput{MedicineID: env.vitaminC, Quantity: 1})

	_, err := env.svc.Cancel(ctx, o.ID, uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)

	cancelled, err := env.svc.Cancel(ctx, o.ID, user)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	_, err = env.svc.Cancel(ctx, o.ID, user)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = env.svc.Cancel(ctx, uuid.New(), user)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancel_OnlyWhilePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	o := env.place(t, user, LineInput{MedicineID: env.vitaminC, Quantity: 1})

	_, err := env.svc.Advance(ctx, o.ID, models.StatusProcessing)
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, o.ID, user)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	o := env.place(t, uuid.New(), LineInput{MedicineID: env.ibuprofen, Quantity: 1})

	_, err := env.svc.Advance(ctx, o.ID, models.StatusShipped)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	for _, to := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusDelivered} {
		got, err := env.svc.Advance(ctx, o.ID, to)
		require.NoError(t, err)
		assert.Equal(t, to, got.Status)
	}

	_, err = env.svc.Advance(ctx, o.ID, models.StatusCancelled)
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)
	_, err = env.svc.Advance(ctx, o.ID, models.StatusPending)
	require.ErrorIs(t, err, apperr.ErrInvalidRequest)

	assert.Equal(t,
		[]string{"order_placed", "order_processing", "order_shipped", "order_delivered"},
		env.events.Types(events.TopicOrders))
}

func TestGetByID_OtherUser(t *testing.T) {
	env := newTestEnv(t)
	o := env.place(t, uuid.New(), LineInput{MedicineID: env.ibuprofen, Quantity: 1})

	_, err := env.svc.GetByID(context.Background(), o.ID, uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListForUser_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()
	base := time.Date(2025, time.April, 1, 10, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		o := &models.Order{
			UserID:          user,
			Status:          models.StatusPending,
			ShippingAddress: "addr",
			PaymentMethod:   models.PaymentCash,
			TotalPrice:      decimal.RequireFromString("4.50"),
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
			Lines: []models.OrderLine{{
				MedicineID: env.vitaminC, Quantity: 1,
				UnitPrice: decimal.RequireFromString("4.50"), LineTotal: decimal.RequireFromString("4.50"),
			}},
		}
		require.NoError(t, env.repo.CreateOrder(ctx, o))
		ids = append(ids, o.ID)
	}
	env.place(t, uuid.New(), LineInput{MedicineID: env.ibuprofen, Quantity: 1})

	total, orders, err := env.svc.ListForUser(ctx, user, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, orders, 2)
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
	assert.Equal(t, "Vitamin C", orders[0].Lines[0].Name)
}

func TestListForUser_CatalogDown(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	env.place(t, user, LineInput{MedicineID: env.ibuprofen, Quantity: 1})

	env.medicines.down = true
	_, orders, err := env.svc.ListForUser(context.Background(), user, 0, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].Lines[0].Name)
	assert.True(t, decimal.RequireFromString("8.99").Equal(orders[0].Lines[0].UnitPrice))
}
