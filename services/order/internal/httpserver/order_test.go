package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	"github.com/Skotchmaster/medimarket/pkg/db/dbtest"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/tokens"
	"github.com/Skotchmaster/medimarket/services/order/internal/models"
	"github.com/Skotchmaster/medimarket/services/order/internal/repo"
	"github.com/Skotchmaster/medimarket/services/order/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtSecret = []byte("order-test-secret")

type staticMedicines map[uuid.UUID]catalogclient.Medicine

func (s staticMedicines) GetMedicine(_ context.Context, id uuid.UUID) (*catalogclient.Medicine, error) {
	m, ok := s[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &m, nil
}

type testEnv struct {
	e   *echo.Echo
	otc uuid.UUID
	rx  uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t, &models.Order{}, &models.OrderLine{})
	otc, rx := uuid.New(), uuid.New()
	svc := &service.OrderService{
		Repo: &repo.GormRepo{DB: db},
		Medicines: staticMedicines{
			otc: {ID: otc, Name: "Ibuprofen", Dosage: "200mg", Price: decimal.RequireFromString("8.99")},
			rx:  {ID: rx, Name: "Amoxicillin", Dosage: "250mg", Price: decimal.RequireFromString("12.00"), RequiresPrescription: true},
		},
		Events: events.Nop{},
	}

	e := echo.New()
	Register(e, &Deps{OrderHandler: &OrderHTTP{Svc: svc}, JWTSecret: jwtSecret, DB: db})
	return &testEnv{e: e, otc: otc, rx: rx}
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(jwtSecret, userID.String(), role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + tok
}

func (env *testEnv) do(t *testing.T, method, target, body, auth string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func orderBody(medicine uuid.UUID, qty int) string {
	b, _ := json.Marshal(map[string]any{
		"lines":            []map[string]any{{"medicine_id": medicine, "quantity": qty}},
		"shipping_address": "12 Lenina St, Moscow",
		"payment_method":   "card",
	})
	return string(b)
}

func TestPlaceAndGetOrder(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	auth := bearer(t, user, "user")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/orders", orderBody(env.otc, 2), "").Code)

	rec := env.do(t, http.MethodPost, "/orders", orderBody(env.otc, 2), auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, "17.98", o.TotalPrice.StringFixed(2))
	require.Len(t, o.Lines, 1)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/orders/"+o.ID.String(), "", bearer(t, uuid.New(), "user")).Code)

	rec = env.do(t, http.MethodGet, "/orders/"+o.ID.String(), "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ibuprofen"`)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/orders/nope", "", auth).Code)
}

func TestPlaceOrder_Errors(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(t, uuid.New(), "user")

	rec := env.do(t, http.MethodPost, "/orders", orderBody(env.rx, 1), auth)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "prescription required")

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/orders", orderBody(uuid.New(), 1), auth).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/orders", orderBody(env.otc, 0), auth).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/orders", `{"lines":[]}`, auth).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/orders", `{"lines":`, auth).Code)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	auth := bearer(t, uuid.New(), "user")

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/orders", orderBody(env.otc, 1), auth).Code)
	}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/orders", orderBody(env.otc, 1), bearer(t, uuid.New(), "user")).Code)

	rec := env.do(t, http.MethodGet, "/orders?page=1&limit=2", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders     []map[string]any `json:"orders"`
		Pagination map[string]any   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Orders, 2)
	assert.EqualValues(t, 3, resp.Pagination["total"])
	assert.Equal(t, true, resp.Pagination["has_next"])
}

func TestCancelAndStatus(t *testing.T) {
	env := newTestEnv(t)
	user := uuid.New()
	auth := bearer(t, user, "user")
	admin := bearer(t, uuid.New(), "admin")

	place := func() models.Order {
		rec := env.do(t, http.MethodPost, "/orders", orderBody(env.otc, 1), auth)
		require.Equal(t, http.StatusCreated, rec.Code)
		var o models.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
		return o
	}

	first := place()
	rec := env.do(t, http.MethodPost, "/orders/"+first.ID.String()+"/cancel", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"order cancelled"}`, rec.Body.String())
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/orders/"+first.ID.String()+"/cancel", "", auth).Code)

	second := place()
	path := "/orders/" + second.ID.String() + "/status"
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPatch, path, `{"status":"processing"}`, auth).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPatch, path, `{"status":"lost"}`, admin).Code)
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPatch, path, `{"status":"shipped"}`, admin).Code)

	rec = env.do(t, http.MethodPatch, path, `{"status":"processing"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"processing"`)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/orders/"+second.ID.String()+"/cancel", "", auth).Code)
}
