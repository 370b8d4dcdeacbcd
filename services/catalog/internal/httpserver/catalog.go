package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/pkg/pagination"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/service"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

type listResponse struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

func pageParams(c echo.Context) (page, limit, offset int) {
	return pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("limit"), pagination.DefaultLimit),
	)
}

func (h *CatalogHTTP) GetDoctor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_doctor")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_doctor_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	d, err := h.Svc.GetDoctor(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "get_doctor_failed", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *CatalogHTTP) ListDoctors(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_doctors")

	page, limit, offset := pageParams(c)
	total, items, err := h.Svc.ListDoctors(ctx, c.QueryParam("specialization"), offset, limit)
	if err != nil {
		return apperr.HTTP(l, "list_doctors_failed", err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: items, Meta: pagination.NewMeta(page, limit, total)})
}

func (h *CatalogHTTP) CreateDoctor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_doctor")

	var req transport.CreateDoctorRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_doctor_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	d, err := h.Svc.CreateDoctor(ctx, req)
	if err != nil {
		return apperr.HTTP(l, "create_doctor_failed", err)
	}

	l.Info("create_doctor_success", "doctor_id", d.ID)
	return c.JSON(http.StatusCreated, d)
}

func (h *CatalogHTTP) GetMedicine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_medicine")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_medicine_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	m, err := h.Svc.GetMedicine(ctx, id)
	if err != nil {
		return apperr.HTTP(l, "get_medicine_failed", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *CatalogHTTP) ListMedicines(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_medicines")

	page, limit, offset := pageParams(c)
	total, items, err := h.Svc.ListMedicines(ctx, offset, limit)
	if err != nil {
		return apperr.HTTP(l, "list_medicines_failed", err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: items, Meta: pagination.NewMeta(page, limit, total)})
}

func (h *CatalogHTTP) CreateMedicine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_medicine")

	var req transport.CreateMedicineRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_medicine_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	m, err := h.Svc.CreateMedicine(ctx, req)
	if err != nil {
		return apperr.HTTP(l, "create_medicine_failed", err)
	}

	l.Info("create_medicine_success", "medicine_id", m.ID)
	return c.JSON(http.StatusCreated, m)
}

func (h *CatalogHTTP) PatchMedicine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_medicine")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_medicine_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.PatchMedicineRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_medicine_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	m, err := h.Svc.PatchMedicine(ctx, id, req)
	if err != nil {
		return apperr.HTTP(l, "patch_medicine_failed", err)
	}

	l.Info("patch_medicine_success", "medicine_id", m.ID)
	return c.JSON(http.StatusOK, m)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page, limit, offset := pageParams(c)
	res, err := h.Svc.Search(ctx, c.QueryParam("q"), c.QueryParam("kind"), offset, limit)
	if err != nil {
		return apperr.HTTP(l, "search_failed", err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: res, Meta: pagination.NewMeta(page, limit, res.Total)})
}
