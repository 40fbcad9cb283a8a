// Package listing serves the listing search, detail, engagement and owner endpoints.
package listing

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	appctx "github.com/Ramsey-B/clover/pkg/context"
	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/query"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/utils"
)

// Service is the listing pipeline as the handlers use it.
type Service interface {
	ListPage(ctx context.Context, filters query.Filters, page, pageSize int) (models.Page, error)
	GetByID(ctx context.Context, id string) (*models.Property, error)
	RecordView(ctx context.Context, id string)
	RecordInquiry(ctx context.Context, id string)
	ListUserListings(ctx context.Context, userID string) ([]models.UserListing, error)
	Create(ctx context.Context, input models.NewListing) (*models.Property, error)
	Update(ctx context.Context, id string, input models.NewListing) (*models.Property, error)
	UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (*models.Property, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	service Service
	logger  ectologger.Logger
}

func NewHandler(service Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the listing routes on the /api/v1 group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/listings", h.List)
	g.POST("/listings", h.Create)
	g.GET("/listings/:id", h.Get)
	g.PUT("/listings/:id", h.Update)
	g.PATCH("/listings/:id/status", h.UpdateStatus)
	g.DELETE("/listings/:id", h.Delete)
	g.POST("/listings/:id/views", h.RecordView)
	g.POST("/listings/:id/inquiries", h.RecordInquiry)
	g.GET("/users/:userId/listings", h.ListUserListings)
}

type CreateListingRequest struct {
	UserID       string   `json:"user_id" validate:"omitempty,uuid"`
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description"`
	Price        float64  `json:"price" validate:"gte=0"`
	PriceUnit    string   `json:"price_unit" validate:"required,oneof=juta miliar"`
	PropertyType string   `json:"property_type" validate:"required"`
	Purpose      string   `json:"purpose" validate:"required,oneof=jual sewa"`
	Bedrooms     *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms" validate:"omitempty,gte=0"`
	BuildingSize *float64 `json:"building_size" validate:"omitempty,gte=0"`
	LandSize     *float64 `json:"land_size" validate:"omitempty,gte=0"`
	Floors       *int     `json:"floors" validate:"omitempty,gte=0"`
	ProvinceID   string   `json:"province_id" validate:"omitempty,uuid"`
	CityID       string   `json:"city_id" validate:"omitempty,uuid"`
	DistrictID   string   `json:"district_id" validate:"omitempty,uuid"`
	Address      string   `json:"address"`
	PostalCode   string   `json:"postal_code"`
	Features     []string `json:"features"`
	Images       []string `json:"images" validate:"omitempty,max=30,dive,http_url"`
}

func (r CreateListingRequest) toNewListing(userID string) models.NewListing {
	return models.NewListing{
		UserID:       userID,
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		PriceUnit:    models.PriceUnit(r.PriceUnit),
		PropertyType: models.PropertyType(r.PropertyType),
		Purpose:      models.Purpose(r.Purpose),
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		BuildingSize: r.BuildingSize,
		LandSize:     r.LandSize,
		Floors:       r.Floors,
		ProvinceID:   r.ProvinceID,
		CityID:       r.CityID,
		DistrictID:   r.DistrictID,
		Address:      r.Address,
		PostalCode:   r.PostalCode,
		Features:     r.Features,
		Images:       r.Images,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type AcceptedResponse struct {
	Status string `json:"status"`
}

// List handles GET /listings
func (h *Handler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.List")
	defer span.End()

	values := c.QueryParams()
	filters, err := ParseFilters(values)
	if err != nil {
		return err
	}
	page, pageSize, err := ParsePage(values)
	if err != nil {
		return err
	}

	result, err := h.service.ListPage(ctx, filters, page, pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /listings/:id
func (h *Handler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.Get")
	defer span.End()

	property, err := h.service.GetByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if property == nil {
		return clovererrors.ErrNotFound
	}
	return c.JSON(http.StatusOK, property)
}

// RecordView handles POST /listings/:id/views. The increment runs after the response.
func (h *Handler) RecordView(c echo.Context) error {
	h.service.RecordView(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

// RecordInquiry handles POST /listings/:id/inquiries
func (h *Handler) RecordInquiry(c echo.Context) error {
	h.service.RecordInquiry(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

// ListUserListings handles GET /users/:userId/listings
func (h *Handler) ListUserListings(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.ListUserListings")
	defer span.End()

	listings, err := h.service.ListUserListings(ctx, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listings)
}

// Create handles POST /listings. The owner defaults to the caller's X-User-ID.
func (h *Handler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.Create")
	defer span.End()

	req, err := utils.BindRequest[CreateListingRequest](c)
	if err != nil {
		return err
	}

	userID := req.UserID
	if userID == "" {
		userID = appctx.GetUserID(ctx)
	}

	property, err := h.service.Create(ctx, req.toNewListing(userID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, property)
}

// Update handles PUT /listings/:id. The body is a full listing; its images replace the stored ones.
func (h *Handler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.Update")
	defer span.End()

	req, err := utils.BindRequest[CreateListingRequest](c)
	if err != nil {
		return err
	}

	userID := req.UserID
	if userID == "" {
		userID = appctx.GetUserID(ctx)
	}

	property, err := h.service.Update(ctx, c.Param("id"), req.toNewListing(userID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

// UpdateStatus handles PATCH /listings/:id/status
func (h *Handler) UpdateStatus(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.UpdateStatus")
	defer span.End()

	req, err := utils.BindRequest[UpdateStatusRequest](c)
	if err != nil {
		return err
	}

	property, err := h.service.UpdateStatus(ctx, c.Param("id"), models.ListingStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /listings/:id
func (h *Handler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "ListingHandler.Delete")
	defer span.End()

	if err := h.service.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
