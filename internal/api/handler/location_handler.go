package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campneus/cofre/internal/core/ports"
)

type LocationHandler struct {
	locations ports.LocationService
}

func NewLocationHandler(locations ports.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

type locationRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Code   string `json:"code" validate:"required,max=20"`
	City   string `json:"city" validate:"omitempty,max=200"`
	Active *bool  `json:"active"`
}

// List returns every location.
//
// @Summary      List locations
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Location
// @Router       /locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	locations, err := h.locations.List(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locations)
}

// Get returns one location.
//
// @Summary      Get a location
// @Tags         locations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  domain.Location
// @Failure      404  {object}  map[string]string
// @Router       /locations/{id} [get]
func (h *LocationHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	location, err := h.locations.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, location)
}

// Create adds a location.
//
// @Summary      Create a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      locationRequest  true  "Location details"
// @Success      201   {object}  domain.Location
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /locations [post]
func (h *LocationHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	location, err := h.locations.Create(c.Request().Context(), principal, ports.LocationInput{
		Name: req.Name, Code: req.Code, City: req.City, Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, location)
}

// Update rewrites a location.
//
// @Summary      Update a location
// @Tags         locations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Location ID"
// @Param        body  body      locationRequest  true  "Location details"
// @Success      200   {object}  domain.Location
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /locations/{id} [put]
func (h *LocationHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req locationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	location, err := h.locations.Update(c.Request().Context(), principal, c.Param("id"), ports.LocationInput{
		Name: req.Name, Code: req.Code, City: req.City, Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, location)
}

// Delete removes a location once nothing references it.
//
// @Summary      Delete a location
// @Tags         locations
// @Security     BearerAuth
// @Param        id  path  string  true  "Location ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /locations/{id} [delete]
func (h *LocationHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.locations.Delete(c.Request().Context(), principal, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
