package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campneus/cofre/internal/api/metrics"
	"github.com/campneus/cofre/internal/core/ports"
)

type CredentialHandler struct {
	credentials ports.CredentialService
}

func NewCredentialHandler(credentials ports.CredentialService) *CredentialHandler {
	return &CredentialHandler{credentials: credentials}
}

// List returns credential metadata matching the filters.
//
// @Summary      List credentials
// @Tags         credentials
// @Produce      json
// @Security     BearerAuth
// @Param        category     query     string  false  "Category filter"
// @Param        location_id  query     string  false  "Location filter"
// @Param        search       query     string  false  "Free-text search over system name, username, and URL"
// @Param        page         query     int     false  "Page number (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200  {object}  ports.ListCredentialsResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /credentials [get]
func (h *CredentialHandler) List(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var q listCredentialsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.credentials.List(c.Request().Context(), principal, ports.ListCredentialsInput{
		Category:   q.Category,
		LocationID: q.LocationID,
		Search:     q.Search,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns one credential. The decrypted secret is included only when the
// caller's role grants secret visibility.
//
// @Summary      Get a credential
// @Tags         credentials
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Credential ID"
// @Success      200  {object}  ports.CredentialView
// @Failure      404  {object}  map[string]string
// @Router       /credentials/{id} [get]
func (h *CredentialHandler) Get(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	view, err := h.credentials.Get(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// RevealSecret returns only the decrypted secret of a credential.
//
// @Summary      Reveal a credential's secret
// @Tags         credentials
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Credential ID"
// @Success      200  {object}  secretResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /credentials/{id}/secret [get]
func (h *CredentialHandler) RevealSecret(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	secret, err := h.credentials.RevealSecret(c.Request().Context(), principal, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.SecretRevealsTotal.WithLabelValues(principal.Role).Inc()
	return c.JSON(http.StatusOK, secretResponse{Secret: secret})
}

// Create stores a new credential; the secret is encrypted before persistence.
//
// @Summary      Create a credential
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      credentialRequest  true  "Credential details"
// @Success      201   {object}  ports.CredentialView
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /credentials [post]
func (h *CredentialHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Secret == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "secret is required")
	}

	input, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid expiry date")
	}

	view, err := h.credentials.Create(c.Request().Context(), principal, input)
	if err != nil {
		return err
	}

	metrics.CredentialMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, view)
}

// Update rewrites a credential; an empty secret keeps the stored one.
//
// @Summary      Update a credential
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Credential ID"
// @Param        body  body      credentialRequest  true  "Credential details"
// @Success      200   {object}  ports.CredentialView
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /credentials/{id} [put]
func (h *CredentialHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := req.toInput()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid expiry date")
	}

	view, err := h.credentials.Update(c.Request().Context(), principal, c.Param("id"), input)
	if err != nil {
		return err
	}

	metrics.CredentialMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, view)
}

// Delete removes a credential.
//
// @Summary      Delete a credential
// @Tags         credentials
// @Security     BearerAuth
// @Param        id  path  string  true  "Credential ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /credentials/{id} [delete]
func (h *CredentialHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.credentials.Delete(c.Request().Context(), principal, c.Param("id")); err != nil {
		return err
	}

	metrics.CredentialMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Expiring lists credentials whose expiry date falls inside the next days.
//
// @Summary      List credentials expiring soon
// @Tags         credentials
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window in days (default 30, max 365)"
// @Success      200   {array}   ports.CredentialView
// @Router       /credentials/expiring [get]
func (h *CredentialHandler) Expiring(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a positive integer")
		}
	}

	views, err := h.credentials.ExpiringWithin(c.Request().Context(), principal, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}
