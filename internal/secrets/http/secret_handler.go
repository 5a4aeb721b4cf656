// Package http implements the automation API (C7): the wire surface the
// Secret Controller and ACL Engine are exposed through.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	"github.com/allisson/keyhouse/internal/authn"
	apperrors "github.com/allisson/keyhouse/internal/errors"
	"github.com/allisson/keyhouse/internal/httputil"
	"github.com/allisson/keyhouse/internal/secrets/http/dto"
	secretsUsecase "github.com/allisson/keyhouse/internal/secrets/usecase"
	customValidation "github.com/allisson/keyhouse/internal/validation"
)

// handleCreateConflict writes the 409 response for a duplicate secret name.
// The underlying cause is logged at INFO; only the spec-mandated message
// ("Cannot create secret <name>.") is returned to the caller.
func (h *SecretHandler) handleCreateConflict(c *gin.Context, name string, err error) {
	h.logger.Info("secret creation conflict",
		slog.String("name", name),
		slog.Any("error", err),
	)
	c.JSON(http.StatusConflict, httputil.ErrorResponse{
		Error:   "conflict",
		Message: fmt.Sprintf("Cannot create secret %s.", name),
	})
}

// SecretHandler serves the automation API's secret and access-grant routes,
// mounted under /automation/v2/secrets.
type SecretHandler struct {
	controller secretsUsecase.Controller
	aclEngine  accessUsecase.ACLEngine
	groups     accessUsecase.GroupUsecase
	logger     *slog.Logger
}

// NewSecretHandler assembles the automation API handler from its
// collaborators.
func NewSecretHandler(
	controller secretsUsecase.Controller,
	aclEngine accessUsecase.ACLEngine,
	groups accessUsecase.GroupUsecase,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{controller: controller, aclEngine: aclEngine, groups: groups, logger: logger}
}

// actor reports the authenticated client's name, empty if the request
// somehow reached here unauthenticated (it shouldn't, behind Middleware).
func actor(c *gin.Context) string {
	if client, ok := authn.GetClient(c.Request.Context()); ok {
		return client.Name
	}
	return ""
}

// Create handles POST / — creates a brand-new secret series.
func (h *SecretHandler) Create(c *gin.Context) {
	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.controller.Create(c.Request.Context(), secretsUsecase.CreateSecretRequest{
		Name:              req.Name,
		Content:           []byte(req.Content),
		Creator:           actor(c),
		Description:       req.Description,
		Metadata:          req.Metadata,
		Type:              req.Type,
		Expiry:            req.Expiry,
		GenerationOptions: req.GenerationOptions,
		Groups:            req.Groups,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			h.handleCreateConflict(c, req.Name, err)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Location", "/automation/v2/secrets/"+secret.Series.Name)
	c.JSON(http.StatusCreated, dto.MapSecretToDetailResponse(secret))
}

// CreateOrUpdate handles POST /{name} — upserts a series and appends a new
// content version.
func (h *SecretHandler) CreateOrUpdate(c *gin.Context) {
	name := c.Param("name")

	var req dto.CreateOrUpdateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.controller.CreateOrUpdate(c.Request.Context(), secretsUsecase.CreateOrUpdateSecretRequest{
		Name:              name,
		Content:           []byte(req.Content),
		Creator:           actor(c),
		Description:       req.Description,
		Metadata:          req.Metadata,
		Type:              req.Type,
		Expiry:            req.Expiry,
		GenerationOptions: req.GenerationOptions,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			h.handleCreateConflict(c, name, err)
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToDetailResponse(secret))
}

// ListNames handles GET / — every live series' name.
func (h *SecretHandler) ListNames(c *gin.Context) {
	nameIDs, err := h.controller.ListNames(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapNameIDsToNames(nameIDs))
}

// GetByName handles GET /{name}.
func (h *SecretHandler) GetByName(c *gin.Context) {
	secret, err := h.controller.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSecretToDetailResponse(secret))
}

// Delete handles DELETE /{name}.
func (h *SecretHandler) Delete(c *gin.Context) {
	if err := h.controller.DeleteSecretsByName(c.Request.Context(), c.Param("name"), actor(c)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetVersions handles GET /{name}/versions/{idx}-{count}.
func (h *SecretHandler) GetVersions(c *gin.Context) {
	name := c.Param("name")
	offset, count, err := parseRange(c.Param("range"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	secret, err := h.controller.GetByName(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	versions, err := h.controller.GetVersionsByName(c.Request.Context(), name, offset, count)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVersionsToDetailResponse(secret.Series, versions))
}

// parseRange splits an "idx-count" path segment into its two integers.
func parseRange(segment string) (offset, count int, err error) {
	parts := strings.SplitN(segment, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("range must be of the form idx-count")
	}
	offset, err = strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("range index must be a non-negative integer")
	}
	count, err = strconv.Atoi(parts[1])
	if err != nil || count < 1 {
		return 0, 0, fmt.Errorf("range count must be a positive integer")
	}
	return offset, count, nil
}

// SetVersion handles POST /{name}/setversion.
func (h *SecretHandler) SetVersion(c *gin.Context) {
	var req dto.SetVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.controller.SetCurrentVersionByName(c.Request.Context(), req.Name, req.Version, actor(c)); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusCreated)
}

// ExpiringNames handles GET /expiring/{time} — names of series whose
// current version's expiry is nonzero and at or before time.
func (h *SecretHandler) ExpiringNames(c *gin.Context) {
	maxExpiry, err := strconv.ParseInt(c.Param("time"), 10, 64)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("time must be a unix timestamp"), h.logger)
		return
	}

	secrets, err := h.controller.ListSecrets(c.Request.Context(), &maxExpiry, nil)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSanitizedSecretsToNames(secrets))
}

// ExpiringSecrets handles GET /expiring/v2/{time} — the same filter as
// ExpiringNames, returning full sanitized projections.
func (h *SecretHandler) ExpiringSecrets(c *gin.Context) {
	maxExpiry, err := strconv.ParseInt(c.Param("time"), 10, 64)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("time must be a unix timestamp"), h.logger)
		return
	}

	secrets, err := h.controller.ListSecrets(c.Request.Context(), &maxExpiry, nil)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSanitizedSecrets(secrets))
}

// ExpiringNamesByGroup handles GET /expiring/{time}/{group} — the same
// filter as ExpiringNames, restricted to series accessible to one group.
func (h *SecretHandler) ExpiringNamesByGroup(c *gin.Context) {
	maxExpiry, err := strconv.ParseInt(c.Param("time"), 10, 64)
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("time must be a unix timestamp"), h.logger)
		return
	}

	group, err := h.groups.GetByName(c.Request.Context(), c.Param("group"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secrets, err := h.controller.ListSecrets(c.Request.Context(), &maxExpiry, &group.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSanitizedSecretsToNames(secrets))
}

// BackfillExpiration handles POST /{name}/backfill-expiration.
func (h *SecretHandler) BackfillExpiration(c *gin.Context) {
	name := c.Param("name")

	var passwords []string
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&passwords); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
	}

	backfilled, err := h.controller.BackfillExpiration(c.Request.Context(), name, passwords, actor(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, backfilled)
}

// GetGroups handles GET /{name}/groups.
func (h *SecretHandler) GetGroups(c *gin.Context) {
	secret, err := h.controller.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	groups, err := h.aclEngine.GroupsFor(c.Request.Context(), secret.Series.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, groupNames(groups))
}

// UpdateGroups handles PUT /{name}/groups — reconciles the add/remove
// request against the series' current group assignments and returns the
// resulting group name list.
func (h *SecretHandler) UpdateGroups(c *gin.Context) {
	name := c.Param("name")

	var req dto.UpdateGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	secret, err := h.controller.GetByName(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	_, err = h.aclEngine.ReconcileGroups(c.Request.Context(), secret.Series.ID, req.AddGroups, req.RemoveGroups, actor(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	groups, err := h.aclEngine.GroupsFor(c.Request.Context(), secret.Series.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, groupNames(groups))
}

func groupNames(groups []accessDomain.Group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}
