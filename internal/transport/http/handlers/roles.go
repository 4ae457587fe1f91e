package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// RoleHandler manages global role assignments and the caller's own role view.
type RoleHandler struct {
	assignments *usecase.AssignmentService
	resolver    *usecase.RoleResolver
}

// NewRoleHandler builds a new role handler instance.
func NewRoleHandler(assignments *usecase.AssignmentService, resolver *usecase.RoleResolver) *RoleHandler {
	return &RoleHandler{assignments: assignments, resolver: resolver}
}

// Me reports the caller's resolved role. Never fails closed with an error:
// resolution degrades to student on repository faults.
func (h *RoleHandler) Me(c *gin.Context) {
	email := middleware.GetIdentity(c)
	role := h.resolver.Resolve(c.Request.Context(), email)

	c.JSON(http.StatusOK, MeResponse{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  role,
	})
}

// List returns every global role assignment.
func (h *RoleHandler) List(c *gin.Context) {
	assignments, err := h.assignments.ListGlobalRoles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, reasonServerError))
		return
	}

	payload := make([]GlobalRolePayload, 0, len(assignments))
	for _, assignment := range assignments {
		payload = append(payload, globalRolePayload(assignment))
	}

	c.JSON(http.StatusOK, GlobalRoleListResponse{Assignments: payload})
}

// Upsert creates or replaces the global role row for an email.
func (h *RoleHandler) Upsert(c *gin.Context) {
	var req GlobalRoleUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidInput))
		return
	}

	actor := middleware.GetIdentity(c)

	assignment, err := h.assignments.UpsertGlobalRole(c.Request.Context(), actor, usecase.UpsertGlobalRoleInput{
		Email:       req.Email,
		Role:        domain.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: reasonInvalidInput},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, globalRolePayload(*assignment))
}

// Delete revokes a global role assignment by its row id.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidID))
		return
	}

	actor := middleware.GetIdentity(c)

	if err := h.assignments.DeleteGlobalRole(c.Request.Context(), actor, id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role revoked"})
}
