package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// CourseVaadHandler manages per-course representative grants.
type CourseVaadHandler struct {
	assignments *usecase.AssignmentService
}

// NewCourseVaadHandler builds a new course-vaad handler instance.
func NewCourseVaadHandler(assignments *usecase.AssignmentService) *CourseVaadHandler {
	return &CourseVaadHandler{assignments: assignments}
}

// List returns every course-vaad grant.
func (h *CourseVaadHandler) List(c *gin.Context) {
	assignments, err := h.assignments.ListCourseVaad(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, reasonServerError))
		return
	}

	payload := make([]CourseVaadPayload, 0, len(assignments))
	for _, assignment := range assignments {
		payload = append(payload, courseVaadPayload(assignment))
	}

	c.JSON(http.StatusOK, CourseVaadListResponse{Assignments: payload})
}

// Upsert creates or replaces the course grants for an email.
func (h *CourseVaadHandler) Upsert(c *gin.Context) {
	var req CourseVaadUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidInput))
		return
	}

	actor := middleware.GetIdentity(c)

	assignment, err := h.assignments.UpsertCourseVaad(c.Request.Context(), actor, usecase.UpsertCourseVaadInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		CourseIDs:   req.CourseIDs,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: reasonInvalidInput},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, courseVaadPayload(*assignment))
}

// Delete removes a course-vaad grant by its row id.
func (h *CourseVaadHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidID))
		return
	}

	if err := h.assignments.DeleteCourseVaad(c.Request.Context(), id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "grant removed"})
}
