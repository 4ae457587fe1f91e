package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// AnnouncementHandler serves per-course announcements.
type AnnouncementHandler struct {
	courses *usecase.CourseService
}

// NewAnnouncementHandler builds a new announcement handler instance.
func NewAnnouncementHandler(courses *usecase.CourseService) *AnnouncementHandler {
	return &AnnouncementHandler{courses: courses}
}

// List returns the announcements of a course, newest first.
func (h *AnnouncementHandler) List(c *gin.Context) {
	courseID := strings.TrimSpace(c.Param("id"))

	announcements, err := h.courses.ListAnnouncements(c.Request.Context(), courseID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	payload := make([]AnnouncementPayload, 0, len(announcements))
	for _, a := range announcements {
		payload = append(payload, announcementPayload(a))
	}

	c.JSON(http.StatusOK, AnnouncementListResponse{Announcements: payload})
}

// Create posts an announcement to a course.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	courseID := strings.TrimSpace(c.Param("id"))

	var req AnnouncementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidInput))
		return
	}

	announcement, err := h.courses.CreateAnnouncement(c.Request.Context(), usecase.CreateAnnouncementInput{
		CourseID: courseID,
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: reasonInvalidInput},
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusCreated, announcementPayload(*announcement))
}

// Delete removes a single announcement from a course.
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	courseID := strings.TrimSpace(c.Param("id"))

	announcementID, err := strconv.ParseInt(c.Param("announcement_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidID))
		return
	}

	if err := h.courses.DeleteAnnouncement(c.Request.Context(), courseID, announcementID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "announcement deleted"})
}
