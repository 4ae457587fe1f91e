package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/repository"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/usecase"
)

// CourseHandler serves the course catalog endpoints.
type CourseHandler struct {
	courses *usecase.CourseService
}

// NewCourseHandler builds a new course handler instance.
func NewCourseHandler(courses *usecase.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List returns every course in the catalog.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, reasonServerError))
		return
	}

	payload := make([]CoursePayload, 0, len(courses))
	for _, course := range courses {
		payload = append(payload, coursePayload(course))
	}

	c.JSON(http.StatusOK, CourseListResponse{Courses: payload})
}

// Get returns a single course by its id.
func (h *CourseHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidID))
		return
	}

	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, coursePayload(*course))
}

// Create registers a new course and allocates its id.
func (h *CourseHandler) Create(c *gin.Context) {
	var req CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidInput))
		return
	}

	actor := middleware.GetIdentity(c)

	course, err := h.courses.CreateCourse(c.Request.Context(), actor, usecase.CreateCourseInput{
		Name:          strings.TrimSpace(req.Name),
		ShortName:     req.ShortName,
		YearLabel:     strings.TrimSpace(req.YearLabel),
		SemesterLabel: strings.TrimSpace(req.SemesterLabel),
		CourseCode:    req.CourseCode,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: reasonInvalidInput},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusCreated, coursePayload(*course))
}

// Delete removes a course and its announcements.
func (h *CourseHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, reasonInvalidID))
		return
	}

	actor := middleware.GetIdentity(c)

	if err := h.courses.DeleteCourse(c.Request.Context(), actor, id); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: repository.ErrNotFound, Status: http.StatusNotFound, Message: reasonNotFound},
		}, http.StatusInternalServerError, reasonServerError)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "course deleted"})
}
