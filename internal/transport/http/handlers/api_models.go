package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moramiel8/tau-2032-portal-sub000/internal/core/domain"
	"github.com/moramiel8/tau-2032-portal-sub000/internal/transport/http/middleware"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: middleware.GetTraceID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// MeResponse describes the caller's resolved portal role.
type MeResponse struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// CoursePayload is the API view of a course.
type CoursePayload struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ShortName     *string   `json:"short_name,omitempty"`
	YearLabel     string    `json:"year_label,omitempty"`
	SemesterLabel string    `json:"semester_label,omitempty"`
	CourseCode    *string   `json:"course_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CourseCreateRequest defines the payload for creating a course.
type CourseCreateRequest struct {
	Name          string  `json:"name" binding:"required"`
	ShortName     *string `json:"short_name"`
	YearLabel     string  `json:"year_label"`
	SemesterLabel string  `json:"semester_label"`
	CourseCode    *string `json:"course_code"`
}

// CourseListResponse wraps the course collection.
type CourseListResponse struct {
	Courses []CoursePayload `json:"courses"`
}

// GlobalRolePayload is the API view of a global role assignment.
type GlobalRolePayload struct {
	ID          int64       `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	DisplayName *string     `json:"display_name,omitempty"`
}

// GlobalRoleUpsertRequest defines the payload for assigning a global role.
type GlobalRoleUpsertRequest struct {
	Email       string  `json:"email" binding:"required"`
	Role        string  `json:"role" binding:"required"`
	DisplayName *string `json:"display_name"`
}

// GlobalRoleListResponse wraps the global role collection.
type GlobalRoleListResponse struct {
	Assignments []GlobalRolePayload `json:"assignments"`
}

// CourseVaadPayload is the API view of a course-vaad grant.
type CourseVaadPayload struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	DisplayName *string  `json:"display_name,omitempty"`
	CourseIDs   []string `json:"course_ids"`
}

// CourseVaadUpsertRequest defines the payload for granting course scopes.
type CourseVaadUpsertRequest struct {
	Email       string   `json:"email" binding:"required"`
	DisplayName *string  `json:"display_name"`
	CourseIDs   []string `json:"course_ids"`
}

// CourseVaadListResponse wraps the course-vaad collection.
type CourseVaadListResponse struct {
	Assignments []CourseVaadPayload `json:"assignments"`
}

// AnnouncementPayload is the API view of a course announcement.
type AnnouncementPayload struct {
	ID        int64     `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementCreateRequest defines the payload for posting an announcement.
type AnnouncementCreateRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// AnnouncementListResponse wraps the announcement collection.
type AnnouncementListResponse struct {
	Announcements []AnnouncementPayload `json:"announcements"`
}

func coursePayload(course domain.Course) CoursePayload {
	return CoursePayload{
		ID:            course.ID,
		Name:          course.Name,
		ShortName:     course.ShortName,
		YearLabel:     course.YearLabel,
		SemesterLabel: course.SemesterLabel,
		CourseCode:    course.CourseCode,
		CreatedAt:     course.CreatedAt,
	}
}

func globalRolePayload(assignment domain.GlobalRoleAssignment) GlobalRolePayload {
	return GlobalRolePayload{
		ID:          assignment.ID,
		Email:       assignment.Email,
		Role:        assignment.Role,
		DisplayName: assignment.DisplayName,
	}
}

func courseVaadPayload(assignment domain.CourseVaadAssignment) CourseVaadPayload {
	return CourseVaadPayload{
		ID:          assignment.ID,
		Email:       assignment.Email,
		DisplayName: assignment.DisplayName,
		CourseIDs:   assignment.CourseIDs,
	}
}

func announcementPayload(a domain.Announcement) AnnouncementPayload {
	return AnnouncementPayload{
		ID:        a.ID,
		CourseID:  a.CourseID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedAt: a.CreatedAt,
	}
}
