package domain

// GlobalRoleAssignment maps an email to a portal-wide role. At most one row
// exists per email; the email column is unique case-insensitively.
type GlobalRoleAssignment struct {
	ID          int64
	Email       string
	Role        Role
	DisplayName *string
}

// CourseVaadAssignment grants course-scoped editing rights to an email.
// CourseIDs may be empty, which means no effective grant.
type CourseVaadAssignment struct {
	ID          int64
	Email       string
	DisplayName *string
	CourseIDs   []string
}

// HasCourse reports whether the assignment covers the given course.
func (a CourseVaadAssignment) HasCourse(courseID string) bool {
	for _, id := range a.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
