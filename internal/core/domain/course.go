package domain

import "time"

// Course mirrors the persisted representation in the courses_extra table.
// The ID is a generated slug, unique across all courses and immutable once
// assigned.
type Course struct {
	ID            string
	Name          string
	ShortName     *string
	YearLabel     string
	SemesterLabel string
	CourseCode    *string
	CreatedAt     time.Time
}

// Announcement is a dated notice attached to a course. Announcements are
// removed together with their course.
type Announcement struct {
	ID        int64
	CourseID  string
	Title     string
	Body      string
	CreatedAt time.Time
}
