package domain

import "fmt"

const AssignmentStatePublished = "PUBLISHED"

// DueDate is a calendar date as the coursework API reports it. Month and day
// are not zero-padded when rendered.
type DueDate struct {
	Year  int
	Month int
	Day   int
}

func (d DueDate) String() string {
	return fmt.Sprintf("%d-%d-%d", d.Year, d.Month, d.Day)
}

type DueTime struct {
	Hours   int
	Minutes int
}

type Course struct {
	ID   string
	Name string
}

// AssignmentRecord is one coursework item tagged with its parent course.
// Records are produced transiently per aggregation call and grouped by
// course name only at render time.
type AssignmentRecord struct {
	CourseName  string
	CourseID    string
	Title       string
	Description string
	DueDate     *DueDate
	DueTime     *DueTime
	MaxPoints   float64
	State       string
	ID          string
}
