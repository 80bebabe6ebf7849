package models

import "time"

// Session status values. Draft and active sessions are both schedulable;
// deleted is terminal and cascades to dependent bindings.
const (
	SessionDraft   = 0
	SessionActive  = 1
	SessionDeleted = 2
)

// Binding status default: assigned/active.
const BindingAssigned = 1

// Course based on the 'courses' table.
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code" example:"CS-101"`
	Name string `json:"name" db:"name" example:"Introduction to Programming"`
}

// Session is a scheduled course offering based on the 'sessions' table. It
// recurs on the weekdays in DaysOfWeek (0=Monday..6=Sunday) between StartDate
// and EndDate, with StartTime/EndTime bounding each occurrence.
type Session struct {
	ID           int64     `json:"id" db:"id"`
	CourseID     int64     `json:"courseId" db:"course_id"`
	LocationID   int64     `json:"locationId" db:"location_id"`
	BatchID      int64     `json:"batchId" db:"batch_id"`
	NoOfStudents int       `json:"noOfStudents" db:"no_of_students"`
	StartTime    time.Time `json:"startTime" db:"start_time"`
	EndTime      time.Time `json:"endTime" db:"end_time"`
	StartDate    time.Time `json:"startDate" db:"start_date"`
	EndDate      time.Time `json:"endDate" db:"end_date"`
	DaysOfWeek   []int32   `json:"daysOfWeek" db:"days_of_week"`
	Status       int       `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	Course   *Course   `json:"course,omitempty"`   // relation, no db tag
	Location *Location `json:"location,omitempty"` // relation, no db tag
	Batch    *Batch    `json:"batch,omitempty"`    // relation, no db tag
}

// Schedulable reports whether the session can accept new bindings.
func (s *Session) Schedulable() bool {
	return s.Status == SessionDraft || s.Status == SessionActive
}

// StudentSession binds a student profile to a session, based on the
// 'student_sessions' table. Created only through the assignment engine.
type StudentSession struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	SessionID int64     `json:"sessionId" db:"session_id"`
	Status    int       `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Session *Session `json:"session,omitempty"` // relation, no db tag
}

// InstructorSession binds an instructor profile to a session, based on the
// 'instructor_sessions' table. At most one exists per session.
type InstructorSession struct {
	ID           int64     `json:"id" db:"id"`
	InstructorID int64     `json:"instructorId" db:"instructor_id"`
	SessionID    int64     `json:"sessionId" db:"session_id"`
	Status       int       `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	Session *Session `json:"session,omitempty"` // relation, no db tag
}
