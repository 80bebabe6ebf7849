package dto

// TimeSlot is one session occurrence inside a calendar day.
type TimeSlot struct {
	SessionID  int64  `json:"sessionId"`
	CourseName string `json:"courseName"`
	Location   string `json:"location"`
	StartTime  string `json:"startTime" example:"09:00"`
	EndTime    string `json:"endTime" example:"11:00"`
}

// CalendarDay groups a user's session occurrences on one concrete date.
type CalendarDay struct {
	Date    string     `json:"date" example:"2026-03-02"`
	Weekday string     `json:"weekday" example:"Monday"`
	Slots   []TimeSlot `json:"slots"`
}

// CalendarResponse is the per-user calendar: days ascending by date.
type CalendarResponse struct {
	AccountID int64         `json:"accountId"`
	Days      []CalendarDay `json:"days"`
}

// AssignmentSummary is returned after a successful batch assignment.
type AssignmentSummary struct {
	BindingIDs []int64    `json:"bindingIds"`
	Sessions   []TimeSlot `json:"sessions"`
}
