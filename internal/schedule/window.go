package schedule

// Window is one publication of a survey: a start/end range plus the audience
// it targets. One row is inserted per publish action; re-publishing the same
// survey inserts another row rather than overwriting (kept as an audit trail).
type Window struct {
	ID                  int64  `json:"id"`
	SurveyID            string `json:"survey_id"`
	SurveyTitle         string `json:"surveyTitle"`
	StaffEmail          string `json:"staff_email"`
	StartDate           string `json:"start_date"` // "2006-01-02"
	StartTime           string `json:"start_time"` // "15:04:05", may be empty
	EndDate             string `json:"end_date"`
	EndTime             string `json:"end_time"`
	SchedulingFrequency string `json:"scheduling_frequency"` // opaque, stored as given
	DaysOfWeek          string `json:"days_of_week"`         // opaque, stored as given
	RandomTiming        bool   `json:"random_timing"`
	TimeDifference      string `json:"time_difference"`
	SendReminders       bool   `json:"send_reminders"`
	AssignedRoles       string `json:"assigned_roles"`
	ResponseLimit       int    `json:"response_limit"`
}

func (w Window) Tag() Tag { return ParseTag(w.AssignedRoles) }
