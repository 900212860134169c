package models

// TeacherWorkload summarises how many entries a teacher carries per week.
type TeacherWorkload struct {
	TeacherID    string `db:"teacher_id" json:"teacher_id"`
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	TotalClasses int    `db:"total_classes" json:"total_classes"`
	DaysTeaching int    `db:"days_teaching" json:"days_teaching"`
}

// RoomUtilization counts how often a room is booked.
type RoomUtilization struct {
	RoomID     string `db:"room_id" json:"room_id"`
	RoomNumber string `db:"room_number" json:"room_number"`
	RoomName   string `db:"room_name" json:"room_name"`
	TimesUsed  int    `db:"times_used" json:"times_used"`
}

// SubjectDistribution counts how often a subject appears on timetables.
type SubjectDistribution struct {
	SubjectID   string `db:"subject_id" json:"subject_id"`
	SubjectName string `db:"subject_name" json:"subject_name"`
	SubjectCode string `db:"subject_code" json:"subject_code"`
	Frequency   int    `db:"frequency" json:"frequency"`
}

// DayDistribution counts scheduled entries per weekday.
type DayDistribution struct {
	Day     string `db:"day" json:"day"`
	Entries int    `db:"entries" json:"entries"`
}

// AnalyticsReport bundles the aggregate views served by the analytics endpoint.
type AnalyticsReport struct {
	TeacherWorkload     []TeacherWorkload     `json:"teacher_workload"`
	RoomUtilization     []RoomUtilization     `json:"room_utilization"`
	SubjectDistribution []SubjectDistribution `json:"subject_distribution"`
	DayDistribution     []DayDistribution     `json:"day_distribution"`
}

// DashboardStats carries entity counts for the dashboard cards.
type DashboardStats struct {
	Teachers int `db:"teachers" json:"teachers"`
	Subjects int `db:"subjects" json:"subjects"`
	Rooms    int `db:"rooms" json:"rooms"`
	Classes  int `db:"classes" json:"classes"`
	Entries  int `db:"entries" json:"entries"`
}

// DashboardSummary combines stats with recently created classes.
type DashboardSummary struct {
	Stats         DashboardStats `json:"stats"`
	RecentClasses []Class        `json:"recent_classes"`
}
