package model

// DashboardStats is the small fixed aggregate served to the owner
// dashboard. Each field independently defaults to zero when its source
// table is absent or empty.
type DashboardStats struct {
	TotalChats     int     `json:"totalChats"`
	TotalShoutouts int     `json:"totalShoutouts"`
	TotalFeedback  int     `json:"totalFeedback"`
	AvgRating      float64 `json:"avgRating"`
	TotalWaitlist  int     `json:"totalWaitlist"`
	Seated         int     `json:"seated"`
}
