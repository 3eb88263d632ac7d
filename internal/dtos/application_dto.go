package dtos

type ApplyRequest struct {
	PostingID uint   `form:"work_id" json:"work_id"`
	Name      string `form:"name" json:"name"`
	Email     string `form:"email" json:"email"`
}

type ApplicationEditRequest struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
}

type ApplicationStatusRequest struct {
	Status       string  `json:"status"`
	ScheduleTime *string `json:"scheduleDatetime"`
	MeetingLink  *string `json:"meetLink"`
}
