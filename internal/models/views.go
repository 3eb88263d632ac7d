package models

import "time"

// PostingView is a posting joined with its employer and company names.
type PostingView struct {
	ID           uint      `json:"id"`
	OwnerID      uint      `json:"user_id"`
	CompanyID    uint      `json:"company_id"`
	Title        string    `json:"title"`
	Position     string    `json:"position"`
	Salary       string    `json:"salary"`
	Requirement  string    `json:"requirement"`
	Description  string    `json:"description"`
	ApplyDate    time.Time `json:"apply_date"`
	EndDate      time.Time `json:"end_date"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	EmployerName string    `json:"employer_name"`
	CompanyName  string    `json:"company_name"`
}

// ApplicationView is an application joined with posting and company metadata.
type ApplicationView struct {
	ID           uint    `json:"id"`
	PostingID    uint    `json:"posting_id"`
	ApplicantID  uint    `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Resume       string  `json:"resume"`
	Status       string  `json:"status"`
	ScheduleTime *string `json:"schedule_datetime"`
	MeetingLink  *string `json:"meet_link"`
	Title        string  `json:"title"`
	PostingImage string  `json:"image"`
	CompanyName  string  `json:"company_name"`
}

// Conversation summarises one posting's chat for a conversation list.
type Conversation struct {
	PostingID       uint       `json:"posting_id"`
	PostingTitle    string     `json:"posting_title"`
	CounterpartID   uint       `json:"counterpart_id"`
	CounterpartName string     `json:"counterpart_name"`
	LastMessage     *string    `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time"`
}
