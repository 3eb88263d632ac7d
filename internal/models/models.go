package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleUser     = "user"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

const (
	CompanyPending  = "pending"
	CompanyApproved = "approved"
	CompanyRejected = "rejected"
)

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// ScheduleLayout is how interview times are persisted.
const ScheduleLayout = "2006-01-02 15:04:05"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name             string  `gorm:"size:120;not null" json:"name"`
	Email            string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash     string  `gorm:"not null" json:"-"`
	Role             string  `gorm:"size:16;not null;default:user" json:"role"`
	Verified         bool    `gorm:"not null;default:false" json:"verified"`
	VerificationCode *string `gorm:"size:6" json:"-"`
	Phone            string  `gorm:"size:32" json:"phone,omitempty"`
	ProfileImage     string  `json:"profile_image,omitempty"`
}

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Name    string `gorm:"size:200;not null" json:"company_name"`
	Address string `gorm:"not null" json:"address"`
	TaxID   string `gorm:"size:64;not null" json:"pan_no"`
	Logo    string `json:"logo"`
	Status  string `gorm:"size:16;not null;default:pending;index" json:"status"`
}

// Posting is a job listing. It lives in the "works" resource of the API.
type Posting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID   uint     `gorm:"not null;index" json:"user_id"`
	Owner     *User    `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CompanyID uint     `gorm:"not null;index" json:"company_id"`
	Company   *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`

	Title       string    `gorm:"size:200;not null" json:"title"`
	Position    string    `gorm:"size:200;not null" json:"position"`
	Salary      string    `gorm:"size:100;not null" json:"salary"`
	Requirement string    `gorm:"type:text" json:"requirement"`
	Description string    `gorm:"type:text" json:"description"`
	ApplyDate   time.Time `gorm:"not null" json:"apply_date"`
	EndDate     time.Time `gorm:"not null;index" json:"end_date"`
	Image       string    `json:"image"`
}

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PostingID   uint     `gorm:"not null;uniqueIndex:idx_application_posting_applicant" json:"posting_id"`
	Posting     *Posting `gorm:"foreignKey:PostingID;constraint:OnDelete:CASCADE" json:"-"`
	ApplicantID uint     `gorm:"not null;uniqueIndex:idx_application_posting_applicant;index" json:"user_id"`
	Applicant   *User    `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"-"`

	Name         string  `gorm:"size:120;not null" json:"name"`
	Email        string  `gorm:"size:255;not null" json:"email"`
	Resume       string  `json:"resume"`
	Status       string  `gorm:"size:16;not null;default:pending" json:"status"`
	ScheduleTime *string `gorm:"size:19" json:"schedule_datetime"`
	MeetingLink  *string `json:"meet_link"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_message_posting_created,priority:2" json:"created_at"`

	PostingID uint     `gorm:"not null;index:idx_message_posting_created,priority:1" json:"posting_id"`
	Posting   *Posting `gorm:"foreignKey:PostingID;constraint:OnDelete:CASCADE" json:"-"`
	SenderID  uint     `gorm:"not null;index" json:"sender_id"`
	Sender    *User    `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Body      string   `gorm:"type:text;not null" json:"body"`

	SenderName string `gorm:"->;-:migration" json:"sender_name"`
}

type CV struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User         *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Name         string         `gorm:"size:120;not null" json:"name"`
	Email        string         `gorm:"size:255;not null" json:"email"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Education    string         `gorm:"type:text" json:"education"`
	Experience   string         `gorm:"type:text" json:"experience"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills"`
	PhotoPath    string         `json:"photo_path"`
	DocumentPath string         `json:"pdf_path"`
}

// Notification is an in-app notice shown to a user.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
}

// All lists the models managed by auto-migration, parents first.
func All() []any {
	return []any{&User{}, &Company{}, &Posting{}, &Application{}, &Message{}, &CV{}, &Notification{}}
}
