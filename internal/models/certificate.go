package models

import "time"

type Certificate struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	RecipientID   int64     `json:"recipient_id"`
	RecipientName string    `json:"recipient_name"`
	CourseTitle   string    `json:"course_title"`
	TrainerName   string    `json:"trainer_name"`
	Description   string    `json:"description"`
	IssuedAt      time.Time `json:"issued_at"`
}

// CertificateTemplate holds the form values a user last saved for one
// template variant, so the editor can be restored per variant.
type CertificateTemplate struct {
	UserID    int64             `json:"user_id"`
	Variant   string            `json:"variant"`
	Form      map[string]string `json:"form"`
	UpdatedAt time.Time         `json:"updated_at"`
}
