package models

import "time"

type User struct {
	ID                 string
	Username           string
	Email              string
	PasswordHash       string
	Inactive           bool
	ActivationToken    string
	PasswordResetToken string
	Image              string
	CreatedAt          time.Time
}
