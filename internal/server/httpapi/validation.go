package httpapi

import (
	"context"
	"net/mail"
	"unicode"

	"github.com/samuelireke/hoaxify/internal/server/services"
)

const (
	msgUsernameNull    = "Username cannot be null"
	msgUsernameSize    = "Must have min 4 and max 32 characters"
	msgEmailNull       = "E-mail cannot be null"
	msgEmailInvalid    = "E-mail is not valid"
	msgEmailInUse      = "E-mail in use"
	msgPasswordNull    = "Password cannot be null"
	msgPasswordSize    = "Password must be at least 6 characters"
	msgPasswordPattern = "Password must have at least 1 uppercase, 1 lowercase letter and 1 number"
	msgImageSize       = "Your profile image cannot be bigger than 2MB"
	msgImageType       = "Only JPEG or PNG files are allowed"
)

func validateUsername(username string) string {
	if username == "" {
		return msgUsernameNull
	}
	if len(username) < 4 || len(username) > 32 {
		return msgUsernameSize
	}
	return ""
}

func validateEmail(ctx context.Context, users *services.UserService, email string) (string, error) {
	if email == "" {
		return msgEmailNull, nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return msgEmailInvalid, nil
	}
	taken, err := users.IsEmailTaken(ctx, email)
	if err != nil {
		return "", err
	}
	if taken {
		return msgEmailInUse, nil
	}
	return "", nil
}

func validatePassword(password string) string {
	if password == "" {
		return msgPasswordNull
	}
	if len(password) < 6 {
		return msgPasswordSize
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return msgPasswordPattern
	}
	return ""
}

func validateImage(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if !services.IsLessThan2MB(data) {
		return msgImageSize
	}
	if !services.IsSupportedImage(data) {
		return msgImageType
	}
	return ""
}
