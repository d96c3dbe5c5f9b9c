package service

import (
	"net/mail"
	"regexp"

	"reviewhub/internal/api/models"
)

// "me" is the self endpoint alias under /users and can never be a username.
const reservedUsername = "me"

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func validateUsername(username string) error {
	if username == reservedUsername {
		return ErrUsernameReserved
	}
	if !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// validateEmail requires a bare address; display names ("A <a@b.c>") are not
// accepted. 254 matches the column size.
func validateEmail(email string) error {
	if email == "" || len(email) > 254 {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validateSlug(slug string) error {
	if !slugRe.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

func validateRole(role string) error {
	switch role {
	case models.RoleUser, models.RoleModerator, models.RoleAdmin:
		return nil
	}
	return ErrInvalidRole
}
