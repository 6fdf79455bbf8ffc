package directoryapi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmailRequired reports a login attempt without an email.
	ErrEmailRequired = errors.New("email is required")
	// ErrPasswordRequired reports a login attempt without a password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrEmptyToken reports a successful login response that carried no token.
	ErrEmptyToken = errors.New("login response carried no token")
	// ErrInvalidPage reports a page number below 1.
	ErrInvalidPage = errors.New("page must be a positive integer")
	// ErrInvalidUserID reports a user id below 1.
	ErrInvalidUserID = errors.New("user id must be a positive integer")
)

// Credentials is the email and password pair exchanged for a token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks both fields are present. The returned error joins one
// sentinel per missing field.
func (c Credentials) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if strings.TrimSpace(c.Password) == "" {
		errs = append(errs, ErrPasswordRequired)
	}
	return errors.Join(errs...)
}

// Token is the opaque bearer credential issued at login.
type Token string

// User is one directory record.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar,omitempty"`
}

// FullName joins the first and last names.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Merge returns u with every non-empty field of patch applied over it.
// The id of u is kept.
func (u User) Merge(patch User) User {
	if patch.Email != "" {
		u.Email = patch.Email
	}
	if patch.FirstName != "" {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		u.LastName = patch.LastName
	}
	if patch.Avatar != "" {
		u.Avatar = patch.Avatar
	}
	return u
}

// Page is one page of the user listing.
type Page struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
	Data       []User `json:"data"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	// Message is the server-supplied error field, empty when absent.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("directoryapi %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("directoryapi %s: status %d", e.Op, e.StatusCode)
}

// ServerMessage returns the server-supplied error message carried by err.
func ServerMessage(err error) (string, bool) {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return "", false
	}
	msg := strings.TrimSpace(statusErr.Message)
	return msg, msg != ""
}

// StatusCode returns the upstream HTTP status carried by err, or 0 for
// transport failures.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
