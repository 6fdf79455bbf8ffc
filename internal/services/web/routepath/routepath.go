// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
)

const (
	Root         = "/"
	Login        = "/login"
	Logout       = "/logout"
	Health       = "/up"
	StaticPrefix = "/static/"
	AppPrefix    = "/app/"

	AppUsers                    = "/app/users"
	UsersPrefix                 = "/app/users/"
	AppUserEditPattern          = UsersPrefix + "{id}/edit"
	AppUserPattern              = UsersPrefix + "{id}"
	AppUserCancelPattern        = UsersPrefix + "{id}/cancel"
	AppUserDeletePattern        = UsersPrefix + "{id}/delete"
	AppUserDeleteConfirmPattern = UsersPrefix + "{id}/delete/confirm"
	AppUserDeleteDismissPattern = UsersPrefix + "{id}/delete/dismiss"
	AppUsersNoticeDismiss       = UsersPrefix + "notice/dismiss"

	PageQueryKey = "page"
)

// AppUsersPage returns the directory route for a page. Page 1 has no query.
func AppUsersPage(page int) string {
	if page <= 1 {
		return AppUsers
	}
	return AppUsers + "?" + url.Values{PageQueryKey: {strconv.Itoa(page)}}.Encode()
}

// AppUser returns the user update route.
func AppUser(id int) string {
	return UsersPrefix + strconv.Itoa(id)
}

// AppUserEdit returns the inline edit form route.
func AppUserEdit(id int) string {
	return AppUser(id) + "/edit"
}

// AppUserCancel returns the edit cancel route.
func AppUserCancel(id int) string {
	return AppUser(id) + "/cancel"
}

// AppUserDelete returns the delete confirmation request route.
func AppUserDelete(id int) string {
	return AppUser(id) + "/delete"
}

// AppUserDeleteConfirm returns the confirmed delete route.
func AppUserDeleteConfirm(id int) string {
	return AppUserDelete(id) + "/confirm"
}

// AppUserDeleteDismiss returns the delete confirmation dismiss route.
func AppUserDeleteDismiss(id int) string {
	return AppUserDelete(id) + "/dismiss"
}
