package directory

import (
	"net/http"

	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppUsers, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.UsersPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUserEditPattern, h.handleEdit)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUserPattern, h.handleUpdate)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUserCancelPattern, h.handleCancel)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUserDeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUserDeleteConfirmPattern, h.handleDeleteConfirm)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUserDeleteDismissPattern, h.handleDeleteDismiss)
	mux.HandleFunc(http.MethodPost+" "+routepath.AppUsersNoticeDismiss, h.handleNoticeDismiss)
}
