package directory

import (
	"context"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	apperrors "github.com/louisbranch/userdirectory/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) ListUsers(context.Context, directoryapi.Token, int) (directoryapi.Page, error) {
	return directoryapi.Page{}, apperrors.E(apperrors.KindUnavailable, "directory api is not configured")
}

func (unavailableGateway) UpdateUser(context.Context, directoryapi.Token, directoryapi.User) (directoryapi.User, error) {
	return directoryapi.User{}, apperrors.E(apperrors.KindUnavailable, "directory api is not configured")
}

func (unavailableGateway) DeleteUser(context.Context, directoryapi.Token, int) error {
	return apperrors.E(apperrors.KindUnavailable, "directory api is not configured")
}
