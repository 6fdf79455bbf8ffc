package login

import (
	"context"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	apperrors "github.com/louisbranch/userdirectory/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) Login(context.Context, directoryapi.Credentials) (directoryapi.Token, error) {
	return "", apperrors.E(apperrors.KindUnavailable, "directory api is not configured")
}
