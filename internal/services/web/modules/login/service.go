package login

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/login/loginflow"
	webstorage "github.com/louisbranch/userdirectory/internal/services/web/storage"
	"golang.org/x/sync/singleflight"
)

// AuthGateway exchanges credentials for a directory API token.
type AuthGateway interface {
	Login(ctx context.Context, creds directoryapi.Credentials) (directoryapi.Token, error)
}

// Sessions creates and destroys browser sessions carrying the token.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, r *http.Request, token string, email string) (webstorage.Session, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error)
}

// outcome is the resolved sign-in attempt and the HTTP status that renders it.
type outcome struct {
	state  loginflow.State
	status int
}

type service struct {
	gateway AuthGateway
	group   *singleflight.Group
	logger  *log.Logger
}

func newService(gateway AuthGateway, logger *log.Logger) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return service{gateway: gateway, group: &singleflight.Group{}, logger: logger}
}

// submit runs one sign-in attempt. Concurrent attempts with the same
// credentials share a single upstream request.
func (s service) submit(ctx context.Context, creds directoryapi.Credentials) outcome {
	state, err := loginflow.Reduce(loginflow.State{}, loginflow.Submitted{Credentials: creds})
	if err != nil {
		return outcome{state: state, status: http.StatusConflict}
	}
	if state.Phase == loginflow.PhaseFailed {
		return outcome{state: state, status: http.StatusBadRequest}
	}

	// The shared call outlives the cancellation of whichever request started it.
	shared := context.WithoutCancel(ctx)
	value, err, _ := s.group.Do(credentialKey(creds), func() (any, error) {
		return s.gateway.Login(shared, creds)
	})
	if err != nil {
		status := http.StatusBadGateway
		if code := directoryapi.StatusCode(err); code != 0 {
			status = http.StatusUnauthorized
		}
		s.logger.Printf("login failed upstream_status=%d err=%v", directoryapi.StatusCode(err), err)
		message, _ := directoryapi.ServerMessage(err)
		failed, _ := loginflow.Reduce(state, loginflow.Failed{ServerMessage: message})
		return outcome{state: failed, status: status}
	}
	token, _ := value.(directoryapi.Token)
	if token == "" {
		failed, _ := loginflow.Reduce(state, loginflow.Failed{})
		return outcome{state: failed, status: http.StatusBadGateway}
	}
	succeeded, _ := loginflow.Reduce(state, loginflow.Succeeded{Token: token})
	return outcome{state: succeeded, status: http.StatusOK}
}

func credentialKey(creds directoryapi.Credentials) string {
	sum := sha256.Sum256([]byte(creds.Email + "\x00" + creds.Password))
	return hex.EncodeToString(sum[:])
}
