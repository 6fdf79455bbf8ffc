package login

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/login/loginflow"
)

var eve = directoryapi.Credentials{Email: "eve.holt@reqres.in", Password: "cityslicka"}

func TestSubmitMissingFieldsSendsNoRequest(t *testing.T) {
	t.Parallel()

	gw := &fakeAuthGateway{token: "t"}
	svc := newService(gw, log.New(&bytes.Buffer{}, "", 0))
	got := svc.submit(context.Background(), directoryapi.Credentials{Email: "eve.holt@reqres.in"})
	if got.status != http.StatusBadRequest || got.state.ReasonKey != loginflow.ReasonPasswordRequired {
		t.Fatalf("submit() = %+v", got)
	}
	if gw.callCount() != 0 {
		t.Fatalf("calls = %d, want 0", gw.callCount())
	}
}

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	gw := &fakeAuthGateway{token: "QpwL5tke4Pnpja7X4"}
	got := newService(gw, nil).submit(context.Background(), eve)
	if got.status != http.StatusOK || got.state.Phase != loginflow.PhaseSucceeded || got.state.Token != "QpwL5tke4Pnpja7X4" {
		t.Fatalf("submit() = %+v", got)
	}
}

func TestSubmitFailureClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		token       directoryapi.Token
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "upstream message",
			err:         &directoryapi.StatusError{Op: "login", StatusCode: 400, Message: "user not found"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "user not found",
		},
		{
			name:       "upstream without message",
			err:        &directoryapi.StatusError{Op: "login", StatusCode: 500},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "transport",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "empty token",
			wantStatus: http.StatusBadGateway,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			gw := &fakeAuthGateway{token: tc.token, err: tc.err}
			got := newService(gw, log.New(&logs, "", 0)).submit(context.Background(), eve)
			if got.status != tc.wantStatus {
				t.Fatalf("status = %d, want %d", got.status, tc.wantStatus)
			}
			if !got.state.Failing() || got.state.ServerMessage != tc.wantMessage || got.state.ReasonKey != loginflow.ReasonFallback {
				t.Fatalf("state = %+v", got.state)
			}
			if got.state.Credentials != eve {
				t.Fatalf("credentials = %+v, want kept", got.state.Credentials)
			}
			if tc.err != nil && !strings.Contains(logs.String(), "login failed") {
				t.Fatalf("logs = %q", logs.String())
			}
		})
	}
}

func TestSubmitCoalescesDuplicateCredentials(t *testing.T) {
	t.Parallel()

	gw := &fakeAuthGateway{
		token:   "QpwL5tke4Pnpja7X4",
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
	svc := newService(gw, nil)

	const callers = 4
	results := make([]outcome, callers)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0] = svc.submit(context.Background(), eve)
	}()
	<-gw.entered
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.submit(context.Background(), eve)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gw.release)
	wg.Wait()

	if gw.callCount() != 1 {
		t.Fatalf("upstream calls = %d, want 1", gw.callCount())
	}
	for i, got := range results {
		if got.state.Phase != loginflow.PhaseSucceeded {
			t.Fatalf("results[%d] = %+v", i, got)
		}
	}
}

func TestSubmitDoesNotCoalesceDifferentCredentials(t *testing.T) {
	t.Parallel()

	gw := &fakeAuthGateway{token: "t"}
	svc := newService(gw, nil)
	svc.submit(context.Background(), eve)
	svc.submit(context.Background(), directoryapi.Credentials{Email: eve.Email, Password: "other"})
	if gw.callCount() != 2 {
		t.Fatalf("upstream calls = %d, want 2", gw.callCount())
	}
}

func TestNewServiceDefaultsToUnavailableGateway(t *testing.T) {
	t.Parallel()

	got := newService(nil, log.New(&bytes.Buffer{}, "", 0)).submit(context.Background(), eve)
	if got.status != http.StatusBadGateway || !got.state.Failing() {
		t.Fatalf("submit() = %+v", got)
	}
}
