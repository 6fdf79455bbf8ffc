package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/userdirectory/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const testToken = "QpwL5tke4Pnpja7X4"

func startUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/login" {
			var body struct {
				Email string `json:"email"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Email != "eve.holt@reqres.in" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":"user not found"}`)
				return
			}
			_, _ = io.WriteString(w, `{"token":"`+testToken+`"}`)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"page":1,"per_page":6,"total":2,"total_pages":1,"data":[`+
			`{"id":1,"email":"george.bluth@reqres.in","first_name":"George","last_name":"Bluth","avatar":"https://reqres.in/img/faces/1-image.jpg"},`+
			`{"id":2,"email":"janet.weaver@reqres.in","first_name":"Janet","last_name":"Weaver","avatar":"https://reqres.in/img/faces/2-image.jpg"}]}`)
	}))
	t.Cleanup(upstream.Close)
	return upstream
}

func connect(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer connectCancel()
	session, err := client.Connect(connectCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func decodeStructuredContent[T any](t *testing.T, value any) T {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestNewServerRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := newServer(nil, "", nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestNewRequiresAPIBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing api base url")
	}
}

func TestServeWithTransportStopsOnCancel(t *testing.T) {
	t.Parallel()

	server, err := New(Config{APIBaseURL: "https://reqres.in"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeWithTransportRequiresServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.serveWithTransport(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil server")
	}
}

func TestServerListsDirectoryTools(t *testing.T) {
	t.Parallel()

	server, err := New(Config{APIBaseURL: startUpstream(t).URL})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connect(t, server)

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	slices.Sort(names)
	want := []string{"directory_delete_user", "directory_list_users", "directory_login", "directory_update_user"}
	if !slices.Equal(names, want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
}

func TestServerLoginThenListUsers(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	server, err := New(Config{APIBaseURL: startUpstream(t).URL, Logger: log.New(logs, "", 0)})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connect(t, server)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "directory_list_users", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call list before login: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(result), "directory_login") {
		t.Fatalf("list before login = %+v", result)
	}

	result, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "directory_login",
		Arguments: map[string]any{"email": "eve.holt@reqres.in", "password": "cityslicka"},
	})
	if err != nil {
		t.Fatalf("call login: %v", err)
	}
	if result.IsError {
		t.Fatalf("login failed: %s", resultText(result))
	}
	login := decodeStructuredContent[domain.LoginResult](t, result.StructuredContent)
	if !login.SignedIn || login.Message != "Login Successful!" {
		t.Fatalf("login result = %+v", login)
	}

	result, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "directory_list_users", Arguments: map[string]any{"page": 1}})
	if err != nil {
		t.Fatalf("call list: %v", err)
	}
	if result.IsError {
		t.Fatalf("list failed: %s", resultText(result))
	}
	page := decodeStructuredContent[domain.ListUsersResult](t, result.StructuredContent)
	if page.Page != 1 || len(page.Users) != 2 || page.Users[1].Email != "janet.weaver@reqres.in" {
		t.Fatalf("page = %+v", page)
	}
	if server.workspace.Token() != testToken {
		t.Fatalf("workspace token = %q", server.workspace.Token())
	}
}

func TestServerLoginRejectionShowsServerMessage(t *testing.T) {
	t.Parallel()

	server, err := New(Config{APIBaseURL: startUpstream(t).URL, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connect(t, server)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "directory_login",
		Arguments: map[string]any{"email": "nobody@reqres.in", "password": "x"},
	})
	if err != nil {
		t.Fatalf("call login: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(result), "user not found") {
		t.Fatalf("login rejection = %+v", result)
	}
}

func TestServerPreloadedTokenSkipsLogin(t *testing.T) {
	t.Parallel()

	server, err := New(Config{APIBaseURL: startUpstream(t).URL, Token: " " + testToken + " "})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connect(t, server)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "directory_list_users", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call list: %v", err)
	}
	if result.IsError {
		t.Fatalf("list failed: %s", resultText(result))
	}
}
