package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/louisbranch/userdirectory/internal/platform/i18n/catalog"
	"github.com/louisbranch/userdirectory/internal/platform/timeouts"
	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/login/loginflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DirectoryClient performs the remote directory API calls behind the tools.
type DirectoryClient interface {
	Login(ctx context.Context, creds directoryapi.Credentials) (directoryapi.Token, error)
	ListUsers(ctx context.Context, token directoryapi.Token, page int) (directoryapi.Page, error)
	UpdateUser(ctx context.Context, token directoryapi.Token, user directoryapi.User) (directoryapi.User, error)
	DeleteUser(ctx context.Context, token directoryapi.Token, id int) error
}

var (
	// ErrNotSignedIn reports a directory tool call before directory_login.
	ErrNotSignedIn = errors.New("not signed in; call directory_login first")
	// ErrSuperseded reports a listing replaced by a newer page request.
	ErrSuperseded = errors.New("a newer page request replaced this listing")
)

// LoginInput represents the MCP tool input for signing in.
type LoginInput struct {
	Email    string `json:"email" jsonschema:"account email"`
	Password string `json:"password" jsonschema:"account password"`
}

// LoginResult represents the MCP tool output for signing in.
type LoginResult struct {
	SignedIn bool   `json:"signed_in" jsonschema:"whether a token is now held"`
	Email    string `json:"email" jsonschema:"signed-in email"`
	Message  string `json:"message" jsonschema:"confirmation message"`
}

// ListUsersInput represents the MCP tool input for listing a page.
type ListUsersInput struct {
	Page int `json:"page,omitempty" jsonschema:"page number, defaults to 1"`
}

// UserEntry is one directory record.
type UserEntry struct {
	ID        int    `json:"id" jsonschema:"user identifier"`
	Email     string `json:"email" jsonschema:"user email"`
	FirstName string `json:"first_name" jsonschema:"first name"`
	LastName  string `json:"last_name" jsonschema:"last name"`
	Avatar    string `json:"avatar,omitempty" jsonschema:"avatar image URL"`
}

// ListUsersResult represents the MCP tool output for listing a page.
type ListUsersResult struct {
	Page       int         `json:"page" jsonschema:"page that was loaded"`
	TotalPages int         `json:"total_pages" jsonschema:"number of pages reported by the API"`
	Users      []UserEntry `json:"users" jsonschema:"users on the page in server order"`
}

// UpdateUserInput represents the MCP tool input for editing a user.
type UpdateUserInput struct {
	ID        int    `json:"id" jsonschema:"user identifier from the last listed page"`
	FirstName string `json:"first_name" jsonschema:"new first name"`
	LastName  string `json:"last_name" jsonschema:"new last name"`
	Email     string `json:"email" jsonschema:"new email"`
}

// UpdateUserResult represents the MCP tool output for editing a user.
type UpdateUserResult struct {
	User    UserEntry `json:"user" jsonschema:"merged record"`
	Message string    `json:"message" jsonschema:"confirmation message"`
}

// DeleteUserInput represents the MCP tool input for deleting a user.
type DeleteUserInput struct {
	ID int `json:"id" jsonschema:"user identifier from the last listed page"`
}

// DeleteUserResult represents the MCP tool output for deleting a user.
type DeleteUserResult struct {
	ID      int    `json:"id" jsonschema:"deleted user identifier"`
	Deleted bool   `json:"deleted" jsonschema:"whether the user was removed"`
	Message string `json:"message" jsonschema:"confirmation message"`
}

// LoginTool defines the MCP tool schema for signing in.
func LoginTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "directory_login",
		Description: "Signs in to the user directory with email and password and keeps the token for later calls",
	}
}

// ListUsersTool defines the MCP tool schema for listing a page of users.
func ListUsersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "directory_list_users",
		Description: "Lists one page of users. Edits and deletes act on the last listed page",
	}
}

// UpdateUserTool defines the MCP tool schema for editing a user.
func UpdateUserTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "directory_update_user",
		Description: "Updates the first name, last name and email of a user on the last listed page",
	}
}

// DeleteUserTool defines the MCP tool schema for deleting a user.
func DeleteUserTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "directory_delete_user",
		Description: "Deletes a user on the last listed page. The call itself is the confirmation",
	}
}

// LoginHandler executes a sign-in.
func LoginHandler(client DirectoryClient, ws *Workspace, logger *log.Logger) mcp.ToolHandlerFor[LoginInput, LoginResult] {
	logger = loggerOrDefault(logger)
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LoginInput) (*mcp.CallToolResult, LoginResult, error) {
		call := newInvocation(ctx)
		defer call.cancel()

		creds := directoryapi.Credentials{Email: strings.TrimSpace(input.Email), Password: input.Password}
		state, err := loginflow.Reduce(loginflow.State{}, loginflow.Submitted{Credentials: creds})
		if err != nil {
			return nil, LoginResult{}, err
		}
		if state.Failing() {
			return nil, LoginResult{}, errors.New(message(state.ReasonKey))
		}

		token, err := client.Login(call.ctx, creds)
		if err != nil {
			serverMessage, _ := directoryapi.ServerMessage(err)
			state, _ = loginflow.Reduce(state, loginflow.Failed{ServerMessage: serverMessage})
			logger.Printf("mcp login failed invocation_id=%s upstream_status=%d err=%v", call.id, directoryapi.StatusCode(err), err)
			if state.ServerMessage != "" {
				return nil, LoginResult{}, errors.New(state.ServerMessage)
			}
			return nil, LoginResult{}, errors.New(message(state.ReasonKey))
		}
		state, err = loginflow.Reduce(state, loginflow.Succeeded{Token: token})
		if err != nil {
			return nil, LoginResult{}, err
		}
		ws.SignIn(state.Token)
		return nil, LoginResult{SignedIn: true, Email: creds.Email, Message: message("web.login.notice_success")}, nil
	}
}

// ListUsersHandler loads one page into the workspace snapshot.
func ListUsersHandler(client DirectoryClient, ws *Workspace, logger *log.Logger) mcp.ToolHandlerFor[ListUsersInput, ListUsersResult] {
	logger = loggerOrDefault(logger)
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListUsersInput) (*mcp.CallToolResult, ListUsersResult, error) {
		call := newInvocation(ctx)
		defer call.cancel()

		token, err := requireToken(ws)
		if err != nil {
			return nil, ListUsersResult{}, err
		}
		page := input.Page
		if page == 0 {
			page = 1
		}
		requested, err := ws.apply(viewstate.PageRequested{Page: page})
		if err != nil {
			return nil, ListUsersResult{}, rejection(err)
		}
		seq := requested.FetchSeq

		result, err := client.ListUsers(call.ctx, token, page)
		if err != nil {
			logger.Printf("mcp list users failed invocation_id=%s page=%d status=%d err=%v", call.id, page, directoryapi.StatusCode(err), err)
			_, _ = ws.apply(viewstate.PageFailed{Seq: seq, Reason: viewstate.NoticeFetchFailed})
			return nil, ListUsersResult{}, failure(viewstate.NoticeFetchFailed, err)
		}
		state, err := ws.apply(viewstate.PageLoaded{Seq: seq, Page: viewstate.Page{TotalPages: result.TotalPages, Users: result.Data}})
		if errors.Is(err, viewstate.ErrStaleResponse) {
			return nil, ListUsersResult{}, ErrSuperseded
		}
		if err != nil {
			return nil, ListUsersResult{}, err
		}
		out := ListUsersResult{Page: state.CurrentPage, TotalPages: state.TotalPages, Users: make([]UserEntry, 0, len(state.Items))}
		for _, user := range state.Items {
			out.Users = append(out.Users, userEntry(user))
		}
		return nil, out, nil
	}
}

// UpdateUserHandler edits a user of the listed page.
func UpdateUserHandler(client DirectoryClient, ws *Workspace, logger *log.Logger) mcp.ToolHandlerFor[UpdateUserInput, UpdateUserResult] {
	logger = loggerOrDefault(logger)
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateUserInput) (*mcp.CallToolResult, UpdateUserResult, error) {
		call := newInvocation(ctx)
		defer call.cancel()

		token, err := requireToken(ws)
		if err != nil {
			return nil, UpdateUserResult{}, err
		}
		if _, err := ws.apply(viewstate.EditBegan{ID: input.ID}); err != nil {
			return nil, UpdateUserResult{}, rejection(err)
		}
		submitted, err := ws.apply(viewstate.EditSubmitted{Draft: viewstate.User{
			ID:        input.ID,
			FirstName: strings.TrimSpace(input.FirstName),
			LastName:  strings.TrimSpace(input.LastName),
			Email:     strings.TrimSpace(input.Email),
		}})
		if err != nil {
			// Each call opens its own draft, so a rejected one is closed.
			_, _ = ws.apply(viewstate.EditCanceled{ID: input.ID})
			return nil, UpdateUserResult{}, rejection(err)
		}
		draft := *submitted.Draft

		updated, err := client.UpdateUser(call.ctx, token, draft)
		if err != nil {
			logger.Printf("mcp update user failed invocation_id=%s user_id=%d status=%d err=%v", call.id, input.ID, directoryapi.StatusCode(err), err)
			_, _ = ws.apply(viewstate.EditFailed{ID: input.ID, Reason: failureReason(err)})
			_, _ = ws.apply(viewstate.EditCanceled{ID: input.ID})
			return nil, UpdateUserResult{}, failure(viewstate.NoticeUpdateFailed, err)
		}
		merged := draft.Merge(updated)
		if _, err := ws.apply(viewstate.EditSucceeded{ID: input.ID, User: merged}); err != nil {
			return nil, UpdateUserResult{}, err
		}
		return nil, UpdateUserResult{User: userEntry(merged), Message: message(viewstate.NoticeUpdated)}, nil
	}
}

// DeleteUserHandler deletes a user of the listed page.
func DeleteUserHandler(client DirectoryClient, ws *Workspace, logger *log.Logger) mcp.ToolHandlerFor[DeleteUserInput, DeleteUserResult] {
	logger = loggerOrDefault(logger)
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DeleteUserInput) (*mcp.CallToolResult, DeleteUserResult, error) {
		call := newInvocation(ctx)
		defer call.cancel()

		token, err := requireToken(ws)
		if err != nil {
			return nil, DeleteUserResult{}, err
		}
		if _, err := ws.apply(viewstate.DeleteRequested{ID: input.ID}); err != nil {
			return nil, DeleteUserResult{}, rejection(err)
		}
		if _, err := ws.apply(viewstate.DeleteConfirmed{ID: input.ID}); err != nil {
			return nil, DeleteUserResult{}, rejection(err)
		}

		if err := client.DeleteUser(call.ctx, token, input.ID); err != nil {
			logger.Printf("mcp delete user failed invocation_id=%s user_id=%d status=%d err=%v", call.id, input.ID, directoryapi.StatusCode(err), err)
			_, _ = ws.apply(viewstate.DeleteFailed{ID: input.ID, Reason: failureReason(err)})
			return nil, DeleteUserResult{}, failure(viewstate.NoticeDeleteFailed, err)
		}
		if _, err := ws.apply(viewstate.DeleteSucceeded{ID: input.ID}); err != nil {
			return nil, DeleteUserResult{}, err
		}
		return nil, DeleteUserResult{ID: input.ID, Deleted: true, Message: message(viewstate.NoticeDeleted)}, nil
	}
}

type invocation struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
}

func newInvocation(ctx context.Context) invocation {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithTimeout(ctx, timeouts.UpstreamRequest)
	return invocation{id: "mcp-" + uuid.NewString(), ctx: runCtx, cancel: cancel}
}

func requireToken(ws *Workspace) (directoryapi.Token, error) {
	if ws == nil {
		return "", ErrNotSignedIn
	}
	token := ws.Token()
	if strings.TrimSpace(string(token)) == "" {
		return "", ErrNotSignedIn
	}
	return token, nil
}

// rejection maps a reducer rejection to the message the web surface shows.
func rejection(err error) error {
	var key string
	switch {
	case errors.Is(err, viewstate.ErrDraftInvalid):
		key = "web.directory.error_draft_invalid"
	case errors.Is(err, viewstate.ErrInvalidPage):
		key = "web.directory.error_invalid_page"
	case errors.Is(err, viewstate.ErrUnknownUser):
		key = "web.directory.error_unknown_user"
	case errors.Is(err, viewstate.ErrEditInProgress):
		key = "web.directory.error_edit_in_progress"
	case errors.Is(err, viewstate.ErrNotConfirmed):
		key = "web.directory.error_not_confirmed"
	case errors.Is(err, viewstate.ErrActionInFlight), errors.Is(err, viewstate.ErrNoDraft):
		key = "web.directory.error_busy"
	default:
		return err
	}
	return fmt.Errorf("%s: %w", message(key), err)
}

func failure(key string, err error) error {
	return fmt.Errorf("%s (%s): %w", message(key), failureReason(err), err)
}

func failureReason(err error) string {
	if code := directoryapi.StatusCode(err); code != 0 {
		return "status " + strconv.Itoa(code)
	}
	return "request failed"
}

func message(key string) string {
	if text, ok := catalog.Default().Message(catalog.BaseLocale, key); ok {
		return text
	}
	return key
}

func userEntry(user directoryapi.User) UserEntry {
	return UserEntry{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
	}
}

func loggerOrDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}
