package routepath

import "testing"

func TestTopLevelRouteConstants(t *testing.T) {
	t.Parallel()

	if Login != "/login" || Logout != "/logout" || Health != "/up" {
		t.Fatalf("unexpected public routes: %q %q %q", Login, Logout, Health)
	}
	if AppUsers != "/app/users" || UsersPrefix != "/app/users/" {
		t.Fatalf("unexpected directory routes: %q %q", AppUsers, UsersPrefix)
	}
}

func TestUserRouteBuilders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		got  string
		want string
	}{
		{got: AppUsersPage(1), want: "/app/users"},
		{got: AppUsersPage(0), want: "/app/users"},
		{got: AppUsersPage(2), want: "/app/users?page=2"},
		{got: AppUser(42), want: "/app/users/42"},
		{got: AppUserEdit(42), want: "/app/users/42/edit"},
		{got: AppUserCancel(42), want: "/app/users/42/cancel"},
		{got: AppUserDelete(7), want: "/app/users/7/delete"},
		{got: AppUserDeleteConfirm(7), want: "/app/users/7/delete/confirm"},
		{got: AppUserDeleteDismiss(7), want: "/app/users/7/delete/dismiss"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("route = %q, want %q", tc.got, tc.want)
		}
	}
}
