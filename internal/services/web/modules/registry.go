package modules

import (
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/login"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/publichandler"
)

// Registry groups the composed modules by access level.
type Registry struct {
	Public    []Module
	Protected []Module
}

// DefaultModules returns the public and protected web modules. Signing out
// through the login module drops the directory snapshot of that session.
func DefaultModules(deps Dependencies) Registry {
	users := directory.New(
		directory.WithGateway(deps.DirectoryGateway),
		directory.WithBase(modulehandler.NewBase(deps.ResolveViewer, deps.Flash)),
		directory.WithLogger(deps.Logger),
	)
	signIn := login.New(
		login.WithGateway(deps.AuthGateway),
		login.WithSessions(deps.Sessions),
		login.WithBase(publichandler.NewBase(
			publichandler.WithResolveViewer(deps.ResolveViewer),
			publichandler.WithFlash(deps.Flash),
		)),
		login.WithLogoutHook(users.DropSession),
		login.WithLogger(deps.Logger),
	)
	return Registry{
		Public:    []Module{signIn},
		Protected: []Module{users},
	}
}
