// Package modules defines web module registry helpers.
package modules

import (
	"log"

	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/login"
	flashnotice "github.com/louisbranch/userdirectory/internal/services/web/platform/flash"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the gateways and shared request seams required to
// compose the web module registry. Each gateway field is typed as the narrow
// interface defined by the consuming module.
type Dependencies struct {
	// AuthGateway exchanges credentials for a token.
	AuthGateway login.AuthGateway
	// DirectoryGateway lists, updates and deletes users.
	DirectoryGateway directory.DirectoryGateway
	Sessions         login.Sessions

	ResolveViewer module.ResolveViewer
	Flash         flashnotice.Writer
	Logger        *log.Logger
}
