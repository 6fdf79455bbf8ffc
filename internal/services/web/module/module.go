// Package module defines the feature contract used by web composition.
package module

import "net/http"

// Viewer contains the app chrome data for a request.
type Viewer struct {
	Email    string
	SignedIn bool
}

// ResolveViewer resolves app chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is implemented by modules that can report whether their
// upstream dependencies are configured.
type HealthReporter interface {
	Healthy() bool
}
