package modules

import (
	"testing"

	module "github.com/louisbranch/userdirectory/internal/services/web/module"
)

func TestDefaultModulesGroups(t *testing.T) {
	t.Parallel()

	reg := DefaultModules(Dependencies{})
	if len(reg.Public) != 1 || reg.Public[0].ID() != "login" {
		t.Fatalf("public modules = %v", moduleIDs(reg.Public))
	}
	if len(reg.Protected) != 1 || reg.Protected[0].ID() != "directory" {
		t.Fatalf("protected modules = %v", moduleIDs(reg.Protected))
	}
}

func TestDefaultModulesHaveUniquePrefixes(t *testing.T) {
	t.Parallel()

	reg := DefaultModules(Dependencies{})
	seen := map[string]string{}
	for _, m := range append(append([]Module{}, reg.Public...), reg.Protected...) {
		mount, err := m.Mount()
		if err != nil {
			t.Fatalf("Mount(%s) error = %v", m.ID(), err)
		}
		if owner, ok := seen[mount.Prefix]; ok {
			t.Fatalf("prefix %q shared by %s and %s", mount.Prefix, owner, m.ID())
		}
		seen[mount.Prefix] = m.ID()
	}
}

func TestDefaultModulesDegradeWithoutGateways(t *testing.T) {
	t.Parallel()

	reg := DefaultModules(Dependencies{})
	for _, m := range append(append([]Module{}, reg.Public...), reg.Protected...) {
		reporter, ok := m.(module.HealthReporter)
		if !ok {
			t.Fatalf("module %s does not report health", m.ID())
		}
		if reporter.Healthy() {
			t.Fatalf("module %s healthy without gateways", m.ID())
		}
	}
}

func moduleIDs(items []Module) []string {
	ids := make([]string, 0, len(items))
	for _, m := range items {
		ids = append(ids, m.ID())
	}
	return ids
}
