package templates

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	_ "github.com/louisbranch/userdirectory/internal/platform/i18n/catalog"
)

func TestT_NilLocalizer(t *testing.T) {
	t.Parallel()

	got := T(nil, "some.key")
	if got != "some.key" {
		t.Fatalf("T(nil, ...) = %q, want %q", got, "some.key")
	}
}

func TestT_NilLocalizerNonStringKey(t *testing.T) {
	t.Parallel()

	got := T(nil, 42)
	if got != "" {
		t.Fatalf("T(nil, 42) = %q, want empty", got)
	}
}

func TestT_NilLocalizerFormatsArgs(t *testing.T) {
	t.Parallel()

	got := T(nil, "Page %d", 2)
	if got != "Page 2" {
		t.Fatalf("T(nil, format) = %q, want %q", got, "Page 2")
	}
}

func TestT_CatalogPrinter(t *testing.T) {
	t.Parallel()

	loc := message.NewPrinter(language.AmericanEnglish)
	if got := T(loc, "web.directory.error_fetch"); got != "Failed to fetch users. Please try again." {
		t.Fatalf("T(en-US) = %q", got)
	}
	loc = message.NewPrinter(language.BrazilianPortuguese)
	if got := T(loc, "web.directory.pager_page", 3); got == "web.directory.pager_page" {
		t.Fatalf("expected pt-BR translation, got key %q", got)
	}
}
