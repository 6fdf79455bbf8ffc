package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

const (
	directoryID        = "directory"
	directoryTarget    = "#" + directoryID
	directoryBusyID    = "directory-busy"
	pageIndicatorClass = "htmx-indicator"
)

// DirectoryView is the render model of the user directory.
type DirectoryView struct {
	CurrentPage int
	// Busy replaces the grid with the loading indicator.
	Busy bool
	// LoadErrorKey is the localization key of a sticky fetch failure.
	LoadErrorKey string
	Cards        []UserCard
	Pages        []PageButton
	Notice       *DirectoryNotice
	// EditOpen disables the edit buttons of every other card.
	EditOpen bool
}

// DirectoryNotice is the single status message of the directory.
type DirectoryNotice struct {
	Kind string
	Key  string
}

// PageButton is one entry of the page selector.
type PageButton struct {
	Number int
	Active bool
}

// UserCard is the render model of one user record.
type UserCard struct {
	ID       int
	FullName string
	Email    string
	Avatar   string

	Editing bool
	Saving  bool
	Draft   UserDraft

	Confirming bool
	Deleting   bool
}

// UserDraft holds the values of the inline edit form.
type UserDraft struct {
	FirstName string
	LastName  string
	Email     string
}

// DirectoryPage renders the heading and the swappable directory section.
func DirectoryPage(view DirectoryView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<h1 class="page-title">`)
		h.text(T(loc, "web.directory.title"))
		h.raw("</h1>")
		h.render(ctx, Directory(view, loc))
		return h.err
	})
}

// Directory renders the section htmx requests swap in place.
func Directory(view DirectoryView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw("<section")
		h.attr("id", directoryID)
		h.attr("class", "directory")
		h.attr("data-page", itoa(view.CurrentPage))
		h.raw(">")

		if view.Notice != nil {
			renderDirectoryNotice(h, *view.Notice, loc)
		}

		switch {
		case view.LoadErrorKey != "":
			h.raw(`<div class="load-error" role="alert"><p>`)
			h.text(T(loc, view.LoadErrorKey))
			h.raw("</p><a")
			retry := routepath.AppUsersPage(view.CurrentPage)
			h.attr("href", retry)
			h.swapAttrs("get", retry, directoryTarget)
			h.attr("hx-indicator", directoryTarget)
			h.raw(">")
			h.text(T(loc, "web.directory.retry"))
			h.raw("</a></div>")
		case view.Busy:
			h.raw(`<div class="busy" aria-busy="true">`)
			h.text(T(loc, "web.directory.loading"))
			h.raw("</div>")
		case len(view.Cards) == 0:
			h.raw(`<p class="empty">`)
			h.text(T(loc, "web.directory.empty"))
			h.raw("</p>")
		default:
			h.raw(`<ul class="user-grid">`)
			for _, card := range view.Cards {
				if card.Editing {
					renderEditForm(h, card, loc)
					continue
				}
				renderUserCard(h, card, view.EditOpen, loc)
			}
			h.raw("</ul>")
		}

		// htmx shows this while a page fetch is in flight; the stylesheet hides
		// the grid for as long as the section carries htmx-request.
		h.raw("<div")
		h.attr("id", directoryBusyID)
		h.attr("class", pageIndicatorClass+" directory-loading")
		h.raw(` aria-hidden="true">`)
		h.text(T(loc, "web.directory.loading"))
		h.raw("</div>")

		renderPager(h, view.Pages, view.EditOpen, loc)
		h.raw("</section>")
		return h.err
	})
}

func renderDirectoryNotice(h *htmlWriter, notice DirectoryNotice, loc Localizer) {
	h.raw(`<div role="status"`)
	h.attr("class", "notice notice-"+kindClass(notice.Kind))
	h.raw("><span>")
	h.text(T(loc, notice.Key))
	h.raw("</span>")
	postButton(h, routepath.AppUsersNoticeDismiss, T(loc, "web.layout.dismiss"), "dismiss")
	h.raw("</div>")
}

func renderUserCard(h *htmlWriter, card UserCard, editOpen bool, loc Localizer) {
	h.raw("<li")
	h.attr("id", cardID(card.ID))
	h.attr("class", "user-card")
	h.attr("data-user-id", itoa(card.ID))
	h.raw(">")
	if card.Avatar != "" {
		h.raw(`<img class="avatar" width="96" height="96" loading="lazy"`)
		h.attr("src", string(templ.URL(card.Avatar)))
		h.attr("alt", card.FullName)
		h.raw(">")
	}
	h.raw(`<h2 class="name">`)
	h.text(card.FullName)
	h.raw(`</h2><p class="email">`)
	h.text(card.Email)
	h.raw("</p>")

	switch {
	case card.Deleting:
		h.raw(`<p class="pending" aria-busy="true">`)
		h.text(T(loc, "web.directory.deleting"))
		h.raw("</p>")
	case card.Confirming:
		h.raw(`<div class="confirm" role="alertdialog"><p>`)
		h.text(T(loc, "web.directory.confirm_prompt", card.FullName))
		h.raw("</p>")
		postButton(h, routepath.AppUserDeleteConfirm(card.ID), T(loc, "web.directory.confirm_yes"), "danger")
		postButton(h, routepath.AppUserDeleteDismiss(card.ID), T(loc, "web.directory.confirm_no"), "secondary")
		h.raw("</div>")
	default:
		h.raw(`<div class="actions">`)
		if editOpen {
			h.raw(`<button type="button" disabled aria-disabled="true">`)
			h.text(T(loc, "web.directory.card_edit"))
			h.raw("</button>")
		} else {
			postButton(h, routepath.AppUserEdit(card.ID), T(loc, "web.directory.card_edit"), "secondary")
		}
		postButton(h, routepath.AppUserDelete(card.ID), T(loc, "web.directory.card_delete"), "danger")
		h.raw("</div>")
	}
	h.raw("</li>")
}

func renderEditForm(h *htmlWriter, card UserCard, loc Localizer) {
	indicator := cardID(card.ID) + "-saving"
	update := routepath.AppUser(card.ID)
	cancel := routepath.AppUserCancel(card.ID)

	h.raw("<li")
	h.attr("id", cardID(card.ID))
	h.attr("class", "user-card editing")
	h.attr("data-user-id", itoa(card.ID))
	h.raw("><form")
	h.attr("class", "edit-form")
	h.attr("method", "post")
	h.attr("action", update)
	h.swapAttrs("post", update, directoryTarget)
	h.attr("hx-disabled-elt", "find button")
	h.attr("hx-indicator", "#"+indicator)
	h.raw(">")
	editField(h, card.ID, "first_name", T(loc, "web.directory.form_first_name"), "text", card.Draft.FirstName, card.Saving)
	editField(h, card.ID, "last_name", T(loc, "web.directory.form_last_name"), "text", card.Draft.LastName, card.Saving)
	editField(h, card.ID, "email", T(loc, "web.directory.form_email"), "email", card.Draft.Email, card.Saving)
	h.raw(`<div class="actions"><button type="submit" class="primary"`)
	h.flag("disabled", card.Saving)
	h.raw(">")
	h.text(T(loc, "web.directory.form_save"))
	h.raw(`</button><button type="submit" class="secondary" formnovalidate`)
	h.attr("formaction", cancel)
	h.attr("hx-post", cancel)
	h.flag("disabled", card.Saving)
	h.raw(">")
	h.text(T(loc, "web.directory.form_cancel"))
	h.raw("</button><span")
	h.attr("id", indicator)
	if card.Saving {
		h.attr("class", pageIndicatorClass+" busy")
	} else {
		h.attr("class", pageIndicatorClass)
	}
	h.raw(">")
	h.text(T(loc, "web.directory.form_saving"))
	h.raw("</span></div></form></li>")
}

func editField(h *htmlWriter, userID int, name, label, kind, value string, disabled bool) {
	id := cardID(userID) + "-" + name
	h.raw("<label")
	h.attr("for", id)
	h.raw(">")
	h.text(label)
	h.raw("</label><input required")
	h.attr("id", id)
	h.attr("name", name)
	h.attr("type", kind)
	h.attr("value", value)
	h.flag("disabled", disabled)
	h.raw(">")
}

// renderPager writes the page selector. While an edit is open the grid stays
// visible during a page fetch, so only the loading text is indicated.
func renderPager(h *htmlWriter, pages []PageButton, editOpen bool, loc Localizer) {
	if len(pages) == 0 {
		return
	}
	indicator := directoryTarget
	if editOpen {
		indicator = "#" + directoryBusyID
	}
	h.raw(`<nav class="pager"`)
	h.attr("aria-label", T(loc, "web.directory.pager_label"))
	h.raw("><ol>")
	for _, page := range pages {
		href := routepath.AppUsersPage(page.Number)
		h.raw("<li><a")
		if page.Active {
			h.attr("class", "page-button active")
			h.attr("aria-current", "page")
		} else {
			h.attr("class", "page-button")
		}
		h.attr("href", href)
		h.swapAttrs("get", href, directoryTarget)
		h.attr("hx-push-url", "true")
		h.attr("hx-indicator", indicator)
		h.attr("aria-label", T(loc, "web.directory.pager_page", page.Number))
		h.raw(">")
		h.text(itoa(page.Number))
		h.raw("</a></li>")
	}
	h.raw("</ol></nav>")
}

// postButton renders a one-button form that htmx posts to swap the directory.
func postButton(h *htmlWriter, action, label, class string) {
	h.raw(`<form class="inline" method="post"`)
	h.attr("action", action)
	h.swapAttrs("post", action, directoryTarget)
	h.attr("hx-disabled-elt", "find button")
	h.raw("><button type=\"submit\"")
	h.attr("class", class)
	h.raw(">")
	h.text(label)
	h.raw("</button></form>")
}

func cardID(id int) string {
	return "user-" + itoa(id)
}
