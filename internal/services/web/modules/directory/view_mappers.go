package directory

import (
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
	webtemplates "github.com/louisbranch/userdirectory/internal/services/web/templates"
)

// overlay carries render-only data of one response that never enters the
// stored snapshot: the message of a rejected action and the values a user
// typed into a rejected draft.
type overlay struct {
	noticeKey string
	draft     *editForm
}

func directoryView(state viewstate.State, extra overlay) webtemplates.DirectoryView {
	view := viewstate.BuildView(state)
	out := webtemplates.DirectoryView{
		CurrentPage:  view.CurrentPage,
		Busy:         view.Busy,
		LoadErrorKey: view.LoadError,
		EditOpen:     view.EditOpen,
		Cards:        make([]webtemplates.UserCard, 0, len(view.Cards)),
		Pages:        make([]webtemplates.PageButton, 0, len(view.Pages)),
	}
	for _, card := range view.Cards {
		out.Cards = append(out.Cards, userCardView(card, extra.draft))
	}
	for _, page := range view.Pages {
		out.Pages = append(out.Pages, webtemplates.PageButton{Number: page.Number, Active: page.Active})
	}
	switch {
	case extra.noticeKey != "":
		out.Notice = &webtemplates.DirectoryNotice{Kind: string(viewstate.NoticeError), Key: extra.noticeKey}
	case view.Notice != nil:
		out.Notice = &webtemplates.DirectoryNotice{Kind: string(view.Notice.Kind), Key: view.Notice.Key}
	}
	return out
}

func userCardView(card viewstate.Card, typed *editForm) webtemplates.UserCard {
	out := webtemplates.UserCard{
		ID:         card.User.ID,
		FullName:   card.User.FullName(),
		Email:      card.User.Email,
		Avatar:     card.User.Avatar,
		Editing:    card.Editing,
		Saving:     card.Saving,
		Confirming: card.Confirming,
		Deleting:   card.Deleting,
	}
	if !card.Editing {
		return out
	}
	out.Draft = webtemplates.UserDraft{
		FirstName: card.Draft.FirstName,
		LastName:  card.Draft.LastName,
		Email:     card.Draft.Email,
	}
	if typed != nil {
		out.Draft = webtemplates.UserDraft{FirstName: typed.FirstName, LastName: typed.LastName, Email: typed.Email}
	}
	return out
}
