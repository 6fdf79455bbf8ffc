package viewstate

// View is the render model derived from a State.
type View struct {
	CurrentPage int
	TotalPages  int
	// Busy replaces the grid with a loading indicator.
	Busy bool
	// LoadError is the sticky fetch failure rendered instead of the grid.
	LoadError string
	Cards     []Card
	Pages     []PageButton
	Notice    *Notice
	EditOpen  bool
}

// Card is one record with its per-item action flags.
type Card struct {
	User       User
	Editing    bool
	Saving     bool
	Draft      User
	Confirming bool
	Deleting   bool
}

// PageButton is one entry of the page selector.
type PageButton struct {
	Number int
	Active bool
}

// BuildView derives the render model of s. The busy indicator shows while a
// fetch is pending and no draft is open; otherwise the grid stays visible.
func BuildView(s State) View {
	view := View{
		CurrentPage: s.CurrentPage,
		TotalPages:  s.TotalPages,
		Busy:        s.Fetch.IsPending() && s.Draft == nil,
		LoadError:   s.LoadError,
		EditOpen:    s.Draft != nil,
	}
	if s.Notice != nil {
		notice := *s.Notice
		view.Notice = &notice
	}
	view.Cards = make([]Card, 0, len(s.Items))
	for _, user := range s.Items {
		card := Card{
			User:       user,
			Confirming: s.ConfirmDelete == user.ID,
			Deleting:   s.DeleteStatus(user.ID).IsPending(),
		}
		if s.Draft != nil && s.Draft.ID == user.ID {
			card.Editing = true
			card.Saving = s.Edit.IsPending()
			card.Draft = *s.Draft
		}
		view.Cards = append(view.Cards, card)
	}
	view.Pages = make([]PageButton, 0, max(s.TotalPages, 0))
	for n := 1; n <= s.TotalPages; n++ {
		view.Pages = append(view.Pages, PageButton{Number: n, Active: n == s.CurrentPage})
	}
	return view
}
