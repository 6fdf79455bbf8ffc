package viewstate

import "slices"

func (a PageRequested) apply(s State) (State, error) {
	if a.Page < 1 {
		return s, ErrInvalidPage
	}
	if s.Fetch.IsPending() && s.CurrentPage == a.Page {
		return s, ErrActionInFlight
	}
	next := s
	next.CurrentPage = a.Page
	next.Fetch = Pending()
	next.FetchSeq = s.FetchSeq + 1
	next.LoadError = ""
	next.ConfirmDelete = 0
	// A pending update still resolves by id, so only an idle draft is dropped.
	if s.Draft != nil && !s.Edit.IsPending() {
		next.Draft = nil
		next.Edit = Idle()
	}
	return next, nil
}

func (a PageLoaded) apply(s State) (State, error) {
	if a.Seq != s.FetchSeq || !s.Fetch.IsPending() {
		return s, ErrStaleResponse
	}
	next := s
	next.Items = slices.Clone(a.Page.Users)
	next.TotalPages = max(a.Page.TotalPages, 0)
	next.Fetch = Succeeded()
	if next.Draft != nil && next.indexOf(next.Draft.ID) < 0 && !next.Edit.IsPending() {
		next.Draft = nil
		next.Edit = Idle()
	}
	return next, nil
}

func (a PageFailed) apply(s State) (State, error) {
	if a.Seq != s.FetchSeq || !s.Fetch.IsPending() {
		return s, ErrStaleResponse
	}
	reason := a.Reason
	if reason == "" {
		reason = NoticeFetchFailed
	}
	next := s
	next.Fetch = Failed(reason)
	next.LoadError = reason
	return next, nil
}

func (a EditBegan) apply(s State) (State, error) {
	if s.Draft != nil {
		if s.Draft.ID == a.ID {
			return s, nil
		}
		return s, ErrEditInProgress
	}
	user, ok := s.Find(a.ID)
	if !ok {
		return s, ErrUnknownUser
	}
	if s.DeleteStatus(a.ID).IsPending() {
		return s, ErrActionInFlight
	}
	next := s
	next.Draft = clonePtr(user)
	next.Edit = Idle()
	if next.ConfirmDelete == a.ID {
		next.ConfirmDelete = 0
	}
	return next, nil
}

func (a EditSubmitted) apply(s State) (State, error) {
	if s.Draft == nil || s.Draft.ID != a.Draft.ID {
		return s, ErrNoDraft
	}
	if s.Edit.IsPending() {
		return s, ErrActionInFlight
	}
	if err := validateDraft(a.Draft); err != nil {
		return s, err
	}
	draft := *s.Draft
	draft.FirstName = a.Draft.FirstName
	draft.LastName = a.Draft.LastName
	draft.Email = a.Draft.Email
	if a.Draft.Avatar != "" {
		draft.Avatar = a.Draft.Avatar
	}
	next := s
	next.Draft = &draft
	next.Edit = Pending()
	return next, nil
}

func (a EditSucceeded) apply(s State) (State, error) {
	next := s
	if i := s.indexOf(a.ID); i >= 0 {
		items := slices.Clone(s.Items)
		merged := items[i].Merge(a.User)
		merged.ID = a.ID
		items[i] = merged
		next.Items = items
	}
	if s.Draft != nil && s.Draft.ID == a.ID {
		next.Draft = nil
		next.Edit = Succeeded()
	}
	next.Notice = newNotice(NoticeSuccess, NoticeUpdated)
	return next, nil
}

func (a EditFailed) apply(s State) (State, error) {
	next := s
	if s.Draft != nil && s.Draft.ID == a.ID {
		reason := a.Reason
		if reason == "" {
			reason = NoticeUpdateFailed
		}
		next.Edit = Failed(reason)
	}
	next.Notice = newNotice(NoticeError, NoticeUpdateFailed)
	return next, nil
}

func (a EditCanceled) apply(s State) (State, error) {
	if s.Draft == nil || s.Draft.ID != a.ID {
		return s, ErrNoDraft
	}
	if s.Edit.IsPending() {
		return s, ErrActionInFlight
	}
	next := s
	next.Draft = nil
	next.Edit = Idle()
	return next, nil
}

func (a DeleteRequested) apply(s State) (State, error) {
	if s.indexOf(a.ID) < 0 {
		return s, ErrUnknownUser
	}
	if s.DeleteStatus(a.ID).IsPending() || s.editPendingFor(a.ID) {
		return s, ErrActionInFlight
	}
	next := s
	next.ConfirmDelete = a.ID
	return next, nil
}

func (a DeleteConfirmed) apply(s State) (State, error) {
	if s.DeleteStatus(a.ID).IsPending() || s.editPendingFor(a.ID) {
		return s, ErrActionInFlight
	}
	if s.ConfirmDelete != a.ID || a.ID == 0 {
		return s, ErrNotConfirmed
	}
	if s.indexOf(a.ID) < 0 {
		return s, ErrUnknownUser
	}
	next := s
	next.ConfirmDelete = 0
	next.Deleting = s.withDeleting(a.ID, Pending(), true)
	return next, nil
}

func (a DeleteDismissed) apply(s State) (State, error) {
	if s.ConfirmDelete != a.ID {
		return s, nil
	}
	next := s
	next.ConfirmDelete = 0
	return next, nil
}

func (a DeleteSucceeded) apply(s State) (State, error) {
	next := s
	next.Items = slices.DeleteFunc(slices.Clone(s.Items), func(u User) bool { return u.ID == a.ID })
	next.Deleting = s.withDeleting(a.ID, Idle(), false)
	if s.Draft != nil && s.Draft.ID == a.ID {
		next.Draft = nil
		next.Edit = Idle()
	}
	if s.ConfirmDelete == a.ID {
		next.ConfirmDelete = 0
	}
	next.Notice = newNotice(NoticeSuccess, NoticeDeleted)
	return next, nil
}

func (a DeleteFailed) apply(s State) (State, error) {
	reason := a.Reason
	if reason == "" {
		reason = NoticeDeleteFailed
	}
	next := s
	next.Deleting = s.withDeleting(a.ID, Failed(reason), true)
	next.Notice = newNotice(NoticeError, NoticeDeleteFailed)
	return next, nil
}

func (NoticeDismissed) apply(s State) (State, error) {
	next := s
	next.Notice = nil
	return next, nil
}
