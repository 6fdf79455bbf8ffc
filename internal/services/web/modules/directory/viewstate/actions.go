package viewstate

// Action is a user intent or a network resolution applied by Reduce.
type Action interface {
	apply(State) (State, error)
}

// PageRequested starts a fetch of Page. It supersedes any fetch in flight.
type PageRequested struct{ Page int }

// PageLoaded resolves the fetch numbered Seq.
type PageLoaded struct {
	Seq  uint64
	Page Page
}

// Page is the binding part of a page response.
type Page struct {
	TotalPages int
	Users      []User
}

// PageFailed resolves the fetch numbered Seq with a failure.
type PageFailed struct {
	Seq    uint64
	Reason string
}

// EditBegan opens the inline draft for ID.
type EditBegan struct{ ID int }

// EditSubmitted sends Draft for its id.
type EditSubmitted struct{ Draft User }

// EditSucceeded applies the server's User for ID.
type EditSucceeded struct {
	ID   int
	User User
}

// EditFailed records a rejected update of ID. The draft stays open.
type EditFailed struct {
	ID     int
	Reason string
}

// EditCanceled discards the draft of ID without a request.
type EditCanceled struct{ ID int }

// DeleteRequested asks for confirmation before deleting ID.
type DeleteRequested struct{ ID int }

// DeleteConfirmed starts the delete of a confirmed ID.
type DeleteConfirmed struct{ ID int }

// DeleteDismissed withdraws the confirmation prompt of ID.
type DeleteDismissed struct{ ID int }

// DeleteSucceeded removes ID from the page.
type DeleteSucceeded struct{ ID int }

// DeleteFailed records a rejected delete of ID. The page is unchanged.
type DeleteFailed struct {
	ID     int
	Reason string
}

// NoticeDismissed clears the notice.
type NoticeDismissed struct{}

// Reduce applies action to s. On error the returned state is s unchanged.
func Reduce(s State, action Action) (State, error) {
	if action == nil {
		return s, nil
	}
	next, err := action.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}
