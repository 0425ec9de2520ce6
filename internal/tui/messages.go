package tui

// turnDoneMsg signals that a chat turn finished (successfully or not; the
// session client holds the outcome).
type turnDoneMsg struct {
	accepted bool
}

// codeCopiedMsg reports a clipboard copy attempt.
type codeCopiedMsg struct {
	err  error
	code string
}
