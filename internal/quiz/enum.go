package quiz

type Status string

const (
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether a quiz in status s may move to next.
// Terminal statuses never change.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusGenerating && next.IsTerminal()
}
