package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateDefault indicates there is no active conversation with the user.
	StateDefault State = "default"
)

// IsDefault reports whether st means "no active state".
func (st State) IsDefault() bool {
	return st == StateDefault || st == ""
}

// Manager stores one State per user. Unseen users are in StateDefault.
type Manager interface {
	Get(userID int64) State
	Set(userID int64, st State)
	Clear(userID int64)
	// Update applies fn to the current state of userID and stores the result
	// atomically with respect to other calls for the same user.
	Update(userID int64, fn func(current State) State) State
	InProgress(userID int64) bool
}
