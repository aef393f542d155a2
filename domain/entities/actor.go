package entities

// Actor identifies who performs an operation. It is passed explicitly to
// every service call instead of being read from ambient session state.
type Actor struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// SystemActor is used by scheduled jobs
var SystemActor = Actor{UserID: 0, Username: "system", IsAdmin: true}

// IsSystem reports whether the actor is the scheduler
func (a Actor) IsSystem() bool {
	return a.UserID == 0 && a.IsAdmin
}
