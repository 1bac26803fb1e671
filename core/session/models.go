package session

// Identity is the authenticated user as returned by the backend.
// The client never mutates it; a fresh copy arrives with every login.
type Identity struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Roles     []string `json:"roles"`
	AvatarURL string   `json:"avatar_url"`
}

// LoginResponse is the payload of POST /auth/login.
type LoginResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    Identity `json:"user"`
}

// Session is the persisted authentication state.
// Invariant: Authenticated is true iff Token and User.ID are both present.
type Session struct {
	Token         string    `json:"token"`
	User          *Identity `json:"user"`
	Authenticated bool      `json:"is_authenticated"`
}

func (s Session) valid() bool {
	return s.Token != "" && s.User != nil && s.User.ID != ""
}
