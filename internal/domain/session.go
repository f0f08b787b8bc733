package domain

// Session is the process-wide authentication record exposed to readers.
type Session struct {
	Token      string `json:"-"`
	User       *User  `json:"user,omitempty"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsLoading  bool   `json:"is_loading"`
	CartCount  int    `json:"cart_count"`
	DarkMode   bool   `json:"dark_mode"`
}

func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// AuthResult is what the backend returns from the login and register endpoints.
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
