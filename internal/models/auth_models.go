package models

// User is the operator shown in the header.
type User struct {
	Name string `json:"name"`
}

// Session is the authenticated operator for the running process. It is never persisted
// to the remote store.
type Session struct {
	ID   string `json:"-"`
	User User   `json:"user"`
}

// Credentials for login request
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
