package domain

// Principal is the authenticated identity embedded in issued tokens.
type Principal struct {
	Username string
	ID       Value
}

// Credential is a stored login entry resolved by username.
type Credential struct {
	Principal
	Password string
}
