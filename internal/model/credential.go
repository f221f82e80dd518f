package model

// CredentialPayload is the transient view of a user assembled for a
// credential email. It is never persisted as its own entity.
type CredentialPayload struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserCredentialPayload builds the payload from a user record and the
// freshly generated password.
func UserCredentialPayload(u *User, password string) CredentialPayload {
	return CredentialPayload{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  password,
	}
}
