package model

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SessionTokens is the token pair the browser holds as cookies. Either value
// may be empty.
type SessionTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (t SessionTokens) Any() bool {
	return t.AccessToken != "" || t.RefreshToken != ""
}

// IdentityClaim is the part of the access token payload the gateway needs.
// UserID keeps the JSON type the backend issued (number or string).
type IdentityClaim struct {
	UserID   any
	Username string
}

// Submitter returns the value sent upstream as the review author: the
// username when the token carries one, the user id otherwise.
func (c IdentityClaim) Submitter() any {
	if c.Username != "" {
		return c.Username
	}
	return c.UserID
}
