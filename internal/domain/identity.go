package domain

// Identity is the set of user claims carried by a session token.
type Identity struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

// ServiceCredential is a machine bearer token obtained via the
// client-credentials grant. It is not tied to any user identity.
type ServiceCredential struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
