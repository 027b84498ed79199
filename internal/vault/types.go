package vault

// Selectors locate the login form elements on a registered page. They are
// validated against the live page at registration time only.
type Selectors struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Submit   string `json:"submit,omitempty"`
}

// Credentials is a stored username/password pair.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SiteCredential is the login record for one origin. Exactly one record
// exists per origin; the Origin field always matches the secret-store
// account the record is filed under.
type SiteCredential struct {
	Origin      string      `json:"origin"`
	Selectors   Selectors   `json:"selectors"`
	Credentials Credentials `json:"credentials"`
}

// APICredential is one named token within an origin's credential set.
// Timestamps are RFC 3339 strings, matching the stored format.
type APICredential struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Token       string `json:"token"`
	CreatedAt   string `json:"createdAt"`
	LastUsedAt  string `json:"lastUsedAt,omitempty"`
}

// APICredentialSet holds all API credentials for one origin. Names are
// unique within the set; DefaultCredential, when set, references an
// existing name.
type APICredentialSet struct {
	Origin            string          `json:"origin"`
	Credentials       []APICredential `json:"credentials"`
	DefaultCredential string          `json:"defaultCredential,omitempty"`
}

// Credential returns the named credential, or nil.
func (s *APICredentialSet) Credential(name string) *APICredential {
	for i := range s.Credentials {
		if s.Credentials[i].Name == name {
			return &s.Credentials[i]
		}
	}
	return nil
}
