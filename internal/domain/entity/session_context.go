package entity

// SessionContext carries one terminal's connection to the remote backend.
// Login produces it, logout clears it, and every backend call receives it
// explicitly.
type SessionContext struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"-"`
	Email   string `json:"email"`
}

// Valid reports whether the session can be used for authenticated calls
func (s *SessionContext) Valid() bool {
	return s != nil && s.BaseURL != "" && s.Token != ""
}

// Clear drops the credentials so the session can no longer be used
func (s *SessionContext) Clear() {
	if s == nil {
		return
	}
	s.BaseURL = ""
	s.Token = ""
}
