package domain

// Repository represents a cached repository of an account owner
type Repository struct {
	ID       int64   `json:"id"`
	Owner    string  `json:"owner"`
	Name     string  `json:"name"`
	Language *string `json:"language"`
	HTMLURL  string  `json:"html_url"`
}

// GetLanguage returns the language, or "" if it is unknown
func (r *Repository) GetLanguage() string {
	if r == nil || r.Language == nil {
		return ""
	}
	return *r.Language
}
