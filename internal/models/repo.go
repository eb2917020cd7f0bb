package models

// Repo is a GitHub repository as read from the GraphQL API. FullName
// (owner/name) is its identity; no other field takes part in equality.
type Repo struct {
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	Stars       int     `json:"stars"`
	Language    *string `json:"language"`
}

// HTMLURL is the public page of the repository.
func (r Repo) HTMLURL() string {
	return "https://github.com/" + r.FullName
}

// DescriptionText returns the description or "" when it is absent.
func (r Repo) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// User is a GitHub account.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}
