package github

import "time"

// PullRequest represents a GitHub pull request
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HeadRef   string    `json:"head_ref"`
	BaseRef   string    `json:"base_ref"`
	URL       string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPullRequest represents the fields of a pull request to be created
type NewPullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
}
