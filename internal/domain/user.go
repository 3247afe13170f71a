package domain

// UserSummary is the per-user slice of a user-list broadcast. Only joined
// sessions appear; anonymous connections are counted but never listed.
type UserSummary struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}
