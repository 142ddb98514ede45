package dto

type CreateEntryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateEntryRequest is a partial update; nil fields are left unchanged.
type UpdateEntryRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	IsStarred     *bool   `json:"isStarred"`
	ClarityRating *int    `json:"clarityRating"`
}

type ClarityRequest struct {
	Rating *int `json:"rating"`
}
