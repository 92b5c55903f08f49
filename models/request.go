package models

// ChatRequest is the body of POST /chat. Country is optional; an empty or
// null value means the search runs without a jurisdiction filter.
type ChatRequest struct {
	Question string `json:"question" binding:"required"`
	Country  string `json:"country"`
}
