// Package dto contains data transfer objects for the download domain
package dto

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// LinkRequest represents an inbound text message that may carry a video link
type LinkRequest struct {
	ChatID   int64  `json:"chatId"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Text     string `json:"text"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}
