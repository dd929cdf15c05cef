package domain

import "github.com/google/uuid"

// NLPRequest is the payload sent to the language service
type NLPRequest struct {
	Message string     `json:"message"`
	UserID  *uuid.UUID `json:"userId"`
	IsAdmin bool       `json:"isAdmin"`
}

// NLPResponse is the language service answer
type NLPResponse struct {
	Response   string  `json:"response"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// IntentFallback marks a canned response substituted for a failed call
const IntentFallback = "fallback"
