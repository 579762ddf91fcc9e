package models

// Provider status values as reported by Twilio for a created message.
const (
	StatusQueued      = "queued"
	StatusAccepted    = "accepted"
	StatusFailed      = "failed"
	StatusUndelivered = "undelivered"
)
