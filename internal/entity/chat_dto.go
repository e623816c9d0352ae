package entity

type CreateInterviewRequest struct {
	UserID      string `json:"user_id"`
	Topic       string `json:"topic"`
	Description string `json:"description,omitempty"`
	Level       Level  `json:"level"`
	Tone        Tone   `json:"tone,omitempty"`
}

type StartInterviewResponse struct {
	Session        *InterviewSession `json:"session"`
	InitialMessage string            `json:"initial_message"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	Timestamp int64  `json:"timestamp"`
}

type SaveTranscriptionRequest struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type EndInterviewRequest struct {
	Feedback string `json:"feedback,omitempty"`
}

type ActiveSessionsResponse struct {
	ActiveSessions int `json:"active_sessions"`
}
