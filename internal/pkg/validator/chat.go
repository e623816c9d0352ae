package validator

import (
	"fmt"
	"strings"

	"github.com/placementprep/interview-backend/internal/entity"
)

// ValidateCreateInterview validates CreateInterviewRequest
func (v *Validator) ValidateCreateInterview(req *entity.CreateInterviewRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}

	if req.Topic == "" {
		return fmt.Errorf("%w: topic", entity.ErrMissingField)
	}

	if err := req.Level.Validate(); err != nil {
		return err
	}

	if req.Tone != "" {
		if err := req.Tone.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateChat validates a chat message submission
func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return fmt.Errorf("%w: message", entity.ErrMissingField)
	}

	return nil
}

// ValidateSaveTranscription validates a manual transcript entry
func (v *Validator) ValidateSaveTranscription(req *entity.SaveTranscriptionRequest) error {
	if req.Speaker == "" {
		return fmt.Errorf("%w: speaker", entity.ErrMissingField)
	}

	if req.Speaker != "User" && req.Speaker != "AI" {
		return fmt.Errorf("%w: speaker must be User or AI", entity.ErrInvalidParameter)
	}

	if req.Text == "" {
		return fmt.Errorf("%w: text", entity.ErrMissingField)
	}

	// A zero timestamp is allowed; the usecase stamps it with the current time.
	if req.Timestamp < 0 {
		return fmt.Errorf("%w: timestamp", entity.ErrInvalidParameter)
	}

	return nil
}
