package validator

import (
	"fmt"

	"github.com/placementprep/interview-backend/internal/entity"
)

// ValidateCreateAssessment validates CreateAssessmentRequest
func (v *Validator) ValidateCreateAssessment(req *entity.CreateAssessmentRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user_id", entity.ErrMissingField)
	}

	if req.Topic == "" {
		return fmt.Errorf("%w: topic", entity.ErrMissingField)
	}

	if err := req.Level.Validate(); err != nil {
		return err
	}

	return nil
}

// ValidateSubmitPreliminary validates preliminary answer submission
func (v *Validator) ValidateSubmitPreliminary(req *entity.SubmitPreliminaryRequest) error {
	if len(req.Answers) == 0 {
		return fmt.Errorf("%w: answers", entity.ErrMissingField)
	}

	for i, a := range req.Answers {
		if a.Question == "" {
			return fmt.Errorf("%w: answers[%d].question", entity.ErrMissingField, i)
		}
	}

	return nil
}

// ValidateSubmitSolution validates code solution submission
func (v *Validator) ValidateSubmitSolution(req *entity.SubmitSolutionRequest) error {
	if req.QuestionNumber < 1 {
		return fmt.Errorf("%w: question_number must be positive", entity.ErrInvalidParameter)
	}

	if req.Code == "" {
		return fmt.Errorf("%w: code", entity.ErrMissingField)
	}

	return nil
}
