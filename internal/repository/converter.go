package repository

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/placementprep/interview-backend/internal/entity"
)

// assessmentDoc holds the JSONB-encoded nested collections of an assessment
// session, ready to bind as query arguments.
type assessmentDoc struct {
	preliminaryQuestions []byte
	preliminaryAnswers   []byte
	codingQuestions      []byte
	userSolutions        []byte
	breakdown            []byte // nil when the session has no breakdown yet
	recommendations      []byte
}

func marshalAssessmentDoc(session *entity.AssessmentSession) (*assessmentDoc, error) {
	doc := &assessmentDoc{}

	var err error
	if doc.preliminaryQuestions, err = marshalOrEmptyArray(session.PreliminaryQuestions); err != nil {
		return nil, fmt.Errorf("preliminary questions: %w", err)
	}
	if doc.preliminaryAnswers, err = marshalOrEmptyArray(session.PreliminaryAnswers); err != nil {
		return nil, fmt.Errorf("preliminary answers: %w", err)
	}
	if doc.codingQuestions, err = marshalOrEmptyArray(session.CodingQuestions); err != nil {
		return nil, fmt.Errorf("coding questions: %w", err)
	}
	if doc.userSolutions, err = marshalOrEmptyArray(session.UserSolutions); err != nil {
		return nil, fmt.Errorf("user solutions: %w", err)
	}
	if doc.recommendations, err = marshalOrEmptyArray(session.Recommendations); err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	if session.Breakdown != nil {
		if doc.breakdown, err = json.Marshal(session.Breakdown); err != nil {
			return nil, fmt.Errorf("breakdown: %w", err)
		}
	}

	return doc, nil
}

// marshalOrEmptyArray encodes a slice, mapping nil to a JSON empty array so
// JSONB columns never hold SQL NULL for collections.
func marshalOrEmptyArray[T any](items []T) ([]byte, error) {
	if items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(items)
}

func scanAssessmentSession(row pgx.Row) (*entity.AssessmentSession, error) {
	var (
		session              entity.AssessmentSession
		level                string
		status               string
		preliminaryQuestions []byte
		preliminaryAnswers   []byte
		codingQuestions      []byte
		userSolutions        []byte
		breakdown            []byte
		recommendations      []byte
	)

	err := row.Scan(
		&session.ID, &session.UserID, &session.Topic, &level, &status,
		&preliminaryQuestions, &preliminaryAnswers, &session.PreliminaryScore,
		&codingQuestions, &userSolutions,
		&session.StartedAt, &session.PreliminaryEndedAt, &session.CodingStartedAt, &session.EndedAt,
		&session.TotalDuration, &session.CodingTimeLimit,
		&session.FinalScore, &breakdown, &session.OverallFeedback, &recommendations,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Level = entity.Level(level)
	session.Status = entity.SessionStatus(status)

	if err := json.Unmarshal(preliminaryQuestions, &session.PreliminaryQuestions); err != nil {
		return nil, fmt.Errorf("decode preliminary questions: %w", err)
	}
	if err := json.Unmarshal(preliminaryAnswers, &session.PreliminaryAnswers); err != nil {
		return nil, fmt.Errorf("decode preliminary answers: %w", err)
	}
	if err := json.Unmarshal(codingQuestions, &session.CodingQuestions); err != nil {
		return nil, fmt.Errorf("decode coding questions: %w", err)
	}
	if err := json.Unmarshal(userSolutions, &session.UserSolutions); err != nil {
		return nil, fmt.Errorf("decode user solutions: %w", err)
	}
	if err := json.Unmarshal(recommendations, &session.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	if len(breakdown) > 0 {
		session.Breakdown = &entity.ScoreBreakdown{}
		if err := json.Unmarshal(breakdown, session.Breakdown); err != nil {
			return nil, fmt.Errorf("decode breakdown: %w", err)
		}
	}

	return &session, nil
}

func scanInterviewSession(row pgx.Row) (*entity.InterviewSession, error) {
	var (
		session        entity.InterviewSession
		level          string
		tone           string
		status         string
		transcriptions []byte
		analysis       []byte
	)

	err := row.Scan(
		&session.ID, &session.UserID, &session.Topic, &session.Description,
		&level, &tone, &status,
		&transcriptions,
		&session.StartedAt, &session.EndedAt, &session.Duration, &session.Feedback,
		&analysis,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Level = entity.Level(level)
	session.Tone = entity.Tone(tone)
	session.Status = entity.InterviewStatus(status)

	if err := json.Unmarshal(transcriptions, &session.Transcriptions); err != nil {
		return nil, fmt.Errorf("decode transcriptions: %w", err)
	}
	if len(analysis) > 0 {
		session.Analysis = &entity.PerformanceAnalysis{}
		if err := json.Unmarshal(analysis, session.Analysis); err != nil {
			return nil, fmt.Errorf("decode performance analysis: %w", err)
		}
	}

	return &session, nil
}
