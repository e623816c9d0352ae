package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placementprep/interview-backend/internal/entity"
)

// AssessmentRepository defines the persistence contract for coding-assessment
// sessions: create, find by primary key, list, full save. "Not found" is a
// first-class condition (entity.ErrSessionNotFound).
type AssessmentRepository interface {
	CreateSession(ctx context.Context, session *entity.AssessmentSession) (*entity.AssessmentSession, error)
	GetSessionByID(ctx context.Context, id string) (*entity.AssessmentSession, error)
	ListSessionsByUser(ctx context.Context, userID string, limit int) ([]*entity.AssessmentSession, error)
	SaveSession(ctx context.Context, session *entity.AssessmentSession) (*entity.AssessmentSession, error)
	UpdateSessionStatus(ctx context.Context, id string, status entity.SessionStatus) (*entity.AssessmentSession, error)
}

var _ AssessmentRepository = &AssessmentPostgres{}

// AssessmentPostgres implements AssessmentRepository using PostgreSQL.
// Nested collections live in JSONB columns; the session document is small
// and always read and written whole.
type AssessmentPostgres struct {
	db *pgxpool.Pool
}

func NewAssessmentPostgres(db *pgxpool.Pool) *AssessmentPostgres {
	return &AssessmentPostgres{db: db}
}

const assessmentColumns = `
	id::text, user_id, topic, level, status,
	preliminary_questions, preliminary_answers, preliminary_score,
	coding_questions, user_solutions,
	started_at, preliminary_ended_at, coding_started_at, ended_at,
	total_duration, coding_time_limit,
	final_score, breakdown, overall_feedback, recommendations,
	created_at, updated_at`

func (r *AssessmentPostgres) CreateSession(ctx context.Context, session *entity.AssessmentSession) (*entity.AssessmentSession, error) {
	sessionID, err := uuid.Parse(session.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO assessment_sessions (id, user_id, topic, level, status, coding_time_limit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING`+assessmentColumns,
		sessionID, session.UserID, session.Topic, string(session.Level),
		string(session.Status), session.CodingTimeLimit,
	)

	created, err := scanAssessmentSession(row)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return created, nil
}

func (r *AssessmentPostgres) GetSessionByID(ctx context.Context, id string) (*entity.AssessmentSession, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session ID %q", entity.ErrSessionNotFound, id)
	}

	row := r.db.QueryRow(ctx, `
		SELECT`+assessmentColumns+`
		FROM assessment_sessions
		WHERE id = $1`,
		sessionID,
	)

	session, err := scanAssessmentSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

func (r *AssessmentPostgres) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]*entity.AssessmentSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+assessmentColumns+`
		FROM assessment_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*entity.AssessmentSession, 0)
	for rows.Next() {
		session, err := scanAssessmentSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func (r *AssessmentPostgres) SaveSession(ctx context.Context, session *entity.AssessmentSession) (*entity.AssessmentSession, error) {
	sessionID, err := uuid.Parse(session.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid session ID: %w", err)
	}

	doc, err := marshalAssessmentDoc(session)
	if err != nil {
		return nil, fmt.Errorf("encode session document: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE assessment_sessions SET
			status = $2,
			preliminary_questions = $3,
			preliminary_answers = $4,
			preliminary_score = $5,
			coding_questions = $6,
			user_solutions = $7,
			started_at = $8,
			preliminary_ended_at = $9,
			coding_started_at = $10,
			ended_at = $11,
			total_duration = $12,
			coding_time_limit = $13,
			final_score = $14,
			breakdown = $15,
			overall_feedback = $16,
			recommendations = $17,
			updated_at = now()
		WHERE id = $1
		RETURNING`+assessmentColumns,
		sessionID, string(session.Status),
		doc.preliminaryQuestions, doc.preliminaryAnswers, session.PreliminaryScore,
		doc.codingQuestions, doc.userSolutions,
		session.StartedAt, session.PreliminaryEndedAt, session.CodingStartedAt, session.EndedAt,
		session.TotalDuration, session.CodingTimeLimit,
		session.FinalScore, doc.breakdown, session.OverallFeedback, doc.recommendations,
	)

	saved, err := scanAssessmentSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("save session: %w", err)
	}

	return saved, nil
}

func (r *AssessmentPostgres) UpdateSessionStatus(ctx context.Context, id string, status entity.SessionStatus) (*entity.AssessmentSession, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed session ID %q", entity.ErrSessionNotFound, id)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE assessment_sessions
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING`+assessmentColumns,
		sessionID, string(status),
	)

	session, err := scanAssessmentSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrSessionNotFound
		}
		return nil, fmt.Errorf("update session status: %w", err)
	}

	return session, nil
}
