package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/placementprep/interview-backend/internal/entity"
)

// InterviewRepository defines the persistence contract for conversational
// interview records.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview *entity.InterviewSession) (*entity.InterviewSession, error)
	GetInterviewByID(ctx context.Context, id string) (*entity.InterviewSession, error)
	ListInterviewsByUser(ctx context.Context, userID string, limit int) ([]*entity.InterviewSession, error)
	SaveInterview(ctx context.Context, interview *entity.InterviewSession) (*entity.InterviewSession, error)
	AppendTranscriptions(ctx context.Context, id string, entries []entity.Transcription) (*entity.InterviewSession, error)
}

var _ InterviewRepository = &InterviewPostgres{}

type InterviewPostgres struct {
	db *pgxpool.Pool
}

func NewInterviewPostgres(db *pgxpool.Pool) *InterviewPostgres {
	return &InterviewPostgres{db: db}
}

const interviewColumns = `
	id::text, user_id, topic, description, level, tone, status,
	transcriptions,
	started_at, ended_at, duration, feedback,
	analysis,
	created_at, updated_at`

func (r *InterviewPostgres) CreateInterview(ctx context.Context, interview *entity.InterviewSession) (*entity.InterviewSession, error) {
	interviewID, err := uuid.Parse(interview.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid interview ID: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO interview_sessions (id, user_id, topic, description, level, tone, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+interviewColumns,
		interviewID, interview.UserID, interview.Topic, interview.Description,
		string(interview.Level), string(interview.Tone), string(interview.Status),
	)

	created, err := scanInterviewSession(row)
	if err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}

	return created, nil
}

func (r *InterviewPostgres) GetInterviewByID(ctx context.Context, id string) (*entity.InterviewSession, error) {
	interviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed interview ID %q", entity.ErrInterviewNotFound, id)
	}

	row := r.db.QueryRow(ctx, `
		SELECT`+interviewColumns+`
		FROM interview_sessions
		WHERE id = $1`,
		interviewID,
	)

	interview, err := scanInterviewSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}

	return interview, nil
}

func (r *InterviewPostgres) ListInterviewsByUser(ctx context.Context, userID string, limit int) ([]*entity.InterviewSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+interviewColumns+`
		FROM interview_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	interviews := make([]*entity.InterviewSession, 0)
	for rows.Next() {
		interview, err := scanInterviewSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		interviews = append(interviews, interview)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", err)
	}

	return interviews, nil
}

func (r *InterviewPostgres) SaveInterview(ctx context.Context, interview *entity.InterviewSession) (*entity.InterviewSession, error) {
	interviewID, err := uuid.Parse(interview.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid interview ID: %w", err)
	}

	transcriptions, err := marshalOrEmptyArray(interview.Transcriptions)
	if err != nil {
		return nil, fmt.Errorf("encode transcriptions: %w", err)
	}

	var analysis []byte
	if interview.Analysis != nil {
		if analysis, err = json.Marshal(interview.Analysis); err != nil {
			return nil, fmt.Errorf("encode performance analysis: %w", err)
		}
	}

	row := r.db.QueryRow(ctx, `
		UPDATE interview_sessions SET
			status = $2,
			transcriptions = $3,
			started_at = $4,
			ended_at = $5,
			duration = $6,
			feedback = $7,
			analysis = $8,
			updated_at = now()
		WHERE id = $1
		RETURNING`+interviewColumns,
		interviewID, string(interview.Status),
		transcriptions,
		interview.StartedAt, interview.EndedAt, interview.Duration, interview.Feedback,
		analysis,
	)

	saved, err := scanInterviewSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("save interview: %w", err)
	}

	return saved, nil
}

// AppendTranscriptions concatenates new entries onto the stored transcript
// without rewriting the rest of the record.
func (r *InterviewPostgres) AppendTranscriptions(ctx context.Context, id string, entries []entity.Transcription) (*entity.InterviewSession, error) {
	interviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed interview ID %q", entity.ErrInterviewNotFound, id)
	}

	encoded, err := marshalOrEmptyArray(entries)
	if err != nil {
		return nil, fmt.Errorf("encode transcriptions: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE interview_sessions
		SET transcriptions = transcriptions || $2::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING`+interviewColumns,
		interviewID, encoded,
	)

	interview, err := scanInterviewSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("append transcriptions: %w", err)
	}

	return interview, nil
}
