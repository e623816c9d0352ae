package entity

import (
	"fmt"
	"time"
)

type SessionStatus string

// Assessment session statuses. The status is the single source of truth for
// which operations are legal on a session.
const (
	StatusScheduled   SessionStatus = "scheduled"
	StatusPreliminary SessionStatus = "preliminary"
	StatusCoding      SessionStatus = "coding"
	StatusCompleted   SessionStatus = "completed"
	StatusCancelled   SessionStatus = "cancelled"
)

// transitions is the single place where legal status edges are defined.
// Cancellation is handled separately: it overwrites any status, including
// terminal ones, so it never consults this table.
var transitions = map[SessionStatus][]SessionStatus{
	StatusScheduled:   {StatusPreliminary, StatusCoding},
	StatusPreliminary: {StatusCoding, StatusCompleted},
	StatusCoding:      {StatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Level string

const (
	LevelJunior Level = "Junior"
	LevelMid    Level = "Mid-Level"
	LevelSenior Level = "Senior"
	LevelExpert Level = "Expert"
)

func (l Level) Validate() error {
	switch l {
	case LevelJunior, LevelMid, LevelSenior, LevelExpert:
		return nil
	default:
		return fmt.Errorf("%w: unknown level %q", ErrInvalidParameter, string(l))
	}
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// difficultyLadders maps a candidate level to the difficulty of the four
// generated coding questions.
var difficultyLadders = map[Level][4]Difficulty{
	LevelJunior: {DifficultyEasy, DifficultyEasy, DifficultyMedium, DifficultyMedium},
	LevelMid:    {DifficultyEasy, DifficultyMedium, DifficultyMedium, DifficultyHard},
	LevelSenior: {DifficultyMedium, DifficultyMedium, DifficultyHard, DifficultyHard},
	LevelExpert: {DifficultyMedium, DifficultyHard, DifficultyHard, DifficultyHard},
}

// DifficultyLadder returns the four-question difficulty ladder for a level.
// Unknown levels get the Mid-Level ladder.
func DifficultyLadder(level Level) [4]Difficulty {
	if ladder, ok := difficultyLadders[level]; ok {
		return ladder
	}
	return difficultyLadders[LevelMid]
}

// DefaultCodingTimeLimit is the coding-phase time limit in seconds.
const DefaultCodingTimeLimit = 3600

// PreliminaryQuestion is one theory question asked before the coding phase.
type PreliminaryQuestion struct {
	Question string `json:"question"`
	AskedAt  int64  `json:"asked_at"` // unix milliseconds, synthetic ascending
}

// PreliminaryAnswer is the candidate's answer to one preliminary question.
type PreliminaryAnswer struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"timestamp"`
}

type QuestionExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	IsHidden       bool   `json:"is_hidden"`
}

// CodingQuestion is one generated coding challenge.
type CodingQuestion struct {
	QuestionNumber int               `json:"question_number"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Difficulty     Difficulty        `json:"difficulty"`
	Constraints    string            `json:"constraints"`
	Examples       []QuestionExample `json:"examples"`
	TestCases      []TestCase        `json:"test_cases"`
}

// CodeAnalysis is the structured review of one submitted solution.
// QualityRating is on a 0-10 scale.
type CodeAnalysis struct {
	TimeComplexity  string   `json:"time_complexity"`
	SpaceComplexity string   `json:"space_complexity"`
	QualityRating   float64  `json:"quality_rating"`
	Approach        string   `json:"approach"`
	Suggestions     []string `json:"suggestions"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
}

// UserSolution holds the latest submission for one question number. A later
// submission for the same question number replaces the earlier one.
type UserSolution struct {
	QuestionNumber int          `json:"question_number"`
	Code           string       `json:"code"`
	Language       string       `json:"language"`
	SubmittedAt    time.Time    `json:"submitted_at"`
	Score          float64      `json:"score"` // 0-100, derived from QualityRating*10
	Analysis       CodeAnalysis `json:"analysis"`
}

// ScoreBreakdown is the four-component score vector aggregated into the
// final score.
type ScoreBreakdown struct {
	PreliminaryScore    float64 `json:"preliminary_score"`
	CodingScore         float64 `json:"coding_score"`
	CodeQualityScore    float64 `json:"code_quality_score"`
	TimeManagementScore float64 `json:"time_management_score"`
}

// AssessmentSession is one coding-assessment attempt, phase-based.
type AssessmentSession struct {
	ID     string        `json:"session_id"`
	UserID string        `json:"user_id"`
	Topic  string        `json:"topic"`
	Level  Level         `json:"level"`
	Status SessionStatus `json:"status"`

	PreliminaryQuestions []PreliminaryQuestion `json:"preliminary_questions,omitempty"`
	PreliminaryAnswers   []PreliminaryAnswer   `json:"preliminary_answers,omitempty"`
	PreliminaryScore     float64               `json:"preliminary_score"`

	CodingQuestions []CodingQuestion `json:"coding_questions,omitempty"`
	UserSolutions   []UserSolution   `json:"user_solutions,omitempty"`

	StartedAt          *time.Time `json:"started_at,omitempty"`
	PreliminaryEndedAt *time.Time `json:"preliminary_ended_at,omitempty"`
	CodingStartedAt    *time.Time `json:"coding_started_at,omitempty"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	TotalDuration      int64      `json:"total_duration"` // seconds
	CodingTimeLimit    int64      `json:"coding_time_limit"`

	FinalScore      int             `json:"final_score"`
	Breakdown       *ScoreBreakdown `json:"breakdown,omitempty"`
	OverallFeedback string          `json:"overall_feedback,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SolutionFor returns the stored solution for a question number, if any.
func (s *AssessmentSession) SolutionFor(questionNumber int) (*UserSolution, bool) {
	for i := range s.UserSolutions {
		if s.UserSolutions[i].QuestionNumber == questionNumber {
			return &s.UserSolutions[i], true
		}
	}
	return nil, false
}

// QuestionByNumber returns the coding question with the given number.
func (s *AssessmentSession) QuestionByNumber(questionNumber int) (*CodingQuestion, bool) {
	for i := range s.CodingQuestions {
		if s.CodingQuestions[i].QuestionNumber == questionNumber {
			return &s.CodingQuestions[i], true
		}
	}
	return nil, false
}

type Tone string

const (
	ToneProfessional Tone = "Professional"
	ToneCasual       Tone = "Casual"
	ToneAggressive   Tone = "Aggressive"
)

func (t Tone) Validate() error {
	switch t {
	case ToneProfessional, ToneCasual, ToneAggressive:
		return nil
	default:
		return fmt.Errorf("%w: unknown tone %q", ErrInvalidParameter, string(t))
	}
}

type InterviewStatus string

const (
	InterviewScheduled  InterviewStatus = "scheduled"
	InterviewInProgress InterviewStatus = "in-progress"
	InterviewCompleted  InterviewStatus = "completed"
	InterviewCancelled  InterviewStatus = "cancelled"
)

// Transcription is one spoken line of the conversational interview, as
// persisted on the interview record.
type Transcription struct {
	Speaker   string `json:"speaker"` // "User" or "AI"
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// PerformanceBreakdown scores the five evaluation dimensions 0-100.
type PerformanceBreakdown struct {
	TechnicalKnowledge float64 `json:"technical_knowledge"`
	Communication      float64 `json:"communication"`
	ProblemSolving     float64 `json:"problem_solving"`
	Confidence         float64 `json:"confidence"`
	Clarity            float64 `json:"clarity"`
}

// PerformanceAnalysis is the post-interview evaluation of a conversational
// interview transcript.
type PerformanceAnalysis struct {
	OverallScore     float64              `json:"overall_score"`
	Breakdown        PerformanceBreakdown `json:"breakdown"`
	Strengths        []string             `json:"strengths"`
	Weaknesses       []string             `json:"weaknesses"`
	Improvements     []string             `json:"improvements"`
	DetailedFeedback string               `json:"detailed_feedback"`
	Grade            string               `json:"grade"`
}

// InterviewSession is the persisted record of a chat-style interview. The
// live message history lives in the in-memory chat store, not here.
type InterviewSession struct {
	ID          string          `json:"session_id"`
	UserID      string          `json:"user_id"`
	Topic       string          `json:"topic"`
	Description string          `json:"description,omitempty"`
	Level       Level           `json:"level"`
	Tone        Tone            `json:"tone"`
	Status      InterviewStatus `json:"status"`

	Transcriptions []Transcription `json:"transcriptions,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Duration  int64      `json:"duration"` // seconds
	Feedback  string     `json:"feedback,omitempty"`

	Analysis *PerformanceAnalysis `json:"performance_analysis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleAssistant ChatRole = "assistant"
	RoleUser      ChatRole = "user"
)

// ChatMessage is one role-tagged entry in a conversational session history.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
