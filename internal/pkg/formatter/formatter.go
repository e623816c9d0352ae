package formatter

import (
	"fmt"

	"github.com/placementprep/interview-backend/internal/entity"
)

const baseTitle = "Interview Scorecard"

type Formatter interface {
	Render(scorecard *entity.Scorecard) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) ForFormat(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

// scorecardLines flattens a scorecard into the plain-text lines shared by all
// output formats.
func scorecardLines(s *entity.Scorecard) []string {
	lines := []string{
		fmt.Sprintf("Candidate: %s", s.UserID),
		fmt.Sprintf("Topic: %s (%s)", s.Topic, s.Level),
		fmt.Sprintf("Final Score: %d/100", s.FinalScore),
		"",
		"Score Breakdown:",
		fmt.Sprintf("  Preliminary: %.1f", s.Breakdown.PreliminaryScore),
		fmt.Sprintf("  Coding: %.1f", s.Breakdown.CodingScore),
		fmt.Sprintf("  Code Quality: %.1f", s.Breakdown.CodeQualityScore),
		fmt.Sprintf("  Time Management: %.1f", s.Breakdown.TimeManagementScore),
		"",
		fmt.Sprintf("Preliminary answers: %d", s.PreliminaryAnswers),
		fmt.Sprintf("Coding questions solved: %d of %d", s.CodingQuestionsSolved, s.TotalQuestions),
		fmt.Sprintf("Duration: %d seconds", s.Duration),
	}

	if s.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("Completed: %s", s.CompletedAt.Format("2006-01-02 15:04")))
	}

	if len(s.Solutions) > 0 {
		lines = append(lines, "", "Solutions:")
		for _, solution := range s.Solutions {
			lines = append(lines, fmt.Sprintf("  Q%d: %.1f/100 (quality %.1f/10, time %s, space %s)",
				solution.QuestionNumber, solution.Score, solution.QualityRating,
				solution.TimeComplexity, solution.SpaceComplexity))
		}
	}

	if s.Feedback != "" {
		lines = append(lines, "", "Feedback:", s.Feedback)
	}

	if len(s.Recommendations) > 0 {
		lines = append(lines, "", "Recommendations:")
		for _, recommendation := range s.Recommendations {
			lines = append(lines, fmt.Sprintf("  - %s", recommendation))
		}
	}

	return lines
}
