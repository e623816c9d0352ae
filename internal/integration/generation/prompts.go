package generation

import (
	"fmt"
	"strings"

	"github.com/placementprep/interview-backend/internal/entity"
)

func preliminaryQuestionsPrompt(topic string, level entity.Level) string {
	return fmt.Sprintf(`You are an expert technical interviewer conducting a DSA interview on %q for a %s level candidate.

Generate exactly 5 preliminary theoretical questions about %s to assess the candidate's understanding before coding challenges.

Questions should:
- Test fundamental concepts
- Be clear and concise
- Range from basic to advanced based on %s level
- Not require coding, just verbal/conceptual answers

Return ONLY a JSON array of 5 questions, nothing else. Format:
["Question 1?", "Question 2?", "Question 3?", "Question 4?", "Question 5?"]`,
		topic, level, topic, level)
}

func codingQuestionsPrompt(topic string, level entity.Level, ladder [4]entity.Difficulty) string {
	difficulties := make([]string, 0, len(ladder))
	for _, d := range ladder {
		difficulties = append(difficulties, string(d))
	}
	joined := strings.Join(difficulties, ", ")

	return fmt.Sprintf(`You are an expert technical interviewer. Generate exactly 4 coding questions about %q for a %s level candidate.

Difficulties: %s

For each question, provide:
1. Title (concise)
2. Description (clear problem statement)
3. Difficulty level
4. Constraints
5. 2 examples with input, output, and explanation
6. 3 test cases (2 visible, 1 hidden)

Return ONLY a valid JSON array with this exact structure:
[
  {
    "question_number": 1,
    "title": "Question Title",
    "description": "Problem description",
    "difficulty": "Easy",
    "constraints": "Constraints here",
    "examples": [
      {"input": "example input", "output": "example output", "explanation": "why"},
      {"input": "example input 2", "output": "example output 2", "explanation": "why"}
    ],
    "test_cases": [
      {"input": "test1", "expected_output": "output1", "is_hidden": false},
      {"input": "test2", "expected_output": "output2", "is_hidden": false},
      {"input": "test3", "expected_output": "output3", "is_hidden": true}
    ]
  }
]

Generate all 4 questions with difficulties: %s`,
		topic, level, joined, joined)
}

func codeAnalysisPrompt(questionDescription, code, language string) string {
	return fmt.Sprintf(`You are an expert code reviewer. Analyze this solution:

**Question:** %s

**Code (%s):**
`+"```%s\n%s\n```"+`

Provide a detailed analysis in JSON format:
{
  "time_complexity": "O(...) with explanation",
  "space_complexity": "O(...) with explanation",
  "quality_rating": 8,
  "approach": "Brief description of the approach used",
  "suggestions": ["Improvement 1", "Improvement 2"],
  "strengths": ["Strength 1", "Strength 2"],
  "weaknesses": ["Weakness 1", "Weakness 2"]
}

Quality rating should be 0-10 based on:
- Correctness
- Efficiency
- Readability
- Best practices

Return ONLY valid JSON, nothing else.`,
		questionDescription, language, language, code)
}

func preliminaryAnalysisPrompt(topic string, pairs []entity.QuestionAnswer) string {
	var sb strings.Builder
	for i, qa := range pairs {
		fmt.Fprintf(&sb, "Q%d: %s\nA%d: %s\n\n", i+1, qa.Question, i+1, qa.Answer)
	}

	return fmt.Sprintf(`You are an expert technical interviewer evaluating preliminary answers for a DSA interview on %q.

Questions and Answers:
%s
Evaluate the answers and provide:
1. A score out of 100
2. Brief feedback (2-3 sentences)

Return ONLY valid JSON:
{
  "score": 85,
  "feedback": "Your feedback here"
}`,
		topic, sb.String())
}

func overallFeedbackPrompt(topic string, level entity.Level, breakdown entity.ScoreBreakdown) string {
	return fmt.Sprintf(`You are an expert technical interviewer providing final feedback for a %s level DSA interview on %q.

Scores:
- Preliminary Questions: %.0f/100
- Coding Challenges: %.0f/100
- Code Quality: %.0f/100
- Time Management: %.0f/100

Provide:
1. Overall feedback (3-4 sentences)
2. 3-5 specific recommendations for improvement

Return ONLY valid JSON:
{
  "feedback": "Overall feedback here",
  "recommendations": ["Recommendation 1", "Recommendation 2", "Recommendation 3"]
}`,
		level, topic,
		breakdown.PreliminaryScore, breakdown.CodingScore,
		breakdown.CodeQualityScore, breakdown.TimeManagementScore)
}

// SystemInstruction builds the opening system message of a conversational
// interview. It embeds topic, level and tone so the whole history can be
// replayed to the completion backend on each turn.
func SystemInstruction(topic string, level entity.Level, tone entity.Tone) string {
	return fmt.Sprintf(`You are an expert job interviewer for the role of %q.
Interview level: %s
Tone: %s

Rules:
- Ask only ONE question at a time
- Keep responses concise (2-3 sentences)
- Ask follow-ups when needed
- Provide brief feedback
- End with a short summary when user says "end interview"`,
		topic, level, tone)
}

func performanceAnalysisPrompt(topic string, level entity.Level, transcript []entity.Transcription, duration int64) string {
	var sb strings.Builder
	for _, t := range transcript {
		fmt.Fprintf(&sb, "%s: %s\n", t.Speaker, t.Text)
	}

	return fmt.Sprintf(`You are an expert interview evaluator. Analyze this interview performance and provide a comprehensive assessment.

**Interview Details:**
- Topic: %s
- Level: %s
- Duration: %d minutes %d seconds
- Total Exchanges: %d

**Conversation Transcript:**
%s
**Task:**
Evaluate the candidate's performance across multiple dimensions and provide detailed feedback.

Return ONLY a JSON object with this exact structure:
{
  "overall_score": 85,
  "breakdown": {
    "technical_knowledge": 90,
    "communication": 85,
    "problem_solving": 80,
    "confidence": 85,
    "clarity": 90
  },
  "strengths": ["..."],
  "weaknesses": ["..."],
  "improvements": ["..."],
  "detailed_feedback": "3-4 sentences summarizing performance",
  "grade": "B+"
}

Scoring guidelines: every score is 0-100; grade is one of A+, A, A-, B+, B, B-, C+, C, C-, D, F; strengths and weaknesses hold 3-5 items, improvements 4-6.`,
		topic, level, duration/60, duration%60, len(transcript), sb.String())
}
