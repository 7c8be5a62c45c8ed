package models

// Difficulty is a display-level label derived from the most recent review
// quality. It is not authoritative; the scheduling fields are.
type Difficulty string

const (
	DifficultyUnknown Difficulty = "unknown"
	DifficultyHard    Difficulty = "hard"
	DifficultyMedium  Difficulty = "medium"
	DifficultyEasy    Difficulty = "easy"
)

// AnswerValidation selects the strategy used to score a free-text answer.
type AnswerValidation string

const (
	ValidationExact           AnswerValidation = "exact"
	ValidationCaseInsensitive AnswerValidation = "case-insensitive"
	ValidationTypoTolerant    AnswerValidation = "typo-tolerant"
	ValidationKeyword         AnswerValidation = "keyword"
	ValidationFlexible        AnswerValidation = "flexible"
)

// StudyMode selects how cards are ordered when a session starts.
type StudyMode string

const (
	ModeDue        StudyMode = "due"
	ModeDifficult  StudyMode = "difficult"
	ModeUnknown    StudyMode = "unknown"
	ModeRandom     StudyMode = "random"
	ModeSequential StudyMode = "sequential"
)

// StudyInteractionType selects how each card is presented during a session.
type StudyInteractionType string

const (
	InteractionLearn      StudyInteractionType = "learn"
	InteractionFlashcards StudyInteractionType = "flashcards"
	InteractionTest       StudyInteractionType = "test"
	InteractionMatch      StudyInteractionType = "match"
	InteractionAIQuiz     StudyInteractionType = "ai-quiz"
)

// QuestionType is the presentation of a single step within a session.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionWritten        QuestionType = "written"
	QuestionFlashcard      QuestionType = "flashcard"
)

// ValidationResult is the outcome of scoring one answer.
type ValidationResult struct {
	IsCorrect  bool    `json:"is_correct"`
	Similarity float64 `json:"similarity"`
}

// CardProgress tracks per-card adaptive state during a learn-mode session.
// Values are replaced whole on every update, never mutated in place.
type CardProgress struct {
	CorrectStreak   int          `json:"correct_streak"`
	IncorrectStreak int          `json:"incorrect_streak"`
	QuestionType    QuestionType `json:"question_type"`
}

// StudyStats summarizes the scheduling state of a deck. Due-ness and the
// new/learning/mastered buckets are independent axes.
type StudyStats struct {
	Total    int `json:"total"`
	Due      int `json:"due"`
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mastered int `json:"mastered"`
}
