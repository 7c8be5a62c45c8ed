package models

import "time"

type Card struct {
	ID               int64            `json:"id"`
	DeckID           int64            `json:"deck_id"`
	Front            string           `json:"front"`
	Back             string           `json:"back"`
	FrontImage       string           `json:"front_image,omitempty"`
	BackImage        string           `json:"back_image,omitempty"`
	EaseFactor       float64          `json:"ease_factor"`
	IntervalDays     int              `json:"interval_days"`
	Repetitions      int              `json:"repetitions"`
	NextReviewAt     time.Time        `json:"next_review_at"`
	LastReviewedAt   *time.Time       `json:"last_reviewed_at,omitempty"`
	Difficulty       Difficulty       `json:"difficulty"`
	AnswerValidation AnswerValidation `json:"answer_validation"`
	AIOptions        []string         `json:"ai_options,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// CardUpdate carries the fields written back after a review. CreatedAt is
// never touched; the repository advances UpdatedAt on write.
type CardUpdate struct {
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	Difficulty     Difficulty `json:"difficulty"`
}

type Deck struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CardFilter restricts card listings.
type CardFilter struct {
	DeckID     int64
	Difficulty Difficulty
	DueOnly    bool
	Limit      int
	Offset     int
}

type StudySessionSummary struct {
	ID             int64     `json:"id,omitempty"`
	DeckID         int64     `json:"deck_id"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	CardsStudied   int       `json:"cards_studied"`
	CorrectAnswers int       `json:"correct_answers"`
}
