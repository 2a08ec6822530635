package models

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

type Course struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ModulesCount int        `json:"modules_count"`
	PointsReward int        `json:"points_reward"`
	ImageURL     string     `json:"image_url"`
	Difficulty   Difficulty `json:"difficulty"`
}

// LearningProgress is keyed by (UserID, CourseID). Rewarded latches once the
// completion reward has been paid.
type LearningProgress struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	CourseID         string    `json:"course_id"`
	CompletedModules int       `json:"completed_modules"`
	IsCompleted      bool      `json:"is_completed"`
	Rewarded         bool      `json:"rewarded"`
	LastUpdated      time.Time `json:"last_updated"`
}
