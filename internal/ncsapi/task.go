package ncsapi

import (
	"time"

	"gorm.io/gorm"
)

// Task is a catalog entry with a fixed one-time token reward per user.
// Tasks are defined centrally and are not user-owned until completed.
type Task struct {
	Id           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category" gorm:"index"` // eg. profile, publication, review
	Reward       int64     `json:"reward"`                // fixed NCS Token reward, non-negative
	Requirements string    `json:"requirements"`          // arbitrary requirement metadata, JSON blob
	Active       bool      `json:"active" gorm:"default:true"`
}

// Completion marks a (user, task) pair as paid out. The composite primary key
// is the uniqueness guarantee behind completion idempotency: a second insert
// for the same pair fails at the database, so two concurrent completion
// requests can never both be paid.
type Completion struct {
	CreatedAt time.Time `json:"created_at"`
	UserId    uint      `json:"user_id" gorm:"index;primaryKey;autoIncrement:false"` // Executor ID
	TaskId    uint      `json:"task_id" gorm:"index;primaryKey;autoIncrement:false"`
	Reward    int64     `json:"reward"` // reward paid, copied from the task at completion time
}

// SeedTasks installs the default catalog on an empty database.
func SeedTasks(db *gorm.DB) {
	var count int64
	db.Model(&Task{}).Count(&count)
	if count > 0 {
		return
	}
	defaults := []Task{
		{
			Title:       "Complete your researcher profile",
			Description: "Fill in your affiliation, research interests and ORCID.",
			Category:    "profile",
			Reward:      50,
			Active:      true,
		},
		{
			Title:       "Link your ORCID",
			Description: "Connect your ORCID iD to your NCS account.",
			Category:    "profile",
			Reward:      100,
			Active:      true,
		},
		{
			Title:       "Generate your first proposal",
			Description: "Use the proposal generator and export the document.",
			Category:    "proposal",
			Reward:      150,
			Active:      true,
		},
		{
			Title:       "Submit an analysis request",
			Description: "File your first statistical analysis request.",
			Category:    "analysis",
			Reward:      150,
			Active:      true,
		},
		{
			Title:       "Upload a publication",
			Description: "Add one of your published papers to your profile.",
			Category:    "publication",
			Reward:      250,
			Active:      true,
		},
	}
	for i := range defaults {
		db.Create(&defaults[i])
	}
}

type TaskStats struct {
	TotalCounter uint  `json:"total_counter"`
	TodayCounter uint  `json:"today_counter"`
	TokensTotal  int64 `json:"tokens_total"`
	TokensToday  int64 `json:"tokens_today"`
}
