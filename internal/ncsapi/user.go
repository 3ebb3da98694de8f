package ncsapi

import (
	"gorm.io/gorm"
	"time"
)

type User struct {
	Id           uint           `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
	Email        string         `gorm:"index;not null" json:"email"`
	Name         string         `json:"name"`
	Hash         string         `gorm:"index" json:"hash"`
	Affiliation  string         `json:"affiliation"`
	Orcid        string         `gorm:"index" json:"orcid"`
	Locale       string         `json:"locale"`
	Utm          string         `json:"utm"`
	Ip           string         `json:"ip"`
	Referer      string         `json:"referer"`
	Upline       uint           `json:"upline"`
	RefUrl       string         `gorm:"index" json:"ref_slug"`
	RefCounter   uint           `json:"ref_counter"`
	Actions      uint           `json:"actions"`
	Balance      int64          `json:"balance"`
	TokensEarned int64          `json:"tokens_earned"`
	TokensSpent  int64          `json:"tokens_spent"`
}

// UserData is the wallet snapshot the presentation layer renders. The level
// block is always recomputed from TokensEarned and RefCounter, never stored.
type UserData struct {
	ID           uint        `json:"id"`
	Balance      int64       `json:"balance"` // up-to-date NCS Token balance, on Platform
	TokensEarned int64       `json:"tokens_earned"`
	TokensSpent  int64       `json:"tokens_spent"`
	RefCounter   uint        `json:"ref_counter"`
	RefUrl       string      `json:"ref_slug"`
	Actions      uint        `json:"tasks_completed"`
	Level        Progression `json:"level"`
}
