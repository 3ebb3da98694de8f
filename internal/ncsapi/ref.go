package ncsapi

import "time"

// Ref is a Structure designed to store referral relations
type Ref struct {
	CreatedAt    time.Time `json:"created_at"`
	Id           uint      `json:"id" gorm:"primaryKey;autoIncrement:true"`
	UserId       uint      `json:"user_id" gorm:"index"` // Referring user ID
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	Reward       int64     `json:"reward"` // NCS Tokens paid for this referral
}

type RefData struct {
	TotalCounter uint  `json:"total_counter"`
	TokensTotal  int64 `json:"tokens_total"`
}
