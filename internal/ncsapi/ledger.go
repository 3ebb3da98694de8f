package ncsapi

import "time"

// Ledger entry source tags. Positive amounts are earnings, negative are spends.
const (
	EntryTypeBonus    = "bonus"
	EntryTypeTask     = "task"
	EntryTypeReferral = "referral"
	EntryTypeRedeem   = "redeem"
)

const EntryAccepted = 1

// LedgerEntry is a Structure designed to keep the data of internal token operations.
// Entries are append-only, created once and never updated or deleted.
type LedgerEntry struct {
	CreatedAt time.Time `json:"created_at"`
	Id        uint      `json:"id" gorm:"primaryKey;autoIncrement:true"` // Inner ledger entry ID
	UserId    uint      `json:"user_id" gorm:"index"`                    // ID of user whose balance is affected by this entry
	AuthorId  uint      `json:"author_id"`                               // Entry initiator user ID or Admin ID
	Type      string    `json:"type"`                                    // Type: "bonus", "task", "referral", "redeem"
	Status    uint      `json:"status"`                                  // Status [0: New, 1: Accepted, 9: Rejected]
	Amount    int64     `json:"amount"`                                  // Signed amount, positive = earned, negative = spent
	Message   string    `json:"message"`
}
