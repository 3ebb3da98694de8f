package ncsapi

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Wallet operations. Every committed operation preserves
// balance == tokens_earned - tokens_spent, and earned/spent totals only grow.
// Same-account operations serialize on a row lock so two simultaneous spends
// can never both be approved against a balance that only covers one of them.

// lockForUpdate takes the row lock serializing same-account operations.
// SQLite has no FOR UPDATE; its single writer serializes accounts instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Earn appends a positive ledger entry and credits the user balance.
func Earn(db *gorm.DB, userId uint, authorId uint, amount int64, entryType string, message string) (user User, entry LedgerEntry, err error) {
	if amount <= 0 {
		return user, entry, ErrInvalidAmount
	}
	tx := db.Begin()
	defer func() {
		tx.Rollback()
	}()
	res := lockForUpdate(tx).
		Where("id = ?", userId).
		First(&user)
	if res.RowsAffected != 1 {
		return user, entry, ErrNotFound
	}
	user.Balance += amount
	user.TokensEarned += amount
	res = tx.Save(&user)
	if res.Error != nil {
		return user, entry, res.Error
	}
	entry = LedgerEntry{
		UserId:   user.Id,
		AuthorId: authorId,
		Type:     entryType,
		Status:   EntryAccepted,
		Amount:   amount,
		Message:  message,
	}
	res = tx.Create(&entry)
	if res.Error != nil {
		return user, entry, res.Error
	}
	tx.Commit()
	return user, entry, nil
}

// Spend appends a negative ledger entry and debits the user balance.
// The balance is never allowed to go negative.
func Spend(db *gorm.DB, userId uint, authorId uint, amount int64, entryType string, message string) (user User, entry LedgerEntry, err error) {
	if amount <= 0 {
		return user, entry, ErrInvalidAmount
	}
	tx := db.Begin()
	defer func() {
		tx.Rollback()
	}()
	res := lockForUpdate(tx).
		Where("id = ?", userId).
		First(&user)
	if res.RowsAffected != 1 {
		return user, entry, ErrNotFound
	}
	if user.Balance < amount {
		return user, entry, ErrInsufficientBalance
	}
	user.Balance -= amount
	user.TokensSpent += amount
	res = tx.Save(&user)
	if res.Error != nil {
		return user, entry, res.Error
	}
	entry = LedgerEntry{
		UserId:   user.Id,
		AuthorId: authorId,
		Type:     entryType,
		Status:   EntryAccepted,
		Amount:   -amount,
		Message:  message,
	}
	res = tx.Create(&entry)
	if res.Error != nil {
		return user, entry, res.Error
	}
	tx.Commit()
	return user, entry, nil
}

// CompleteTask pays the fixed task reward exactly once per (user, task) pair.
// The Completion insert and the reward payment share one DB transaction, and
// the composite primary key on completions converts a duplicate request into
// ErrAlreadyCompleted instead of a double payment, including under
// concurrent duplicate submissions.
func CompleteTask(db *gorm.DB, userId uint, taskId uint) (user User, completion Completion, err error) {
	var task Task
	res := db.Where("id = ? AND active = ?", taskId, true).First(&task)
	if res.RowsAffected != 1 {
		return user, completion, ErrNotFound
	}
	tx := db.Begin()
	defer func() {
		tx.Rollback()
	}()
	completion = Completion{
		UserId: userId,
		TaskId: task.Id,
		Reward: task.Reward,
	}
	res = tx.Create(&completion)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return user, completion, ErrAlreadyCompleted
		}
		return user, completion, res.Error
	}
	res = lockForUpdate(tx).
		Where("id = ?", userId).
		First(&user)
	if res.RowsAffected != 1 {
		return user, completion, ErrNotFound
	}
	user.Actions++
	if task.Reward > 0 {
		user.Balance += task.Reward
		user.TokensEarned += task.Reward
		entry := LedgerEntry{
			UserId:   user.Id,
			AuthorId: user.Id,
			Type:     EntryTypeTask,
			Status:   EntryAccepted,
			Amount:   task.Reward,
			Message:  task.Title,
		}
		res = tx.Create(&entry)
		if res.Error != nil {
			return user, completion, res.Error
		}
	}
	res = tx.Save(&user)
	if res.Error != nil {
		return user, completion, res.Error
	}
	tx.Commit()
	return user, completion, nil
}

// ValidateReferral checks the referred contact fields the way the referral
// operation requires: both name and email non-empty after trimming.
func ValidateReferral(name string, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return name, email, ErrValidation
	}
	return name, email, nil
}

// RecordReferral stores the referred contact, bumps the referral counter and
// pays the fixed referral bonus. All three happen in one DB transaction or
// not at all.
func RecordReferral(db *gorm.DB, config *AppConfig, userId uint, contactName string, contactEmail string) (user User, ref Ref, err error) {
	contactName, contactEmail, err = ValidateReferral(contactName, contactEmail)
	if err != nil {
		return user, ref, err
	}
	bonus := config.Settings.Bonuses.Referral
	tx := db.Begin()
	defer func() {
		tx.Rollback()
	}()
	res := lockForUpdate(tx).
		Where("id = ?", userId).
		First(&user)
	if res.RowsAffected != 1 {
		return user, ref, ErrNotFound
	}
	ref = Ref{
		UserId:       user.Id,
		ContactName:  contactName,
		ContactEmail: contactEmail,
		Reward:       bonus,
	}
	res = tx.Create(&ref)
	if res.Error != nil {
		return user, ref, res.Error
	}
	user.RefCounter++
	user.Balance += bonus
	user.TokensEarned += bonus
	res = tx.Save(&user)
	if res.Error != nil {
		return user, ref, res.Error
	}
	entry := LedgerEntry{
		UserId:   user.Id,
		AuthorId: user.Id,
		Type:     EntryTypeReferral,
		Status:   EntryAccepted,
		Amount:   bonus,
		Message:  "Referral: " + contactName,
	}
	res = tx.Create(&entry)
	if res.Error != nil {
		return user, ref, res.Error
	}
	tx.Commit()
	return user, ref, nil
}

// GetRefStats sums the referral relations for the profile view.
func GetRefStats(db *gorm.DB, user User) (refStats RefData) {
	var refRelations []Ref
	res := db.Where("user_id = ?", user.Id).Find(&refRelations)
	if res.RowsAffected > 0 {
		for _, relation := range refRelations {
			refStats.TotalCounter++
			refStats.TokensTotal += relation.Reward
		}
	}
	return refStats
}
