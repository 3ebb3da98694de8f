package ncsapi

import (
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDb(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDb, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One connection keeps the in-memory database shared across goroutines
	sqlDb.SetMaxOpenConns(1)
	err = db.AutoMigrate(&User{}, &Task{}, &Completion{}, &LedgerEntry{}, &Ref{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCompleteTaskConcurrentDuplicates(t *testing.T) {
	db := testDb(t)
	user := User{Email: "ada@example.org", Name: "Ada"}
	db.Create(&user)
	task := Task{Title: "Link your ORCID", Reward: 100, Active: true}
	db.Create(&task)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = CompleteTask(db, user.Id, task.Id)
		}(i)
	}
	wg.Wait()

	paid := 0
	for _, err := range errs {
		switch {
		case err == nil:
			paid++
		case errors.Is(err, ErrAlreadyCompleted):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if paid != 1 {
		t.Fatalf("%d submissions paid, want exactly 1", paid)
	}
	var got User
	db.First(&got, user.Id)
	if got.Balance != task.Reward || got.TokensEarned != task.Reward {
		t.Errorf("balance = %d, earned = %d, want both %d", got.Balance, got.TokensEarned, task.Reward)
	}
	if got.Balance != got.TokensEarned-got.TokensSpent {
		t.Errorf("balance = %d, earned-spent = %d", got.Balance, got.TokensEarned-got.TokensSpent)
	}
	var entries int64
	db.Model(&LedgerEntry{}).Where("user_id = ? AND type = ?", user.Id, EntryTypeTask).Count(&entries)
	if entries != 1 {
		t.Errorf("ledger holds %d task entries, want 1", entries)
	}
}

func TestCompleteTaskRepeatedSubmission(t *testing.T) {
	db := testDb(t)
	user := User{Email: "ada@example.org", Name: "Ada"}
	db.Create(&user)
	task := Task{Title: "Complete your researcher profile", Reward: 50, Active: true}
	db.Create(&task)

	if _, _, err := CompleteTask(db, user.Id, task.Id); err != nil {
		t.Fatalf("first completion error = %v", err)
	}
	if _, _, err := CompleteTask(db, user.Id, task.Id); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion error = %v, want ErrAlreadyCompleted", err)
	}
	var got User
	db.First(&got, user.Id)
	if got.Balance != task.Reward {
		t.Errorf("balance = %d after repeat, want %d", got.Balance, task.Reward)
	}
	if got.Actions != 1 {
		t.Errorf("actions = %d after repeat, want 1", got.Actions)
	}
}

func TestSpendInsufficientBalanceLeavesStateUnchanged(t *testing.T) {
	db := testDb(t)
	user := User{Email: "grace@example.org", Name: "Grace"}
	db.Create(&user)
	if _, _, err := Earn(db, user.Id, user.Id, 200, EntryTypeBonus, "Signup bonus"); err != nil {
		t.Fatalf("Earn error = %v", err)
	}

	_, _, err := Spend(db, user.Id, user.Id, 500, EntryTypeRedeem, "too much")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Spend error = %v, want ErrInsufficientBalance", err)
	}
	var got User
	db.First(&got, user.Id)
	if got.Balance != 200 || got.TokensSpent != 0 {
		t.Errorf("balance = %d, spent = %d after failed spend, want 200, 0", got.Balance, got.TokensSpent)
	}
	var entries int64
	db.Model(&LedgerEntry{}).Where("user_id = ? AND type = ?", user.Id, EntryTypeRedeem).Count(&entries)
	if entries != 0 {
		t.Errorf("failed spend wrote %d ledger entries, want 0", entries)
	}

	updated, entry, err := Spend(db, user.Id, user.Id, 50, EntryTypeRedeem, "redeem")
	if err != nil {
		t.Fatalf("Spend error = %v", err)
	}
	if entry.Amount != -50 {
		t.Errorf("entry amount = %d, want -50", entry.Amount)
	}
	if updated.Balance != 150 {
		t.Errorf("balance = %d after spend, want 150", updated.Balance)
	}
	if updated.Balance != updated.TokensEarned-updated.TokensSpent {
		t.Errorf("balance = %d, earned-spent = %d", updated.Balance, updated.TokensEarned-updated.TokensSpent)
	}
}
