package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a real Postgres database named by TEST_DATABASE_URL.
// They are skipped when the variable is unset.

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		db, err := sqlx.Connect("postgres", url)
		if err != nil {
			panic(fmt.Sprintf("Failed to connect to test database: %v", err))
		}
		if err := Migrate(context.Background(), db); err != nil {
			panic(fmt.Sprintf("Failed to initialize database schema: %v", err))
		}
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cleanupTestData(testDB)
	return testDB
}

func cleanupTestData(db *sqlx.DB) {
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM loans")
	db.Exec("DELETE FROM clients")
	db.Exec("DELETE FROM settings")
}

func newClient(ownerID uuid.UUID, name string) *domain.Client {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Client{
		ID:        uuid.New(),
		Name:      name,
		Document:  "123.456.789-00",
		Phone:     "11 99999-0000",
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
	}
}

func newLoan(ownerID, clientID uuid.UUID, status string, due time.Time) *domain.Loan {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Loan{
		ID:              uuid.New(),
		ClientID:        clientID,
		PrincipalAmount: decimal.RequireFromString("1000.50"),
		InterestRate:    decimal.RequireFromString("10.25"),
		InterestPeriod:  domain.InterestPeriodWeekly,
		StartDate:       now.AddDate(0, -1, 0),
		DueDate:         due,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
		OwnerID:         ownerID,
	}
}

func newPayment(ownerID, loanID uuid.UUID, amount, paymentType string) *domain.Payment {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: now,
		PaymentType: paymentType,
		CreatedAt:   now,
		OwnerID:     ownerID,
	}
}

func TestClientRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	client := newClient(owner, "Maria Silva")
	require.NoError(t, repo.Create(ctx, client))

	got, err := repo.GetByID(ctx, owner, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", got.Name)
	assert.Equal(t, owner, got.OwnerID)

	_, err = repo.GetByID(ctx, uuid.New(), client.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	got.Phone = "21 98888-1111"
	got.UpdatedAt = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, owner, client.ID)
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(got.UpdatedAt))

	found, err := repo.Search(ctx, owner, "98888")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, client.ID, found[0].ID)

	count, err := repo.Count(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, owner, client.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner, client.ID), sql.ErrNoRows)
}

func TestLoanRepository_ListOverdue(t *testing.T) {
	db := setupTestDB(t)
	clients := NewClientRepository(db)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	owner := uuid.New()
	now := time.Now().UTC()

	client := newClient(owner, "João")
	require.NoError(t, clients.Create(ctx, client))

	overdue := newLoan(owner, client.ID, domain.LoanStatusActive, now.AddDate(0, 0, -3))
	current := newLoan(owner, client.ID, domain.LoanStatusActive, now.AddDate(0, 0, 10))
	paid := newLoan(owner, client.ID, domain.LoanStatusPaid, now.AddDate(0, 0, -3))
	for _, loan := range []*domain.Loan{overdue, current, paid} {
		require.NoError(t, repo.Create(ctx, loan))
	}

	result, err := repo.ListOverdue(ctx, owner, now)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, overdue.ID, result[0].ID)
	assert.True(t, result[0].PrincipalAmount.Equal(decimal.RequireFromString("1000.50")))
	assert.True(t, result[0].InterestRate.Equal(decimal.RequireFromString("10.25")))

	active, err := repo.ListByStatus(ctx, owner, domain.LoanStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	byClient, err := repo.ListByClient(ctx, owner, client.ID)
	require.NoError(t, err)
	assert.Len(t, byClient, 3)

	owners, err := repo.ListOwners(ctx)
	require.NoError(t, err)
	assert.Contains(t, owners, owner)

	other, err := repo.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestLoanRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	clients := NewClientRepository(db)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	client := newClient(owner, "Ana")
	require.NoError(t, clients.Create(ctx, client))
	loan := newLoan(owner, client.ID, domain.LoanStatusActive, time.Now().AddDate(0, 1, 0))
	require.NoError(t, repo.Create(ctx, loan))

	loan.Status = domain.LoanStatusPaid
	loan.Notes = "settled in cash"
	loan.UpdatedAt = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, loan))

	got, err := repo.GetByID(ctx, owner, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusPaid, got.Status)
	assert.Equal(t, "settled in cash", got.Notes)
	assert.True(t, got.UpdatedAt.Equal(loan.UpdatedAt), "updated_at is the caller's timestamp")

	loan.OwnerID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, loan), sql.ErrNoRows)
}

func TestPaymentRepository_CascadeDelete(t *testing.T) {
	db := setupTestDB(t)
	clients := NewClientRepository(db)
	loans := NewLoanRepository(db)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	client := newClient(owner, "Pedro")
	require.NoError(t, clients.Create(ctx, client))
	loan := newLoan(owner, client.ID, domain.LoanStatusActive, time.Now().AddDate(0, 1, 0))
	require.NoError(t, loans.Create(ctx, loan))

	require.NoError(t, repo.Create(ctx, newPayment(owner, loan.ID, "200.00", domain.PaymentTypePrincipal)))
	require.NoError(t, repo.Create(ctx, newPayment(owner, loan.ID, "50.25", domain.PaymentTypeInterest)))

	payments, err := repo.ListByLoan(ctx, owner, loan.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	require.NoError(t, loans.Delete(ctx, owner, loan.ID))

	all, err := repo.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSettingRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, domain.SettingSystemPassword)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.Set(ctx, domain.SettingSystemPassword, "first"))
	require.NoError(t, repo.Set(ctx, domain.SettingSystemPassword, "second"))

	setting, err := repo.Get(ctx, domain.SettingSystemPassword)
	require.NoError(t, err)
	assert.Equal(t, "second", setting.Value)
}
