package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffelipeandres24/banco-maria/internal/config"
	"github.com/ffelipeandres24/banco-maria/internal/domain"
	"github.com/ffelipeandres24/banco-maria/internal/repository"
	customError "github.com/ffelipeandres24/banco-maria/pkg/errors"
)

var testDB *sqlx.DB

const testDBName = "banco_maria_test"

// These tests need a live postgres; set INTEGRATION_TESTS=1 to run them.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		fmt.Println("skipping repository integration tests; set INTEGRATION_TESTS=1 to run")
		os.Exit(0)
	}

	setup()
	code := m.Run()
	teardown()
	os.Exit(code)
}

func setup() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Connect to postgres database to create the test database
	cfg.Database.Name = "postgres"
	adminDB, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to postgres database: %v", err))
	}
	defer adminDB.Close()

	adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
	_, err = adminDB.Exec(fmt.Sprintf("CREATE DATABASE %s", testDBName))
	if err != nil {
		panic(fmt.Sprintf("Failed to create test database: %v", err))
	}

	cfg.Database.Name = testDBName
	testDB, err = sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to test database: %v", err))
	}

	if err := executeInitSQL(testDB); err != nil {
		panic(fmt.Sprintf("Failed to initialize database schema: %v", err))
	}
}

func teardown() {
	if testDB != nil {
		testDB.Close()
	}

	cfg, _ := config.Load()
	cfg.Database.Name = "postgres"

	adminDB, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return
	}
	defer adminDB.Close()

	adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS %s", testDBName))
}

func executeInitSQL(db *sqlx.DB) error {
	sqlBytes, err := os.ReadFile("../../../migrations/init.sql")
	if err != nil {
		return fmt.Errorf("failed to read init.sql: %w", err)
	}

	_, err = db.Exec(string(sqlBytes))
	if err != nil {
		return fmt.Errorf("failed to execute init.sql: %w", err)
	}

	return nil
}

func setupTestDB(t *testing.T) *sqlx.DB {
	cleanupTestData(testDB)
	return testDB
}

func cleanupTestData(db *sqlx.DB) {
	db.Exec("DELETE FROM installments")
	db.Exec("DELETE FROM loans")
	db.Exec("DELETE FROM clients")
}

func createTestClient(t *testing.T, db *sqlx.DB) *domain.Client {
	t.Helper()

	repo := repository.NewClientRepository(db)
	now := time.Now()
	client := &domain.Client{
		ID:         uuid.New(),
		Name:       "Maria Lopez",
		NationalID: uuid.NewString(),
		Phone:      "3001234567",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Create(context.Background(), client))
	return client
}

func buildTestLoan(clientID uuid.UUID, totalPayable decimal.Decimal, installmentAmount decimal.Decimal, count int) (*domain.Loan, []*domain.Installment) {
	now := time.Now()
	startDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	loan := &domain.Loan{
		ID:                 uuid.New(),
		ClientID:           clientID,
		Principal:          totalPayable.Div(decimal.NewFromFloat(1.20)).Round(2),
		TotalPayable:       totalPayable,
		InstallmentCount:   count,
		InstallmentAmount:  installmentAmount,
		IntervalDays:       30,
		StartDate:          startDate,
		OutstandingBalance: totalPayable,
		Status:             domain.LoanStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	schedule := make([]*domain.Installment, 0, count)
	for seq := 1; seq <= count; seq++ {
		schedule = append(schedule, &domain.Installment{
			ID:             uuid.New(),
			LoanID:         loan.ID,
			SequenceNumber: seq,
			Amount:         installmentAmount,
			DueDate:        startDate.AddDate(0, 0, seq*30),
			Paid:           false,
			CreatedAt:      now,
		})
	}

	return loan, schedule
}

func TestLoanRepository_CreateWithSchedule(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	loan, schedule := buildTestLoan(client.ID, decimal.NewFromInt(120000), decimal.NewFromInt(24000), 5)

	require.NoError(t, repo.CreateWithSchedule(ctx, loan, schedule))

	stored, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(120000)))
	assert.Equal(t, domain.LoanStatusActive, stored.Status)

	installments, err := repo.GetScheduleByLoanID(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, 5, len(installments))
	for i, installment := range installments {
		assert.Equal(t, i+1, installment.SequenceNumber)
		assert.False(t, installment.Paid)
		assert.Nil(t, installment.PaidAt)
		if i > 0 {
			assert.True(t, installment.DueDate.After(installments[i-1].DueDate))
		}
	}
}

func TestLoanRepository_CreateWithSchedule_RollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	loan, schedule := buildTestLoan(client.ID, decimal.NewFromInt(120000), decimal.NewFromInt(24000), 3)

	// A duplicate sequence number violates the schedule's unique constraint
	// partway through the insert loop
	schedule[2].SequenceNumber = schedule[1].SequenceNumber

	err := repo.CreateWithSchedule(ctx, loan, schedule)
	require.Error(t, err)

	// Neither the loan nor any installment may survive the failed transaction
	_, err = repo.GetByID(ctx, loan.ID)
	assert.True(t, errors.Is(err, customError.ErrLoanNotFound))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM installments WHERE loan_id = $1", loan.ID))
	assert.Equal(t, 0, count)
}

func TestLoanRepository_PayInstallment_DecrementsBalance(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	loan, schedule := buildTestLoan(client.ID, decimal.NewFromInt(120000), decimal.NewFromInt(24000), 5)
	require.NoError(t, repo.CreateWithSchedule(ctx, loan, schedule))

	paid, err := repo.PayInstallment(ctx, schedule[0].ID, time.Now())
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.NotNil(t, paid.PaidAt)
	assert.True(t, paid.Amount.Equal(decimal.NewFromInt(24000)))

	stored, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(96000)),
		"expected 96000, got %s", stored.OutstandingBalance)
	assert.Equal(t, domain.LoanStatusActive, stored.Status)
}

func TestLoanRepository_PayInstallment_AlreadyPaid(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	loan, schedule := buildTestLoan(client.ID, decimal.NewFromInt(120000), decimal.NewFromInt(24000), 5)
	require.NoError(t, repo.CreateWithSchedule(ctx, loan, schedule))

	_, err := repo.PayInstallment(ctx, schedule[0].ID, time.Now())
	require.NoError(t, err)

	_, err = repo.PayInstallment(ctx, schedule[0].ID, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrInstallmentAlreadyPaid))

	// The balance reflects exactly one decrement
	stored, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.NewFromInt(96000)),
		"expected 96000 after rejected double payment, got %s", stored.OutstandingBalance)
}

func TestLoanRepository_PayInstallment_NotFound(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)

	_, err := repo.PayInstallment(context.Background(), uuid.New(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, customError.ErrInstallmentNotFound))
}

func TestLoanRepository_PayInstallment_ClosesLoanAtZeroBalance(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	client := createTestClient(t, db)
	loan, schedule := buildTestLoan(client.ID, decimal.NewFromInt(120000), decimal.NewFromInt(60000), 2)
	require.NoError(t, repo.CreateWithSchedule(ctx, loan, schedule))

	_, err := repo.PayInstallment(ctx, schedule[0].ID, time.Now())
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, stored.Status)

	_, err = repo.PayInstallment(ctx, schedule[1].ID, time.Now())
	require.NoError(t, err)

	stored, err = repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusClosed, stored.Status)
	assert.True(t, stored.OutstandingBalance.Equal(decimal.Zero),
		"expected zero balance, got %s", stored.OutstandingBalance)
}

func TestLoanRepository_PayInstallment_ClosesLoanWithRoundingResidual(t *testing.T) {
	db := setupTestDB(t)

	repo := repository.NewLoanRepository(db)
	ctx := context.Background()

	// 100.00 / 3 rounds to 33.33 per installment; the three payments sum to
	// 99.99, so the balance alone never reaches zero
	client := createTestClient(t, db)
	loan, schedule := buildTestLoan(client.ID, decimal.NewFromInt(100), decimal.NewFromFloat(33.33), 3)
	require.NoError(t, repo.CreateWithSchedule(ctx, loan, schedule))

	for _, installment := range schedule {
		_, err := repo.PayInstallment(ctx, installment.ID, time.Now())
		require.NoError(t, err)
	}

	stored, err := repo.GetByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusClosed, stored.Status, "loan with all installments paid must close")
	assert.True(t, stored.OutstandingBalance.Equal(decimal.Zero),
		"expected the 0.01 residue written off to zero, got %s", stored.OutstandingBalance)
}
