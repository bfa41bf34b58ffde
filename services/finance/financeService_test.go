package finance

import (
	"errors"
	"testing"
	"time"

	financeModel "finance-tracker/models/finance"
	userModel "finance-tracker/models/user"
	financeTypes "finance-tracker/types/finance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.Role{},
		&userModel.User{},
		&financeModel.Account{},
		&financeModel.Category{},
		&financeModel.Transaction{},
	))
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewFinanceService(setupTestDB(t))
}

func createUser(t *testing.T, db *gorm.DB, email string) *userModel.User {
	t.Helper()
	role := userModel.Role{Code: "user-" + email, Name: "User"}
	require.NoError(t, db.Create(&role).Error)
	user := userModel.User{Email: email, Status: userModel.StatusActive, RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createAccount(t *testing.T, svc *Service, userID uint, name string) *financeModel.Account {
	t.Helper()
	account, err := svc.CreateAccount(userID, &financeTypes.CreateAccountRequest{
		Name: name,
		Type: "bank",
	})
	require.NoError(t, err)
	return account
}

func addTxn(t *testing.T, svc *Service, userID, accountID uint, direction string, amount float64, occurred time.Time, categoryID *uint) *financeModel.Transaction {
	t.Helper()
	txn, err := svc.CreateTransaction(userID, &financeTypes.CreateTransactionRequest{
		AccountID:  accountID,
		CategoryID: categoryID,
		Direction:  direction,
		Amount:     amount,
		OccurredAt: occurred,
	})
	require.NoError(t, err)
	return txn
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr), "expected RequestError, got %v", err)
	assert.Equal(t, status, reqErr.Status)
}

func TestInitializeAccountCreatesOpeningBalance(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")

	result, err := svc.InitializeAccount(user.ID, &financeTypes.InitializeAccountRequest{
		Name:          "Efectivo",
		Type:          "cash",
		InitialAmount: 150.50,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Account)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, 150.50, result.Balance)
	assert.Equal(t, financeModel.DirectionInflow, result.Transaction.Direction)
	assert.Equal(t, result.Account.ID, result.Transaction.AccountID)
	require.NotNil(t, result.Transaction.Note)
	assert.Equal(t, "Balance inicial", *result.Transaction.Note)
	assert.Equal(t, "USD", result.Account.Currency)

	balance, err := svc.GetAccountBalance(user.ID, result.Account.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "150.50", balance.Balance)
}

func TestInitializeAccountOnlyOnce(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")

	_, err := svc.InitializeAccount(user.ID, &financeTypes.InitializeAccountRequest{
		Name: "Efectivo", Type: "cash", InitialAmount: 10,
	})
	require.NoError(t, err)

	_, err = svc.InitializeAccount(user.ID, &financeTypes.InitializeAccountRequest{
		Name: "Banco", Type: "bank", InitialAmount: 10,
	})
	requireStatus(t, err, 400)
}

func TestInitializeAccountRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")

	_, err := svc.InitializeAccount(user.ID, &financeTypes.InitializeAccountRequest{
		Name: "Efectivo", Type: "cash", InitialAmount: 0,
	})
	requireStatus(t, err, 400)

	// Nothing half-created
	var accounts, txns int64
	require.NoError(t, svc.DB.Model(&financeModel.Account{}).Count(&accounts).Error)
	require.NoError(t, svc.DB.Model(&financeModel.Transaction{}).Count(&txns).Error)
	assert.Zero(t, accounts)
	assert.Zero(t, txns)
}

func TestInitializeAccountRollsBackWhenOpeningEntryFails(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")

	// Make the opening-balance insert fail mid-transaction
	require.NoError(t, svc.DB.Migrator().DropTable(&financeModel.Transaction{}))

	_, err := svc.InitializeAccount(user.ID, &financeTypes.InitializeAccountRequest{
		Name: "Efectivo", Type: "cash", InitialAmount: 100,
	})
	require.Error(t, err)

	// The account created in the same transaction must not survive
	var accounts int64
	require.NoError(t, svc.DB.Model(&financeModel.Account{}).Count(&accounts).Error)
	assert.Zero(t, accounts)
}

func TestAccountOwnershipIsEnforced(t *testing.T) {
	svc := newTestService(t)
	owner := createUser(t, svc.DB, "owner@example.com")
	intruder := createUser(t, svc.DB, "intruder@example.com")
	account := createAccount(t, svc, owner.ID, "Banco")

	name := "Robada"
	_, err := svc.UpdateAccount(intruder.ID, account.ID, &financeTypes.UpdateAccountRequest{Name: &name})
	requireStatus(t, err, 404)

	err = svc.DeleteAccount(intruder.ID, account.ID)
	requireStatus(t, err, 404)

	_, err = svc.GetAccountBalance(intruder.ID, account.ID, nil)
	requireStatus(t, err, 404)

	accounts, err := svc.ListAccounts(intruder.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestGetAccountBalanceHonorsAsOfCutoff(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	addTxn(t, svc, user.ID, account.ID, "inflow", 100, base, nil)
	addTxn(t, svc, user.ID, account.ID, "outflow", 30, base.AddDate(0, 0, 5), nil)
	addTxn(t, svc, user.ID, account.ID, "inflow", 50, base.AddDate(0, 0, 10), nil)

	cutoff := base.AddDate(0, 0, 6)
	balance, err := svc.GetAccountBalance(user.ID, account.ID, &cutoff)
	require.NoError(t, err)
	assert.Equal(t, "100.00", balance.Inflow)
	assert.Equal(t, "30.00", balance.Outflow)
	assert.Equal(t, "70.00", balance.Balance)

	full, err := svc.GetAccountBalance(user.ID, account.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "120.00", full.Balance)
}

func TestDeleteAccountRemovesItsTransactions(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")
	other := createAccount(t, svc, user.ID, "Efectivo")

	addTxn(t, svc, user.ID, account.ID, "inflow", 10, time.Now(), nil)
	addTxn(t, svc, user.ID, other.ID, "inflow", 20, time.Now(), nil)

	require.NoError(t, svc.DeleteAccount(user.ID, account.ID))

	var count int64
	require.NoError(t, svc.DB.Model(&financeModel.Transaction{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateTransactionValidatesOwnership(t *testing.T) {
	svc := newTestService(t)
	owner := createUser(t, svc.DB, "owner@example.com")
	intruder := createUser(t, svc.DB, "intruder@example.com")
	account := createAccount(t, svc, owner.ID, "Banco")

	_, err := svc.CreateTransaction(intruder.ID, &financeTypes.CreateTransactionRequest{
		AccountID:  account.ID,
		Direction:  "inflow",
		Amount:     10,
		OccurredAt: time.Now(),
	})
	requireStatus(t, err, 404)

	// A foreign category is rejected even on an owned account
	intruderAccount := createAccount(t, svc, intruder.ID, "Propia")
	category, err := svc.CreateCategory(owner.ID, &financeTypes.CreateCategoryRequest{Name: "Comida"})
	require.NoError(t, err)

	_, err = svc.CreateTransaction(intruder.ID, &financeTypes.CreateTransactionRequest{
		AccountID:  intruderAccount.ID,
		CategoryID: &category.ID,
		Direction:  "outflow",
		Amount:     10,
		OccurredAt: time.Now(),
	})
	requireStatus(t, err, 404)
}

func TestListTransactionsFiltersAndPaginates(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")
	other := createAccount(t, svc, user.ID, "Efectivo")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		addTxn(t, svc, user.ID, account.ID, "outflow", float64(i+1), base.AddDate(0, 0, i), nil)
	}
	addTxn(t, svc, user.ID, other.ID, "inflow", 99, base, nil)

	accountID := account.ID
	page, err := svc.ListTransactions(user.ID, &financeTypes.ListTransactionsQuery{
		Page:      1,
		PageSize:  2,
		AccountID: &accountID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	items := page.Items.([]financeModel.Transaction)
	require.Len(t, items, 2)
	// Newest first
	assert.Equal(t, 5.0, items[0].Amount)
	assert.Equal(t, 4.0, items[1].Amount)

	from := base.AddDate(0, 0, 3)
	filtered, err := svc.ListTransactions(user.ID, &financeTypes.ListTransactionsQuery{
		From:      &from,
		Direction: "outflow",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), filtered.Total)
}

func TestUpdateTransactionClearsCategory(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")
	category, err := svc.CreateCategory(user.ID, &financeTypes.CreateCategoryRequest{Name: "Comida"})
	require.NoError(t, err)

	txn := addTxn(t, svc, user.ID, account.ID, "outflow", 10, time.Now(), &category.ID)
	require.NotNil(t, txn.CategoryID)

	_, err = svc.UpdateTransaction(user.ID, txn.ID, &financeTypes.UpdateTransactionRequest{
		ClearCategory: true,
	})
	require.NoError(t, err)

	var stored financeModel.Transaction
	require.NoError(t, svc.DB.First(&stored, txn.ID).Error)
	assert.Nil(t, stored.CategoryID)
}

func TestUpdateTransactionRejectsForeignTargets(t *testing.T) {
	svc := newTestService(t)
	owner := createUser(t, svc.DB, "owner@example.com")
	intruder := createUser(t, svc.DB, "intruder@example.com")
	ownerAccount := createAccount(t, svc, owner.ID, "Banco")
	foreignAccount := createAccount(t, svc, intruder.ID, "Ajena")

	txn := addTxn(t, svc, owner.ID, ownerAccount.ID, "outflow", 10, time.Now(), nil)

	_, err := svc.UpdateTransaction(owner.ID, txn.ID, &financeTypes.UpdateTransactionRequest{
		AccountID: &foreignAccount.ID,
	})
	requireStatus(t, err, 404)

	_, err = svc.UpdateTransaction(intruder.ID, txn.ID, &financeTypes.UpdateTransactionRequest{})
	requireStatus(t, err, 404)
}

func TestDeleteCategoryDetachesTransactions(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")
	category, err := svc.CreateCategory(user.ID, &financeTypes.CreateCategoryRequest{Name: "Comida"})
	require.NoError(t, err)

	txn := addTxn(t, svc, user.ID, account.ID, "outflow", 10, time.Now(), &category.ID)

	require.NoError(t, svc.DeleteCategory(user.ID, category.ID))

	var stored financeModel.Transaction
	require.NoError(t, svc.DB.First(&stored, txn.ID).Error)
	assert.Nil(t, stored.CategoryID)

	categories, err := svc.ListCategories(user.ID)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestGetSummaryAggregatesAndRanksCategories(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")

	food, err := svc.CreateCategory(user.ID, &financeTypes.CreateCategoryRequest{Name: "Comida"})
	require.NoError(t, err)
	transport, err := svc.CreateCategory(user.ID, &financeTypes.CreateCategoryRequest{Name: "Transporte"})
	require.NoError(t, err)

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	addTxn(t, svc, user.ID, account.ID, "inflow", 500, base, nil)
	addTxn(t, svc, user.ID, account.ID, "outflow", 120, base, &food.ID)
	addTxn(t, svc, user.ID, account.ID, "outflow", 30, base, &food.ID)
	addTxn(t, svc, user.ID, account.ID, "outflow", 80, base, &transport.ID)
	addTxn(t, svc, user.ID, account.ID, "outflow", 15, base, nil)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	summary, err := svc.GetSummary(user.ID, &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 500.0, summary.Totals.Inflow)
	assert.Equal(t, 245.0, summary.Totals.Outflow)
	assert.Equal(t, 255.0, summary.Totals.Net)

	require.Len(t, summary.ExpensesByCategory, 3)
	assert.Equal(t, "Comida", summary.ExpensesByCategory[0].CategoryName)
	assert.Equal(t, 150.0, summary.ExpensesByCategory[0].Total)
	assert.Equal(t, "Transporte", summary.ExpensesByCategory[1].CategoryName)
	assert.Equal(t, "(sin categoría)", summary.ExpensesByCategory[2].CategoryName)
	assert.Nil(t, summary.ExpensesByCategory[2].CategoryID)
}

func TestGetSummaryDefaultsToCurrentMonth(t *testing.T) {
	svc := newTestService(t)
	user := createUser(t, svc.DB, "a@example.com")
	account := createAccount(t, svc, user.ID, "Banco")

	addTxn(t, svc, user.ID, account.ID, "inflow", 100, time.Now(), nil)
	addTxn(t, svc, user.ID, account.ID, "inflow", 999, time.Now().AddDate(0, -2, 0), nil)

	summary, err := svc.GetSummary(user.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Totals.Inflow)
	assert.Equal(t, time.Now().Month(), summary.From.Month())
}

func TestSummaryIsScopedPerUser(t *testing.T) {
	svc := newTestService(t)
	a := createUser(t, svc.DB, "a@example.com")
	b := createUser(t, svc.DB, "b@example.com")
	accountA := createAccount(t, svc, a.ID, "Banco")
	accountB := createAccount(t, svc, b.ID, "Banco")

	addTxn(t, svc, a.ID, accountA.ID, "inflow", 100, time.Now(), nil)
	addTxn(t, svc, b.ID, accountB.ID, "inflow", 40, time.Now(), nil)

	summary, err := svc.GetSummary(b.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, summary.Totals.Inflow)
}
