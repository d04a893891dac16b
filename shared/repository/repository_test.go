package repository_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentwheels/infras/otel/mocks"
	"rentwheels/infras/postgres"
	"rentwheels/shared/dto"
	"rentwheels/shared/model"
	"rentwheels/shared/repository"
)

type account struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	model.Metadata
}

func newTestRepository(t *testing.T) (repository.Repository[account], sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	conn := &postgres.Connection{Read: db, Write: db}

	return repository.NewRepository[account]("Account", "accounts", "id", conn, mocks.NewOtel()), mock
}

func filterByID(id string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "id", Operator: dto.FilterOperatorEq, Value: id},
		},
	}
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("INSERT INTO accounts \\(id, email, created_at, modified_at, created_by, modified_by\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), account{ID: "account-id", Email: "driver@example.com"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_Error(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("INSERT INTO accounts").WillReturnError(assert.AnError)

	err := repo.Insert(context.Background(), account{ID: "account-id"})

	assert.ErrorContains(t, err, "failed to insert data (Account)")
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newTestRepository(t)

	rows := sqlmock.NewRows([]string{"id", "email"}).
		AddRow("account-id", "driver@example.com")

	mock.ExpectPrepare("SELECT accounts.id, accounts.email(.|\n)* FROM accounts").
		ExpectQuery().
		WillReturnRows(rows)

	result, err := repo.Get(context.Background(), filterByID("account-id"))

	assert.NoError(t, err)
	assert.Equal(t, "driver@example.com", result.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFoundReturnsZeroValue(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectPrepare("SELECT (.|\n)* FROM accounts").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	result, err := repo.Get(context.Background(), filterByID("missing-id"))

	assert.NoError(t, err)
	assert.Empty(t, result.ID)
}

func TestRepository_GetAll(t *testing.T) {
	repo, mock := newTestRepository(t)

	rows := sqlmock.NewRows([]string{"id", "email"}).
		AddRow("first-id", "one@example.com").
		AddRow("second-id", "two@example.com")

	mock.ExpectPrepare("SELECT (.|\n)* FROM accounts (.|\n)*ORDER BY created_at desc LIMIT (.|\n)*OFFSET").
		ExpectQuery().
		WillReturnRows(rows)

	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "desc"}

	results, err := repo.GetAll(context.Background(), params, dto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectPrepare("SELECT COUNT\\(accounts.id\\) FROM accounts").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(context.Background(), dto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestRepository_Exist(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectPrepare("SELECT EXISTS\\(SELECT 1 FROM accounts").
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exist, err := repo.Exist(context.Background(), filterByID("account-id"))

	assert.NoError(t, err)
	assert.True(t, exist)
}

func TestRepository_Exist_RequiresFilter(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Exist(context.Background(), dto.FilterGroup{})

	assert.ErrorContains(t, err, "required filter")
}

func TestRepository_Update(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("UPDATE accounts SET (.|\n)* WHERE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), map[string]any{"email": "new@example.com"}, filterByID("account-id"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_RequiresFilter(t *testing.T) {
	repo, _ := newTestRepository(t)

	err := repo.Update(context.Background(), map[string]any{"email": "new@example.com"}, dto.FilterGroup{})

	assert.ErrorContains(t, err, "required filter")
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("DELETE FROM accounts WHERE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), filterByID("account-id"))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete_RequiresFilter(t *testing.T) {
	repo, _ := newTestRepository(t)

	err := repo.Delete(context.Background(), dto.FilterGroup{})

	assert.ErrorContains(t, err, "required filter")
}
