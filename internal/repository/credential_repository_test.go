package repository_test

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var credentialColumns = []string{"id", "login", "password_hash", "access_token", "created_at", "updated_at"}

func TestCredentialRepository_Create(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	credRepo := repository.NewCredentialRepository(gormDB)

	cred := &model.Credential{Login: "anna", PasswordHash: "hash", AccessToken: "token"}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "credentials"`).
		WithArgs(sqlmock.AnyArg(), "anna", "hash", "token", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := credRepo.Create(context.Background(), cred)

	assert.NoError(t, err)
	assert.NotEmpty(t, cred.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_FindByLogin(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	credRepo := repository.NewCredentialRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "credentials" WHERE login = \$1`).
		WillReturnRows(sqlmock.NewRows(credentialColumns).
			AddRow(model.NewID(), "anna", "hash", "token", now, now))

	cred, err := credRepo.FindByLogin(context.Background(), "anna")

	assert.NoError(t, err)
	assert.Equal(t, "token", cred.AccessToken)
	assert.Equal(t, "hash", cred.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_FindByLogin_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	credRepo := repository.NewCredentialRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "credentials" WHERE login = \$1`).
		WillReturnRows(sqlmock.NewRows(credentialColumns))

	cred, err := credRepo.FindByLogin(context.Background(), "nobody")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, cred)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_FindByAccessToken(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	credRepo := repository.NewCredentialRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "credentials" WHERE access_token = \$1`).
		WillReturnRows(sqlmock.NewRows(credentialColumns).
			AddRow(model.NewID(), "anna", "hash", "token", now, now))

	cred, err := credRepo.FindByAccessToken(context.Background(), "token")

	assert.NoError(t, err)
	assert.Equal(t, "anna", cred.Login)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialRepository_UpdateAccessToken_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	credRepo := repository.NewCredentialRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "credentials" SET "access_token"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := credRepo.UpdateAccessToken(context.Background(), model.NewID(), "fresh")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
