// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// withMockDB makes sqlOpenFunc return a sqlmock database for the rest of the test.
func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	dbMock, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	orig := sqlOpenFunc
	sqlOpenFunc = func(driverName, dsn string) (*sql.DB, error) { return dbMock, nil }
	t.Cleanup(func() {
		sqlOpenFunc = orig
		_ = dbMock.Close()
	})
	return mock
}

func TestRunDBMaintenance_Sqlite_WithMock_Success(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA wal_checkpoint\\(").WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"integrity_check"}).AddRow("ok")
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(rows)

	if err := RunDBMaintenance(context.Background(), "sqlite", "whatever"); err != nil {
		t.Fatalf("expected RunDBMaintenance success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_Sqlite_OptimizeFailureIgnored(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("PRAGMA optimize").WillReturnError(errors.New("optimize fail"))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA wal_checkpoint\\(").WillReturnError(errors.New("not in wal mode"))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("ok"))

	if err := RunDBMaintenance(context.Background(), "sqlite", "whatever"); err != nil {
		t.Fatalf("expected optimize and checkpoint failures to be ignored, got %v", err)
	}
}

func TestRunDBMaintenance_Sqlite_VacuumFailure(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnError(errors.New("vacuum fail"))

	if err := RunDBMaintenance(context.Background(), "sqlite", "whatever"); err == nil {
		t.Fatalf("expected error when VACUUM fails")
	}
}

func TestRunDBMaintenance_Sqlite_IntegrityNotOK(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("PRAGMA optimize").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA wal_checkpoint\\(").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("PRAGMA integrity_check").WillReturnRows(sqlmock.NewRows([]string{"integrity_check"}).AddRow("row 3 missing from index"))

	if err := RunDBMaintenance(context.Background(), "sqlite", "whatever"); err == nil {
		t.Fatalf("expected error when integrity_check is not ok")
	}
}

func TestRunDBMaintenance_Postgres_WithMock_Success(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("VACUUM ANALYZE").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := RunDBMaintenance(context.Background(), "postgres", "dsn"); err != nil {
		t.Fatalf("expected postgres maintenance to succeed, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_Postgres_WithMock_Failure(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectExec("VACUUM ANALYZE").WillReturnError(errors.New("vacuum fail"))

	if err := RunDBMaintenance(context.Background(), "postgres", "dsn"); err == nil {
		t.Fatalf("expected error when VACUUM ANALYZE fails")
	}
}

func TestRunDBMaintenance_MySQL_WithMock_Success(t *testing.T) {
	mock := withMockDB(t)

	rows := sqlmock.NewRows([]string{"Tables_in_ledger"}).AddRow("accounts").AddRow("transactions")
	mock.ExpectQuery("SHOW TABLES").WillReturnRows(rows)
	mock.ExpectExec("OPTIMIZE TABLE `accounts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("OPTIMIZE TABLE `transactions`").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := RunDBMaintenance(context.Background(), "mysql", "dsn"); err != nil {
		t.Fatalf("expected mysql maintenance to succeed, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_MySQL_WithMock_Failure(t *testing.T) {
	mock := withMockDB(t)

	rows := sqlmock.NewRows([]string{"Tables_in_ledger"}).AddRow("accounts").AddRow("audit_log")
	mock.ExpectQuery("SHOW TABLES").WillReturnRows(rows)
	mock.ExpectExec("OPTIMIZE TABLE `accounts`").WillReturnError(errors.New("optimize fail"))
	// A failing table does not stop the remaining ones.
	mock.ExpectExec("OPTIMIZE TABLE `audit_log`").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := RunDBMaintenance(context.Background(), "mysql", "dsn"); err == nil {
		t.Fatalf("expected error when OPTIMIZE TABLE fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRunDBMaintenance_UnsupportedType(t *testing.T) {
	withMockDB(t)
	if err := RunDBMaintenance(context.Background(), "oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported db type")
	}
}
