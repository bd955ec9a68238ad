package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"

	repo "loanapp-backend/internal/adapter/repository/mysql"
)

func TestOpenGormWithDialector(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		wantErr bool
	}{
		{name: "connected"},
		{name: "ping refused", pingErr: errors.New("connection refused"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			if err != nil {
				t.Fatal(err)
			}
			defer conn.Close()
			mock.ExpectPing().WillReturnError(tt.pingErr)

			gdb, err := OpenGormWithDialector(mysql.New(mysql.Config{Conn: conn, SkipInitializeWithVersion: true}))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				stats, _ := gdb.DB()
				if stats.Stats().MaxOpenConnections != 30 {
					t.Fatalf("pool not tuned: %+v", stats.Stats())
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestMigrate_Schema(t *testing.T) {
	gdb, err := OpenGormWithDialector(sqlite.Open("file:migrate_schema?mode=memory&cache=shared"))
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(gdb, repo.Models()...); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	for _, table := range []string{"loans", "loan_documents", "loan_review_events", "repayments", "notifications", "audit_logs", "users"} {
		if !gdb.Migrator().HasTable(table) {
			t.Errorf("table %s missing", table)
		}
	}
}
