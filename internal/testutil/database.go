package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Expects a MySQL instance
// on localhost:3306 with a 'japede_test' schema; skips the test otherwise.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/japede_test?parseTime=true&clientFoundRows=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"cash_adjustments", "cash_register_sessions", "orders", "tables"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the engine persists through.
// DATETIME(6) keeps the last_status_change_time version token precise.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrders := `
	CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		customer_name VARCHAR(150) NOT NULL,
		notes TEXT,
		status VARCHAR(30) NOT NULL DEFAULT 'PENDING',
		order_type VARCHAR(20) NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		auto_progress TINYINT(1) NOT NULL DEFAULT 1,
		next_auto_transition_time DATETIME(6) NULL,
		last_status_change_time DATETIME(6) NOT NULL,
		order_time DATETIME(6) NOT NULL,
		table_id CHAR(36) NULL,
		cash_register_session_id CHAR(36) NULL,
		payment_method VARCHAR(20) NULL,
		amount_paid DECIMAL(10,2) NULL,
		change_due DECIMAL(10,2) NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		INDEX idx_due (auto_progress, status, next_auto_transition_time),
		INDEX idx_session (cash_register_session_id)
	)`

	createTables := `
	CREATE TABLE IF NOT EXISTS tables (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		capacity INT NOT NULL DEFAULT 2,
		status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
		current_order_id CHAR(36) NULL,
		reservation_details JSON NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)
	)`

	createSessions := `
	CREATE TABLE IF NOT EXISTS cash_register_sessions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		status VARCHAR(20) NOT NULL DEFAULT 'OPEN',
		opened_at DATETIME(6) NOT NULL,
		closed_at DATETIME(6) NULL,
		opening_balance DECIMAL(10,2) NOT NULL,
		calculated_sales DECIMAL(10,2) NULL,
		expected_in_cash DECIMAL(10,2) NULL,
		closing_balance_informed DECIMAL(10,2) NULL,
		difference DECIMAL(10,2) NULL,
		notes_opening TEXT,
		notes_closing TEXT,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		INDEX idx_status (status)
	)`

	createAdjustments := `
	CREATE TABLE IF NOT EXISTS cash_adjustments (
		id CHAR(36) NOT NULL PRIMARY KEY,
		session_id CHAR(36) NOT NULL,
		type VARCHAR(10) NOT NULL,
		amount DECIMAL(10,2) NOT NULL,
		reason VARCHAR(255) NOT NULL,
		adjusted_at DATETIME(6) NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_session (session_id)
	)`

	statements := []struct {
		name  string
		query string
	}{
		{"orders", createOrders},
		{"tables", createTables},
		{"cash_register_sessions", createSessions},
		{"cash_adjustments", createAdjustments},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt.query); err != nil {
			t.Logf("failed to create table %s: %v", stmt.name, err)
		}
	}
}
