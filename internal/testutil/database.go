package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database and skips the test when it
// is not reachable. Override the DSN with TEST_DATABASE_DSN; the default
// expects a local MySQL with a 'phonestore_test' schema.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/phonestore_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table. Children go first so the foreign keys
// never block the deletes.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"order_items", "orders", "phones", "brands", "users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema used by the repositories.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createBrandsTable := `
	CREATE TABLE IF NOT EXISTS brands (
		brand_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createPhonesTable := `
	CREATE TABLE IF NOT EXISTS phones (
		phone_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		brand_id INT UNSIGNED NOT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0.00,
		quantity INT NOT NULL DEFAULT 0,
		description TEXT,
		specification TEXT,
		discount DECIMAL(5,2) NOT NULL DEFAULT 0.00,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (brand_id) REFERENCES brands(brand_id),
		INDEX idx_brand (brand_id)
	)`

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		user_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		email VARCHAR(150) NOT NULL,
		full_name VARCHAR(200),
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		user_type VARCHAR(20) NOT NULL DEFAULT 'CUSTOMER',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id INT UNSIGNED NOT NULL,
		order_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(user_id),
		INDEX idx_user (user_id)
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS order_items (
		order_item_id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id INT UNSIGNED NOT NULL,
		phone_id INT UNSIGNED NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		FOREIGN KEY (order_id) REFERENCES orders(order_id) ON DELETE CASCADE,
		FOREIGN KEY (phone_id) REFERENCES phones(phone_id),
		INDEX idx_order (order_id),
		INDEX idx_phone (phone_id)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"brands", createBrandsTable},
		{"phones", createPhonesTable},
		{"users", createUsersTable},
		{"orders", createOrdersTable},
		{"order_items", createOrderItemsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
