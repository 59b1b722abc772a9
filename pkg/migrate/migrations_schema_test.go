package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusmart/campusmart-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"status TEXT NOT NULL DEFAULT 'placed'",
		"payment_status TEXT NOT NULL DEFAULT 'pending'",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL",
		"CHECK (total_amount_cents >= 0)",
		"DROP TABLE IF EXISTS orders",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentTransactionsMigrationContainsIndexes(t *testing.T) {
	content := readMigration(t, "*_create_payment_transactions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS payment_transactions",
		"gateway_order_id TEXT NOT NULL",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"payment_transactions_gateway_order_id_idx",
		"DROP TABLE IF EXISTS payment_transactions",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestWishlistMigrationEnforcesUniqueness(t *testing.T) {
	content := readMigration(t, "*_create_wishlist_items.sql")

	if !strings.Contains(content, "CONSTRAINT wishlist_items_user_product_key UNIQUE (user_id, product_id)") {
		t.Errorf("wishlist migration missing user/product unique constraint")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
