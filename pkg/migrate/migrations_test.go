package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wafarle/wafarle-backend/pkg/migrate"
)

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestCartMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_carts.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cart_items",
		"FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE",
		"CHECK (qty > 0)",
		"idx_carts_one_active_per_customer",
		"DROP TABLE IF EXISTS cart_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCurrencyMigrationEnforcesSingleDefault(t *testing.T) {
	content := readMigration(t, "*_create_currencies.sql")

	checks := []string{
		"idx_currencies_one_default",
		"WHERE is_default",
		"CHECK (rate > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestLicenseMigrationRequiresExpiryUnlessPermanent(t *testing.T) {
	content := readMigration(t, "*_create_licenses.sql")

	if !strings.Contains(content, "CHECK (is_permanent OR expiry_date IS NOT NULL)") {
		t.Error("missing permanent/expiry check constraint")
	}
	if !strings.Contains(content, "idx_licenses_key") {
		t.Error("missing unique key index")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
