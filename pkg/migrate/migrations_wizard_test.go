package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/portside-hq/portside-backend/pkg/migrate"
)

func TestWizardMigrationEnforcesSingleDraft(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_wizard_sessions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no wizard sessions migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS wizard_sessions",
		"ux_wizard_sessions_draft_per_user_org",
		"WHERE status = 'draft'",
		"FOREIGN KEY (session_id) REFERENCES wizard_sessions(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS wizard_sessions",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
