package warehouse

import (
	"context"
	"fmt"
	"time"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// PhaseResult records the outcome of one provisioning or teardown phase.
type PhaseResult struct {
	Name    string
	OK      bool
	Detail  string
	Err     error
	Elapsed time.Duration
}

type phase struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// runPhases executes phases in order. When abortOnError is set the first
// failure stops the run; the failed phase is still appended to the log.
func runPhases(ctx context.Context, phases []phase, abortOnError bool) ([]PhaseResult, error) {
	var results []PhaseResult
	var firstErr error

	for _, p := range phases {
		start := time.Now()
		detail, err := p.run(ctx)
		r := PhaseResult{
			Name:    p.name,
			OK:      err == nil,
			Detail:  detail,
			Err:     err,
			Elapsed: time.Since(start),
		}
		results = append(results, r)

		if err != nil {
			logging.Get(logging.CategoryProvision).Error("Phase %s failed: %v", p.name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("phase %s: %w", p.name, err)
			}
			if abortOnError {
				return results, firstErr
			}
			continue
		}
		logging.Provision("Phase %s ok: %s (%v)", p.name, detail, r.Elapsed)
	}
	return results, firstErr
}

// Provision creates the demo environment: database record, schemas, role,
// compute profiles, external integration, and the AI registry tables. Phases
// run in order and the run aborts on the first failure.
func (s *Store) Provision(ctx context.Context) ([]PhaseResult, error) {
	timer := logging.StartTimer(logging.CategoryProvision, "Provision")
	defer timer.StopWithInfo()

	phases := []phase{
		{"create_database", s.createDatabase},
		{"create_schemas", s.createSchemas},
		{"create_role", s.createRole},
		{"create_warehouses", s.createWarehouses},
		{"create_integration", s.createIntegration},
		{"create_registries", s.createRegistries},
	}
	return runPhases(ctx, phases, true)
}

func (s *Store) createDatabase(ctx context.Context) (string, error) {
	_, err := s.Exec(`CREATE TABLE IF NOT EXISTS OPS_DATABASES (
		name TEXT PRIMARY KEY,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		comment TEXT
	)`)
	if err != nil {
		return "", err
	}
	_, err = s.Exec(
		"INSERT OR IGNORE INTO OPS_DATABASES (name, comment) VALUES (?, ?)",
		s.cfg.Database.Name, "Simulated Asset Management demo database")
	if err != nil {
		return "", err
	}
	return "database " + s.cfg.Database.Name, nil
}

func (s *Store) createSchemas(ctx context.Context) (string, error) {
	_, err := s.Exec(`CREATE TABLE IF NOT EXISTS OPS_SCHEMAS (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return "", err
	}
	for key, name := range s.cfg.Database.Schemas {
		if _, err := s.Exec(
			"INSERT OR REPLACE INTO OPS_SCHEMAS (key, name) VALUES (?, ?)", key, name); err != nil {
			return "", fmt.Errorf("schema %s: %w", name, err)
		}
	}
	return fmt.Sprintf("%d schemas", len(s.cfg.Database.Schemas)), nil
}

func (s *Store) createRole(ctx context.Context) (string, error) {
	_, err := s.Exec(`CREATE TABLE IF NOT EXISTS OPS_ROLES (
		name TEXT PRIMARY KEY,
		grants TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return "", err
	}
	_, err = s.Exec(
		"INSERT OR REPLACE INTO OPS_ROLES (name, grants) VALUES (?, ?)",
		s.cfg.Database.Role, "USAGE ON DATABASE, ALL SCHEMAS, ALL WAREHOUSES")
	if err != nil {
		return "", err
	}
	return "role " + s.cfg.Database.Role, nil
}

func (s *Store) createWarehouses(ctx context.Context) (string, error) {
	_, err := s.Exec(`CREATE TABLE IF NOT EXISTS OPS_WAREHOUSES (
		name TEXT PRIMARY KEY,
		size TEXT NOT NULL,
		auto_suspend_seconds INTEGER NOT NULL,
		target_lag TEXT,
		comment TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return "", err
	}
	for _, wh := range []config.WarehouseProfile{s.cfg.Warehouses.Execution, s.cfg.Warehouses.Search} {
		if _, err := s.Exec(
			`INSERT OR REPLACE INTO OPS_WAREHOUSES
			 (name, size, auto_suspend_seconds, target_lag, comment)
			 VALUES (?, ?, ?, ?, ?)`,
			wh.Name, wh.Size, wh.AutoSuspend, wh.TargetLag, wh.Comment); err != nil {
			return "", fmt.Errorf("warehouse %s: %w", wh.Name, err)
		}
	}
	return fmt.Sprintf("%s, %s", s.cfg.Warehouses.Execution.Name, s.cfg.Warehouses.Search.Name), nil
}

func (s *Store) createIntegration(ctx context.Context) (string, error) {
	_, err := s.Exec(`CREATE TABLE IF NOT EXISTS OPS_INTEGRATIONS (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return "", err
	}
	_, err = s.Exec(
		"INSERT OR REPLACE INTO OPS_INTEGRATIONS (name, kind) VALUES (?, ?)",
		"SAM_EXTERNAL_ACCESS", "EXTERNAL_ACCESS")
	if err != nil {
		return "", err
	}
	return "SAM_EXTERNAL_ACCESS", nil
}

// createRegistries makes the AI-schema registry tables that search, semantic
// view, and agent registration write into.
func (s *Store) createRegistries(ctx context.Context) (string, error) {
	ai := s.cfg.SchemaName("ai")
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_SEARCH_SERVICES (
			service_name TEXT PRIMARY KEY,
			table_name TEXT NOT NULL,
			warehouse TEXT NOT NULL,
			target_lag TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`, ai),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_SEMANTIC_VIEWS (
			view_name TEXT PRIMARY KEY,
			description TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`, ai),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_AGENTS (
			agent_name TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			description TEXT,
			spec_yaml TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`, ai),
	}
	for _, stmt := range stmts {
		if _, err := s.Exec(stmt); err != nil {
			return "", err
		}
	}
	return "registry tables in " + ai, nil
}
