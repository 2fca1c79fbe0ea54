package warehouse

import (
	"context"
	"fmt"
	"os"

	"samforge/internal/logging"
)

// Teardown dismantles the demo environment in dependency order: agents
// first, then search services, semantic views, the external integration,
// the database tables, compute profiles, and finally the role. Phases are
// best-effort; every failure is recorded and the first is returned.
func (s *Store) Teardown(ctx context.Context) ([]PhaseResult, error) {
	timer := logging.StartTimer(logging.CategoryTeardown, "Teardown")
	defer timer.StopWithInfo()

	phases := []phase{
		{"drop_agents", s.dropAgents},
		{"drop_search_services", s.dropSearchServices},
		{"drop_semantic_views", s.dropSemanticViews},
		{"drop_integration", s.dropIntegration},
		{"drop_database", s.dropDatabaseTables},
		{"drop_warehouses", s.dropWarehouses},
		{"drop_role", s.dropRole},
	}
	return runPhases(ctx, phases, false)
}

func (s *Store) dropAgents(ctx context.Context) (string, error) {
	table := s.Table("ai", "AGENTS")
	n, err := s.clearRegistry(table)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d agents removed", n), nil
}

// dropSearchServices drops every registered search index table, then the
// registry rows themselves.
func (s *Store) dropSearchServices(ctx context.Context) (string, error) {
	registry := s.Table("ai", "SEARCH_SERVICES")
	if !s.tableExists(registry) {
		return "no registry", nil
	}

	rows, err := s.Query("SELECT service_name, table_name FROM " + registry)
	if err != nil {
		return "", err
	}
	type svc struct{ name, table string }
	var svcs []svc
	for rows.Next() {
		var v svc
		if err := rows.Scan(&v.name, &v.table); err != nil {
			rows.Close()
			return "", err
		}
		svcs = append(svcs, v)
	}
	rows.Close()

	for _, v := range svcs {
		// Vector side table first, if the service had one.
		if _, err := s.Exec("DROP TABLE IF EXISTS " + v.table + "_vec_idx"); err != nil {
			return "", fmt.Errorf("drop %s_vec_idx: %w", v.table, err)
		}
		if err := s.DropTable(v.table); err != nil {
			return "", fmt.Errorf("drop %s: %w", v.table, err)
		}
		logging.Get(logging.CategoryTeardown).Info("Dropped search service %s", v.name)
	}
	if _, err := s.Exec("DELETE FROM " + registry); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d search services dropped", len(svcs)), nil
}

func (s *Store) dropSemanticViews(ctx context.Context) (string, error) {
	registry := s.Table("ai", "SEMANTIC_VIEWS")
	if !s.tableExists(registry) {
		return "no registry", nil
	}

	rows, err := s.Query("SELECT view_name FROM " + registry)
	if err != nil {
		return "", err
	}
	var views []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return "", err
		}
		views = append(views, v)
	}
	rows.Close()

	for _, v := range views {
		if err := s.DropTable(v); err != nil {
			return "", fmt.Errorf("drop %s: %w", v, err)
		}
	}
	if _, err := s.Exec("DELETE FROM " + registry); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d semantic views dropped", len(views)), nil
}

func (s *Store) dropIntegration(ctx context.Context) (string, error) {
	if !s.tableExists("OPS_INTEGRATIONS") {
		return "no integrations", nil
	}
	res, err := s.Exec("DELETE FROM OPS_INTEGRATIONS")
	if err != nil {
		return "", err
	}
	n, _ := res.RowsAffected()
	return fmt.Sprintf("%d integrations removed", n), nil
}

// dropDatabaseTables cascades: every table in every schema goes, registry
// tables included, and the database record is cleared.
func (s *Store) dropDatabaseTables(ctx context.Context) (string, error) {
	dropped := 0
	for key := range s.cfg.Database.Schemas {
		// OPS registry tables are cleared by their own phases below.
		if key == "ops" {
			continue
		}
		prefix := s.cfg.SchemaName(key) + "_"
		tables, err := s.TablesWithPrefix(prefix)
		if err != nil {
			return "", err
		}
		for _, t := range tables {
			if err := s.DropTable(t); err != nil {
				return "", fmt.Errorf("drop %s: %w", t, err)
			}
			dropped++
		}
	}
	if s.tableExists("OPS_DATABASES") {
		if _, err := s.Exec("DELETE FROM OPS_DATABASES"); err != nil {
			return "", err
		}
	}
	if s.tableExists("OPS_SCHEMAS") {
		if _, err := s.Exec("DELETE FROM OPS_SCHEMAS"); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%d tables dropped", dropped), nil
}

func (s *Store) dropWarehouses(ctx context.Context) (string, error) {
	if !s.tableExists("OPS_WAREHOUSES") {
		return "no warehouses", nil
	}
	res, err := s.Exec("DELETE FROM OPS_WAREHOUSES")
	if err != nil {
		return "", err
	}
	n, _ := res.RowsAffected()
	return fmt.Sprintf("%d compute profiles removed", n), nil
}

func (s *Store) dropRole(ctx context.Context) (string, error) {
	if !s.tableExists("OPS_ROLES") {
		return "no roles", nil
	}
	res, err := s.Exec("DELETE FROM OPS_ROLES")
	if err != nil {
		return "", err
	}
	n, _ := res.RowsAffected()
	return fmt.Sprintf("%d roles removed", n), nil
}

// Destroy tears down and removes the database file.
func (s *Store) Destroy(ctx context.Context) ([]PhaseResult, error) {
	results, err := s.Teardown(ctx)
	if err != nil {
		return results, err
	}
	if cerr := s.Close(); cerr != nil {
		return results, cerr
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if rerr := os.Remove(s.dbPath + suffix); rerr != nil && !os.IsNotExist(rerr) {
			return results, rerr
		}
	}
	return results, nil
}

func (s *Store) tableExists(name string) bool {
	var n int
	err := s.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = ?", name).Scan(&n)
	return err == nil && n > 0
}

func (s *Store) clearRegistry(table string) (int64, error) {
	if !s.tableExists(table) {
		return 0, nil
	}
	res, err := s.Exec("DELETE FROM " + table)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
