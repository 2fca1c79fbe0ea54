package warehouse

import (
	"fmt"
	"sort"
)

// SchemaStatus summarizes one schema's tables.
type SchemaStatus struct {
	Name   string
	Tables map[string]int // physical table name -> row count
}

// Status is a point-in-time summary of the demo environment.
type Status struct {
	Database   string
	Schemas    []SchemaStatus
	Warehouses []string
	Services   []string
	Views      []string
	Agents     []string
}

// Snapshot gathers the environment status for the status command.
func (s *Store) Snapshot() (*Status, error) {
	st := &Status{Database: s.cfg.Database.Name}

	var keys []string
	for key := range s.cfg.Database.Schemas {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := s.cfg.SchemaName(key)
		ss := SchemaStatus{Name: name, Tables: map[string]int{}}
		tables, err := s.TablesWithPrefix(name + "_")
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			n, err := s.CountRows(t)
			if err != nil {
				return nil, err
			}
			ss.Tables[t] = n
		}
		st.Schemas = append(st.Schemas, ss)
	}

	var err error
	if st.Warehouses, err = s.registryColumn("OPS_WAREHOUSES", "name"); err != nil {
		return nil, err
	}
	if st.Services, err = s.registryColumn(s.Table("ai", "SEARCH_SERVICES"), "service_name"); err != nil {
		return nil, err
	}
	if st.Views, err = s.registryColumn(s.Table("ai", "SEMANTIC_VIEWS"), "view_name"); err != nil {
		return nil, err
	}
	if st.Agents, err = s.registryColumn(s.Table("ai", "AGENTS"), "agent_name"); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) registryColumn(table, column string) ([]string, error) {
	if !s.tableExists(table) {
		return nil, nil
	}
	rows, err := s.Query(fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", column, table, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
