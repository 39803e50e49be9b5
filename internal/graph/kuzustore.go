//go:build cgo

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
//
// Entities are stored as nodes; inheritance, conformance and call references
// point at TypeRef nodes, which are raw textual references — they are never
// resolved against declared entities.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection

	// typeRefs tracks which TypeRef nodes already exist, so references can be
	// inserted with plain CREATE statements.
	typeRefs map[string]bool
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the directory itself for new
// databases. This lets a scan be queried after the process exits.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn, typeRefs: make(map[string]bool)}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Entity(
		name STRING,
		kind STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Property(
		id STRING,
		name STRING,
		type STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Method(
		id STRING,
		name STRING,
		return_type STRING,
		parameters STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS TypeRef(
		name STRING,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_PROPERTY(FROM Entity TO Property, seq INT64)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_METHOD(FROM Entity TO Method, seq INT64)`,
	`CREATE REL TABLE IF NOT EXISTS INHERITS_FROM(FROM Entity TO TypeRef, seq INT64)`,
	`CREATE REL TABLE IF NOT EXISTS CONFORMS_TO(FROM Entity TO TypeRef, seq INT64)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Method TO TypeRef, seq INT64)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddEntity inserts an entity with all of its members and references.
// Callers are expected to feed entities whose names are already unique —
// the usual flow copies a finished MemStore into this store — so inserts
// use plain CREATE statements.
func (s *KuzuStore) AddEntity(_ context.Context, entity *Entity) error {
	if err := s.exec(
		"CREATE (e:Entity {name: $name, kind: $kind})",
		map[string]any{"name": entity.Name, "kind": string(entity.Kind)},
	); err != nil {
		return err
	}

	for i, prop := range entity.Properties {
		id := fmt.Sprintf("%s/p%d", entity.Name, i)
		if err := s.exec(
			"CREATE (p:Property {id: $id, name: $name, type: $type})",
			map[string]any{"id": id, "name": prop.Name, "type": prop.Type},
		); err != nil {
			return err
		}
		if err := s.exec(
			`MATCH (e:Entity {name: $entity}), (p:Property {id: $id})
			 CREATE (e)-[:HAS_PROPERTY {seq: $seq}]->(p)`,
			map[string]any{"entity": entity.Name, "id": id, "seq": int64(i)},
		); err != nil {
			return err
		}
	}

	for i, method := range entity.Methods {
		params, err := json.Marshal(method.Parameters)
		if err != nil {
			return fmt.Errorf("kuzu: encode parameters of %s.%s: %w", entity.Name, method.Name, err)
		}
		id := fmt.Sprintf("%s/m%d", entity.Name, i)
		if err := s.exec(
			`CREATE (m:Method {id: $id, name: $name, return_type: $ret, parameters: $params})`,
			map[string]any{"id": id, "name": method.Name, "ret": method.ReturnType, "params": string(params)},
		); err != nil {
			return err
		}
		if err := s.exec(
			`MATCH (e:Entity {name: $entity}), (m:Method {id: $id})
			 CREATE (e)-[:HAS_METHOD {seq: $seq}]->(m)`,
			map[string]any{"entity": entity.Name, "id": id, "seq": int64(i)},
		); err != nil {
			return err
		}
		for j, callee := range method.Calls {
			if err := s.addTypeRefEdge(
				"MATCH (m:Method {id: $src}), (t:TypeRef {name: $dst}) CREATE (m)-[:CALLS {seq: $seq}]->(t)",
				id, callee, j,
			); err != nil {
				return err
			}
		}
	}

	for i, name := range entity.InheritedTypes {
		if err := s.addTypeRefEdge(
			"MATCH (e:Entity {name: $src}), (t:TypeRef {name: $dst}) CREATE (e)-[:INHERITS_FROM {seq: $seq}]->(t)",
			entity.Name, name, i,
		); err != nil {
			return err
		}
	}
	for i, name := range entity.ConformedProtocols {
		if err := s.addTypeRefEdge(
			"MATCH (e:Entity {name: $src}), (t:TypeRef {name: $dst}) CREATE (e)-[:CONFORMS_TO {seq: $seq}]->(t)",
			entity.Name, name, i,
		); err != nil {
			return err
		}
	}
	return nil
}

// addTypeRefEdge creates the TypeRef node on first use, then the edge.
func (s *KuzuStore) addTypeRefEdge(cypher, src, ref string, seq int) error {
	if !s.typeRefs[ref] {
		if err := s.exec("CREATE (t:TypeRef {name: $name})", map[string]any{"name": ref}); err != nil {
			return err
		}
		s.typeRefs[ref] = true
	}
	return s.exec(cypher, map[string]any{"src": src, "dst": ref, "seq": int64(seq)})
}

// ---------- Read operations ----------

// GetEntity reconstructs a single entity record, or returns nil if absent.
func (s *KuzuStore) GetEntity(ctx context.Context, name string) (*Entity, error) {
	rows, err := s.query(
		"MATCH (e:Entity {name: $name}) RETURN e.name, e.kind",
		map[string]any{"name": name},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.loadEntity(toString(rows[0][0]), EntityKind(toString(rows[0][1])))
}

// QueryEntities returns entities whose name contains the query string,
// sorted by name.
func (s *KuzuStore) QueryEntities(_ context.Context, queryStr string, limit int) ([]*Entity, error) {
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := s.query(
		`MATCH (e:Entity) WHERE e.name CONTAINS $q
		 RETURN e.name, e.kind ORDER BY e.name LIMIT $lim`,
		map[string]any{"q": queryStr, "lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]*Entity, 0, len(rows))
	for _, r := range rows {
		entity, err := s.loadEntity(toString(r[0]), EntityKind(toString(r[1])))
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// ListEntities reconstructs every entity, sorted by name.
func (s *KuzuStore) ListEntities(_ context.Context) ([]*Entity, error) {
	rows, err := s.query("MATCH (e:Entity) RETURN e.name, e.kind ORDER BY e.name", nil)
	if err != nil {
		return nil, err
	}
	out := make([]*Entity, 0, len(rows))
	for _, r := range rows {
		entity, err := s.loadEntity(toString(r[0]), EntityKind(toString(r[1])))
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// loadEntity fetches the members and references of one entity.
func (s *KuzuStore) loadEntity(name string, kind EntityKind) (*Entity, error) {
	entity := NewEntity(name, kind)

	rows, err := s.query(
		`MATCH (e:Entity {name: $name})-[r:HAS_PROPERTY]->(p:Property)
		 RETURN p.name, p.type, r.seq ORDER BY r.seq`,
		map[string]any{"name": name},
	)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		entity.Properties = append(entity.Properties, Property{
			Name: toString(r[0]),
			Type: toString(r[1]),
		})
	}

	rows, err = s.query(
		`MATCH (e:Entity {name: $name})-[r:HAS_METHOD]->(m:Method)
		 RETURN m.id, m.name, m.return_type, m.parameters, r.seq ORDER BY r.seq`,
		map[string]any{"name": name},
	)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		method := Method{
			Name:       toString(r[1]),
			ReturnType: toString(r[2]),
			Parameters: []Parameter{},
			Calls:      []string{},
		}
		if raw := toString(r[3]); raw != "" {
			if err := json.Unmarshal([]byte(raw), &method.Parameters); err != nil {
				return nil, fmt.Errorf("kuzu: decode parameters of %s.%s: %w", name, method.Name, err)
			}
		}
		callRows, err := s.query(
			`MATCH (m:Method {id: $id})-[r:CALLS]->(t:TypeRef)
			 RETURN t.name, r.seq ORDER BY r.seq`,
			map[string]any{"id": toString(r[0])},
		)
		if err != nil {
			return nil, err
		}
		for _, cr := range callRows {
			method.Calls = append(method.Calls, toString(cr[0]))
		}
		entity.Methods = append(entity.Methods, method)
	}

	entity.InheritedTypes, err = s.typeRefNames(name, "INHERITS_FROM")
	if err != nil {
		return nil, err
	}
	entity.ConformedProtocols, err = s.typeRefNames(name, "CONFORMS_TO")
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// typeRefNames returns the TypeRef names linked to an entity through the
// given relationship table, in clause order.
func (s *KuzuStore) typeRefNames(entity, rel string) ([]string, error) {
	// Relationship table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf(
		"MATCH (e:Entity {name: $name})-[r:%s]->(t:TypeRef) RETURN t.name, r.seq ORDER BY r.seq", rel)
	rows, err := s.query(cypher, map[string]any{"name": entity})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns counts of entities, members and recorded calls.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	entities, err := s.countTable("Entity")
	if err != nil {
		return nil, err
	}
	props, err := s.countTable("Property")
	if err != nil {
		return nil, err
	}
	methods, err := s.countTable("Method")
	if err != nil {
		return nil, err
	}
	calls, err := s.countRel("CALLS")
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		EntityCount:   entities,
		PropertyCount: props,
		MethodCount:   methods,
		CallCount:     calls,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countRel returns the number of rows in a relationship table.
func (s *KuzuStore) countRel(table string) (int, error) {
	cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		// Table may not exist yet; treat as zero.
		return 0, nil
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// CopyFrom drains another store into this one. ListEntities returns names
// sorted, so the copy order is deterministic.
func (s *KuzuStore) CopyFrom(ctx context.Context, src Store) error {
	entities, err := src.ListEntities(ctx)
	if err != nil {
		return err
	}
	for _, e := range entities {
		if err := s.AddEntity(ctx, e); err != nil {
			return fmt.Errorf("kuzu: add entity %s: %w", e.Name, err)
		}
	}
	return nil
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).
// These helpers safely coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
