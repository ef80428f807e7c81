package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taskdesk/taskdesk/internal/dql"
)

// Layout tells Demux which column prefixes belong to which table.
type Layout struct {
	// Main is the table whose columns land at the top level of the record.
	Main string
	// Related tables are eager-loaded one row at a time: table_col columns
	// are nested under record[table].
	Related []string
	// Collections are eager-loaded as a JSON array in a column named after
	// the table.
	Collections []string
}

// LayoutOf derives the layout from the relations registered on a query.
func LayoutOf(main string, rels []dql.Relation) Layout {
	l := Layout{Main: main}
	for _, r := range rels {
		if r.Type() == dql.ManyToOneType {
			l.Related = append(l.Related, r.Table())
		} else {
			l.Collections = append(l.Collections, r.Table())
		}
	}
	return l
}

// Demux splits a flat row into a nested record. A column is assigned to the
// table with the longest matching "table_" prefix; columns matching no table
// are kept as they are. Related records whose columns are all NULL become
// nil, and collection entries that are entirely NULL are dropped.
func (l Layout) Demux(row Row) (Record, error) {
	rec := make(Record, len(row))
	nested := make(map[string]Record, len(l.Related))
	collections := make(map[string]bool, len(l.Collections))
	for _, c := range l.Collections {
		collections[c] = true
	}

	for key, value := range row {
		if collections[key] {
			items, err := decodeCollection(value)
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
			rec[key] = items
			continue
		}

		table, col := l.owner(key)
		switch {
		case table == "":
			rec[key] = value
		case table == l.Main:
			rec[col] = value
		default:
			if nested[table] == nil {
				nested[table] = make(Record)
			}
			nested[table][col] = value
		}
	}

	for _, table := range l.Related {
		sub, ok := nested[table]
		if !ok {
			continue
		}
		if allNil(sub) {
			rec[table] = nil
			continue
		}
		rec[table] = sub
	}
	return rec, nil
}

func (l Layout) owner(key string) (table, col string) {
	best := ""
	for _, t := range append([]string{l.Main}, l.Related...) {
		if len(t) > len(best) && strings.HasPrefix(key, t+"_") {
			best = t
		}
	}
	if best == "" {
		return "", key
	}
	return best, key[len(best)+1:]
}

// decodeCollection parses a JSON array of objects as produced by
// JSON_GROUP_ARRAY(JSON_OBJECT(...)). Duplicate entries, which appear when
// several collections are joined at once, are collapsed.
func decodeCollection(value any) ([]Record, error) {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return []Record{}, nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil, fmt.Errorf("unexpected aggregate type %T", value)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seen[string(entry)] {
			continue
		}
		seen[string(entry)] = true

		dec := json.NewDecoder(bytes.NewReader(entry))
		dec.UseNumber()
		var item Record
		if err := dec.Decode(&item); err != nil {
			return nil, err
		}
		if item == nil || allNil(item) {
			continue
		}
		for k, v := range item {
			item[k] = normalizeNumber(v)
		}
		out = append(out, item)
	}
	return out, nil
}

// normalizeNumber gives JSON numbers the types a direct scan would produce.
func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func allNil(rec Record) bool {
	for _, v := range rec {
		if v != nil {
			return false
		}
	}
	return true
}
