package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/sapling/internal/store"
)

// makeIndexedDeclarationsFn creates "indexed_declarations", a lookup in
// the declaration index by name.
//
// indexed_declarations(name) → []map
func makeIndexedDeclarationsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("indexed_declarations", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("indexed_declarations", 1, len(args))
		}
		name, err := toString(args[0])
		if err != nil {
			return object.Errorf("indexed_declarations: %v", err)
		}
		decls, err := s.DeclarationsByName(name)
		if err != nil {
			return object.Errorf("indexed_declarations: %v", err)
		}
		return declarationsToList(decls)
	})
}

// makeDBQueryFn creates a db_query bridge that executes read-only SQL.
// Returns a list of maps (column name → value).
func makeDBQueryFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("db_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 {
			return object.Errorf("db_query: expected at least 1 argument (sql), got %d", len(args))
		}
		sqlStr, err := toString(args[0])
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}

		trimmed := strings.TrimSpace(strings.ToUpper(sqlStr))
		if !strings.HasPrefix(trimmed, "SELECT") {
			return object.Errorf("db_query: only SELECT queries are allowed")
		}

		var queryArgs []any
		for _, arg := range args[1:] {
			switch v := arg.(type) {
			case *object.Int:
				queryArgs = append(queryArgs, v.Value())
			case *object.Float:
				queryArgs = append(queryArgs, v.Value())
			case *object.String:
				queryArgs = append(queryArgs, v.Value())
			case *object.Bool:
				queryArgs = append(queryArgs, v.Value())
			case *object.NilType:
				queryArgs = append(queryArgs, nil)
			default:
				queryArgs = append(queryArgs, fmt.Sprintf("%v", arg))
			}
		}

		rows, queryErr := s.DB().QueryContext(ctx, sqlStr, queryArgs...)
		if queryErr != nil {
			return object.Errorf("db_query: %v", queryErr)
		}
		defer rows.Close()

		cols, colErr := rows.Columns()
		if colErr != nil {
			return object.Errorf("db_query: columns: %v", colErr)
		}

		results := []object.Object{}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return object.Errorf("db_query: scan: %v", err)
			}
			row := make(map[string]object.Object, len(cols))
			for i, col := range cols {
				row[col] = sqlValueToObject(values[i])
			}
			results = append(results, object.NewMap(row))
		}
		if err := rows.Err(); err != nil {
			return object.Errorf("db_query: rows: %v", err)
		}
		return object.NewList(results)
	})
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}

// sqlValueToObject converts a database value to a Risor object.
func sqlValueToObject(v any) object.Object {
	if v == nil {
		return object.Nil
	}
	switch val := v.(type) {
	case int64:
		return object.NewInt(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case bool:
		return object.NewBool(val)
	case []byte:
		return object.NewString(string(val))
	default:
		return object.NewString(fmt.Sprintf("%v", val))
	}
}

// declarationsToList converts indexed declarations to a Risor list of maps.
func declarationsToList(decls []*store.Declaration) object.Object {
	results := []object.Object{}
	for _, d := range decls {
		mods := make([]object.Object, 0, len(d.Modifiers))
		for _, m := range d.Modifiers {
			mods = append(mods, object.NewString(m))
		}
		m := map[string]object.Object{
			"id":         object.NewInt(d.ID),
			"name":       object.NewString(d.Name),
			"kind":       object.NewString(d.Kind),
			"fqn":        object.NewString(d.FQN),
			"ambient":    object.NewBool(d.IsAmbient),
			"exported":   object.NewBool(d.IsExported),
			"modifiers":  object.NewList(mods),
			"start_line": object.NewInt(int64(d.StartLine)),
			"end_line":   object.NewInt(int64(d.EndLine)),
		}
		if d.FileID != nil {
			m["file_id"] = object.NewInt(*d.FileID)
		}
		if d.ParentDeclarationID != nil {
			m["parent_declaration_id"] = object.NewInt(*d.ParentDeclarationID)
		}
		results = append(results, object.NewMap(m))
	}
	return object.NewList(results)
}
