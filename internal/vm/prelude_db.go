package vm

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// dbModule exposes the embedded sqlite database configured for the
// machine. The connection opens lazily on first use; results follow the
// ok/fail convention.
func dbModule() *Module {
	mod := NewModule("Db")

	moduleFn(mod, "open", 1, func(m *VM, args []Value) (Value, error) {
		path, err := expectStr(m, args[0], "Db.open")
		if err != nil {
			return NilVal(), err
		}
		if cerr := m.Close(); cerr != nil {
			return failVal(cerr.Error()), nil
		}
		m.dbPath = path
		if _, derr := m.openDB(); derr != nil {
			return failVal(derr.Error()), nil
		}
		return okVal(StrVal(path)), nil
	})

	moduleFn(mod, "close", 1, func(m *VM, _ []Value) (Value, error) {
		if err := m.Close(); err != nil {
			return failVal(err.Error()), nil
		}
		return okVal(NilVal()), nil
	})

	moduleFn(mod, "exec", 1, func(m *VM, args []Value) (Value, error) {
		query, err := expectStr(m, args[0], "Db.exec")
		if err != nil {
			return NilVal(), err
		}
		db, derr := m.openDB()
		if derr != nil {
			return failVal(derr.Error()), nil
		}
		res, xerr := db.Exec(query)
		if xerr != nil {
			return failVal(xerr.Error()), nil
		}
		n, _ := res.RowsAffected()
		return okVal(NumVal(float64(n))), nil
	})

	moduleFn(mod, "query", 1, func(m *VM, args []Value) (Value, error) {
		query, err := expectStr(m, args[0], "Db.query")
		if err != nil {
			return NilVal(), err
		}
		db, derr := m.openDB()
		if derr != nil {
			return failVal(derr.Error()), nil
		}
		rows, qerr := db.Query(query)
		if qerr != nil {
			return failVal(qerr.Error()), nil
		}
		defer rows.Close()

		cols, cerr := rows.Columns()
		if cerr != nil {
			return failVal(cerr.Error()), nil
		}
		var out []Value
		for rows.Next() {
			raw := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if serr := rows.Scan(ptrs...); serr != nil {
				return failVal(serr.Error()), nil
			}
			row := NewTable()
			for i, col := range cols {
				row = row.Insert(SymVal(Intern(col)), sqlValue(raw[i]))
			}
			out = append(out, TableVal(row))
		}
		if rerr := rows.Err(); rerr != nil {
			return failVal(rerr.Error()), nil
		}
		return okVal(ListVal(ListOf(out...))), nil
	})

	return mod
}

func (m *VM) openDB() (*sql.DB, error) {
	if m.db != nil {
		return m.db, nil
	}
	db, err := sql.Open("sqlite", m.dbPath)
	if err != nil {
		return nil, err
	}
	// one connection: pooled connections would each see a fresh :memory: db
	db.SetMaxOpenConns(1)
	m.db = db
	return db, nil
}

func sqlValue(v any) Value {
	switch v := v.(type) {
	case nil:
		return NilVal()
	case int64:
		return NumVal(float64(v))
	case float64:
		return NumVal(v)
	case bool:
		return BoolVal(v)
	case []byte:
		return StrVal(string(v))
	case string:
		return StrVal(v)
	default:
		return StrVal(fmt.Sprintf("%v", v))
	}
}
