// Package typemap maps column kinds to engine-specific SQL types.
package typemap

import "github.com/johndauphine/datanorm/internal/dataset"

// ToPostgres converts a column kind to its PostgreSQL type.
func ToPostgres(kind dataset.Kind) string {
	switch kind {
	case dataset.KindInt:
		return "bigint"
	case dataset.KindFloat:
		return "double precision"
	case dataset.KindBool:
		return "boolean"
	case dataset.KindTime:
		return "timestamp"
	default:
		return "text"
	}
}

// ToMSSQL converts a column kind to its SQL Server type.
func ToMSSQL(kind dataset.Kind) string {
	switch kind {
	case dataset.KindInt:
		return "bigint"
	case dataset.KindFloat:
		return "float"
	case dataset.KindBool:
		return "bit"
	case dataset.KindTime:
		return "datetime2"
	default:
		return "nvarchar(max)"
	}
}

// ToSQLite converts a column kind to its SQLite storage type. Datetimes
// are stored as text in the standard layout; booleans as 0/1 integers.
func ToSQLite(kind dataset.Kind) string {
	switch kind {
	case dataset.KindInt, dataset.KindBool:
		return "INTEGER"
	case dataset.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
