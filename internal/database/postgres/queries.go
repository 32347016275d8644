package postgres

// SQL queries for PostgreSQL metadata introspection.
const (
	// to_regclass resolves the name through search_path, the same way an
	// unqualified name in a query is resolved. Unknown names yield no rows.
	queryGetColumns = `
		SELECT
			a.attname,
			format_type(a.atttypid, a.atttypmod),
			NOT a.attnotnull,
			a.attnum
		FROM pg_catalog.pg_attribute a
		WHERE a.attrelid = to_regclass($1)
		  AND a.attnum > 0
		  AND NOT a.attisdropped
		ORDER BY a.attnum`

	// queryCountRows is completed with a sanitized identifier.
	queryCountRows = `SELECT COUNT(*) FROM %s`
)
