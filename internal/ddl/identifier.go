package ddl

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierRe allows alphanumerics and underscores, starting with a letter or
// underscore. Mixed case is kept because the raw log columns are camelCase.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

const maxIdentifierLen = 128

// columnTypes is the set of DuckDB types a source column may be declared as.
var columnTypes = map[string]struct{}{
	"BIGINT":    {},
	"BOOLEAN":   {},
	"DATE":      {},
	"DOUBLE":    {},
	"INTEGER":   {},
	"TIMESTAMP": {},
	"VARCHAR":   {},
}

// ValidateIdentifier checks that name is a safe, unquoted-compatible SQL identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("name must be at most %d characters", maxIdentifierLen)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("name %q must match [a-zA-Z_][a-zA-Z0-9_]*", name)
	}
	return nil
}

// ValidateColumnType checks typeName against the supported source column types.
func ValidateColumnType(typeName string) error {
	if typeName == "" {
		return fmt.Errorf("column type is required")
	}
	if _, ok := columnTypes[strings.ToUpper(typeName)]; !ok {
		return fmt.Errorf("unsupported column type %q", typeName)
	}
	return nil
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteIdentifiers quotes each name and joins them with ", ".
func QuoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

// QuoteLiteral wraps value in single quotes, doubling embedded quotes.
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
