package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder is the shared squirrel builder configured for Postgres
// dollar placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT query.
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert starts an INSERT query.
func Insert(into string) squirrel.InsertBuilder {
	return builder.Insert(into)
}

// Update starts an UPDATE query.
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete starts a DELETE query.
func Delete(from string) squirrel.DeleteBuilder {
	return builder.Delete(from)
}
