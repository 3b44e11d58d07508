// Package dao provides a generic table-bound data access object built on Bun,
// covering find-by-id, filtered/paginated listing, counting, save, batch save,
// merge (upsert), and delete operations for single-column and composite
// primary keys.
package dao
