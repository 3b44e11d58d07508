// Package database provides connection management, configuration types,
// query logging hooks, health checks, error classification, and related
// utilities built on top of Bun.
package database
