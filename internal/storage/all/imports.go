// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "mssql"    (fleximart/internal/storage/mssql)
//   - "mysql"    (fleximart/internal/storage/mysql)
//   - "postgres" (fleximart/internal/storage/postgres)
//   - "sqlite"   (fleximart/internal/storage/sqlite)
//
// This pattern keeps backend-specific wiring in a single, small package and
// lets the rest of the application (pipeline, CLI) depend only on the
// storage abstraction rather than individual backends. A binary that needs
// only a subset of backends can import the required backend packages
// directly instead of this one.
package all

import (
	_ "fleximart/internal/storage/mssql"
	_ "fleximart/internal/storage/mysql"
	_ "fleximart/internal/storage/postgres"
	_ "fleximart/internal/storage/sqlite"
)
