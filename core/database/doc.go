// Package database manages the MySQL connection and the project store.
//
// The project store keeps one row per code unit, keyed by project name and
// qualified name. It can materialize a project into an EntitySet for
// planning and acts as an executor for reconciliation runs that target a
// database-backed project.
package database
