// Package storage provides the object storage client used for remote
// snapshot sources and bucket-backed reconciliation targets.
//
// The Client interface wraps the subset of Minio operations the engine
// needs: existence checks, listing a prefix, reading, writing and removing
// single objects. Snapshot extraction only reads; the bucket executor in
// core/extract also writes and removes.
//
// A mock implementation of the same interface lives in the mocks
// subpackage for tests.
package storage
