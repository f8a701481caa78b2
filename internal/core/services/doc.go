// Package services contains the application's core logic: the semantic
// course store, transcript ingestion, conversation sessions, and the
// retrieval-augmented query orchestrator.
package services
