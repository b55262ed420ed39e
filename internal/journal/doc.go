// Package journal persists resolution runs in SQLite so operators can answer
// "why was this value chosen" after the fact.
//
// Each run stores the import path and one decision per attribute: the chosen
// value, its confidence tier and source, whether the default applied, and the
// full candidate trace. The journal is diagnostics only; nothing reads it back
// into the pipeline.
//
// Schema changes bump schemaVersion in schema.go; users delete the journal to
// adopt the new schema.
package journal
