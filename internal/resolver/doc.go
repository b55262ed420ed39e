// Package resolver runs the attribute pipeline for import units.
//
// A Resolver stamps every run with an ID, threads the run ID and import path
// through the context so log lines and journal rows can be correlated, logs
// one decision per attribute, and records the outcome in the journal when
// one is attached. Pipeline failures are classified with the services error
// markers: a malformed bundle is a validation error, a registration gap is a
// configuration error. A journal failure never fails a resolution.
package resolver
