// Package services defines shared utilities consumed by the resolver, the
// journal, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, import paths, and stage names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent exit codes and log classifications.
package services
