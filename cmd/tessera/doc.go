// Package main hosts the tessera CLI entrypoint and command graph.
//
// The Cobra command tree loads bundle documents, resolves them through the
// attribute pipeline, and exposes the resolution journal and configuration
// scaffolding. Configuration resolution and logger setup live here so
// subcommands stay declarative; the resolution logic itself lives in the
// internal packages.
package main
