// Package evidence models the per-source inputs available to one import unit.
//
// Four independent collaborators feed the aggregation core: the release-name
// parser (run once over the file name and once over the folder name), the
// media prober, and the indexer/release lookup. Each produces a structured
// record defined here. A Bundle collects whichever of them exist for a single
// file; any of them may be absent, and absence is reported through the
// accessor's ok result rather than as an error.
//
// Records validate their own invariants. A record that fails validation means
// the collaborator that produced it is broken, which the aggregation core
// treats as a malformed bundle.
package evidence
