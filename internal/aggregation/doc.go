// Package aggregation resolves one authoritative value per movie attribute
// from evidence that several untrusted sources report independently.
//
// The moving parts, leaf first:
//
//   - Confidence ranks evidence sources. Every source kind has one fixed tier
//     (see SourceConfidence); an augmenter reading folder data can never claim
//     more than folder-level confidence.
//   - An Augmenter consults exactly one source in the bundle and either
//     proposes a Candidate or has no opinion. Augmenters are pure.
//   - An Aggregator owns the ordered augmenters for one attribute and reduces
//     their candidates with a Policy chosen at registration time.
//   - A Pipeline runs every registered Aggregator over one bundle and returns
//     a Record holding exactly one Resolved value per attribute.
//
// Nothing here performs I/O or logs; callers decide how failures are
// reported. Missing evidence is never an error. A structural defect (an
// attribute nobody can resolve, a source record violating its own
// invariants) aborts the whole run and no partial Record is returned.
package aggregation
