// Package attributes is the registration surface of the import pipeline.
//
// It knows which movie attributes exist, which augmenters can speak to each,
// the default policy and fallback value of each attribute, and how the
// [attributes.<id>] configuration tables reshape those defaults. Build turns
// configuration into a ready aggregation.Pipeline; Summarize flattens a
// resolved record into a Movie.
package attributes
