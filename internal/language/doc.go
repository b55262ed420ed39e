// Package language provides unified language code normalization and mapping.
//
// Every evidence source spells languages differently: release names use full
// words ("FRENCH"), ffprobe tags carry ISO 639-2 codes ("fre", "ger"), and
// indexers send BCP 47 tags ("pt-BR"). All of them normalize to a single Code
// here so downstream aggregation can compare values by plain equality.
package language
