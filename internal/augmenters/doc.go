// Package augmenters provides the concrete evidence readers behind each movie
// attribute.
//
// Every augmenter reads exactly one source record from the bundle, validates
// that record, and either proposes a candidate or reports no opinion. A
// record that fails its own validation aborts resolution as a malformed
// bundle; an absent record or an empty field is simply no opinion.
package augmenters
