// Package pipeline discovers RAW files at a fixed depth below a root
// directory and converts them one at a time: decode, exposure correction,
// encode, verify, delete source.
//
// A source file is removed only after its output has been written and found
// on disk. Failures are isolated per file and reported in the returned
// FileResult; only lock and discovery errors stop a run.
package pipeline
