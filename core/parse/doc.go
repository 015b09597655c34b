// Package parse turns the argument text a language model produces for a tool
// call into typed Go values. Models regularly emit almost-JSON (single
// quotes, trailing commas, code fences, or schema envelopes), so the
// [ParseStringAs] entry point repairs the input with jsonrepair before giving
// up with a descriptive error.
package parse
