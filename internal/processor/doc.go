// Package processor implements the translation workflow: it reads input
// text, obtains phoneme markup from the annotation provider (through the
// response cache and throttle), converts it to the requested output format
// and writes the result atomically.
package processor
