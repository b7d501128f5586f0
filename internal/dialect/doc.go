// Package dialect guesses whether a file is C or C++ from lightweight
// signals: the file extension, C++-only keywords and token patterns, and
// the standard headers it includes.
//
// Evidence collection must never change scanning; the classification is
// reported alongside the manifest and nothing else depends on it.
package dialect
