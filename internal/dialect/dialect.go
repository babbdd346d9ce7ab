// Package dialect gates optional lexical features behind a semver-versioned
// dialect, the way a package manager gates optional dependency behavior
// behind a version constraint.
package dialect

import (
	semver "github.com/Masterminds/semver/v3"
)

// Dialect selects which optional lexical extensions a scan run accepts.
// The zero value behaves like the base language: no numeric separators,
// and '**' scanned as a single exponentiation operator.
type Dialect struct {
	version *semver.Version
}

// numericSeparatorsSince is the first dialect version that recognizes '_'
// inside numeric literals (1_000_000).
var numericSeparatorsSince = semver.MustParse("1.1.0")

// exponentiationSince is the first dialect version that recognizes '**' as
// a single exponentiation operator rather than two multiplications.
var exponentiationSince = semver.MustParse("1.2.0")

// Parse parses a dialect version string such as "1.2.0". An empty string
// resolves to the zero-value base dialect.
func Parse(v string) (Dialect, error) {
	if v == "" {
		return Dialect{}, nil
	}

	sv, err := semver.NewVersion(v)
	if err != nil {
		return Dialect{}, err
	}

	return Dialect{version: sv}, nil
}

// String returns the dialect's version, or "base" for the zero value.
func (d Dialect) String() string {
	if d.version == nil {
		return "base"
	}

	return d.version.String()
}

// NumericSeparators reports whether '_' digit separators are recognized.
// This extends the base scanner, so an unversioned Dialect{} leaves it off.
func (d Dialect) NumericSeparators() bool {
	if d.version == nil {
		return false
	}

	return d.version.Compare(numericSeparatorsSince) >= 0
}

// Exponentiation reports whether '**' is scanned as a single operator. The
// base scanner already does this unconditionally, so an unversioned
// Dialect{} keeps that behavior; only an explicit version below the
// threshold opts into the older two-multiplications reading.
func (d Dialect) Exponentiation() bool {
	if d.version == nil {
		return true
	}

	return d.version.Compare(exponentiationSince) >= 0
}
