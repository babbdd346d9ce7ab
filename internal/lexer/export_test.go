package lexer

// ScanAll and StackCapacity re-export test-only internals so that
// fuzz_test.go, which must live in the external lexer_test package to
// avoid an import cycle with internal/testrunner/fuzz, can still reach
// them.
var ScanAll = scanAll

const StackCapacity = stackCapacity
