package fuzz

import (
	"github.com/glint-lang/glint/internal/lexer"
)

// scanKinds drains the scanner over input, calling fn with each token kind
// in order (including the terminal EOF). It stops early on the first hard
// error, which arbitrary fuzz input triggers often and is not itself
// interesting for coverage purposes.
func scanKinds(input string, fn func(lexer.Kind)) {
	sc := lexer.New([]byte(input))

	for {
		tok, err := sc.Next(lexer.AlwaysDivision)
		fn(tok.Kind)

		if err != nil || tok.Kind == lexer.EOF {
			return
		}
	}
}

// TokenEdgeCoverage computes a simple input-derived coverage: pairs of
// adjacent token kinds. Each edge is encoded as uint64: (prev<<32)|curr.
func TokenEdgeCoverage(input string) []uint64 {
	edges := make([]uint64, 0, 256)

	var prev uint64

	first := true

	scanKinds(input, func(k lexer.Kind) {
		curr := uint64(k)
		if !first {
			edges = append(edges, (prev<<32)|curr)
		}

		first = false
		prev = curr
	})

	return edges
}

// WeightedTokenEdgeCoverage adds a simple weighting for variety: multiply
// edges by a small prime that depends on token class bands, so inputs that
// share structure but vary in string/regexp/operator density hash apart.
func WeightedTokenEdgeCoverage(input string) []uint64 {
	edges := make([]uint64, 0, 256)

	var prev uint64

	first := true

	scanKinds(input, func(k lexer.Kind) {
		curr := uint64(k)
		if !first {
			edges = append(edges, ((prev<<32)|curr)*edgeWeight(k))
		}

		first = false
		prev = curr
	})

	return edges
}

func edgeWeight(k lexer.Kind) uint64 {
	switch k {
	case lexer.LIT:
		return 3
	case lexer.STRING, lexer.REGEXP, lexer.NUMBER, lexer.T_BRACE:
		return 5
	case lexer.OP, lexer.ARROW, lexer.SPREAD, lexer.DOT:
		return 7
	default:
		return 2
	}
}

// TokenTrigramCoverage computes coverage for token trigrams (prev, mid,
// curr) by packing three token kinds into a uint64, 21 bits per kind.
func TokenTrigramCoverage(input string) []uint64 {
	trigrams := make([]uint64, 0, 256)

	var window [2]uint64

	depth := 0

	scanKinds(input, func(k lexer.Kind) {
		curr := uint64(k)
		if depth >= 2 {
			trig := (window[0] << 42) | (window[1] << 21) | curr
			trigrams = append(trigrams, trig)
		}

		window[0], window[1] = window[1], curr
		depth++
	})

	return trigrams
}

// ComputeCoverage computes coverage based on the given mode:
//   - "edge": TokenEdgeCoverage
//   - "weighted": WeightedTokenEdgeCoverage (default)
//   - "trigram": TokenTrigramCoverage
//   - "both": union of WeightedTokenEdgeCoverage and TokenEdgeCoverage
func ComputeCoverage(mode, input string) []uint64 {
	switch mode {
	case "edge":
		return TokenEdgeCoverage(input)
	case "trigram":
		return TokenTrigramCoverage(input)
	case "both":
		e := TokenEdgeCoverage(input)
		w := WeightedTokenEdgeCoverage(input)

		return append(w, e...)
	case "weighted", "":
		fallthrough
	default:
		return WeightedTokenEdgeCoverage(input)
	}
}
