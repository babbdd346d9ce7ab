package lexer

import (
	"errors"
	"testing"

	"github.com/glint-lang/glint/internal/scanerr"
	"github.com/glint-lang/glint/internal/testrunner/prop"
)

// scanAll drains a scanner over buf, returning every token up to and
// including the first error or the terminal EOF. maxTokens guards against
// runaway property inputs; hitting it is itself reported as a failure by
// the caller, never silently truncated.
func scanAll(buf []byte, oracle Oracle, maxTokens int) (toks []Token, err error, hitCap bool) {
	sc := New(buf)

	for len(toks) < maxTokens {
		tok, e := sc.Next(oracle)
		toks = append(toks, tok)

		if e != nil {
			return toks, e, false
		}

		if tok.Kind == EOF {
			return toks, nil, false
		}
	}

	return toks, nil, true
}

func TestProperty_LengthConservation(t *testing.T) {
	gen := prop.GenSlice[byte](prop.GenByte())

	property := func(buf []byte) bool {
		tokenCap := 4*len(buf) + 32
		toks, err, hitCap := scanAll(buf, AlwaysDivision, tokenCap)

		if hitCap {
			return false
		}

		if err != nil {
			// Hard failures leave curr at the offending byte; nothing to
			// conserve past that point, so the property is vacuous here.
			return true
		}

		total := 0
		for _, tok := range toks {
			total += tok.Length
		}

		last := toks[len(toks)-1]

		return last.Kind == EOF && last.Offset+last.Length == len(buf) && total <= len(buf)
	}

	res := prop.ForAll1(gen, prop.ShrinkSlice[byte](nil), property, prop.Options{Trials: 300})
	if res.Failed {
		t.Fatalf("length conservation failed: seed=%d input=%q shrunk=%q", res.Seed, res.FailingInput, res.ShrunkInput)
	}
}

func TestProperty_LineNumberNonDecreasing(t *testing.T) {
	gen := prop.GenSlice[byte](prop.GenByte())

	property := func(buf []byte) bool {
		tokenCap := 4*len(buf) + 32
		toks, _, hitCap := scanAll(buf, AlwaysDivision, tokenCap)

		if hitCap {
			return false
		}

		prevLine := 1
		for _, tok := range toks {
			if tok.Line < prevLine {
				return false
			}

			prevLine = tok.Line
		}

		return true
	}

	res := prop.ForAll1(gen, prop.ShrinkSlice[byte](nil), property, prop.Options{Trials: 300})
	if res.Failed {
		t.Fatalf("line numbers not monotonic: seed=%d input=%q", res.Seed, res.FailingInput)
	}
}

func TestProperty_DepthZeroAtCleanEOF(t *testing.T) {
	gen := prop.GenSlice[byte](prop.GenByte())

	property := func(buf []byte) bool {
		tokenCap := 4*len(buf) + 32

		sc := New(buf)

		var depthAtEOF int

		for i := 0; i < tokenCap; i++ {
			tok, err := sc.Next(AlwaysDivision)
			if err != nil {
				// Only the soft unbalanced-EOF signal promises a nonzero
				// depth. A hard failure says nothing about depth: an
				// underflow happens at depth 0, an unrecognized byte at
				// any depth.
				if errors.Is(err, scanerr.ErrUnbalancedEOF) {
					return sc.Depth() > 0
				}

				return true
			}

			if tok.Kind == EOF {
				depthAtEOF = sc.Depth()

				return depthAtEOF == 0
			}
		}

		return false
	}

	res := prop.ForAll1(gen, prop.ShrinkSlice[byte](nil), property, prop.Options{Trials: 300})
	if res.Failed {
		t.Fatalf("depth invariant failed: seed=%d input=%q", res.Seed, res.FailingInput)
	}
}

func TestProperty_Deterministic(t *testing.T) {
	gen := prop.GenSlice[byte](prop.GenByte())

	property := func(buf []byte) bool {
		tokenCap := 4*len(buf) + 32

		a, errA, hitA := scanAll(buf, AlwaysDivision, tokenCap)
		b, errB, hitB := scanAll(buf, AlwaysDivision, tokenCap)

		if hitA || hitB {
			return false
		}

		if (errA == nil) != (errB == nil) {
			return false
		}

		if len(a) != len(b) {
			return false
		}

		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}

		return true
	}

	res := prop.ForAll1(gen, prop.ShrinkSlice[byte](nil), property, prop.Options{Trials: 300})
	if res.Failed {
		t.Fatalf("scanner is not deterministic: seed=%d input=%q", res.Seed, res.FailingInput)
	}
}

// TestProperty_CommentRemovalTransparent checks that COMMENT tokens are
// removable without disturbing the surrounding stream: rebuilding the
// buffer from the non-comment tokens' bytes (separated by single spaces)
// and re-scanning it reproduces the same kind sequence. Offsets are not
// compared.
func TestProperty_CommentRemovalTransparent(t *testing.T) {
	src := []byte("a /* skip me */ b")

	toks, err, hitCap := scanAll(src, AlwaysDivision, 64)
	if hitCap {
		t.Fatal("hit token cap")
	}

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var withoutComment []byte

	var removed int

	for _, tok := range toks {
		if tok.Kind == COMMENT {
			removed += tok.Length

			continue
		}

		withoutComment = append(withoutComment, tok.Text(src)...)
		if tok.Kind != EOF {
			withoutComment = append(withoutComment, ' ')
		}
	}

	if removed == 0 {
		t.Fatal("fixture has no comment to remove")
	}

	rescanned, err, hitCap := scanAll(withoutComment, AlwaysDivision, 64)
	if hitCap {
		t.Fatal("hit token cap")
	}

	if err != nil {
		t.Fatalf("unexpected error rescanning: %v", err)
	}

	nonComment := make([]Token, 0, len(toks))

	for _, tok := range toks {
		if tok.Kind != COMMENT {
			nonComment = append(nonComment, tok)
		}
	}

	if len(nonComment) != len(rescanned) {
		t.Fatalf("kind sequence changed after removing comment: %v vs %v", nonComment, rescanned)
	}

	for i := range nonComment {
		if nonComment[i].Kind != rescanned[i].Kind {
			t.Errorf("token %d kind changed: %s vs %s", i, nonComment[i].Kind, rescanned[i].Kind)
		}
	}
}

func TestProperty_OracleFailurePropagates(t *testing.T) {
	boom := OracleFunc(func() (OracleVerdict, error) {
		return 0, errUnstable
	})

	sc := New([]byte("a/b"))

	if _, err := sc.Next(boom); err != nil {
		t.Fatalf("first token should not touch the oracle: %v", err)
	}

	_, err := sc.Next(boom)
	if !errors.Is(err, scanerr.ErrOracleFailure) {
		t.Fatalf("expected oracle failure, got %v", err)
	}
}

var errUnstable = &fakeErr{"oracle exploded"}

type fakeErr struct{ msg string }

func (e *fakeErr) Error() string { return e.msg }
