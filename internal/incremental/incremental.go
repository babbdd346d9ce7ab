// Package incremental caches a file's token stream by content hash so a
// host application (editor, bundler driver) does not have to rescan an
// unchanged file from byte zero on every request.
package incremental

import (
	"context"
	"crypto/sha256"
	"errors"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/glint-lang/glint/internal/dialect"
	"github.com/glint-lang/glint/internal/lexer"
	"github.com/glint-lang/glint/internal/scanerr"
)

// entry holds the cached token stream for one path plus enough bookkeeping
// to decide whether it is still fresh and when it can be pruned.
type entry struct {
	lastAccess time.Time
	tokens     []lexer.Token
	err        error
	hash       [32]byte
}

// Cache maps file paths to their most recently scanned token stream. A
// cache hit requires both the path and the content hash to match; any edit
// invalidates the entry and forces a full rescan; there is no differential
// re-lexing of the changed region.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	sf      singleflight.Group
	dialect dialect.Dialect
}

// New creates an empty Cache scanning under the base dialect.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// NewWithDialect is like New but scans every file under d.
func NewWithDialect(d dialect.Dialect) *Cache {
	return &Cache{entries: make(map[string]*entry), dialect: d}
}

// Tokens returns the token stream for buf, either from cache (if path was
// last scanned with identical content) or by scanning it fresh. Concurrent
// calls for the same path coalesce into a single scan via singleflight.
func (c *Cache) Tokens(path string, buf []byte, oracle lexer.Oracle) ([]lexer.Token, error) {
	hash := sha256.Sum256(buf)

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()

	if ok && e.hash == hash {
		c.mu.Lock()
		e.lastAccess = time.Now()
		c.mu.Unlock()

		return e.tokens, e.err
	}

	type result struct {
		toks []lexer.Token
		err  error
	}

	v, _, _ := c.sf.Do(path, func() (any, error) {
		toks, scanErr := scanAll(buf, oracle, c.dialect)

		if scanErr == nil || errors.Is(scanErr, scanerr.ErrUnbalancedEOF) {
			c.mu.Lock()
			c.entries[path] = &entry{tokens: toks, err: scanErr, hash: hash, lastAccess: time.Now()}
			c.mu.Unlock()
		}

		return result{toks: toks, err: scanErr}, nil
	})

	r := v.(result)

	return r.toks, r.err
}

// scanAll drains a scanner completely. A soft unbalanced-EOF error still
// yields a usable token stream (the EOF token is included), so Tokens
// caches the tokens together with the error; any other error ends the scan
// and Tokens caches nothing for it.
func scanAll(buf []byte, oracle lexer.Oracle, d dialect.Dialect) ([]lexer.Token, error) {
	sc := lexer.NewWithDialect(buf, d)

	var toks []lexer.Token

	for {
		tok, err := sc.Next(oracle)
		if err != nil {
			toks = append(toks, tok)

			return toks, err
		}

		toks = append(toks, tok)

		if tok.Kind == lexer.EOF {
			return toks, nil
		}
	}
}

// WarmAll scans every file in files concurrently and populates the cache,
// so a subsequent Tokens call for any of them is a cache hit. It stops at
// the first hard scan error (not counting the soft unbalanced-EOF case).
// Fan-out is capped at GOMAXPROCS so warming a large tree doesn't spawn one
// goroutine per file.
func (c *Cache) WarmAll(ctx context.Context, files map[string][]byte, oracle lexer.Oracle) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for path, buf := range files {
		path, buf := path, buf

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			_, err := c.Tokens(path, buf, oracle)
			if errors.Is(err, scanerr.ErrUnbalancedEOF) {
				return nil
			}

			return err
		})
	}

	return g.Wait()
}

// Prune removes entries not accessed within maxAge.
func (c *Cache) Prune(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	c.mu.Lock()
	defer c.mu.Unlock()

	for path, e := range c.entries {
		if e.lastAccess.Before(cutoff) {
			delete(c.entries, path)
		}
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Invalidate drops the cached entry for path, if any.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
