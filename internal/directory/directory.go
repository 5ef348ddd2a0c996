// internal/directory/directory.go
package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/edgar"

	"github.com/agnivade/levenshtein"
	btr "github.com/tidwall/btree"
)

// TickerSource supplies the SEC company ticker directory.
type TickerSource interface {
	CompanyTickers(ctx context.Context) ([]edgar.TickerEntry, error)
}

// Entry is one company in the directory.
type Entry struct {
	CIK    string `json:"cik"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Match is a resolved company with a confidence score in [0, 1]. Exact
// ticker, CIK and name hits score 1.0; everything else scores by how
// close the query came.
type Match struct {
	Entry
	Confidence float64 `json:"confidence"`
}

const (
	prefixConfidence    = 0.9
	fuzzyFloor          = 0.5
	maxPrefixCandidates = 25
)

// Directory resolves free-form queries (ticker, CIK or company name) to
// companies. The ticker file is loaded lazily and refreshed after ttl; a
// failed refresh serves the previous snapshot.
type Directory struct {
	source TickerSource
	cache  *edgar.Cache
	ttl    time.Duration
	logger logger.Logger

	mu       sync.RWMutex
	loadedAt time.Time
	byTicker map[string]*Entry
	byCIK    map[string]*Entry
	byName   map[string]*Entry
	names    *btr.BTree
	entries  []*Entry
}

// nameItem is the btree key: normalized company name ordered
// lexicographically so prefix scans are range scans.
type nameItem struct {
	norm  string
	entry *Entry
}

func byNames(a, b interface{}) bool {
	n1, n2 := a.(*nameItem), b.(*nameItem)
	if n1.norm != n2.norm {
		return n1.norm < n2.norm
	}
	return n1.entry.CIK < n2.entry.CIK
}

// New creates a company directory. Cache may be disabled; ttl bounds how
// long a ticker snapshot is served before a refresh.
func New(source TickerSource, cache *edgar.Cache, ttl time.Duration, log logger.Logger) *Directory {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Directory{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "company-directory"}),
	}
}

// Resolve finds the company best matching query. The query may be a
// ticker symbol, a CIK or a company name; matching falls through exact,
// prefix and edit-distance stages. Queries no stage matches above the
// confidence floor return COMPANY_NOT_FOUND.
func (d *Directory) Resolve(ctx context.Context, query string) (*Match, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.NewInvalidRequestError("query must not be empty")
	}

	if err := d.ensureFresh(ctx); err != nil {
		return nil, err
	}

	cacheKey := edgar.HashedKey("resolve", strings.ToLower(q))
	var cached Match
	if d.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	d.mu.RLock()
	match := d.resolveLocked(q)
	d.mu.RUnlock()

	if match == nil {
		return nil, errors.NewCompanyNotFoundError(query)
	}

	d.cache.Set(ctx, cacheKey, match, d.ttl/24+time.Minute)
	return match, nil
}

func (d *Directory) resolveLocked(q string) *Match {
	upper := strings.ToUpper(q)

	// CIK lookup: all-digit queries address companies directly.
	if isDigits(upper) {
		padded := strings.Repeat("0", max(0, 10-len(upper))) + upper
		if e, ok := d.byCIK[padded]; ok {
			return &Match{Entry: *e, Confidence: 1.0}
		}
		return nil
	}

	if e, ok := d.byTicker[upper]; ok {
		return &Match{Entry: *e, Confidence: 1.0}
	}

	norm := normalizeName(q)
	if norm == "" {
		return nil
	}
	if e, ok := d.byName[norm]; ok {
		return &Match{Entry: *e, Confidence: 1.0}
	}

	if m := d.prefixMatch(norm); m != nil {
		return m
	}

	return d.fuzzyMatch(norm)
}

// prefixMatch scans names starting with the normalized query and keeps
// the shortest, which is the least-qualified company name.
func (d *Directory) prefixMatch(norm string) *Match {
	var best *Entry
	bestLen := -1

	count := 0
	d.names.Ascend(&nameItem{norm: norm}, func(item interface{}) bool {
		it := item.(*nameItem)
		if !strings.HasPrefix(it.norm, norm) {
			return false
		}
		if bestLen == -1 || len(it.norm) < bestLen {
			best = it.entry
			bestLen = len(it.norm)
		}
		count++
		return count < maxPrefixCandidates
	})

	if best == nil {
		return nil
	}
	return &Match{Entry: *best, Confidence: prefixConfidence}
}

// fuzzyMatch runs edit distance over every directory name and keeps the
// highest similarity at or above the floor.
func (d *Directory) fuzzyMatch(norm string) *Match {
	var best *Entry
	bestScore := 0.0

	for _, e := range d.entries {
		candidate := normalizeName(e.Name)
		dist := levenshtein.ComputeDistance(norm, candidate)
		longest := len(norm)
		if len(candidate) > longest {
			longest = len(candidate)
		}
		if longest == 0 {
			continue
		}
		score := 1.0 - float64(dist)/float64(longest)
		if score > bestScore {
			bestScore = score
			best = e
		}
	}

	if best == nil || bestScore < fuzzyFloor {
		return nil
	}
	return &Match{Entry: *best, Confidence: round2(bestScore)}
}

// Refresh forces a ticker directory reload.
func (d *Directory) Refresh(ctx context.Context) error {
	entries, err := d.fetchEntries(ctx)
	if err != nil {
		return err
	}
	d.rebuild(entries)
	return nil
}

// Len returns the number of companies loaded.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// ensureFresh reloads the directory when the snapshot is older than ttl.
// A refresh failure keeps serving the stale snapshot when one exists.
func (d *Directory) ensureFresh(ctx context.Context) error {
	d.mu.RLock()
	fresh := !d.loadedAt.IsZero() && time.Since(d.loadedAt) < d.ttl
	empty := len(d.entries) == 0
	d.mu.RUnlock()

	if fresh && !empty {
		return nil
	}

	entries, err := d.fetchEntries(ctx)
	if err != nil {
		if !empty {
			d.logger.Warn("ticker directory refresh failed, serving stale snapshot", map[string]interface{}{
				"error": err.Error(),
			})
			return nil
		}
		return err
	}

	d.rebuild(entries)
	return nil
}

func (d *Directory) fetchEntries(ctx context.Context) ([]edgar.TickerEntry, error) {
	key := edgar.Key("tickers", "directory")

	var cached []edgar.TickerEntry
	if d.cache.Get(ctx, key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	entries, err := d.source.CompanyTickers(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("ticker directory is empty")
	}

	d.cache.Set(ctx, key, entries, d.ttl)
	return entries, nil
}

func (d *Directory) rebuild(raw []edgar.TickerEntry) {
	byTicker := make(map[string]*Entry, len(raw))
	byCIK := make(map[string]*Entry, len(raw))
	byName := make(map[string]*Entry, len(raw))
	names := btr.NewNonConcurrent(byNames)
	entries := make([]*Entry, 0, len(raw))

	for _, t := range raw {
		cik := fmt.Sprintf("%010d", t.CIK)
		e := &Entry{
			CIK:    cik,
			Ticker: strings.ToUpper(t.Ticker),
			Name:   t.Title,
		}
		entries = append(entries, e)

		// first listing wins: the file orders share classes by liquidity
		if _, ok := byTicker[e.Ticker]; !ok {
			byTicker[e.Ticker] = e
		}
		if _, ok := byCIK[cik]; !ok {
			byCIK[cik] = e
		}

		norm := normalizeName(t.Title)
		if norm == "" {
			continue
		}
		// one index item per distinct name so share classes resolve to
		// the primary ticker
		if _, ok := byName[norm]; !ok {
			byName[norm] = e
			names.Set(&nameItem{norm: norm, entry: e})
		}
	}

	d.mu.Lock()
	d.byTicker = byTicker
	d.byCIK = byCIK
	d.byName = byName
	d.names = names
	d.entries = entries
	d.loadedAt = time.Now()
	d.mu.Unlock()

	d.logger.Info("ticker directory loaded", map[string]interface{}{
		"companies": len(entries),
	})
}

// normalizeName uppercases and strips punctuation so "Apple, Inc." and
// "APPLE INC" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastSpace := true
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
