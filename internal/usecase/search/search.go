// Package search ranks history entries against a free-text query.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/its-jojoo/otterclip/internal/core"
)

// Source is anything that can hand out a consistent history snapshot.
type Source interface {
	Snapshot() []core.Item
}

type Options struct {
	Limit int
	Now   time.Time // optional, for tests
}

const DefaultLimit = 20

type Service struct {
	src Source
}

func New(src Source) *Service {
	return &Service{src: src}
}

// Query returns text entries matching q, best first. Matching runs on the
// text an entry would expose on copy, so masked secrets are not searchable.
func (s *Service) Query(q string, opt Options) []core.Item {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	if opt.Limit <= 0 {
		opt.Limit = DefaultLimit
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now()
	}

	type hit struct {
		it    core.Item
		pos   int
		score int
	}

	var hits []hit
	for pos, it := range s.src.Snapshot() {
		if it.Kind != core.KindText {
			continue
		}
		m := scoreMatch(strings.ToLower(it.Text()), q)
		if m == 0 {
			continue
		}
		hits = append(hits, hit{it: it, pos: pos, score: m + recency(now.Sub(it.CreatedAt))})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	n := min(opt.Limit, len(hits))
	out := make([]core.Item, 0, n)
	for _, h := range hits[:n] {
		out = append(out, h.it)
	}
	return out
}

// scoreMatch: exact beats prefix beats substring, earlier substrings rank higher.
func scoreMatch(s, q string) int {
	if s == q {
		return 3000
	}
	if strings.HasPrefix(s, q) {
		return 2000
	}
	if idx := strings.Index(s, q); idx >= 0 {
		return 1000 + max(0, 200-idx)
	}
	return 0
}

func recency(age time.Duration) int {
	switch {
	case age < 10*time.Minute:
		return 400
	case age < time.Hour:
		return 250
	case age < 24*time.Hour:
		return 120
	case age < 7*24*time.Hour:
		return 40
	}
	return 0
}
