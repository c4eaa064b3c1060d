// Package dedupe finds buyers in a tracker that describe the same company
// and merges each group into its most complete record.
package dedupe

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/buyer-match/internal/config"
	"github.com/sells-group/buyer-match/internal/model"
)

// MatchType names the pass that produced a group.
type MatchType string

const (
	MatchPlatformWebsite MatchType = "platform_website"
	MatchPEWebsite       MatchType = "pe_website"
	MatchPEName          MatchType = "pe_name"
	MatchPlatformName    MatchType = "platform_name"
)

// Group is a set of buyers judged to be one company.
type Group struct {
	Key          string    `json:"key"`
	MatchType    MatchType `json:"match_type"`
	KeeperID     string    `json:"keeper_id"`
	DuplicateIDs []string  `json:"duplicate_ids"`
}

// Store is the persistence the matcher needs.
type Store interface {
	ListBuyers(ctx context.Context, trackerID string) ([]model.Buyer, error)
	GetBuyer(ctx context.Context, id string) (*model.Buyer, error)
	RepointChildren(ctx context.Context, from, to string) error
	UpdateBuyerPEFirmName(ctx context.Context, id, name string) error
	DeleteBuyers(ctx context.Context, ids []string) (int64, error)
}

// Matcher discovers and merges duplicate buyers.
type Matcher struct {
	store Store
	sim   Similarity
}

// NewMatcher creates a matcher. Zero config values fall back to
// DefaultSimilarity.
func NewMatcher(s Store, cfg config.DedupeConfig) *Matcher {
	sim := DefaultSimilarity()
	if cfg.MaxEditDistance > 0 {
		sim.MaxEditDistance = cfg.MaxEditDistance
	}
	if cfg.EditRatio > 0 {
		sim.EditRatio = cfg.EditRatio
	}
	return &Matcher{store: s, sim: sim}
}

// FindDuplicateGroups scans a tracker's buyers. It never writes.
func (m *Matcher) FindDuplicateGroups(ctx context.Context, trackerID string) ([]Group, error) {
	buyers, err := m.store.ListBuyers(ctx, trackerID)
	if err != nil {
		return nil, eris.Wrapf(err, "dedupe: list buyers for tracker %s", trackerID)
	}
	return FindGroups(buyers, m.sim), nil
}

// FindGroups runs the four passes over buyers. Each pass only considers
// buyers no earlier pass grouped.
func FindGroups(buyers []model.Buyer, sim Similarity) []Group {
	assigned := make(map[string]bool, len(buyers))
	var groups []Group

	emit := func(mt MatchType, key string, members []*model.Buyer) {
		if len(members) < 2 {
			return
		}
		keeper := pickKeeper(members)
		g := Group{Key: key, MatchType: mt, KeeperID: keeper.ID, DuplicateIDs: []string{}}
		for _, b := range members {
			assigned[b.ID] = true
			if b.ID != keeper.ID {
				g.DuplicateIDs = append(g.DuplicateIDs, b.ID)
			}
		}
		groups = append(groups, g)
	}

	// Pass 1: same platform website domain.
	for _, bk := range bucket(buyers, assigned, func(b *model.Buyer) string {
		return NormalizeDomain(b.PlatformWebsite)
	}) {
		emit(MatchPlatformWebsite, bk.key, bk.members)
	}

	// Pass 2: same PE website domain and similar platform names.
	for _, bk := range bucket(buyers, assigned, func(b *model.Buyer) string {
		return NormalizeDomain(b.PEFirmWebsite)
	}) {
		for _, c := range clusterByPlatform(bk.members, sim) {
			emit(MatchPEWebsite, bk.key+"|"+c.key, c.members)
		}
	}

	// Pass 3: same normalized PE name and similar platform names.
	for _, bk := range bucket(buyers, assigned, func(b *model.Buyer) string {
		return NormalizePEName(b.PEFirmName)
	}) {
		for _, c := range clusterByPlatform(bk.members, sim) {
			emit(MatchPEName, bk.key+"|"+c.key, c.members)
		}
	}

	// Pass 4: same normalized platform name.
	for _, bk := range bucket(buyers, assigned, func(b *model.Buyer) string {
		return NormalizePlatformName(b.PlatformCompanyName)
	}) {
		emit(MatchPlatformName, bk.key, bk.members)
	}

	return groups
}

type keyed struct {
	key     string
	members []*model.Buyer
}

// bucket groups unassigned buyers by a non-empty key, in order of first
// appearance.
func bucket(buyers []model.Buyer, assigned map[string]bool, keyOf func(*model.Buyer) string) []keyed {
	idx := map[string]int{}
	var out []keyed
	for i := range buyers {
		b := &buyers[i]
		if assigned[b.ID] {
			continue
		}
		k := keyOf(b)
		if k == "" {
			continue
		}
		if j, ok := idx[k]; ok {
			out[j].members = append(out[j].members, b)
			continue
		}
		idx[k] = len(out)
		out = append(out, keyed{key: k, members: []*model.Buyer{b}})
	}
	return out
}

// clusterByPlatform splits members into clusters whose platform names are
// similar to the cluster's first member.
func clusterByPlatform(members []*model.Buyer, sim Similarity) []keyed {
	var out []keyed
	for _, b := range members {
		name := NormalizePlatformName(b.PlatformCompanyName)
		placed := false
		for i := range out {
			if sim.Similar(out[i].key, name) {
				out[i].members = append(out[i].members, b)
				placed = true
				break
			}
		}
		if !placed {
			out = append(out, keyed{key: name, members: []*model.Buyer{b}})
		}
	}
	return out
}
