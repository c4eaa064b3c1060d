package dedupe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/metrics"
	"github.com/sells-group/buyer-match/internal/store"
)

const peNameSeparator = " / "

// MergeReport summarizes a merge run.
type MergeReport struct {
	Merged  int      `json:"merged"`
	Deleted int64    `json:"deleted"`
	Errors  []string `json:"errors"`
}

// Merge folds each group's duplicates into its keeper: children are
// re-pointed, the keeper's PE firm name becomes the union of the group's
// names, and the duplicates are deleted. Groups are independent; a failed
// group is reported and the rest continue. Re-running over the same groups
// is a no-op.
func (m *Matcher) Merge(ctx context.Context, groups []Group) MergeReport {
	report := MergeReport{Errors: []string{}}
	log := zap.L().With(zap.String("component", "dedupe"))

	for _, g := range groups {
		deleted, err := m.mergeGroup(ctx, g)
		report.Deleted += deleted
		if err != nil {
			metrics.DedupeGroups.WithLabelValues("failed").Inc()
			log.Error("merge group failed", zap.String("key", g.Key), zap.String("keeper_id", g.KeeperID), zap.Error(err))
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", g.Key, err))
			continue
		}
		metrics.DedupeGroups.WithLabelValues("merged").Inc()
		report.Merged++
	}

	log.Info("merge complete",
		zap.Int("groups", len(groups)),
		zap.Int("merged", report.Merged),
		zap.Int64("deleted", report.Deleted),
		zap.Int("errors", len(report.Errors)),
	)
	return report
}

func (m *Matcher) mergeGroup(ctx context.Context, g Group) (int64, error) {
	keeper, err := m.store.GetBuyer(ctx, g.KeeperID)
	if err != nil {
		return 0, eris.Wrapf(err, "dedupe: load keeper %s", g.KeeperID)
	}

	names := []string{keeper.PEFirmName}
	var live []string
	for _, id := range g.DuplicateIDs {
		if id == keeper.ID {
			continue
		}
		dup, err := m.store.GetBuyer(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, eris.Wrapf(err, "dedupe: load duplicate %s", id)
		}
		if err := m.store.RepointChildren(ctx, dup.ID, keeper.ID); err != nil {
			return 0, eris.Wrapf(err, "dedupe: repoint %s", dup.ID)
		}
		names = append(names, dup.PEFirmName)
		live = append(live, dup.ID)
	}

	if merged := unionNames(names); merged != keeper.PEFirmName {
		if err := m.store.UpdateBuyerPEFirmName(ctx, keeper.ID, merged); err != nil {
			return 0, eris.Wrapf(err, "dedupe: update keeper %s name", keeper.ID)
		}
	}

	if len(live) == 0 {
		return 0, nil
	}
	n, err := m.store.DeleteBuyers(ctx, live)
	if err != nil {
		return 0, eris.Wrap(err, "dedupe: delete duplicates")
	}
	return n, nil
}

// unionNames joins the distinct PE firm names, splitting names that were
// already joined so repeated merges do not grow the list.
func unionNames(names []string) string {
	seen := map[string]bool{}
	var out []string
	for _, n := range names {
		for _, part := range strings.Split(n, peNameSeparator) {
			part = strings.Join(strings.Fields(part), " ")
			k := strings.ToLower(part)
			if part == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, part)
		}
	}
	return strings.Join(out, peNameSeparator)
}
