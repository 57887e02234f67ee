package loadgen

import (
	"fmt"
	"strings"

	"github.com/okian/affinity/internal/domain/scoring"
	"github.com/okian/affinity/internal/domain/types"
)

// VerifyMatches checks ordering and shape of one match list.
func VerifyMatches(userID string, entries []types.MatchEntry, limit int) error {
	if len(entries) > limit {
		return fmt.Errorf("%w: %s: %d entries over limit %d", ErrInconsistent, userID, len(entries), limit)
	}
	for i, e := range entries {
		switch {
		case e.UserID == userID:
			return fmt.Errorf("%w: %s matched itself", ErrInconsistent, userID)
		case e.Rank != i+1:
			return fmt.Errorf("%w: %s: entry %d has rank %d", ErrInconsistent, userID, i, e.Rank)
		case e.Score < scoring.BaseScore || e.Score > scoring.MaxScore:
			return fmt.Errorf("%w: %s: score %d out of range", ErrInconsistent, userID, e.Score)
		case len(e.Reasons) == 0:
			return fmt.Errorf("%w: %s: entry %s has no reasons", ErrInconsistent, userID, e.UserID)
		case strings.TrimSpace(e.Handle) == "":
			return fmt.Errorf("%w: %s: entry %s has no handle", ErrInconsistent, userID, e.UserID)
		case e.Location != scoring.UndisclosedRegion:
			return fmt.Errorf("%w: %s: entry %s discloses a location", ErrInconsistent, userID, e.UserID)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if prev.Score < e.Score || (prev.Score == e.Score && prev.UserID > e.UserID) {
			return fmt.Errorf("%w: %s: entries %d and %d out of order", ErrInconsistent, userID, i-1, i)
		}
	}
	return nil
}
