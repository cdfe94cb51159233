package journal

import (
	"fmt"
	"time"
)

// PruneOptions control which events prune removes.
type PruneOptions struct {
	OlderThan time.Duration // remove events older than this (0 = no age limit)
	Keep      int           // keep at most this many newest events (0 = no count limit)
	DryRun    bool
}

// PruneResult summarizes a prune run.
type PruneResult struct {
	Removed int
	Kept    int
}

// Prune removes events by age and count. Events are assumed oldest first,
// as Load returns them.
func Prune(j Journal, opts PruneOptions, now time.Time) (*PruneResult, error) {
	if opts.OlderThan == 0 && opts.Keep == 0 {
		return nil, fmt.Errorf("nothing to prune: specify an age or a count")
	}

	events, err := j.Load()
	if err != nil {
		return nil, err
	}

	kept := events
	if opts.OlderThan > 0 {
		cutoff := now.Add(-opts.OlderThan)
		filtered := make([]ApplyEvent, 0, len(kept))
		for _, e := range kept {
			if !e.Time().Before(cutoff) {
				filtered = append(filtered, e)
			}
		}
		kept = filtered
	}

	if opts.Keep > 0 && len(kept) > opts.Keep {
		// Newest events sit at the tail
		kept = kept[len(kept)-opts.Keep:]
	}

	result := &PruneResult{
		Removed: len(events) - len(kept),
		Kept:    len(kept),
	}

	if opts.DryRun || result.Removed == 0 {
		return result, nil
	}

	if err := j.Rewrite(kept); err != nil {
		return nil, err
	}
	return result, nil
}
