package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkStoreGrown     BookmarkType = "store_grown"
	BookmarkCollisionSpike BookmarkType = "collision_spike"
	BookmarkEnergyDrift    BookmarkType = "energy_drift"
	BookmarkSpawnPileup    BookmarkType = "spawn_pileup"
)

// Thresholds for bookmark detection.
const (
	collisionSpikeFactor = 2.0
	collisionSpikeMin    = 50
	energyDriftFraction  = 0.05
	pileupMinDegenerate  = 10
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Grows > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkStoreGrown,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Store grew %d time(s) to capacity %d with %d particles", stats.Grows, stats.Capacity, stats.Particles),
		})
	}

	if stats.Degenerate >= pileupMinDegenerate {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkSpawnPileup,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d coincident pairs skipped", stats.Degenerate),
		})
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkCollisionSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkEnergyDrift(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) last() WindowStats {
	i := (bd.historyIdx - 1 + bd.historySize) % bd.historySize
	return bd.history[i]
}

func (bd *BookmarkDetector) checkCollisionSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Resolved
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Resolved) > avg*collisionSpikeFactor && stats.Resolved >= collisionSpikeMin {
		return &Bookmark{
			Type:        BookmarkCollisionSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Resolved %d collisions, %.1fx average (%.0f)", stats.Resolved, float64(stats.Resolved)/avg, avg),
		}
	}
	return nil
}

// checkEnergyDrift flags kinetic energy changes between windows with no spawns.
// Elastic collisions and wall reflections conserve it.
func (bd *BookmarkDetector) checkEnergyDrift(stats WindowStats) *Bookmark {
	if stats.Spawned > 0 {
		return nil
	}
	prev := bd.last()
	if prev.KineticEnergy == 0 || prev.Particles != stats.Particles {
		return nil
	}

	drift := (stats.KineticEnergy - prev.KineticEnergy) / prev.KineticEnergy
	if math.Abs(drift) > energyDriftFraction {
		return &Bookmark{
			Type:        BookmarkEnergyDrift,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy changed %+.1f%% without spawns (%.0f -> %.0f)", drift*100, prev.KineticEnergy, stats.KineticEnergy),
		}
	}
	return nil
}
