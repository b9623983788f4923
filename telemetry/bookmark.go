package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/warren/traits"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
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

	// State tracking
	recentPredMin      int // minimum carnivore count in recent history
	recentPreyPeak     int // peak herbivore count in recent history
	stableWindowsCount int // consecutive windows with stable populations

	extinct [traits.SpeciesCount]bool // species already reported extinct
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Extinction needs no history: the first window may already report it.
	bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

	if bd.historyFull || bd.historyIdx > 0 {
		// Hunt breakthrough: kills > 2x rolling average
		if b := bd.checkHuntBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Predator recovery: was ≤3, now ≥3x that
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Prey crash: dropped >30% from recent peak
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable ecosystem: both populations present with low variance over 5+ windows
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Update history
	bd.addToHistory(stats)

	// Track carnivore minimum and herbivore peak
	if stats.Carnivores < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.Carnivores
	}
	if stats.Herbivores > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Herbivores
	}

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

// checkExtinction fires once per species when its count first reaches zero.
func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, s := range traits.AllSpecies {
		n := stats.Count(s)
		if n > 0 {
			bd.extinct[s] = false
			continue
		}
		if bd.extinct[s] {
			continue
		}
		bd.extinct[s] = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkExtinction,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%s population reached zero", s),
		})
	}
	return bookmarks
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	// Calculate rolling average kills per window
	var totalKills int
	for _, h := range history {
		totalKills += h.CarnivoreKills + h.OmnivoreKills
	}
	avgKills := float64(totalKills) / float64(len(history))
	if avgKills == 0 {
		return nil
	}

	kills := stats.CarnivoreKills + stats.OmnivoreKills
	if float64(kills) > avgKills*2.0 && kills >= 3 {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kills %d is %.1fx average (%.2f)", kills, float64(kills)/avgKills, avgKills),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin == 0 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * 3
	if stats.Carnivores >= threshold && stats.Carnivores >= 6 {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Carnivores

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Carnivore population recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Herbivores)/float64(bd.recentPreyPeak)
	if dropPercent > 0.30 && stats.Herbivores < bd.recentPreyPeak-10 {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Herbivores),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	// Need both populations present
	if stats.Herbivores < 10 || stats.Carnivores < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	prey := make([]float64, len(recent))
	pred := make([]float64, len(recent))
	for i, h := range recent {
		prey[i] = float64(h.Herbivores)
		pred[i] = float64(h.Carnivores)
	}

	// Low variance: coefficient of variation < 20%
	if cv(prey) < 0.2 && cv(pred) < 0.2 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over 5+ windows", stats.Herbivores, stats.Carnivores),
		}
	}

	return nil
}

// cv returns the coefficient of variation of a sample, 0 for a zero mean.
func cv(values []float64) float64 {
	d := Summarize(values)
	if d.Mean == 0 {
		return 0
	}
	return d.Std / d.Mean
}
