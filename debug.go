package thicket

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and sprite counts.
// Only populated when Registry.debug is true.
type debugStats struct {
	frame     uint64
	tickTime  time.Duration
	owned     int
	displayed int
	live      int
}

// debugLog prints per-frame stats to stderr.
func (r *Registry) debugLog(stats debugStats) {
	if !r.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[thicket] frame %d | tick: %v | owned: %d | displayed: %d | live handles: %d\n",
		stats.frame, stats.tickTime, stats.owned, stats.displayed, stats.live)
}

// debugCheckFreed panics with a descriptive message when a freed sprite is
// used. In release mode callers skip this entirely.
func debugCheckFreed(d *spriteData, op string) {
	if d.freed {
		panic(fmt.Sprintf("thicket debug: %s on freed sprite (handle was %#x)", op, uintptr(d.handle)))
	}
}

// debugCheckSpriteCount warns on stderr if the registry owns more sprites
// than the threshold.
const debugMaxSprites = 1000

func debugCheckSpriteCount(r *Registry) {
	if len(r.sprites) > debugMaxSprites {
		_, _ = fmt.Fprintf(os.Stderr, "[thicket] warning: registry owns %d sprites (threshold %d)\n",
			len(r.sprites), debugMaxSprites)
	}
}
