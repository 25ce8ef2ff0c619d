package ws

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Opponent is the synthesized other side of a duel
type Opponent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Rating int    `json:"rating"`
}

var opponentNames = []string{"CosmoKid", "StarSeeker", "GalaxyBrain", "NebulaKnight"}

// Battle is one active duel session
type Battle struct {
	ID              string
	UserID          string
	Opponent        Opponent
	UserScore       int
	OpponentScore   int
	CurrentQuestion int
	StartedAt       time.Time

	lastMove time.Time
}

// BattleTable owns the active battles and reaps idle ones after the TTL,
// so abandoned sessions do not accumulate for the life of the process.
type BattleTable struct {
	mu      sync.Mutex
	battles map[string]*Battle
	ttl     time.Duration
}

func NewBattleTable(ttl time.Duration) *BattleTable {
	return &BattleTable{battles: map[string]*Battle{}, ttl: ttl}
}

// Create synthesizes an opponent and registers a new battle for the user
func (t *BattleTable) Create(userID string) *Battle {
	n := rand.IntN(len(opponentNames))
	b := &Battle{
		ID:     "battle_" + ulid.Make().String(),
		UserID: userID,
		Opponent: Opponent{
			ID:     opponentNames[n],
			Name:   opponentNames[n],
			Level:  1 + rand.IntN(10),
			Rating: 800 + rand.IntN(401),
		},
		StartedAt: time.Now(),
		lastMove:  time.Now(),
	}

	t.mu.Lock()
	t.battles[b.ID] = b
	t.mu.Unlock()
	return b
}

// Move advances the battle for a submitted answer and returns the updated
// state. Scoring itself belongs to the gamification rules; here the move
// only steps the question index. Unknown battle IDs report ok=false.
func (t *BattleTable) Move(battleID string) (Battle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.battles[battleID]
	if !ok {
		return Battle{}, false
	}
	b.CurrentQuestion++
	b.lastMove = time.Now()
	return *b, true
}

// Get returns a snapshot of the battle state
func (t *BattleTable) Get(battleID string) (Battle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.battles[battleID]
	if !ok {
		return Battle{}, false
	}
	return *b, true
}

// Len returns the number of active battles
func (t *BattleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.battles)
}

// Run reaps idle battles until the context is cancelled
func (t *BattleTable) Run(ctx context.Context) {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			t.reap(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// reap drops battles whose last move is older than the TTL
func (t *BattleTable) reap(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, b := range t.battles {
		if now.Sub(b.lastMove) > t.ttl {
			delete(t.battles, id)
			n++
		}
	}
	return n
}
