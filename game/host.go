package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/Saadia-Asghar/Skribble/shared/logger"
)

// HostRunner is the authoritative loop for one room, owned by the host
// player's membership. It runs the one-second countdown, schedules hint
// reveals, and advances turns on timeout or grace-delayed correct
// guesses. There is no leader election: if the host disappears the room
// simply stalls, with only lastHostHeartbeat left behind as evidence.
type HostRunner struct {
	roomID   string
	repo     RoomRepository
	selector *WordSelector
	rng      *rand.Rand
	clock    func() time.Time

	latest   Room
	haveRoom bool

	// Turn we already ended; guards against a second advance while the
	// store round-trip is still in flight.
	endedTurn int

	// Grace timer state: a non-nil graceC means a turn end is scheduled
	// for graceTurn.
	graceDelay time.Duration
	graceTimer *time.Timer
	graceC     <-chan time.Time
	graceTurn  int

	snapshots chan Room
	errs      chan error
}

func NewHostRunner(repo RoomRepository, roomID string, selector *WordSelector, rng *rand.Rand) *HostRunner {
	return &HostRunner{
		roomID:     roomID,
		repo:       repo,
		selector:   selector,
		rng:        rng,
		clock:      time.Now,
		graceDelay: GraceDelay,
		snapshots:  make(chan Room, 64),
		errs:       make(chan error, 1),
	}
}

// Run drives the loop until ctx is cancelled or the subscription fails.
// The per-second tick and the grace timer both die with ctx, so a
// dismounted host can never advance a turn that has already moved on.
func (h *HostRunner) Run(ctx context.Context) error {
	unsubscribe, err := h.repo.Subscribe(h.roomID,
		func(room Room) {
			select {
			case h.snapshots <- room:
			default:
				// Slow loop; drop the stale snapshot, a newer one is behind it.
			}
		},
		func(err error) {
			select {
			case h.errs <- err:
			default:
			}
		},
	)
	if err != nil {
		return err
	}
	defer unsubscribe()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	defer h.disarmGrace()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-h.errs:
			logger.Warningf("[Room %s] host loop stopping, store error: %v", h.roomID, err)
			return err
		case room := <-h.snapshots:
			h.onSnapshot(room)
		case <-ticker.C:
			h.onTick(ctx)
		case <-h.graceC:
			h.onGraceExpired(ctx)
		}
	}
}

func (h *HostRunner) onSnapshot(room Room) {
	h.latest = room
	h.haveRoom = true

	if room.Status != StatusPlaying {
		h.disarmGrace()
		return
	}
	if room.GameOver() {
		return
	}
	if _, ok := FirstCorrectGuess(room); ok && h.graceTurn != room.CurrentTurn {
		h.graceTurn = room.CurrentTurn
		h.armGrace()
		logger.Debugf("[Room %s] correct guess observed, turn %d ends in %s", h.roomID, room.CurrentTurn, h.graceDelay)
	}
}

func (h *HostRunner) onTick(ctx context.Context) {
	if !h.haveRoom || h.latest.Status != StatusPlaying || h.latest.GameOver() {
		return
	}

	intent := Tick(h.latest)
	if intent.TurnOver {
		h.advanceTurn(ctx)
		return
	}

	if err := h.repo.ApplyTimeLeft(ctx, h.roomID, intent.TimeLeft); err != nil {
		logger.Warningf("[Room %s] timer write failed: %v", h.roomID, err)
		return
	}
	// Track the countdown locally so store latency cannot double-decrement
	// a second; the next snapshot remains authoritative.
	h.latest.TimeLeft = intent.TimeLeft

	if intent.RevealHint {
		mask := RevealLetter(h.latest.CurrentWord, h.latest.MaskedWord, h.rng)
		if mask != h.latest.MaskedWord {
			if err := h.repo.ApplyMaskedWord(ctx, h.roomID, mask); err != nil {
				logger.Warningf("[Room %s] mask write failed: %v", h.roomID, err)
			} else {
				h.latest.MaskedWord = mask
			}
		}
	}

	if err := h.repo.ApplyHostHeartbeat(ctx, h.roomID, h.clock().UnixMilli()); err != nil {
		logger.Debugf("[Room %s] heartbeat write failed: %v", h.roomID, err)
	}
}

func (h *HostRunner) onGraceExpired(ctx context.Context) {
	h.graceC = nil
	// The scheduled end is a no-op if the room left playing or the turn
	// already rotated while the grace period ran.
	if h.latest.Status != StatusPlaying || h.latest.CurrentTurn != h.graceTurn {
		return
	}
	h.advanceTurn(ctx)
}

func (h *HostRunner) advanceTurn(ctx context.Context) {
	if h.latest.CurrentTurn == h.endedTurn {
		return
	}

	intent := NextTurn(h.latest, h.selector, h.rng)
	if intent.GameOver {
		if !h.latest.GameOver() {
			if err := h.repo.ApplyGameOver(ctx, h.roomID); err != nil {
				logger.Warningf("[Room %s] game over write failed: %v", h.roomID, err)
				return
			}
			logger.Infof("[Room %s] game over after turn %d", h.roomID, h.latest.CurrentTurn)
		}
		h.endedTurn = h.latest.CurrentTurn
		return
	}

	if err := h.repo.ApplyNextTurn(ctx, h.roomID, intent.DrawerID, intent.Word, intent.Hints); err != nil {
		logger.Warningf("[Room %s] turn rotation failed: %v", h.roomID, err)
		return
	}
	h.endedTurn = h.latest.CurrentTurn
	logger.Infof("[Room %s] turn %d ended, %s now drawing", h.roomID, h.latest.CurrentTurn, intent.DrawerID)
}

func (h *HostRunner) armGrace() {
	h.disarmGrace()
	h.graceTimer = time.NewTimer(h.graceDelay)
	h.graceC = h.graceTimer.C
}

func (h *HostRunner) disarmGrace() {
	if h.graceTimer != nil {
		h.graceTimer.Stop()
		h.graceTimer = nil
	}
	h.graceC = nil
}
