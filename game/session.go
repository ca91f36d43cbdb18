package game

import (
	"math/rand"
	"strings"
	"time"
)

// The session state machine is expressed as pure functions from the
// latest room snapshot to an intent describing what the shared document
// should become. Only the room store mutates anything; the host runner
// (host.go) commits tick and turn intents, every client commits its own
// guess intents.

// GraceDelay is how long the host waits after the first correct guess
// before rotating the turn, so simultaneous late guesses still score.
const GraceDelay = 3 * time.Second

// MinPlayers gates game start.
const MinPlayers = 2

type StartIntent struct {
	Word       string
	Difficulty int
	DrawerID   string
	Settings   Settings
	Hints      []string
}

// StartGame validates a start request and picks the initial drawer and
// word. Custom words join the selector at the easiest rank first.
func StartGame(room Room, settings Settings, selector *WordSelector, rng *rand.Rand) (StartIntent, error) {
	if room.Status != StatusWaiting {
		return StartIntent{}, ErrGameAlreadyStarted
	}
	if len(room.Players) < MinPlayers {
		return StartIntent{}, ErrInsufficientPlayers
	}

	if settings.Rounds <= 0 {
		settings.Rounds = DefaultRounds
	}
	if settings.DrawTime <= 0 {
		settings.DrawTime = DefaultDrawTime
	}
	if strings.TrimSpace(settings.CustomWords) != "" {
		selector.AddCustomWords(settings.CustomWords)
	}

	order := room.PlayerOrder()
	drawerID := order[rng.Intn(len(order))]
	entry := selector.Next()

	return StartIntent{
		Word:       entry.Word,
		Difficulty: entry.Difficulty,
		DrawerID:   drawerID,
		Settings:   settings,
		Hints:      GenerateHints(entry.Word, rng),
	}, nil
}

type TickIntent struct {
	TimeLeft   int
	RevealHint bool
	TurnOver   bool
}

// Tick advances the countdown by one second. Crossing a hint threshold
// asks for a single-letter reveal; hitting zero ends the turn.
func Tick(room Room) TickIntent {
	if room.TimeLeft <= 0 {
		return TickIntent{TimeLeft: 0, TurnOver: true}
	}
	remaining := room.TimeLeft - 1
	return TickIntent{
		TimeLeft:   remaining,
		RevealHint: hintDue(remaining),
	}
}

type GuessIntent struct {
	Ignored       bool
	Correct       bool
	GuesserPoints int
	DrawerBonus   int
	Guess         Guess
	Chat          ChatMessage
}

// EvaluateGuess scores a guess against the current word. The drawer
// cannot guess, and nothing is accepted outside an active turn.
// Correctness is an exact case-insensitive match; points use the time
// remaining at this instant. The chat entry mirrors the guess: a system
// announcement on success, the literal text otherwise.
func EvaluateGuess(room Room, dictionary *Trie, playerID, text string, now time.Time) GuessIntent {
	if room.Status != StatusPlaying || room.GameOver() || playerID == room.DrawerID {
		return GuessIntent{Ignored: true}
	}
	player, ok := room.Players[playerID]
	if !ok {
		return GuessIntent{Ignored: true}
	}

	correct := strings.EqualFold(text, room.CurrentWord)
	intent := GuessIntent{
		Correct: correct,
		Guess: Guess{
			PlayerID:     playerID,
			PlayerName:   player.Name,
			Text:         text,
			IsCorrect:    correct,
			InDictionary: dictionary != nil && dictionary.Search(text),
			Timestamp:    now.UnixMilli(),
		},
	}

	if correct {
		intent.GuesserPoints = GuesserPoints(room.TimeLeft)
		intent.DrawerBonus = DrawerBonus(room.TimeLeft)
		intent.Chat = ChatMessage{
			PlayerID:   playerID,
			PlayerName: player.Name,
			Text:       player.Name + " guessed the word!",
			IsSystem:   true,
			Timestamp:  now.UnixMilli(),
		}
	} else {
		intent.Chat = ChatMessage{
			PlayerID:   playerID,
			PlayerName: player.Name,
			Text:       text,
			Timestamp:  now.UnixMilli(),
		}
	}
	return intent
}

type TurnIntent struct {
	GameOver bool
	DrawerID string
	Word     string
	Hints    []string
}

// NextTurn decides what happens when a turn ends. On the final turn it
// reports game over; committing that bumps currentTurn past totalTurns
// once so the derived predicate fires, after which further turn ends are
// no-ops. Otherwise the drawer rotates in stable player order and a fresh
// word is drawn from the selector.
func NextTurn(room Room, selector *WordSelector, rng *rand.Rand) TurnIntent {
	if room.CurrentTurn >= room.TotalTurns {
		return TurnIntent{GameOver: true}
	}
	entry := selector.Next()
	return TurnIntent{
		DrawerID: room.NextDrawerID(),
		Word:     entry.Word,
		Hints:    GenerateHints(entry.Word, rng),
	}
}

// FirstCorrectGuess scans the current turn's guesses for a correct one.
// The host arms the grace timer when this flips to true.
func FirstCorrectGuess(room Room) (Guess, bool) {
	var best Guess
	found := false
	for _, g := range room.Guesses {
		if !g.IsCorrect {
			continue
		}
		if !found || g.Timestamp < best.Timestamp {
			best = g
			found = true
		}
	}
	return best, found
}
