package game

// Canonical transitions of the shared room document. Both store
// implementations funnel their composite writes through these so the
// document semantics cannot drift between backends. Each returns the
// system announcement to append to chat, keyed by the store's own
// generated id.

// StartDocument flips the room into its first playing turn.
func StartDocument(room *Room, word, drawerID string, settings Settings, hints []string, now int64) ChatMessage {
	room.Status = StatusPlaying
	room.DrawerID = drawerID
	room.CurrentWord = word
	room.MaskedWord = MaskWord(word)
	room.TimeLeft = settings.DrawTime
	room.Settings = settings
	room.CurrentTurn = 1
	room.TotalTurns = len(room.Players) * settings.Rounds
	room.Strokes = map[string]Stroke{}
	room.Guesses = map[string]Guess{}
	// Lobby chat does not carry into the game; the announcement below is
	// the first message of the fresh history.
	room.Chat = map[string]ChatMessage{}
	room.HintsQueue = append([]string{}, hints...)

	return ChatMessage{
		PlayerID:   SystemPlayerID,
		PlayerName: SystemPlayerName,
		Text:       "Game Started! " + room.Players[drawerID].Name + " is drawing first!",
		IsSystem:   true,
		Timestamp:  now,
	}
}

// NextTurnDocument rotates the document into the next turn.
func NextTurnDocument(room *Room, drawerID, word string, hints []string, now int64) ChatMessage {
	room.DrawerID = drawerID
	room.CurrentWord = word
	room.MaskedWord = MaskWord(word)
	room.TimeLeft = room.Settings.DrawTime
	room.CurrentTurn++
	room.Strokes = map[string]Stroke{}
	room.Guesses = map[string]Guess{}
	room.HintsQueue = append([]string{}, hints...)

	return ChatMessage{
		PlayerID:   SystemPlayerID,
		PlayerName: SystemPlayerName,
		Text:       "Round started! " + room.Players[drawerID].Name + " is drawing now!",
		IsSystem:   true,
		Timestamp:  now,
	}
}

// GameOverDocument bumps currentTurn past totalTurns exactly once so the
// derived game-over predicate holds; calling it again changes nothing.
func GameOverDocument(room *Room) {
	if room.CurrentTurn == room.TotalTurns {
		room.CurrentTurn++
	}
}
