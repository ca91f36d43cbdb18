package game

const pointsPerSecond = 10

// GuesserPoints is the award for a correct guess with timeLeft seconds
// remaining at the moment of detection. Earlier guesses are worth more.
func GuesserPoints(timeLeft int) int {
	return timeLeft * pointsPerSecond
}

// DrawerBonus is the drawer's cut for each correct guess of their word.
func DrawerBonus(timeLeft int) int {
	return GuesserPoints(timeLeft) / 2
}
