package domain

// GamePoints is the below-the-line total that completes a game.
const GamePoints = 100

// RubberGame is a completed game: the results that built it and the side that won it.
type RubberGame struct {
	Results []Result    `json:"results"`
	Winner  Partnership `json:"winner"`
}

// Rubber groups rubber-scored results until one side has won two games.
type Rubber struct {
	Results []Result `json:"results"`
}

// Add appends a result to the rubber.
func (r *Rubber) Add(result Result) {
	r.Results = append(r.Results, result)
}

// Games returns the completed games in order. Each side accumulates the
// below-the-line points of its own contracts; when either total reaches
// GamePoints that side wins the game and both totals restart.
func (r *Rubber) Games() []RubberGame {
	var games []RubberGame
	var current []Result
	var below [2]int
	for _, result := range r.Results {
		current = append(current, result)
		if result.Contract == nil {
			continue
		}
		side := result.Contract.Partnership()
		below[side] += result.Below
		if below[side] >= GamePoints {
			games = append(games, RubberGame{Results: current, Winner: side})
			current = nil
			below = [2]int{}
		}
	}
	return games
}

// Winner returns the side that has won two games, if any.
func (r *Rubber) Winner() (Partnership, bool) {
	var won [2]int
	for _, g := range r.Games() {
		won[g.Winner]++
		if won[g.Winner] >= 2 {
			return g.Winner, true
		}
	}
	return NorthSouth, false
}

// Vulnerability derives board vulnerability from the games each side has won.
func (r *Rubber) Vulnerability() Vulnerability {
	var won [2]bool
	for _, g := range r.Games() {
		won[g.Winner] = true
	}
	switch {
	case won[NorthSouth] && won[EastWest]:
		return VulnerableAll
	case won[NorthSouth]:
		return VulnerableNorthSouth
	case won[EastWest]:
		return VulnerableEastWest
	}
	return VulnerableNone
}

// Bonus returns the rubber bonus for the winner: 700 for two games to
// none, 500 for two games to one. It is zero while the rubber is open.
func (r *Rubber) Bonus() int {
	winner, ok := r.Winner()
	if !ok {
		return 0
	}
	for _, g := range r.Games() {
		if g.Winner != winner {
			return 500
		}
	}
	return 700
}
