package domain

// Commands is the narrow surface a seated player acts through.
type Commands interface {
	SubmitCall(seat Seat, call Call) error
	SubmitPlay(seat Seat, card Card) error
	StartNextGame() error
	Hand(seat Seat) (Hand, error)
}

// Player is the handle for whoever occupies a seat. The seat it was
// issued for is the only seat it can act as.
type Player struct {
	seat  Seat
	table Commands
}

// NewPlayer binds a handle to seat on table.
func NewPlayer(seat Seat, table Commands) *Player {
	return &Player{seat: seat, table: table}
}

// Seat returns the seat the handle acts for.
func (p *Player) Seat() Seat { return p.seat }

func (p *Player) MakeCall(call Call) error {
	return gameError("player make call", p.table.SubmitCall(p.seat, call))
}

func (p *Player) PlayCard(card Card) error {
	return gameError("player play card", p.table.SubmitPlay(p.seat, card))
}

func (p *Player) StartNextGame() error {
	return gameError("player start next game", p.table.StartNextGame())
}

// Hand returns the player's own cards.
func (p *Player) Hand() (Hand, error) {
	h, err := p.table.Hand(p.seat)
	return h, gameError("player hand", err)
}
