package domain

// BoardCycle is the length of the duplicate vulnerability rotation.
const BoardCycle = 16

// Board is the metadata of one deal: number, dealer, vulnerability and cards.
type Board struct {
	Number        int           `json:"number"`
	Dealer        Seat          `json:"dealer"`
	Vulnerability Vulnerability `json:"vulnerability"`
	Deal          Deal          `json:"deal"`
}

// FirstBoard returns board 1: North deals, nobody vulnerable.
func FirstBoard(deal Deal) *Board {
	return &Board{Number: 1, Dealer: North, Vulnerability: VulnerableNone, Deal: deal}
}

// Next returns the successor board wrapping deal. The dealer moves one
// seat clockwise and vulnerability follows the sixteen-board rotation.
func (b *Board) Next(deal Deal) *Board {
	number := b.Number + 1
	return &Board{
		Number:        number,
		Dealer:        b.Dealer.Next(),
		Vulnerability: VulnerabilityForBoard(number),
		Deal:          deal,
	}
}

// VulnerabilityForBoard maps a board number to its duplicate vulnerability.
func VulnerabilityForBoard(number int) Vulnerability {
	i := (number - 1) % BoardCycle
	if i < 0 {
		i += BoardCycle
	}
	return Vulnerability((i%4 + i/4) % 4)
}

// Copy returns a board sharing nothing with b.
func (b *Board) Copy() *Board {
	out := *b
	out.Deal = b.Deal.Clone()
	return &out
}
