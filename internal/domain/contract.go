package domain

// Contract is the outcome of a completed auction with a bid outstanding.
type Contract struct {
	Bid         Bid  `json:"bid"`
	Declarer    Seat `json:"declarer"`
	DoubledBy   Seat `json:"doubled_by"`
	RedoubledBy Seat `json:"redoubled_by"`
}

// NewContract builds the contract of a completed auction. It fails with
// ErrInvalidAuction for an incomplete or passed-out auction.
func NewContract(a *Auction) (*Contract, error) {
	c := a.ResolveContract()
	if c == nil {
		return nil, ErrInvalidAuction
	}
	return c, nil
}

// Doubled reports whether the contract was doubled (and not redoubled).
func (c *Contract) Doubled() bool {
	return c.DoubledBy != NoSeat && c.RedoubledBy == NoSeat
}

// Redoubled reports whether the contract was redoubled.
func (c *Contract) Redoubled() bool {
	return c.RedoubledBy != NoSeat
}

// Trumps returns the trump suit, NoTrumps for a no-trump contract.
func (c *Contract) Trumps() Suit {
	return c.Bid.Strain.Trumps()
}

// Dummy returns the declarer's partner.
func (c *Contract) Dummy() Seat {
	return c.Declarer.Partner()
}

// Partnership returns the declaring side.
func (c *Contract) Partnership() Partnership {
	return c.Declarer.Partnership()
}

func (c *Contract) String() string {
	s := c.Bid.String() + " by " + c.Declarer.String()
	switch {
	case c.Redoubled():
		s += " redoubled"
	case c.Doubled():
		s += " doubled"
	}
	return s
}
