package domain

// Auction is the bidding phase of one board. The call list alone
// determines turn, completion and pass-out.
type Auction struct {
	dealer   Seat
	calls    []Call
	contract *Contract
}

// NewAuction starts an empty auction with dealer calling first.
func NewAuction(dealer Seat) *Auction {
	return &Auction{dealer: dealer}
}

// Dealer returns the seat that made the first call.
func (a *Auction) Dealer() Seat { return a.dealer }

// Calls returns a copy of the calls made so far.
func (a *Auction) Calls() []Call {
	out := make([]Call, len(a.calls))
	copy(out, a.calls)
	return out
}

// Len returns the number of calls made.
func (a *Auction) Len() int { return len(a.calls) }

// Complete is true once four or more calls were made and the last three are passes.
func (a *Auction) Complete() bool {
	n := len(a.calls)
	if n < 4 {
		return false
	}
	for _, c := range a.calls[n-3:] {
		if c.Kind != PassCall {
			return false
		}
	}
	return true
}

// PassedOut is true when all four players passed on their first turn.
func (a *Auction) PassedOut() bool {
	if len(a.calls) != 4 {
		return false
	}
	for _, c := range a.calls {
		if c.Kind != PassCall {
			return false
		}
	}
	return true
}

// WhoseTurn returns the seat to call next, or false when the auction is complete.
func (a *Auction) WhoseTurn() (Seat, bool) {
	if a.Complete() {
		return NoSeat, false
	}
	return a.dealer.Offset(len(a.calls)), true
}

// WhoCalled returns the seat that made the call at index.
func (a *Auction) WhoCalled(index int) Seat {
	if index < 0 || index >= len(a.calls) {
		return NoSeat
	}
	return a.dealer.Offset(index)
}

// currentCall scans backward for the latest call of kind. A bid ends the
// search, so a new bid cancels earlier doubles and redoubles.
func (a *Auction) currentCall(kind CallKind) (Call, int) {
	for i := len(a.calls) - 1; i >= 0; i-- {
		c := a.calls[i]
		if c.Kind == kind {
			return c, i
		}
		if c.Kind == BidCall {
			break
		}
	}
	return Call{}, -1
}

// CurrentBid returns the latest bid and its caller.
func (a *Auction) CurrentBid() (Bid, Seat, bool) {
	c, i := a.currentCall(BidCall)
	if i < 0 {
		return Bid{}, NoSeat, false
	}
	return c.Bid, a.WhoCalled(i), true
}

// CurrentDouble returns the seat whose double is in force on the current bid.
func (a *Auction) CurrentDouble() (Seat, bool) {
	_, i := a.currentCall(DoubleCall)
	if i < 0 {
		return NoSeat, false
	}
	return a.WhoCalled(i), true
}

// CurrentRedouble returns the seat whose redouble is in force on the current bid.
func (a *Auction) CurrentRedouble() (Seat, bool) {
	_, i := a.currentCall(RedoubleCall)
	if i < 0 {
		return NoSeat, false
	}
	return a.WhoCalled(i), true
}

// ValidCall checks call against the bidding rules for the seat whose turn it is.
func (a *Auction) ValidCall(call Call) bool {
	seat, ok := a.WhoseTurn()
	if !ok {
		return false
	}
	return a.ValidCallFrom(call, seat)
}

// ValidCallFrom is ValidCall with the additional check that it is seat's turn.
func (a *Auction) ValidCallFrom(call Call, seat Seat) bool {
	turn, ok := a.WhoseTurn()
	if !ok || seat != turn {
		return false
	}

	switch call.Kind {
	case PassCall:
		return true
	case BidCall:
		if !call.Bid.Valid() {
			return false
		}
		current, _, ok := a.CurrentBid()
		return !ok || call.Bid.Beats(current)
	case DoubleCall, RedoubleCall:
		_, bidder, ok := a.CurrentBid()
		if !ok {
			return false
		}
		_, doubled := a.CurrentDouble()
		if call.Kind == DoubleCall {
			return !bidder.SameSide(turn) && !doubled
		}
		_, redoubled := a.CurrentRedouble()
		return bidder.SameSide(turn) && doubled && !redoubled
	}
	return false
}

// MakeCall appends call for the seat whose turn it is. When the call
// completes the auction with a bid outstanding, the contract is stored.
func (a *Auction) MakeCall(call Call) error {
	if call.Kind < BidCall || call.Kind > RedoubleCall {
		return ErrInvalidCallClass
	}
	if !a.ValidCall(call) {
		return ErrInvalidCall
	}
	a.calls = append(a.calls, call)
	if a.Complete() && !a.PassedOut() {
		contract, err := NewContract(a)
		if err != nil {
			return err
		}
		a.contract = contract
	}
	return nil
}

// Undo removes the last call of an incomplete auction.
func (a *Auction) Undo() bool {
	if len(a.calls) == 0 || a.Complete() {
		return false
	}
	a.calls = a.calls[:len(a.calls)-1]
	return true
}

// Contract returns the contract stored when the auction completed, or nil.
func (a *Auction) Contract() *Contract {
	return a.contract
}

// ResolveContract derives the contract from the current calls, or nil when
// the auction is incomplete or passed out.
func (a *Auction) ResolveContract() *Contract {
	if !a.Complete() || a.PassedOut() {
		return nil
	}
	bid, bidder, ok := a.CurrentBid()
	if !ok {
		return nil
	}
	c := &Contract{Bid: bid, Declarer: NoSeat, DoubledBy: NoSeat, RedoubledBy: NoSeat}
	for i, call := range a.calls {
		if call.Kind == BidCall && call.Bid.Strain == bid.Strain && a.WhoCalled(i).SameSide(bidder) {
			c.Declarer = a.WhoCalled(i)
			break
		}
	}
	if seat, ok := a.CurrentDouble(); ok {
		c.DoubledBy = seat
	}
	if seat, ok := a.CurrentRedouble(); ok {
		c.RedoubledBy = seat
	}
	return c
}
