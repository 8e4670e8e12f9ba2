package app

import (
	"bridge/internal/config"
	"bridge/internal/domain"
)

type seatedUser struct {
	userID   string
	username string
	player   *domain.Player
}

// Table binds Nakama users to the seats of one domain.Game.
type Table struct {
	game  *domain.Game
	rules config.TableRules
	seats [domain.SeatCount]*seatedUser
}

// Game returns the table's game.
func (t *Table) Game() *domain.Game { return t.game }

// Rules returns the rules the table was created with.
func (t *Table) Rules() config.TableRules { return t.rules }

// SeatOf returns the seat userID occupies.
func (t *Table) SeatOf(userID string) (domain.Seat, bool) {
	for _, s := range domain.Seats {
		if u := t.seats[s]; u != nil && u.userID == userID {
			return s, true
		}
	}
	return domain.NoSeat, false
}

// UserAt returns the user at seat, or "" when it is vacant.
func (t *Table) UserAt(seat domain.Seat) string {
	if !seat.Valid() || t.seats[seat] == nil {
		return ""
	}
	return t.seats[seat].userID
}

// Usernames maps every seated user ID to its username.
func (t *Table) Usernames() map[string]string {
	out := make(map[string]string, domain.SeatCount)
	for _, u := range t.seats {
		if u != nil {
			out[u.userID] = u.username
		}
	}
	return out
}

// FreeSeat returns the first vacant seat clockwise from North.
func (t *Table) FreeSeat() (domain.Seat, bool) {
	for _, s := range domain.Seats {
		if t.seats[s] == nil {
			return s, true
		}
	}
	return domain.NoSeat, false
}

// Occupied returns how many seats are taken.
func (t *Table) Occupied() int {
	n := 0
	for _, u := range t.seats {
		if u != nil {
			n++
		}
	}
	return n
}

// Owner returns the user in the first occupied seat.
func (t *Table) Owner() string {
	for _, s := range domain.Seats {
		if u := t.seats[s]; u != nil {
			return u.userID
		}
	}
	return ""
}

// UserIDs lists seated users in seat order.
func (t *Table) UserIDs() []string {
	out := make([]string, 0, domain.SeatCount)
	for _, u := range t.seats {
		if u != nil {
			out = append(out, u.userID)
		}
	}
	return out
}

func (t *Table) player(userID string) (*domain.Player, error) {
	seat, ok := t.SeatOf(userID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	return t.seats[seat].player, nil
}

// SnapshotFor returns the table view for userID, including the user's own
// hand while a board is in progress.
func (t *Table) SnapshotFor(userID string) domain.Snapshot {
	s := t.game.Snapshot()
	seat, ok := t.SeatOf(userID)
	if !ok {
		return s
	}
	hand, err := t.game.Hand(seat)
	if err != nil {
		return s
	}
	return s.WithHand(seat, hand)
}
