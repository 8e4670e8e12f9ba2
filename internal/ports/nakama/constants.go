package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a table with a free seat.
	RpcQuickMatch = "quick_match"

	// RpcReserveSeat holds a seat in a match for the caller and returns a seat token.
	RpcReserveSeat = "reserve_seat"

	// MatchNameBridge is the authoritative match handler name registered with Nakama.
	MatchNameBridge = "bridge_match"

	// JoinMetadataSeatToken carries a reserve_seat token in match join metadata.
	JoinMetadataSeatToken = "seat_token"
	// JoinMetadataSeat carries a preferred seat name in match join metadata.
	JoinMetadataSeat = "seat"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame    int64 = 1
	OpMakeCall     int64 = 2
	OpPlayCard     int64 = 3
	OpUndo         int64 = 4
	OpClaim        int64 = 5
	OpRequestState int64 = 6

	// Server -> Client events
	OpTableState   int64 = 101
	OpPlayerLeft   int64 = 102
	OpGameStarted  int64 = 103
	OpHandDealt    int64 = 104 // send privately
	OpCallMade     int64 = 105
	OpCardPlayed   int64 = 106
	OpHandRevealed int64 = 107
	OpUndone       int64 = 108
	OpGameEnded    int64 = 109
	OpGameState    int64 = 110 // per presence
	OpGameError    int64 = 111
)
