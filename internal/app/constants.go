package app

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a board.
// The domain also refuses to deal until every seat is filled; this check reports it earlier.
const MinPlayersToStartGame = 4
