package model

import (
	petname "github.com/dustinkirkland/golang-petname"

	"github.com/benbeisheim/chessrules/internal/chess"
)

type Player struct {
	ID   string
	Name string
}

type ClientPlayer struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color chess.Color `json:"color"`
}

// NewPlayer gives the player a readable display name such as "brave-otter".
func NewPlayer(id string) Player {
	return Player{ID: id, Name: petname.Generate(2, "-")}
}

// MatchFoundEvent is pushed to a queued player once they have been paired.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  chess.Color `json:"color"`
}
