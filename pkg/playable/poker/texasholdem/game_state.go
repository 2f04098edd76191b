package texasholdem

import (
	"chipstack-server/pkg/playable/poker/action"
)

// GameState represents the state of the table that every player can see
type GameState struct {
	Options Options   `json:"options"`
	Players []*Player `json:"players"`
	Hand    *Hand     `json:"hand"`
}

// ParticipantState is the game state as seen by an individual player
type ParticipantState struct {
	Seat           int             `json:"seat"`
	Actions        []action.Action `json:"actions"`
	ToCall         int             `json:"toCall"`
	MinRaise       int             `json:"minRaise"`
	CanMarkWinners bool            `json:"canMarkWinners"`
	CanApprove     bool            `json:"canApprove"`
	GameState      *GameState      `json:"gameState"`
}

// GetGameState returns the table state
func (g *Game) GetGameState() *GameState {
	return &GameState{
		Options: g.options,
		Players: g.Players(),
		Hand:    g.Hand(),
	}
}

// GetPlayerState returns the table state along with what the player can do
// Returns nil if the player is not seated
func (g *Game) GetPlayerState(playerID int64) *ParticipantState {
	seat, ok := g.SeatForPlayer(playerID)
	if !ok {
		return nil
	}

	state := &ParticipantState{
		Seat:      seat,
		Actions:   []action.Action{},
		GameState: g.GetGameState(),
	}

	h := g.hand
	if h == nil {
		return state
	}

	e := h.Entries.bySeat(seat)
	if e == nil {
		return state
	}

	switch h.Round {
	case RoundBettingComplete, RoundSelectingWinners:
		state.CanMarkWinners = e.Status != EntryStatusFolded
	case RoundApprovingWinners:
		state.CanApprove = !e.ApprovedWinners
	}

	if !h.IsTurn(seat) {
		return state
	}

	p := g.playerAtSeat(seat)
	state.ToCall = h.CurrentBet - e.CurrentBet
	state.MinRaise = state.ToCall + g.options.BettingIncrement
	state.Actions = g.actionsFor(state.ToCall, state.MinRaise, p.Balance)

	return state
}

func (g *Game) actionsFor(toCall, minRaise, balance int) []action.Action {
	actions := []action.Action{action.Fold}
	if toCall == 0 {
		actions = append(actions, action.Check)
	} else if toCall < balance {
		actions = append(actions, action.Call)
	}

	if balance > minRaise {
		actions = append(actions, action.Raise)
	}

	if balance > 0 {
		actions = append(actions, action.AllIn)
	}

	return actions
}
