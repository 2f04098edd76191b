package texasholdem

// HandLog is the record of a hand kept in the hand history
type HandLog struct {
	Hand    *Hand     `json:"hand"`
	Players []*Player `json:"players"`
}

// HandLog returns a copy of the current hand and the roster, or nil if no hand has been started
func (g *Game) HandLog() *HandLog {
	if g.hand == nil {
		return nil
	}

	return &HandLog{
		Hand:    g.Hand(),
		Players: g.Players(),
	}
}
