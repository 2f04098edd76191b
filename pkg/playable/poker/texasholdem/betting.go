package texasholdem

import (
	"fmt"

	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/playable/poker/action"
	"github.com/sirupsen/logrus"
)

// CommitAction applies a bet from the seat that is on turn
// An amount of zero folds. Any other amount must call, raise by at least the betting increment, or go all-in.
func (g *Game) CommitAction(seat, amount int) error {
	h, e, p, err := g.turn(seat)
	if err != nil {
		return err
	}

	if amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidActionAmount)
	}

	if amount > p.Balance {
		return ErrInsufficientChips
	}

	toCall := h.CurrentBet - e.CurrentBet
	a := action.Classify(amount, toCall, p.Balance)
	if a == action.Raise {
		if amount < toCall {
			return fmt.Errorf("%w: you must call ${%d}", ErrInvalidActionAmount, toCall)
		}

		if minRaise := toCall + g.options.BettingIncrement; amount < minRaise {
			return fmt.Errorf("%w: the minimum raise is ${%d}", ErrRaiseTooSmall, minRaise)
		}
	}

	if a == action.Fold {
		e.Status = EntryStatusFolded
		p.Status = PlayerStatusFolded
	} else {
		g.bet(h, e, p, amount)
		if e.CurrentBet > h.CurrentBet {
			h.CurrentBet = e.CurrentBet
			h.Entries.requireActionExcept(e)
		}
	}

	e.Acted = true

	g.logger.WithFields(logrus.Fields{
		"hand":   h.Number,
		"seat":   seat,
		"action": a.String(),
		"amount": amount,
	}).Debug("action committed")

	g.sendLogMessages(playable.SimpleLogMessage(p.PlayerID, "{} %s", a.LogMessage(amount)))
	g.afterAction(h, seat)
	return nil
}

// Check passes the action without betting
// It is only allowed when the seat already matches the current bet
func (g *Game) Check(seat int) error {
	h, e, p, err := g.turn(seat)
	if err != nil {
		return err
	}

	if h.CurrentBet > e.CurrentBet {
		return fmt.Errorf("%w: you cannot check with an active bet", ErrInvalidActionAmount)
	}

	e.Acted = true
	e.Status = EntryStatusActive
	p.Status = PlayerStatusActive

	g.logger.WithFields(logrus.Fields{
		"hand": h.Number,
		"seat": seat,
	}).Debug("check committed")

	g.sendLogMessages(playable.SimpleLogMessage(p.PlayerID, "{} %s", action.Check.LogMessage(0)))
	g.afterAction(h, seat)
	return nil
}

// turn validates that the seat can act right now
func (g *Game) turn(seat int) (*Hand, *Entry, *Player, error) {
	h := g.hand
	if h == nil {
		return nil, nil, nil, ErrHandNotFound
	}

	if !h.Round.IsBettingRound() || h.TurnSeat == nil {
		return nil, nil, nil, ErrWrongPhaseForAction
	}

	if !h.IsTurn(seat) {
		return nil, nil, nil, ErrNotYourTurn
	}

	e := h.Entries.bySeat(seat)
	p := g.playerAtSeat(seat)
	if e == nil || p == nil {
		return nil, nil, nil, ErrSeatNotFound
	}

	return h, e, p, nil
}

// bet moves chips from the player into the pot
// The caller guarantees amount does not exceed the balance
func (g *Game) bet(h *Hand, e *Entry, p *Player, amount int) {
	p.Balance -= amount
	e.CurrentBet += amount
	e.TotalBet += amount
	h.Pot += amount

	if p.Balance == 0 {
		e.Status = EntryStatusAllIn
		p.Status = PlayerStatusAllIn
	} else {
		e.Status = EntryStatusActive
		p.Status = PlayerStatusActive
	}
}

// postBlind posts a forced bet, capped at the player's balance
// Blinds do not count as acting
func (g *Game) postBlind(h *Hand, seat, amount int, name string) *playable.LogMessage {
	e := h.Entries.bySeat(seat)
	p := g.playerAtSeat(seat)

	amount = min(amount, p.Balance)
	g.bet(h, e, p, amount)

	return playable.SimpleLogMessage(p.PlayerID, "{} posted the %s blind of ${%d}", name, amount)
}

func (g *Game) afterAction(h *Hand, seat int) {
	if h.Entries.nonFoldedCount() == 1 {
		h.completeBetting()
		g.sendLogMessages(playable.SimpleLogMessage(0, "Everyone else folded, betting is complete"))
		return
	}

	if h.isRoundComplete() {
		g.advanceRound(h)
		return
	}

	next, ok := h.seats().NextSeat(seat, h.canActAt)
	if !ok {
		g.advanceRound(h)
		return
	}

	h.setTurn(next.Position)
}

// advanceRound moves to the next betting round, skipping any round where nobody can act
func (g *Game) advanceRound(h *Hand) {
	for {
		h.Round = h.Round.next()
		if !h.Round.IsBettingRound() {
			h.completeBetting()
			g.logger.WithField("hand", h.Number).Debug("betting complete")
			g.sendLogMessages(playable.SimpleLogMessage(0, "Betting is complete, select the winners"))
			return
		}

		h.Entries.newRound()
		h.CurrentBet = 0

		if first, ok := h.seats().NextSeat(h.DealerSeat, h.canActAt); ok {
			h.setTurn(first.Position)
			g.logger.WithFields(logrus.Fields{
				"hand":  h.Number,
				"round": h.Round.String(),
			}).Debug("betting round started")
			g.sendLogMessages(playable.SimpleLogMessage(0, "Betting on the %s has started", h.Round))
			return
		}
	}
}
