package texasholdem

import (
	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/playable/poker/potmanager"
	"github.com/sirupsen/logrus"
)

// MarkWinner toggles whether the seat won the hand
// Any change throws out existing approvals and restarts the auto-approval countdown
func (g *Game) MarkWinner(seat int) error {
	h := g.hand
	if h == nil {
		return ErrHandNotFound
	}

	if h.Round != RoundBettingComplete && h.Round != RoundSelectingWinners {
		return ErrWrongPhaseForAction
	}

	e := h.Entries.bySeat(seat)
	if e == nil {
		return ErrSeatNotFound
	}

	if e.Status == EntryStatusFolded {
		return ErrFoldedWinner
	}

	e.IsWinner = !e.IsWinner
	h.Entries.clearApprovals()
	h.Round = RoundSelectingWinners
	g.stamp(h)
	g.schedule(h, CheckAutoApproval, g.timing.AutoApproval)

	g.logger.WithFields(logrus.Fields{
		"hand":   h.Number,
		"seat":   seat,
		"winner": e.IsWinner,
		"token":  h.FenceToken,
	}).Debug("winner toggled")

	if e.IsWinner {
		g.sendLogMessages(playable.SimpleLogMessage(e.PlayerID, "{} was marked as a winner"))
	} else {
		g.sendLogMessages(playable.SimpleLogMessage(e.PlayerID, "{} is no longer marked as a winner"))
	}

	return nil
}

// Approve records the seat's approval of the marked winners
// The pot is paid out as soon as a strict majority of the hand has approved
func (g *Game) Approve(seat int) error {
	h := g.hand
	if h == nil {
		return ErrHandNotFound
	}

	if h.Round != RoundApprovingWinners {
		return ErrWrongPhaseForAction
	}

	e := h.Entries.bySeat(seat)
	if e == nil {
		return ErrSeatNotFound
	}

	if e.ApprovedWinners {
		return nil
	}

	e.ApprovedWinners = true

	g.logger.WithFields(logrus.Fields{
		"hand":     h.Number,
		"seat":     seat,
		"approved": h.Entries.approvedCount(),
		"entries":  len(h.Entries),
	}).Debug("winners approved")

	g.sendLogMessages(playable.SimpleLogMessage(e.PlayerID, "{} approved the winners"))

	if h.Entries.hasMajorityApproval() {
		g.distributePot(h)
	}

	return nil
}

// RunPendingCheck runs a deferred check and returns true if it changed the hand
// Checks for another hand, with an outdated token, or arriving in the wrong round are ignored
func (g *Game) RunPendingCheck(check PendingCheck) bool {
	h := g.hand
	log := g.logger.WithFields(logrus.Fields{
		"check": check.Kind.String(),
		"hand":  check.HandNumber,
		"token": check.Token,
	})

	if h == nil || h.Number != check.HandNumber {
		log.WithField("reason", "hand").Debug("deferred check skipped")
		return false
	}

	if h.FenceToken != check.Token {
		log.WithField("reason", "stale").Debug("deferred check skipped")
		return false
	}

	switch check.Kind {
	case CheckAutoApproval:
		if h.Round != RoundSelectingWinners {
			log.WithField("reason", "phase").Debug("deferred check skipped")
			return false
		}

		if len(h.Entries.winners()) == 0 {
			log.WithField("reason", "no-winners").Debug("deferred check skipped")
			return false
		}

		h.Round = RoundApprovingWinners
		g.stamp(h)
		g.schedule(h, CheckApprovalTimeout, g.timing.ApprovalTimeout)
		g.sendLogMessages(playable.SimpleLogMessage(0, "Winners are ready to be approved"))
	case CheckApprovalTimeout:
		if h.Round != RoundApprovingWinners {
			log.WithField("reason", "phase").Debug("deferred check skipped")
			return false
		}

		h.Round = RoundSelectingWinners
		h.Entries.clearApprovals()
		g.stamp(h)
		g.schedule(h, CheckAutoApproval, g.timing.AutoApproval)
		g.sendLogMessages(playable.SimpleLogMessage(0, "Winners were not approved in time, select the winners again"))
	default:
		log.WithField("reason", "kind").Warn("deferred check skipped")
		return false
	}

	log.WithField("round", h.Round.String()).Debug("deferred check applied")
	return true
}

// distributePot pays the pot to the marked winners in seat order and ends the hand
func (g *Game) distributePot(h *Hand) {
	winners := h.Entries.winners()
	if len(winners) == 0 {
		return
	}

	participants := make([]potmanager.Participant, len(winners))
	for i, w := range winners {
		participants[i] = g.playerAtSeat(w.SeatPosition)
	}

	payouts, err := potmanager.PayWinners(h.Pot, participants)
	if err != nil {
		g.logger.WithError(err).WithField("hand", h.Number).Error("could not pay winners")
		return
	}

	logs := make([]*playable.LogMessage, 0, len(winners))
	for _, w := range winners {
		w.Winnings = payouts[w.PlayerID]
		logs = append(logs, playable.SimpleLogMessage(w.PlayerID, "{} won ${%d}", w.Winnings))
	}

	h.Round = RoundDistributed
	h.TurnSeat = nil

	for _, p := range g.players {
		if p.IsOut() {
			continue
		}

		if p.Balance == 0 {
			p.Status = PlayerStatusOut
		} else {
			p.Status = PlayerStatusActive
		}
	}

	g.logger.WithFields(logrus.Fields{
		"hand":    h.Number,
		"pot":     h.Pot,
		"winners": len(winners),
	}).Info("pot distributed")

	g.sendLogMessages(logs...)
}
