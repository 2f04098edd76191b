package potmanager

// Participant provides an interface for crediting a winner's balance
type Participant interface {
	ID() int64
	AdjustBalance(amount int)
}
