package services

// StandingsNotifier is told whenever something that moves the leaderboard changes.
type StandingsNotifier interface {
	StandingsChanged(reason string, eventID *int)
}

type noopNotifier struct{}

func (noopNotifier) StandingsChanged(string, *int) {}

func notifierOrNoop(n StandingsNotifier) StandingsNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
