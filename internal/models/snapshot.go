package models

// StatsSnapshot is the per-request aggregated view of user_progress.
// Totals[b] always equals len(Details[b]).
type StatsSnapshot struct {
	Totals  map[string]int
	Details map[string][]UserStep
	// Order lists bot names in the order they were first seen.
	Order []string
}

func NewStatsSnapshot() *StatsSnapshot {
	return &StatsSnapshot{
		Totals:  make(map[string]int),
		Details: make(map[string][]UserStep),
	}
}

func (s *StatsSnapshot) Add(rec ProgressRecord) {
	if _, ok := s.Totals[rec.BotName]; !ok {
		s.Order = append(s.Order, rec.BotName)
	}
	s.Totals[rec.BotName]++
	s.Details[rec.BotName] = append(s.Details[rec.BotName], UserStep{
		Username: rec.Username,
		LastStep: rec.LastStep,
	})
}

func (s *StatsSnapshot) IsEmpty() bool {
	return len(s.Order) == 0
}

func (s *StatsSnapshot) TotalUsers() int {
	total := 0
	for _, n := range s.Totals {
		total += n
	}
	return total
}
