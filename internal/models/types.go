package models

type StatsMode string

const (
	ModeMenu   StatsMode = "menu"
	ModeAll    StatsMode = "all"
	ModeSingle StatsMode = "single"
)

func (m StatsMode) Valid() bool {
	switch m {
	case ModeMenu, ModeAll, ModeSingle:
		return true
	}
	return false
}

type SplitStrategy string

const (
	SplitFixed SplitStrategy = "fixed"
	SplitLines SplitStrategy = "lines"
)

func (s SplitStrategy) Valid() bool {
	return s == SplitFixed || s == SplitLines
}
