package models

// ProgressRecord is one row of user_progress: a user's latest step within one bot's flow.
type ProgressRecord struct {
	BotName  string
	Username string
	LastStep string
}

type UserStep struct {
	Username string
	LastStep string
}
