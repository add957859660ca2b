package db

import (
	"database/sql"
)

// user_progress is owned by the bots that write it; this schema only
// exists for local sqlite databases and tests.
const schema = `
CREATE TABLE IF NOT EXISTS user_progress (
    bot_name VARCHAR(255) NOT NULL,
    username VARCHAR(255),
    last_step VARCHAR(255)
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
