package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create conversations and messages",
		SQL: `
			CREATE TABLE conversations (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);

			CREATE INDEX idx_conversations_updated ON conversations (updated_at DESC);

			CREATE TABLE messages (
				id              INTEGER PRIMARY KEY AUTOINCREMENT,
				conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
				role            TEXT NOT NULL,
				content         TEXT NOT NULL DEFAULT '',
				tool_calls      TEXT NOT NULL DEFAULT '[]',
				tool_results    TEXT NOT NULL DEFAULT '[]',
				created_at      TEXT NOT NULL
			);

			CREATE INDEX idx_messages_conversation ON messages (conversation_id, id);
		`,
	},
}
