package sqlitestore

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	day TEXT NOT NULL,
	date TEXT NOT NULL,
	amount TEXT NOT NULL,
	kind TEXT NOT NULL,
	merchant TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_day ON transactions(day);

CREATE TABLE IF NOT EXISTS merchant_mappings (
	id TEXT PRIMARY KEY,
	merchant TEXT NOT NULL UNIQUE,
	canonical TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recurring_tags (
	id TEXT PRIMARY KEY,
	merchant TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL DEFAULT '',
	average_amount TEXT NOT NULL,
	interval_days INTEGER NOT NULL DEFAULT 0,
	next_expected TEXT,
	confirmed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS anomalies (
	id TEXT PRIMARY KEY,
	transaction_id TEXT NOT NULL UNIQUE,
	amount TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	score REAL NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	dismissed INTEGER NOT NULL DEFAULT 0,
	snoozed_until TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL DEFAULT '',
	amount TEXT NOT NULL,
	period_type TEXT NOT NULL,
	start_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	target_amount TEXT NOT NULL,
	current_amount TEXT NOT NULL,
	deadline TEXT,
	created_at TEXT
);

CREATE TABLE IF NOT EXISTS goal_contributions (
	id TEXT PRIMARY KEY,
	goal_id TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
	amount TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_goal_contributions_goal ON goal_contributions(goal_id);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	due_date TEXT NOT NULL,
	dismissed INTEGER NOT NULL DEFAULT 0,
	snoozed_until TEXT
);
`
