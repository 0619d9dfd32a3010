// Package sqlitestore is a SQLite-backed implementation of the record store.
// The schema is created on open; use ":memory:" for a throwaway database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Store implements store.Store on SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger logging.Logger

	// Now stamps created and updated records.
	Now func() time.Time
}

// New opens (and migrates) the database at dbPath.
func New(dbPath string, logger logging.Logger) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on"
	if dbPath != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite has a single writer and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logging.OrDefault(logger), Now: time.Now}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Debug("Opened SQLite ledger", logging.Field{Key: logging.FieldInputFile, Value: dbPath})
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func wrap(op string, err error) error {
	return &ledgererror.StoreError{Op: op, Err: err}
}

func notFoundIfNoRows(res sql.Result, entity, id, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return ledgererror.NewNotFound(entity, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// --- transactions ---

func (s *Store) AddTransaction(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.Now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
		(id, day, date, amount, kind, merchant, notes, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, dateutils.ToISODate(tx.Date), formatTime(tx.Date), tx.Amount.String(), string(tx.Kind),
		tx.Merchant, tx.Notes, tx.Category, formatTime(tx.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ledgererror.NewValidation("id", tx.ID, "transaction already exists")
		}
		return wrap("add transaction", err)
	}
	return nil
}

const transactionColumns = `id, date, amount, kind, merchant, notes, category, created_at`

func scanTransaction(row scanner) (models.Transaction, error) {
	var (
		tx                    models.Transaction
		date, amount, created string
		kind                  string
	)
	if err := row.Scan(&tx.ID, &date, &amount, &kind, &tx.Merchant, &tx.Notes, &tx.Category, &created); err != nil {
		return tx, err
	}
	var err error
	if tx.Date, err = parseTime(date); err != nil {
		return tx, err
	}
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return tx, err
	}
	if tx.CreatedAt, err = parseTime(created); err != nil {
		return tx, err
	}
	tx.Kind = models.TransactionKind(kind)
	return tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ledgererror.NewNotFound("transaction", id)
	}
	if err != nil {
		return models.Transaction{}, wrap("get transaction", err)
	}
	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Since.IsZero() {
		where = append(where, "day >= ?")
		args = append(args, dateutils.ToISODate(filter.Since))
	}
	if !filter.Until.IsZero() {
		where = append(where, "day <= ?")
		args = append(args, dateutils.ToISODate(filter.Until))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day, date, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, wrap("list transactions", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list transactions", err)
	}
	return out, nil
}

// --- merchant mappings ---

const mappingColumns = `id, merchant, canonical, category, notes, created_at, updated_at`

func scanMapping(row scanner) (models.MerchantMapping, error) {
	var (
		m                models.MerchantMapping
		created, updated string
	)
	if err := row.Scan(&m.ID, &m.Merchant, &m.Canonical, &m.Category, &m.Notes, &created, &updated); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTime(created); err != nil {
		return m, err
	}
	if m.UpdatedAt, err = parseTime(updated); err != nil {
		return m, err
	}
	return m, nil
}

func (s *Store) FindMapping(ctx context.Context, merchant string) (*models.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+mappingColumns+` FROM merchant_mappings WHERE merchant = ?`, merchant)
	m, err := scanMapping(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find mapping", err)
	}
	return &m, nil
}

func (s *Store) ListMappings(ctx context.Context) ([]models.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+mappingColumns+` FROM merchant_mappings ORDER BY rowid`)
	if err != nil {
		return nil, wrap("list mappings", err)
	}
	defer rows.Close()

	var out []models.MerchantMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, wrap("list mappings", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list mappings", err)
	}
	return out, nil
}

// SaveMapping upserts by ID when set, otherwise by merchant key.
func (s *Store) SaveMapping(ctx context.Context, m *models.MerchantMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	m.UpdatedAt = now

	if m.ID == "" {
		var id, created string
		err := s.db.QueryRowContext(ctx, `SELECT id, created_at FROM merchant_mappings WHERE merchant = ?`, m.Merchant).Scan(&id, &created)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			m.ID = uuid.NewString()
			m.CreatedAt = now
			_, err = s.db.ExecContext(ctx, `INSERT INTO merchant_mappings (`+mappingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				m.ID, m.Merchant, m.Canonical, m.Category, m.Notes, formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
			if err != nil {
				return wrap("save mapping", err)
			}
			return nil
		case err != nil:
			return wrap("save mapping", err)
		}
		m.ID = id
		if m.CreatedAt, err = parseTime(created); err != nil {
			return wrap("save mapping", err)
		}
	} else {
		var created string
		err := s.db.QueryRowContext(ctx, `SELECT created_at FROM merchant_mappings WHERE id = ?`, m.ID).Scan(&created)
		if errors.Is(err, sql.ErrNoRows) {
			return ledgererror.NewNotFound("mapping", m.ID)
		}
		if err != nil {
			return wrap("save mapping", err)
		}
		if m.CreatedAt, err = parseTime(created); err != nil {
			return wrap("save mapping", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `UPDATE merchant_mappings
		SET merchant = ?, canonical = ?, category = ?, notes = ?, updated_at = ? WHERE id = ?`,
		m.Merchant, m.Canonical, m.Category, m.Notes, formatTime(m.UpdatedAt), m.ID)
	if err != nil {
		return wrap("save mapping", err)
	}
	return nil
}

// --- recurring tags ---

const tagColumns = `id, merchant, category, average_amount, interval_days, next_expected, confirmed, created_at`

func scanTag(row scanner) (models.RecurringTag, error) {
	var (
		t               models.RecurringTag
		amount, created string
		next            sql.NullString
		confirmed       int
	)
	if err := row.Scan(&t.ID, &t.Merchant, &t.Category, &amount, &t.IntervalDays, &next, &confirmed, &created); err != nil {
		return t, err
	}
	var err error
	if t.AverageAmount, err = decimal.NewFromString(amount); err != nil {
		return t, err
	}
	if t.NextExpected, err = parseNullTime(next); err != nil {
		return t, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return t, err
	}
	t.Confirmed = confirmed == 1
	return t, nil
}

// SaveRecurringTag upserts by merchant.
func (s *Store) SaveRecurringTag(ctx context.Context, tag *models.RecurringTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id, created string
	err := s.db.QueryRowContext(ctx, `SELECT id, created_at FROM recurring_tags WHERE merchant = ?`, tag.Merchant).Scan(&id, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		tag.ID = uuid.NewString()
		if tag.CreatedAt.IsZero() {
			tag.CreatedAt = s.Now()
		}
		_, err = s.db.ExecContext(ctx, `INSERT INTO recurring_tags (`+tagColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			tag.ID, tag.Merchant, tag.Category, tag.AverageAmount.String(), tag.IntervalDays,
			nullTime(tag.NextExpected), boolInt(tag.Confirmed), formatTime(tag.CreatedAt))
		if err != nil {
			return wrap("save recurring tag", err)
		}
		return nil
	case err != nil:
		return wrap("save recurring tag", err)
	}

	tag.ID = id
	if tag.CreatedAt, err = parseTime(created); err != nil {
		return wrap("save recurring tag", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE recurring_tags
		SET category = ?, average_amount = ?, interval_days = ?, next_expected = ?, confirmed = ? WHERE id = ?`,
		tag.Category, tag.AverageAmount.String(), tag.IntervalDays, nullTime(tag.NextExpected), boolInt(tag.Confirmed), tag.ID)
	if err != nil {
		return wrap("save recurring tag", err)
	}
	return nil
}

func (s *Store) GetRecurringTag(ctx context.Context, id string) (models.RecurringTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tag, err := scanTag(s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM recurring_tags WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecurringTag{}, ledgererror.NewNotFound("recurring tag", id)
	}
	if err != nil {
		return models.RecurringTag{}, wrap("get recurring tag", err)
	}
	return tag, nil
}

func (s *Store) ListRecurringTags(ctx context.Context) ([]models.RecurringTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM recurring_tags ORDER BY rowid`)
	if err != nil {
		return nil, wrap("list recurring tags", err)
	}
	defer rows.Close()

	var out []models.RecurringTag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, wrap("list recurring tags", err)
		}
		out = append(out, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list recurring tags", err)
	}
	return out, nil
}

func (s *Store) DeleteRecurringTag(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_tags WHERE id = ?`, id)
	if err != nil {
		return wrap("delete recurring tag", err)
	}
	return notFoundIfNoRows(res, "recurring tag", id, "delete recurring tag")
}

// --- anomalies ---

const anomalyColumns = `id, transaction_id, amount, category, score, message, dismissed, snoozed_until, created_at`

func scanAnomaly(row scanner) (models.AnomalyRecord, error) {
	var (
		a               models.AnomalyRecord
		amount, created string
		snoozed         sql.NullString
		dismissed       int
	)
	if err := row.Scan(&a.ID, &a.TransactionID, &amount, &a.Category, &a.Score, &a.Message, &dismissed, &snoozed, &created); err != nil {
		return a, err
	}
	var err error
	if a.Amount, err = decimal.NewFromString(amount); err != nil {
		return a, err
	}
	if a.SnoozedUntil, err = parseNullTime(snoozed); err != nil {
		return a, err
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return a, err
	}
	a.Dismissed = dismissed == 1
	return a, nil
}

func (s *Store) FindAnomalyByTransaction(ctx context.Context, transactionID string) (*models.AnomalyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := scanAnomaly(s.db.QueryRowContext(ctx, `SELECT `+anomalyColumns+` FROM anomalies WHERE transaction_id = ?`, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find anomaly", err)
	}
	return &a, nil
}

// CreateAnomaly inserts a record; a second record for the same transaction is rejected.
func (s *Store) CreateAnomaly(ctx context.Context, rec *models.AnomalyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM anomalies WHERE transaction_id = ?`, rec.TransactionID).Scan(&exists)
	if err != nil {
		return wrap("create anomaly", err)
	}
	if exists > 0 {
		return ledgererror.NewValidation("transaction_id", rec.TransactionID, "already flagged")
	}

	rec.ID = uuid.NewString()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.Now()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO anomalies (`+anomalyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TransactionID, rec.Amount.String(), rec.Category, rec.Score, rec.Message,
		boolInt(rec.Dismissed), nullTime(rec.SnoozedUntil), formatTime(rec.CreatedAt))
	if err != nil {
		return wrap("create anomaly", err)
	}
	return nil
}

func (s *Store) GetAnomaly(ctx context.Context, id string) (models.AnomalyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := scanAnomaly(s.db.QueryRowContext(ctx, `SELECT `+anomalyColumns+` FROM anomalies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.AnomalyRecord{}, ledgererror.NewNotFound("anomaly", id)
	}
	if err != nil {
		return models.AnomalyRecord{}, wrap("get anomaly", err)
	}
	return a, nil
}

func (s *Store) UpdateAnomaly(ctx context.Context, rec models.AnomalyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE anomalies
		SET amount = ?, category = ?, score = ?, message = ?, dismissed = ?, snoozed_until = ? WHERE id = ?`,
		rec.Amount.String(), rec.Category, rec.Score, rec.Message, boolInt(rec.Dismissed), nullTime(rec.SnoozedUntil), rec.ID)
	if err != nil {
		return wrap("update anomaly", err)
	}
	return notFoundIfNoRows(res, "anomaly", rec.ID, "update anomaly")
}

func (s *Store) ListAnomalies(ctx context.Context) ([]models.AnomalyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+anomalyColumns+` FROM anomalies ORDER BY rowid`)
	if err != nil {
		return nil, wrap("list anomalies", err)
	}
	defer rows.Close()

	var out []models.AnomalyRecord
	for rows.Next() {
		a, err := scanAnomaly(rows)
		if err != nil {
			return nil, wrap("list anomalies", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list anomalies", err)
	}
	return out, nil
}
