// Package store provides the record store behind the insights engine. The
// default FileStore keeps every record in memory and persists the whole ledger
// as a single YAML document.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"fjacquet/fin-insights/internal/fileutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"
	"fjacquet/fin-insights/internal/models"
	"fjacquet/fin-insights/internal/validation"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ledgerDocument is the on-disk layout of the YAML ledger.
type ledgerDocument struct {
	Transactions  []models.Transaction      `yaml:"transactions"`
	Mappings      []models.MerchantMapping  `yaml:"mappings"`
	RecurringTags []models.RecurringTag     `yaml:"recurring_tags"`
	Anomalies     []models.AnomalyRecord    `yaml:"anomalies"`
	Budgets       []models.Budget           `yaml:"budgets"`
	Goals         []models.Goal             `yaml:"goals"`
	Contributions []models.GoalContribution `yaml:"goal_contributions"`
	Reminders     []models.Reminder         `yaml:"reminders"`
}

// FileStore is a YAML-backed Store. An empty path keeps data in memory only.
type FileStore struct {
	path   string
	logger logging.Logger
	mu     sync.RWMutex
	doc    ledgerDocument

	// Now stamps created and updated records.
	Now func() time.Time
}

// NewFileStore opens the ledger at path, creating it on first save.
func NewFileStore(path string, logger logging.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logging.OrDefault(logger),
		Now:    time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore returns a FileStore that never touches the disk.
func NewMemoryStore(logger logging.Logger) *FileStore {
	return &FileStore{logger: logging.OrDefault(logger), Now: time.Now}
}

// Path returns the ledger file path, empty for in-memory stores.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Ledger file not found, starting empty",
				logging.Field{Key: logging.FieldInputFile, Value: s.path})
			return nil
		}
		return &ledgererror.StoreError{Op: "read ledger", Err: err}
	}

	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return &ledgererror.StoreError{Op: "parse ledger", Err: fmt.Errorf("%s: %w", s.path, err)}
	}

	if info, err := os.Stat(s.path); err == nil {
		if err := validation.IsValidFilePermissions(info.Mode()); err != nil {
			s.logger.WithError(err).Warn("Ledger file is readable by other users",
				logging.Field{Key: logging.FieldInputFile, Value: s.path})
		}
	}

	s.logger.Debug("Loaded ledger",
		logging.Field{Key: logging.FieldInputFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(s.doc.Transactions)})
	return nil
}

// snapshot copies the record slices so a failed write can be undone. In-memory
// stores never fail to persist and skip the copy.
func (s *FileStore) snapshot() ledgerDocument {
	if s.path == "" {
		return ledgerDocument{}
	}
	return ledgerDocument{
		Transactions:  slices.Clone(s.doc.Transactions),
		Mappings:      slices.Clone(s.doc.Mappings),
		RecurringTags: slices.Clone(s.doc.RecurringTags),
		Anomalies:     slices.Clone(s.doc.Anomalies),
		Budgets:       slices.Clone(s.doc.Budgets),
		Goals:         slices.Clone(s.doc.Goals),
		Contributions: slices.Clone(s.doc.Contributions),
		Reminders:     slices.Clone(s.doc.Reminders),
	}
}

// commit persists the ledger and restores prev when the write fails, so
// memory never holds a change the caller was told failed. Callers hold the
// write lock.
func (s *FileStore) commit(op string, prev ledgerDocument) error {
	if err := s.persist(op); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// persist writes the ledger; callers hold the write lock.
func (s *FileStore) persist(op string) error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return &ledgererror.StoreError{Op: op, Err: fmt.Errorf("error marshaling ledger: %w", err)}
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(s.path), models.PermissionDirectory); err != nil {
		return &ledgererror.StoreError{Op: op, Err: err}
	}

	if err := fileutils.WriteFileAtomic(s.path, data, models.PermissionDataFile); err != nil {
		return &ledgererror.StoreError{Op: op, Err: fmt.Errorf("error writing ledger: %w", err)}
	}
	return nil
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// AddTransaction appends a transaction, assigning an ID when missing.
func (s *FileStore) AddTransaction(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	} else if s.transactionIndex(tx.ID) >= 0 {
		return ledgererror.NewValidation("id", tx.ID, "transaction already exists")
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.Now()
	}
	s.doc.Transactions = append(s.doc.Transactions, *tx)
	return s.commit("add transaction", prev)
}

func (s *FileStore) transactionIndex(id string) int {
	for i := range s.doc.Transactions {
		if s.doc.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FileStore) GetTransaction(_ context.Context, id string) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.transactionIndex(id); i >= 0 {
		return s.doc.Transactions[i], nil
	}
	return models.Transaction{}, ledgererror.NewNotFound("transaction", id)
}

// ListTransactions returns matching transactions ordered by date.
func (s *FileStore) ListTransactions(_ context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.doc.Transactions))
	for _, tx := range s.doc.Transactions {
		if filter.Matches(tx) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *FileStore) FindMapping(_ context.Context, merchant string) (*models.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.doc.Mappings {
		if m.Merchant == merchant {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

// ListMappings returns mappings in creation order.
func (s *FileStore) ListMappings(_ context.Context) ([]models.MerchantMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MerchantMapping, len(s.doc.Mappings))
	copy(out, s.doc.Mappings)
	return out, nil
}

// SaveMapping upserts by ID when set, otherwise by merchant key.
func (s *FileStore) SaveMapping(_ context.Context, m *models.MerchantMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	now := s.Now()
	m.UpdatedAt = now
	for i, existing := range s.doc.Mappings {
		if (m.ID != "" && existing.ID == m.ID) || (m.ID == "" && existing.Merchant == m.Merchant) {
			m.ID = existing.ID
			m.CreatedAt = existing.CreatedAt
			s.doc.Mappings[i] = *m
			return s.commit("save mapping", prev)
		}
	}
	if m.ID != "" {
		return ledgererror.NewNotFound("mapping", m.ID)
	}

	m.ID = uuid.NewString()
	m.CreatedAt = now
	s.doc.Mappings = append(s.doc.Mappings, *m)
	return s.commit("save mapping", prev)
}

// SaveRecurringTag upserts by merchant.
func (s *FileStore) SaveRecurringTag(_ context.Context, tag *models.RecurringTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	for i, existing := range s.doc.RecurringTags {
		if existing.Merchant == tag.Merchant {
			tag.ID = existing.ID
			tag.CreatedAt = existing.CreatedAt
			s.doc.RecurringTags[i] = *tag
			return s.commit("save recurring tag", prev)
		}
	}

	tag.ID = uuid.NewString()
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = s.Now()
	}
	s.doc.RecurringTags = append(s.doc.RecurringTags, *tag)
	return s.commit("save recurring tag", prev)
}

func (s *FileStore) GetRecurringTag(_ context.Context, id string) (models.RecurringTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tag := range s.doc.RecurringTags {
		if tag.ID == id {
			return tag, nil
		}
	}
	return models.RecurringTag{}, ledgererror.NewNotFound("recurring tag", id)
}

func (s *FileStore) ListRecurringTags(_ context.Context) ([]models.RecurringTag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RecurringTag, len(s.doc.RecurringTags))
	copy(out, s.doc.RecurringTags)
	return out, nil
}

func (s *FileStore) DeleteRecurringTag(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	for i, tag := range s.doc.RecurringTags {
		if tag.ID == id {
			s.doc.RecurringTags = append(s.doc.RecurringTags[:i], s.doc.RecurringTags[i+1:]...)
			return s.commit("delete recurring tag", prev)
		}
	}
	return ledgererror.NewNotFound("recurring tag", id)
}

func (s *FileStore) FindAnomalyByTransaction(_ context.Context, transactionID string) (*models.AnomalyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.doc.Anomalies {
		if rec.TransactionID == transactionID {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

// CreateAnomaly inserts a record; a second record for the same transaction is rejected.
func (s *FileStore) CreateAnomaly(_ context.Context, rec *models.AnomalyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	for _, existing := range s.doc.Anomalies {
		if existing.TransactionID == rec.TransactionID {
			return ledgererror.NewValidation("transaction_id", rec.TransactionID, "already flagged")
		}
	}

	rec.ID = uuid.NewString()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.Now()
	}
	s.doc.Anomalies = append(s.doc.Anomalies, *rec)
	return s.commit("create anomaly", prev)
}

func (s *FileStore) GetAnomaly(_ context.Context, id string) (models.AnomalyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.doc.Anomalies {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.AnomalyRecord{}, ledgererror.NewNotFound("anomaly", id)
}

func (s *FileStore) UpdateAnomaly(_ context.Context, rec models.AnomalyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	for i, existing := range s.doc.Anomalies {
		if existing.ID == rec.ID {
			s.doc.Anomalies[i] = rec
			return s.commit("update anomaly", prev)
		}
	}
	return ledgererror.NewNotFound("anomaly", rec.ID)
}

func (s *FileStore) ListAnomalies(_ context.Context) ([]models.AnomalyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AnomalyRecord, len(s.doc.Anomalies))
	copy(out, s.doc.Anomalies)
	return out, nil
}

// SaveBudget inserts when ID is empty, otherwise replaces the budget with that ID.
func (s *FileStore) SaveBudget(_ context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	if b.ID == "" {
		b.ID = uuid.NewString()
		s.doc.Budgets = append(s.doc.Budgets, *b)
		return s.commit("save budget", prev)
	}
	for i, existing := range s.doc.Budgets {
		if existing.ID == b.ID {
			s.doc.Budgets[i] = *b
			return s.commit("save budget", prev)
		}
	}
	return ledgererror.NewNotFound("budget", b.ID)
}

func (s *FileStore) GetBudget(_ context.Context, id string) (models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.doc.Budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Budget{}, ledgererror.NewNotFound("budget", id)
}

func (s *FileStore) ListBudgets(_ context.Context) ([]models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Budget, len(s.doc.Budgets))
	copy(out, s.doc.Budgets)
	return out, nil
}

func (s *FileStore) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	for i, b := range s.doc.Budgets {
		if b.ID == id {
			s.doc.Budgets = append(s.doc.Budgets[:i], s.doc.Budgets[i+1:]...)
			return s.commit("delete budget", prev)
		}
	}
	return ledgererror.NewNotFound("budget", id)
}

// SaveGoal inserts when ID is empty, otherwise replaces the goal with that ID.
// The current amount of an existing goal belongs to AddContribution: it is
// kept as stored and copied back into g.
func (s *FileStore) SaveGoal(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	if g.ID == "" {
		g.ID = uuid.NewString()
		s.doc.Goals = append(s.doc.Goals, *g)
		return s.commit("save goal", prev)
	}
	for i, existing := range s.doc.Goals {
		if existing.ID == g.ID {
			g.CurrentAmount = existing.CurrentAmount
			s.doc.Goals[i] = *g
			return s.commit("save goal", prev)
		}
	}
	return ledgererror.NewNotFound("goal", g.ID)
}

func (s *FileStore) goalIndex(id string) int {
	for i := range s.doc.Goals {
		if s.doc.Goals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FileStore) GetGoal(_ context.Context, id string) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.goalIndex(id); i >= 0 {
		return s.doc.Goals[i], nil
	}
	return models.Goal{}, ledgererror.NewNotFound("goal", id)
}

func (s *FileStore) ListGoals(_ context.Context) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Goal, len(s.doc.Goals))
	copy(out, s.doc.Goals)
	return out, nil
}

// DeleteGoal removes the goal and its contributions.
func (s *FileStore) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	i := s.goalIndex(id)
	if i < 0 {
		return ledgererror.NewNotFound("goal", id)
	}
	s.doc.Goals = append(s.doc.Goals[:i], s.doc.Goals[i+1:]...)

	kept := s.doc.Contributions[:0]
	for _, c := range s.doc.Contributions {
		if c.GoalID != id {
			kept = append(kept, c)
		}
	}
	s.doc.Contributions = kept
	return s.commit("delete goal", prev)
}

func (s *FileStore) AddContribution(_ context.Context, c *models.GoalContribution) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	i := s.goalIndex(c.GoalID)
	if i < 0 {
		return models.Goal{}, ledgererror.NewNotFound("goal", c.GoalID)
	}

	c.ID = uuid.NewString()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.Now()
	}
	s.doc.Contributions = append(s.doc.Contributions, *c)
	s.doc.Goals[i].CurrentAmount = s.doc.Goals[i].CurrentAmount.Add(c.Amount)

	if err := s.commit("add contribution", prev); err != nil {
		return models.Goal{}, err
	}
	return s.doc.Goals[i], nil
}

// ListContributions returns a goal's contributions, oldest first.
func (s *FileStore) ListContributions(_ context.Context, goalID string) ([]models.GoalContribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.GoalContribution
	for _, c := range s.doc.Contributions {
		if c.GoalID == goalID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// SaveReminder inserts when ID is empty, otherwise replaces the reminder with that ID.
func (s *FileStore) SaveReminder(_ context.Context, r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	if r.ID == "" {
		r.ID = uuid.NewString()
		s.doc.Reminders = append(s.doc.Reminders, *r)
		return s.commit("save reminder", prev)
	}
	for i, existing := range s.doc.Reminders {
		if existing.ID == r.ID {
			s.doc.Reminders[i] = *r
			return s.commit("save reminder", prev)
		}
	}
	return ledgererror.NewNotFound("reminder", r.ID)
}

func (s *FileStore) GetReminder(_ context.Context, id string) (models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.doc.Reminders {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Reminder{}, ledgererror.NewNotFound("reminder", id)
}

// ListReminders returns reminders ordered by due date.
func (s *FileStore) ListReminders(_ context.Context) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reminder, len(s.doc.Reminders))
	copy(out, s.doc.Reminders)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// MergeCategory refiles every record under source to target in a single write.
// A source budget is dropped when the target already has one for its period.
func (s *FileStore) MergeCategory(_ context.Context, source, target string) (models.CategoryMergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshot()

	res := models.CategoryMergeResult{Source: source, Target: target}
	for i := range s.doc.Transactions {
		if s.doc.Transactions[i].Category == source {
			s.doc.Transactions[i].Category = target
			res.Transactions++
		}
	}
	for i := range s.doc.Mappings {
		if s.doc.Mappings[i].Category == source {
			s.doc.Mappings[i].Category = target
			res.Mappings++
		}
	}
	for i := range s.doc.RecurringTags {
		if s.doc.RecurringTags[i].Category == source {
			s.doc.RecurringTags[i].Category = target
			res.RecurringTags++
		}
	}
	for i := range s.doc.Anomalies {
		if s.doc.Anomalies[i].Category == source {
			s.doc.Anomalies[i].Category = target
			res.Anomalies++
		}
	}

	covered := make(map[models.PeriodType]bool)
	for _, b := range s.doc.Budgets {
		if b.Category == target {
			covered[b.PeriodType] = true
		}
	}
	budgets := make([]models.Budget, 0, len(s.doc.Budgets))
	for _, b := range s.doc.Budgets {
		if b.Category == source {
			if covered[b.PeriodType] {
				res.BudgetsDropped++
				continue
			}
			b.Category = target
			res.Budgets++
		}
		budgets = append(budgets, b)
	}
	s.doc.Budgets = budgets

	if res.Total() == 0 {
		return res, nil
	}
	if err := s.commit("merge category", prev); err != nil {
		return models.CategoryMergeResult{}, err
	}
	return res, nil
}
