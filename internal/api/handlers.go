package api

import (
	"net/http"
	"strings"

	"fjacquet/fin-insights/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := parseOptionalDay("date", req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.c.GetCategorizer().Classify(r.Context(), models.ClassificationRequest{
		Merchant: req.Merchant,
		Notes:    req.Notes,
		Amount:   req.Amount,
		Date:     date,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleConfirmCategory(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mapping, err := s.c.GetCategorizer().ConfirmCategory(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

func (s *Server) handleMergeCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryMerge
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.c.GetCategorizer().MergeCategory(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := s.c.GetCategorizer().Mappings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mappings)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since, err := parseDay("since", q.Get("since"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	until, err := parseDay("until", q.Get("until"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	txs, err := s.c.GetStore().ListTransactions(r.Context(), models.TransactionFilter{
		Kind:  models.TransactionKind(strings.ToLower(q.Get("kind"))),
		Since: since,
		Until: until,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := parseDay("date", req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tx, err := s.c.GetImporter().Add(r.Context(), models.Transaction{
		Date:     date,
		Amount:   req.Amount,
		Kind:     models.TransactionKind(strings.ToLower(req.Kind)),
		Merchant: req.Merchant,
		Notes:    req.Notes,
		Category: req.Category,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.c.GetCalculator().Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	tags, err := s.c.GetDetector().List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleConfirmRecurring(w http.ResponseWriter, r *http.Request) {
	var req models.RecurringConfirmation
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tag, err := s.c.GetDetector().Confirm(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) handleCheckRecurring(w http.ResponseWriter, r *http.Request) {
	detector := s.c.GetDetector()
	date, err := parseDay("date", r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if date.IsZero() {
		date = detector.Now()
	}
	check, err := detector.Check(r.Context(), r.URL.Query().Get("merchant"), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (s *Server) handleUpcomingRecurring(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 30)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tags, err := s.c.GetDetector().Upcoming(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	tag, err := s.c.GetDetector().Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.c.GetDetector().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAnomalies(w http.ResponseWriter, r *http.Request) {
	records, err := s.c.GetScorer().List(r.Context(), queryBool(r, "include_hidden"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleScanAnomalies(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.c.GetScorer().Scan(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDismissAnomaly(w http.ResponseWriter, r *http.Request) {
	rec, err := s.c.GetScorer().Dismiss(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSnoozeAnomaly(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.c.GetScorer().Snooze(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) decodeBudget(r *http.Request) (models.Budget, error) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		return models.Budget{}, err
	}
	start, err := parseDay("start_date", req.StartDate)
	if err != nil {
		return models.Budget{}, err
	}
	return models.Budget{
		Category:   req.Category,
		Amount:     req.Amount,
		PeriodType: models.PeriodType(strings.ToLower(req.PeriodType)),
		StartDate:  start,
	}, nil
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.c.GetCalculator().ListBudgets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeBudget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.c.GetCalculator().SetBudget(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.c.GetCalculator().GetBudget(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeBudget(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.c.GetCalculator().UpdateBudget(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.c.GetCalculator().DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.c.GetCalculator().BudgetStatuses(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.c.GetCalculator().BudgetStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.c.GetCalculator().ListGoals(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	deadline, err := parseOptionalDay("deadline", req.Deadline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	goal, err := s.c.GetCalculator().CreateGoal(r.Context(), models.GoalRequest{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		InitialAmount: req.InitialAmount,
		Deadline:      deadline,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.c.GetCalculator().GetGoal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	deadline, err := parseOptionalDay("deadline", req.Deadline)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	goal, err := s.c.GetCalculator().UpdateGoal(r.Context(), chi.URLParam(r, "id"), models.GoalUpdate{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		Deadline:      deadline,
		ClearDeadline: req.ClearDeadline,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.c.GetCalculator().DeleteGoal(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.c.GetCalculator().GoalProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleGoalProgresses(w http.ResponseWriter, r *http.Request) {
	progress, err := s.c.GetCalculator().GoalProgresses(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleListContributions(w http.ResponseWriter, r *http.Request) {
	contributions, err := s.c.GetCalculator().Contributions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contributions)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	goal, err := s.c.GetCalculator().Contribute(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.c.GetReminders().List(r.Context(), queryBool(r, "include_dismissed"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	due, err := parseDay("due_date", req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reminder, err := s.c.GetReminders().Create(r.Context(), req.Title, req.Note, due)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", -1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reminders, err := s.c.GetReminders().Due(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleDismissReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := s.c.GetReminders().Dismiss(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleSnoozeReminder(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reminder, err := s.c.GetReminders().Snooze(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}
