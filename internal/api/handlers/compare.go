package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/statement"
	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
	"github.com/eshaffer321/ynab-reconcile/internal/api/dto"
	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

// MaxUploadBytes bounds the statement upload
const MaxUploadBytes = 10 << 20

// CompareConfig holds what a comparison needs besides the statement
type CompareConfig struct {
	BudgetName  string
	AccountName string
	Matching    matcher.Config
}

// CompareHandler runs the comparison-only pipeline on an uploaded statement.
// It never mutates the ledger.
type CompareHandler struct {
	*Base
	ledger reconcile.Ledger
	cfg    CompareConfig
	logger *slog.Logger
}

// NewCompareHandler creates a compare handler. repo may be nil.
func NewCompareHandler(repo storage.Repository, ledger reconcile.Ledger, cfg CompareConfig, logger *slog.Logger) *CompareHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareHandler{
		Base:   NewBase(repo),
		ledger: ledger,
		cfg:    cfg,
		logger: logger,
	}
}

// Compare handles POST /api/compare.
//
// Form fields: statement (file, required), tolerance_days, strategy,
// budget and account (override the configured names).
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("expected multipart form with a statement file"))
		return
	}

	file, header, err := r.FormFile("statement")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("statement file is required"))
		return
	}
	defer file.Close()

	matchCfg := h.cfg.Matching
	if v := r.FormValue("tolerance_days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("tolerance_days must be a non-negative integer"))
			return
		}
		matchCfg.DateTolerance = days
	}
	if v := r.FormValue("strategy"); v != "" {
		strategy, err := matcher.ParseStrategy(v)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
			return
		}
		matchCfg.Strategy = strategy
	}

	opts := reconcile.Options{
		BudgetName:    valueOr(r.FormValue("budget"), h.cfg.BudgetName),
		AccountName:   valueOr(r.FormValue("account"), h.cfg.AccountName),
		StatementPath: header.Filename,
		Mode:          reconcile.ModeCompare,
	}

	parser := statement.NewParser(h.logger)
	rows, err := parser.Parse(file)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	o := reconcile.NewOrchestrator(h.ledger, parser, matcher.NewMatcher(matchCfg), reconcile.DeclineAll{}, h.repo, h.logger)
	plan, err := o.PrepareFromStatement(r.Context(), opts, rows)
	if err != nil {
		h.writePrepareError(w, err)
		return
	}
	o.Complete(plan, nil)

	h.WriteJSON(w, http.StatusOK, dto.NewCompareResponse(plan))
}

func (h *CompareHandler) writePrepareError(w http.ResponseWriter, err error) {
	var apiErr *ynab.APIError
	switch {
	case errors.Is(err, reconcile.ErrNoStatement):
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
	case errors.Is(err, ynab.ErrBudgetNotFound), errors.Is(err, ynab.ErrAccountNotFound):
		h.WriteError(w, http.StatusNotFound, dto.NewAPIError(dto.ErrCodeNotFound, err.Error()))
	case errors.As(err, &apiErr):
		h.WriteError(w, http.StatusBadGateway, dto.UpstreamError(apiErr.Error()))
	default:
		h.logger.Error("Compare failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
