package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dairydesk/dairydesk/internal/platform/httpx"
)

type Handler struct {
	svc      *Service
	logger   *slog.Logger
	validate *validator.Validate
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/suppliers", func(r chi.Router) {
		r.Post("/", h.addSupplier)
		r.Get("/", h.listSuppliers)
	})
	r.Route("/payables", func(r chi.Router) {
		r.Post("/", h.addPayable)
		r.Get("/", h.listPayables)
		r.Post("/{id}/settle", h.settlePayable)
	})
	r.Route("/receivables", func(r chi.Router) {
		r.Post("/", h.addReceivable)
		r.Get("/", h.listReceivables)
		r.Post("/{id}/settle", h.settleReceivable)
	})
	r.Route("/loans", func(r chi.Router) {
		r.Post("/", h.addLoan)
		r.Get("/", h.listLoans)
		r.Get("/{id}", h.getLoan)
		r.Get("/{id}/schedule", h.loanSchedule)
		r.Post("/{id}/repay", h.repayLoan)
	})
	r.Route("/banks", func(r chi.Router) {
		r.Post("/", h.addBankAccount)
		r.Get("/", h.listBankAccounts)
		r.Patch("/{id}", h.updateBankBalance)
	})
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return false
	}
	return true
}

func (h *Handler) respondLedgerErr(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrOverSettlement), errors.Is(err, ErrOverRepayment):
		httpx.RespondError(w, httpx.ErrValidation)
	default:
		h.logger.Error(op, "error", err)
		httpx.RespondError(w, err)
	}
}

func (h *Handler) addSupplier(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	supplier, err := h.svc.AddSupplier(r.Context(), req)
	if err != nil {
		h.respondLedgerErr(w, r, err, "add supplier")
		return
	}
	httpx.JSON(w, http.StatusCreated, supplier)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.Suppliers(r.Context())
	if err != nil {
		h.respondLedgerErr(w, r, err, "list suppliers")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

func (h *Handler) addPayable(w http.ResponseWriter, r *http.Request) {
	var req CreateObligationRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	payable, err := h.svc.AddPayable(r.Context(), req)
	if err != nil {
		h.respondLedgerErr(w, r, err, "add payable")
		return
	}
	httpx.JSON(w, http.StatusCreated, payable)
}

func (h *Handler) listPayables(w http.ResponseWriter, r *http.Request) {
	includeSettled := r.URL.Query().Get("include_settled") == "true"
	payables, err := h.svc.Payables(r.Context(), includeSettled)
	if err != nil {
		h.respondLedgerErr(w, r, err, "list payables")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payables": payables})
}

func (h *Handler) settlePayable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	var req SettleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	payable, err := h.svc.SettlePayable(r.Context(), id, req.Amount)
	if err != nil {
		h.respondLedgerErr(w, r, err, "settle payable")
		return
	}
	httpx.JSON(w, http.StatusOK, payable)
}

func (h *Handler) addReceivable(w http.ResponseWriter, r *http.Request) {
	var req CreateObligationRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	receivable, err := h.svc.AddReceivable(r.Context(), req)
	if err != nil {
		h.respondLedgerErr(w, r, err, "add receivable")
		return
	}
	httpx.JSON(w, http.StatusCreated, receivable)
}

func (h *Handler) listReceivables(w http.ResponseWriter, r *http.Request) {
	includeSettled := r.URL.Query().Get("include_settled") == "true"
	receivables, err := h.svc.Receivables(r.Context(), includeSettled)
	if err != nil {
		h.respondLedgerErr(w, r, err, "list receivables")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"receivables": receivables})
}

func (h *Handler) settleReceivable(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	var req SettleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	receivable, err := h.svc.SettleReceivable(r.Context(), id, req.Amount)
	if err != nil {
		h.respondLedgerErr(w, r, err, "settle receivable")
		return
	}
	httpx.JSON(w, http.StatusOK, receivable)
}

func (h *Handler) addLoan(w http.ResponseWriter, r *http.Request) {
	var req CreateLoanRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	loan, err := h.svc.AddLoan(r.Context(), req)
	if err != nil {
		h.respondLedgerErr(w, r, err, "add loan")
		return
	}
	httpx.JSON(w, http.StatusCreated, loanResponse(loan))
}

func (h *Handler) listLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.Loans(r.Context())
	if err != nil {
		h.respondLedgerErr(w, r, err, "list loans")
		return
	}
	out := make([]map[string]any, 0, len(loans))
	for _, l := range loans {
		out = append(out, loanResponse(l))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"loans": out})
}

func (h *Handler) getLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	loan, err := h.svc.Loan(r.Context(), id)
	if err != nil {
		h.respondLedgerErr(w, r, err, "get loan")
		return
	}
	httpx.JSON(w, http.StatusOK, loanResponse(loan))
}

func (h *Handler) loanSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	loan, schedule, err := h.svc.LoanSchedule(r.Context(), id)
	if err != nil {
		h.respondLedgerErr(w, r, err, "loan schedule")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"loan":     loanResponse(loan),
		"schedule": schedule,
	})
}

func (h *Handler) repayLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	var req SettleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	loan, err := h.svc.RepayLoan(r.Context(), id, req.Amount)
	if err != nil {
		h.respondLedgerErr(w, r, err, "repay loan")
		return
	}
	httpx.JSON(w, http.StatusOK, loanResponse(loan))
}

func (h *Handler) addBankAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateBankAccountRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	account, err := h.svc.AddBankAccount(r.Context(), req)
	if err != nil {
		h.respondLedgerErr(w, r, err, "add bank account")
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) listBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.BankAccounts(r.Context())
	if err != nil {
		h.respondLedgerErr(w, r, err, "list bank accounts")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (h *Handler) updateBankBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}
	var req UpdateBankAccountRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	account, err := h.svc.UpdateBankBalance(r.Context(), id, req)
	if err != nil {
		h.respondLedgerErr(w, r, err, "update bank balance")
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

// loanResponse enriches the stored loan with its derived EMI figures.
func loanResponse(l Loan) map[string]any {
	return map[string]any{
		"loan":          l,
		"emi":           l.EMI(),
		"total_payable": l.TotalPayable(),
		"outstanding":   l.Outstanding(),
	}
}
