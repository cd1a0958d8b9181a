package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Dan9191/debt-terms/internal/adapter"
	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/middleware"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/service"
	"github.com/Dan9191/debt-terms/internal/terms"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type termsPayload struct {
	PrincipalTokenIndex    int                     `json:"principalTokenIndex"`
	TotalExpectedRepayment decimal.Decimal         `json:"totalExpectedRepayment"`
	AmortizationUnit       models.AmortizationUnit `json:"amortizationUnit"`
	TermLength             decimal.Decimal         `json:"termLength"`
}

type parametersPayload struct {
	Parameters string `json:"parameters"`
}

type schedulePayload struct {
	IssuanceTimestamp       int64  `json:"issuanceTimestamp"`
	TermsContractParameters string `json:"termsContractParameters"`
}

type errorPayload struct {
	Code     apperr.Code       `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PackTerms handles encoding of simple interest terms
func (h *Handler) PackTerms(w http.ResponseWriter, r *http.Request) {
	var req termsPayload
	if !decode(w, r, &req) {
		return
	}
	word, err := h.svc.PackTerms(terms.Params{
		PrincipalTokenIndex:    req.PrincipalTokenIndex,
		TotalExpectedRepayment: req.TotalExpectedRepayment,
		AmortizationUnit:       req.AmortizationUnit,
		TermLength:             req.TermLength,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parametersPayload{Parameters: word.Hex()})
}

// UnpackTerms handles decoding of a parameter word
func (h *Handler) UnpackTerms(w http.ResponseWriter, r *http.Request) {
	var req parametersPayload
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UnpackTerms(req.Parameters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, termsPayload{
		PrincipalTokenIndex:    p.PrincipalTokenIndex,
		TotalExpectedRepayment: p.TotalExpectedRepayment,
		AmortizationUnit:       p.AmortizationUnit,
		TermLength:             p.TermLength,
	})
}

// Schedule handles due date computation for packed terms
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req schedulePayload
	if !decode(w, r, &req) {
		return
	}
	dates, err := h.svc.Schedule(req.IssuanceTimestamp, req.TermsContractParameters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"dueDates": dates})
}

// ToDebtOrder handles conversion of a loan order into a debt order
func (h *Handler) ToDebtOrder(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	order, err := adapter.DecodeLoanOrder(body)
	if err != nil {
		writeError(w, err)
		return
	}
	debt, err := h.svc.ToDebtOrder(r.Context(), order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debt)
}

// FromDebtOrder handles conversion of a debt order back into a loan order
func (h *Handler) FromDebtOrder(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	order, err := adapter.DecodeDebtOrder(body)
	if err != nil {
		writeError(w, err)
		return
	}
	loan, err := h.svc.FromDebtOrder(r.Context(), order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// CreateEntry handles registration of an issued debt agreement
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var entry models.DebtRegistryEntry
	if !decode(w, r, &entry) {
		return
	}
	caller, _ := middleware.Subject(r.Context())
	if err := h.svc.RegisterEntry(r.Context(), &entry, caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// EntrySchedule handles listing the installments of a stored agreement
func (h *Handler) EntrySchedule(w http.ResponseWriter, r *http.Request) {
	installments, err := h.svc.EntryInstallments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Installment{"installments": installments})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read body: %v", err), http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, ok := readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, apperr.Wrap(apperr.CodeDoesNotConformToSchema, fmt.Sprintf("invalid request body: %v", err), err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Code: apperr.CodeUnknown, Message: "internal error"})
		return
	}
	writeJSON(w, domainErr.Code.HTTPStatus(), errorPayload{
		Code:     domainErr.Code,
		Message:  domainErr.Message,
		Metadata: domainErr.Metadata,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
