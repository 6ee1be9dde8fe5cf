package handler

import (
	"net/http"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/service"
	"github.com/segyhp/loan-ledger/pkg/response"

	"github.com/go-playground/validator/v10"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// Create opens a new loan
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	var request domain.CreateLoanRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	loan, err := h.service.Create(r.Context(), principal.OwnerID, &request)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, loan)
}

// List returns loans, optionally filtered with ?status=
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	loans, err := h.service.List(r.Context(), principal.OwnerID, r.URL.Query().Get("status"))
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, loans)
}

func (h *LoanHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	loans, err := h.service.ListByClient(r.Context(), principal.OwnerID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, loans)
}

// Get returns the loan detail with payments and summary
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.Get(r.Context(), principal.OwnerID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, detail)
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request domain.UpdateLoanRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	loan, err := h.service.Update(r.Context(), principal.OwnerID, id, &request)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, loan)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.OwnerID, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Loan deleted")
}

// Overdue lists active loans past their due date
func (h *LoanHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}

	loans, err := h.service.Overdue(r.Context(), principal.OwnerID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, loans)
}

// Outstanding returns the remaining principal of a loan
func (h *LoanHandler) Outstanding(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	outstanding, err := h.service.Outstanding(r.Context(), principal.OwnerID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, outstanding)
}

// Interest projects a stored loan until now
func (h *LoanHandler) Interest(w http.ResponseWriter, r *http.Request) {
	principal, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.service.InterestToDate(r.Context(), principal.OwnerID, id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, result)
}

// CalculateInterest projects arbitrary terms
func (h *LoanHandler) CalculateInterest(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculateInterestRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	result, err := h.service.CalculateInterest(r.Context(), &request)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, result)
}
