package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
	"github.com/ffelipeandres24/banco-maria/internal/service"
	"github.com/ffelipeandres24/banco-maria/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: newValidator(),
	}
}

// CreateLoan handles POST /loans
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "invalid request", err)
		return
	}

	loan, schedule, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, domain.CreateLoanResponse{
		Loan:     loan,
		Schedule: schedule,
	})
}

// PayInstallment handles PUT /installments/{id}/pay
func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid installment id", err)
		return
	}

	installment, err := h.service.PayInstallment(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, installment)
}

// GetSchedule handles GET /loans/{id}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid loan id", err)
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, schedule)
}

// Collections handles GET /collections?date=YYYY-MM-DD
// Without a date it reports today's due and overdue installments.
func (h *LoanHandler) Collections(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.BadRequest(w, "invalid date, expected YYYY-MM-DD", err)
			return
		}
		asOf = parsed
	}

	collections, err := h.service.Collections(r.Context(), asOf)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.CollectionsResponse{
		AsOf:        asOf,
		Collections: collections,
	})
}

// Portfolio handles GET /portfolio
func (h *LoanHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.service.Portfolio(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, portfolio)
}

// PaymentHistory handles GET /clients/{id}/payments
func (h *LoanHandler) PaymentHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid client id", err)
		return
	}

	history, err := h.service.PaymentHistory(r.Context(), id)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.PaymentHistoryResponse{
		ClientID: id,
		Payments: history,
	})
}
