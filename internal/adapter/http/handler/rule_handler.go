package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// RuleHandler manages learned classification rules.
type RuleHandler struct {
	ruleUC *usecase.RuleUseCase
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleUC *usecase.RuleUseCase) *RuleHandler {
	return &RuleHandler{ruleUC: ruleUC}
}

// Record handles POST /api/v1/rules.
func (h *RuleHandler) Record(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	var req dto.RecordRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	rule, err := h.ruleUC.RecordCorrection(r.Context(), req.ToUseCaseInput(companyRUT))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RuleFromDomain(rule))
}

// List handles GET /api/v1/rules.
func (h *RuleHandler) List(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	rules, err := h.ruleUC.ListRules(r.Context(), companyRUT)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rules": dto.RulesFromDomain(rules)})
}
