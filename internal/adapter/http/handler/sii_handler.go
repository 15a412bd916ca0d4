package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/usecase"
)

// SIIHandler signs the XML documents exchanged with the tax authority.
type SIIHandler struct {
	signingUC *usecase.SigningUseCase
}

// NewSIIHandler creates a new SIIHandler.
func NewSIIHandler(signingUC *usecase.SigningUseCase) *SIIHandler {
	return &SIIHandler{signingUC: signingUC}
}

// SignSeed handles POST /api/v1/sii/sign-seed.
func (h *SIIHandler) SignSeed(w http.ResponseWriter, r *http.Request) {
	var req dto.SignSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	signed, err := h.signingUC.SignSeed(r.Context(), req.Seed)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SignedDocumentResponse{Document: string(signed)})
}

// SignEnvelope handles POST /api/v1/sii/sign-envelope.
func (h *SIIHandler) SignEnvelope(w http.ResponseWriter, r *http.Request) {
	var req dto.SignEnvelopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	signed, err := h.signingUC.SignEnvelope(r.Context(), []byte(req.Envelope), req.ReferenceID)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SignedDocumentResponse{Document: string(signed)})
}
