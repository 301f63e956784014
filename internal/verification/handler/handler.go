package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	ledgermodels "veritrust/internal/ledger/models"
	"veritrust/internal/verification/models"
	dErrors "veritrust/pkg/domain-errors"
	"veritrust/pkg/platform/httputil"
	"veritrust/pkg/requestcontext"
)

// Service defines the verification operations exposed over HTTP.
type Service interface {
	VerifyFace(ctx context.Context, req models.FaceRequest) (*models.FaceResult, error)
	VerifyDocument(ctx context.Context, req models.DocumentRequest) (*models.DocumentResult, error)
	ScoreCredit(ctx context.Context, req models.CreditRequest) (*models.CreditResult, error)
	CheckFraud(ctx context.Context, req models.FraudRequest) (*models.FraudResult, error)
	VerifyProof(ctx context.Context, ownerID string, kind ledgermodels.Kind, fields map[string]any, proofHash string) (bool, string, error)
	Records(ctx context.Context, ownerID string) ([]ledgermodels.Record, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the verification endpoints. protect wraps the routes that
// attest new outcomes.
func (h *Handler) Register(r chi.Router, protect func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Post("/verify/face", h.HandleVerifyFace)
		r.Post("/verify/document", h.HandleVerifyDocument)
		r.Post("/score/credit", h.HandleScoreCredit)
		r.Post("/fraud/check", h.HandleCheckFraud)
		r.Get("/users/{ownerID}/records", h.HandleListRecords)
	})
	r.Post("/proofs/verify", h.HandleVerifyProof)
}

// HandleVerifyFace handles POST /verify/face.
func (h *Handler) HandleVerifyFace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[FaceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.VerifyFace(ctx, req.toModel())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFaceResponse(result))
}

// HandleVerifyDocument handles POST /verify/document.
func (h *Handler) HandleVerifyDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[DocumentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.VerifyDocument(ctx, req.toModel())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDocumentResponse(result))
}

// HandleScoreCredit handles POST /score/credit.
func (h *Handler) HandleScoreCredit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.ScoreCredit(ctx, req.toModel())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCreditResponse(result))
}

// HandleCheckFraud handles POST /fraud/check. The response carries no proof.
func (h *Handler) HandleCheckFraud(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[FraudRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	result, err := h.service.CheckFraud(ctx, req.toModel())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &FraudResponse{FraudFlag: result.FraudFlag, Reason: result.Reason})
}

// HandleVerifyProof handles POST /proofs/verify.
func (h *Handler) HandleVerifyProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[VerifyProofRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	valid, computed, err := h.service.VerifyProof(ctx, req.OwnerID, req.parsedKind, req.Fields, req.ProofHash)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &VerifyProofResponse{Valid: valid, Computed: computed})
}

// HandleListRecords handles GET /users/{ownerID}/records.
func (h *Handler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := chi.URLParam(r, "ownerID")
	if strings.TrimSpace(ownerID) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "owner_id is required"))
		return
	}
	recs, err := h.service.Records(ctx, ownerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp, err := toRecordsResponse(ownerID, recs)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to encode ledger records",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
