// Package verification orchestrates a verification request: validate, run
// the checker, shape the outcome, prove it, record it and return it.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	ledgermodels "veritrust/internal/ledger/models"
	"veritrust/internal/verification/metrics"
	"veritrust/internal/verification/models"
	"veritrust/internal/verification/ports"
	dErrors "veritrust/pkg/domain-errors"
	"veritrust/pkg/proof"
	"veritrust/pkg/requestcontext"
)

const tracerName = "veritrust/internal/verification"

// Service is safe for concurrent use.
type Service struct {
	face      ports.FaceChecker
	documents ports.DocumentChecker
	risk      ports.RiskScorer
	ledger    ports.Ledger
	fraud     ports.FraudDetector
	publisher ports.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithPublisher mirrors every recorded outcome to p.
func WithPublisher(p ports.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// New wires the service. All collaborators are required.
func New(face ports.FaceChecker, documents ports.DocumentChecker, risk ports.RiskScorer,
	ledger ports.Ledger, fraud ports.FraudDetector, opts ...Option) (*Service, error) {
	switch {
	case face == nil:
		return nil, errors.New("face checker is required")
	case documents == nil:
		return nil, errors.New("document checker is required")
	case risk == nil:
		return nil, errors.New("risk scorer is required")
	case ledger == nil:
		return nil, errors.New("ledger is required")
	case fraud == nil:
		return nil, errors.New("fraud detector is required")
	}
	s := &Service{
		face:      face,
		documents: documents,
		risk:      risk,
		ledger:    ledger,
		fraud:     fraud,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// VerifyFace compares an ID photo with a selfie and records the outcome.
func (s *Service) VerifyFace(ctx context.Context, req models.FaceRequest) (result *models.FaceResult, err error) {
	ctx, end := s.begin(ctx, ledgermodels.KindFace, req.OwnerID)
	defer func() { end(err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	check, err := s.face.Check(ctx, req.IDImageURL, req.SelfieURL)
	s.metrics.ObserveCheck(string(ledgermodels.KindFace), time.Since(start))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "face check failed")
	}

	fields := map[string]any{
		"match":            check.Match,
		"face_match_score": check.Score,
		"liveness":         check.Liveness,
	}
	hash, err := s.record(ctx, ledgermodels.KindFace, req.OwnerID, fields)
	if err != nil {
		return nil, err
	}
	return &models.FaceResult{FaceCheck: check, ProofHash: hash}, nil
}

// VerifyDocument reads a document and records the outcome.
func (s *Service) VerifyDocument(ctx context.Context, req models.DocumentRequest) (result *models.DocumentResult, err error) {
	ctx, end := s.begin(ctx, ledgermodels.KindDocument, req.OwnerID)
	defer func() { end(err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	check, err := s.documents.Check(ctx, req.DocURL, req.ExpectedName)
	s.metrics.ObserveCheck(string(ledgermodels.KindDocument), time.Since(start))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "document check failed")
	}

	fields := map[string]any{
		"fields": map[string]any{
			"name":      optional(check.Fields.Name),
			"dob":       optional(check.Fields.DOB),
			"id_number": optional(check.Fields.IDNumber),
		},
		"doc_valid": check.DocValid,
		"tampered":  check.Tampered,
	}
	hash, err := s.record(ctx, ledgermodels.KindDocument, req.OwnerID, fields)
	if err != nil {
		return nil, err
	}
	return &models.DocumentResult{DocumentCheck: check, ProofHash: hash}, nil
}

// ScoreCredit assesses credit risk and records the outcome.
func (s *Service) ScoreCredit(ctx context.Context, req models.CreditRequest) (result *models.CreditResult, err error) {
	ctx, end := s.begin(ctx, ledgermodels.KindScore, req.OwnerID)
	defer func() { end(err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	score, err := s.risk.Score(ctx, req.KYCValid, req.Income, req.TransactionsPerWeek, req.FraudFlags, req.TrustScore)
	s.metrics.ObserveCheck(string(ledgermodels.KindScore), time.Since(start))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credit scoring failed")
	}

	fields := map[string]any{
		"credit_score": score.CreditScore,
		"risk_label":   score.RiskLabel,
		"trust_score":  score.TrustScore,
	}
	hash, err := s.record(ctx, ledgermodels.KindScore, req.OwnerID, fields)
	if err != nil {
		return nil, err
	}
	return &models.CreditResult{RiskScore: score, ProofHash: hash}, nil
}

// CheckFraud runs the duplicate-use check. The verdict is recorded with a
// proof, but the proof is not part of the result.
func (s *Service) CheckFraud(ctx context.Context, req models.FraudRequest) (result *models.FraudResult, err error) {
	ctx, end := s.begin(ctx, ledgermodels.KindFraudCheck, req.OwnerID)
	defer func() { end(err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	verdict := s.fraud.Detect(ctx, req.OwnerID, req.IDHash, req.FaceHash)
	s.metrics.ObserveCheck(string(ledgermodels.KindFraudCheck), time.Since(start))

	result = &models.FraudResult{FraudFlag: verdict.Flagged}
	var reason any
	if verdict.Flagged {
		r := verdict.Reason
		result.Reason = &r
		reason = r
		s.metrics.IncrementFraudFlag(r)
	}
	fields := map[string]any{
		"fraud_flag": verdict.Flagged,
		"reason":     reason,
	}
	if _, err := s.record(ctx, ledgermodels.KindFraudCheck, req.OwnerID, fields); err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyProof recomputes the proof for the given outcome and compares it
// with proofHash.
func (s *Service) VerifyProof(ctx context.Context, ownerID string, kind ledgermodels.Kind, fields map[string]any, proofHash string) (valid bool, computed string, err error) {
	if ownerID == "" {
		return false, "", dErrors.New(dErrors.CodeBadRequest, "owner_id is required")
	}
	if !kind.IsValid() || !kind.HasProof() {
		return false, "", dErrors.New(dErrors.CodeBadRequest, "kind must be one of face, document, score, fraud-check")
	}
	computed, err = proof.Hash(ownerID, string(kind), fields)
	if err != nil {
		return false, "", err
	}
	valid, err = proof.Verify(proofHash, ownerID, string(kind), fields)
	if err != nil {
		return false, "", err
	}
	return valid, computed, nil
}

// Records lists every ledger record held for ownerID.
func (s *Service) Records(ctx context.Context, ownerID string) ([]ledgermodels.Record, error) {
	if ownerID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "owner_id is required")
	}
	return s.ledger.FindBy(ctx, ledgermodels.FieldOwnerID, ownerID), nil
}

// record proves fields, appends them to the ledger and mirrors the record.
func (s *Service) record(ctx context.Context, kind ledgermodels.Kind, ownerID string, fields map[string]any) (string, error) {
	hash, err := proof.Hash(ownerID, string(kind), fields)
	if err != nil {
		return "", err
	}
	rec := &ledgermodels.Record{
		OwnerID:   ownerID,
		Kind:      kind,
		Fields:    fields,
		ProofHash: hash,
	}
	s.ledger.Insert(ctx, rec)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, *rec); err != nil {
			s.logger.WarnContext(ctx, "failed to publish ledger record",
				"error", err,
				"record_id", rec.ID,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	s.metrics.IncrementVerification(string(kind))
	return hash, nil
}

// begin opens a span for one operation. The returned func closes it and
// accounts for the error, if any.
func (s *Service) begin(ctx context.Context, kind ledgermodels.Kind, ownerID string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "verification."+string(kind),
		trace.WithAttributes(
			attribute.String("veritrust.kind", string(kind)),
			attribute.String("veritrust.owner_id", ownerID),
		),
	)
	return ctx, func(err error) {
		defer span.End()
		if err == nil {
			return
		}
		code := dErrors.CodeInternal
		if de, ok := dErrors.As(err); ok {
			code = de.Code
		}
		s.metrics.IncrementFailure(string(kind), string(code))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		if code != dErrors.CodeBadRequest {
			s.logger.ErrorContext(ctx, "verification failed",
				"kind", kind,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
}

// optional turns a missing value into JSON null.
func optional(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
