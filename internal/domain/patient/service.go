package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carelink/carelink/internal/platform/billing"
	"github.com/carelink/carelink/internal/platform/events"
)

// Billing outcomes reported on a create response. A patient whose billing
// call failed is still registered; the account gets reconciled out of band.
const (
	BillingProvisioned = "provisioned"
	BillingUnavailable = "unavailable"
)

// CreateResult is the outcome of registering a patient: the stored record
// plus how far billing provisioning got.
type CreateResult struct {
	Patient          *Patient
	BillingStatus    string
	BillingAccountID string
}

// Service coordinates the patient registration workflow across the store,
// the billing service, and the event stream.
type Service struct {
	repo      Repository
	billing   billing.Client
	publisher events.Publisher
	logger    zerolog.Logger
}

func NewService(repo Repository, billingClient billing.Client, publisher events.Publisher, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		billing:   billingClient,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new patient. Once the record is persisted the
// registration is committed: a billing failure downgrades the result to
// BillingUnavailable and a publish failure is logged, but neither rolls the
// patient back.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check duplicate email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	birthDate, err := ParseDate(req.BirthDate)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"birthDate": "birthDate must be an ISO-8601 date (YYYY-MM-DD)"}}
	}

	p := &Patient{
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		BirthDate: birthDate,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	result := &CreateResult{Patient: p, BillingStatus: BillingProvisioned}

	acct, err := s.billing.CreateAccount(ctx, p.ID.String(), p.Name, p.Email)
	if err != nil {
		// The patient stays registered; billing gets reconciled later.
		s.logger.Error().Err(err).
			Str("patient_id", p.ID.String()).
			Msg("billing account creation failed")
		result.BillingStatus = BillingUnavailable
	} else {
		result.BillingAccountID = acct.AccountID
	}

	evt := events.PatientCreated{PatientID: p.ID.String(), Name: p.Name, Email: p.Email}
	if err := s.publisher.PublishPatientCreated(ctx, evt); err != nil {
		s.logger.Error().Err(err).
			Str("patient_id", p.ID.String()).
			Msg("patient created event publish failed")
	}

	s.logger.Info().
		Str("patient_id", p.ID.String()).
		Str("billing_status", result.BillingStatus).
		Msg("patient registered")
	return result, nil
}

// Update rewrites the four mutable fields of an existing patient. It never
// re-provisions billing or re-emits the created event.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Patient, error) {
	if verr := req.Validate(); verr != nil {
		return nil, verr
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByEmailExcluding(ctx, req.Email, id)
	if err != nil {
		return nil, fmt.Errorf("check duplicate email: %w", err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	birthDate, err := ParseDate(req.BirthDate)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"birthDate": "birthDate must be an ISO-8601 date (YYYY-MM-DD)"}}
	}

	p.Name = req.Name
	p.Email = req.Email
	p.Address = req.Address
	p.BirthDate = birthDate

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("patient_id", id.String()).Msg("patient updated")
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
