package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an alert id does not exist.
var ErrNotFound = errors.New("alert not found")

// TxRunner runs fn as one atomic unit of work. The db package provides the
// pgx implementation; a nil runner executes fn directly, which is enough for
// in-memory repositories.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo Repository
	inTx TxRunner

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(repo Repository, inTx TxRunner) *Service {
	return &Service{repo: repo, inTx: inTx, locks: make(map[string]*sync.Mutex)}
}

// lockFor serializes create calls per (patient, type) so two concurrent
// triggers cannot both pass the dedup probe and insert duplicate ACTIVE
// alerts.
func (s *Service) lockFor(patientID, alertType string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := patientID + "|" + alertType
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

func (s *Service) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx == nil {
		return fn(ctx)
	}
	return s.inTx(ctx, fn)
}

// Create inserts a new ACTIVE alert. For recurring types any existing ACTIVE
// alert of the same type for the patient is first dismissed with a fixed
// system reason; the supersede-then-insert sequence runs in one transaction.
// Acknowledged alerts are terminal and are never superseded.
func (s *Service) Create(ctx context.Context, a *ClinicalAlert) error {
	if a.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if !validTypes[a.Type] {
		return fmt.Errorf("invalid alert_type %q", a.Type)
	}
	if !validSeverities[a.Severity] {
		return fmt.Errorf("invalid severity %q", a.Severity)
	}
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	a.Status = StatusActive

	if !TypeIsRecurring(a.Type) {
		return s.run(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, a)
		})
	}

	l := s.lockFor(a.PatientID, a.Type)
	l.Lock()
	defer l.Unlock()

	return s.run(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindActiveByPatientAndType(ctx, a.PatientID, a.Type)
		if err != nil {
			return err
		}
		if existing != nil {
			next, err := Transition(existing.Status, ActionDismiss)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			reason := AutoDismissReason
			existing.Status = next
			existing.DismissedAt = &now
			existing.DismissReason = &reason
			if err := s.repo.UpdateStatus(ctx, existing); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, a)
	})
}

// Acknowledge moves an ACTIVE alert to ACKNOWLEDGED, recording the actor.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID, actor string) (*ClinicalAlert, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(a.Status, ActionAcknowledge)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a.Status = next
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = &actor
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Dismiss moves an ACTIVE alert to DISMISSED with a mandatory reason.
func (s *Service) Dismiss(ctx context.Context, id uuid.UUID, reason, actor string) (*ClinicalAlert, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("dismiss reason is required")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := Transition(a.Status, ActionDismiss)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a.Status = next
	a.DismissedAt = &now
	a.DismissReason = &reason
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalAlert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error) {
	return s.repo.ListByPatient(ctx, patientID, f, limit, offset)
}

func (s *Service) ListGlobal(ctx context.Context, f ListFilter, limit, offset int) ([]*ClinicalAlert, int, error) {
	return s.repo.ListGlobal(ctx, f, limit, offset)
}

// CountsByPatient exposes the active alert tallies used for risk ranking.
func (s *Service) CountsByPatient(ctx context.Context, practitionerID *string) (map[string]Counts, error) {
	return s.repo.CountsByPatient(ctx, practitionerID)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
