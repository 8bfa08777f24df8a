// Package complaint runs the complaint lifecycle: intake with classification
// and ID assignment, status changes with an audit trail, notification
// records, and visibility-scoped reads.
package complaint

import (
	"context"
	"errors"
	"strings"
	"time"

	"smartgriev/backend/internal/access"
	"smartgriev/backend/internal/analysis"
	"smartgriev/backend/internal/apperr"
	"smartgriev/backend/internal/config"
	"smartgriev/backend/internal/localization"
	"smartgriev/backend/internal/metrics"
	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/nlp"
	"smartgriev/backend/internal/storage"

	"go.uber.org/zap"
)

// IDSource issues complaint identifiers.
type IDSource interface {
	Next(ctx context.Context) (string, error)
}

// SubmitInput is the citizen-supplied part of a new complaint.
type SubmitInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Service handles the business logic for complaints.
type Service struct {
	Storage    storage.Storage
	Classifier nlp.Classifier
	IDs        IDSource
	Localizer  *localization.Localizer
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Policy     TransitionPolicy
	Now        func() time.Time
}

// Option customizes a Service built by NewService.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.Logger = l } }

// WithMetrics records submissions and transitions on m.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.Metrics = m } }

// WithLocalizer sets the message catalog used for notifications and history.
func WithLocalizer(l *localization.Localizer) Option { return func(s *Service) { s.Localizer = l } }

// WithPolicy replaces the status transition policy.
func WithPolicy(p TransitionPolicy) Option { return func(s *Service) { s.Policy = p } }

// WithClock overrides the time source for timestamps and ID years.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.Now = now } }

// NewService creates a new complaint service. Without options it logs
// nowhere, records no metrics, uses the built-in English messages and the
// open transition policy.
func NewService(store storage.Storage, classifier nlp.Classifier, ids IDSource, opts ...Option) *Service {
	s := &Service{
		Storage:    store,
		Classifier: classifier,
		IDs:        ids,
		Localizer:  localization.NewDefaultLocalizer(),
		Logger:     zap.NewNop(),
		Policy:     OpenPolicy{},
		Now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit classifies and stores a new complaint together with its creation
// history entry and the submitter's notification.
func (s *Service) Submit(ctx context.Context, actor access.Actor, in SubmitInput) (*models.Complaint, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)
	if title == "" || description == "" || location == "" {
		return nil, apperr.Validation("Title, description, and location are required")
	}

	result, err := s.Classifier.Classify(description)
	if err != nil {
		return nil, apperr.Classification(err)
	}

	id, err := s.IDs.Next(ctx)
	if err != nil {
		return nil, apperr.Persistence("failed to assign complaint id", err)
	}

	now := s.Now().UTC()
	c := &models.Complaint{
		ID:              id,
		UserID:          actor.ID,
		Title:           title,
		Description:     description,
		Location:        location,
		Status:          models.StatusSubmitted,
		Department:      result.PredictedDepartment,
		Priority:        result.Urgency,
		ConfidenceScore: result.ConfidenceScore,
		NLPAnalysis:     result,
		DateSubmitted:   now,
		DateUpdated:     now,
		CreatedAt:       now,
	}
	n := &models.Notification{
		UserID:      actor.ID,
		ComplaintID: id,
		Type:        models.NotificationComplaintSubmitted,
		Message:     s.Localizer.Format(config.DefaultLanguage, localization.KeyComplaintSubmitted, id, c.Department),
		CreatedAt:   now,
	}

	err = s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		if err := tx.CreateComplaint(ctx, c); err != nil {
			return err
		}
		if err := tx.SaveHistory(ctx, &models.HistoryEntry{
			ComplaintID: id,
			UserID:      actor.ID,
			Action:      models.ActionSubmitted,
			StatusTo:    models.StatusSubmitted,
			Comment:     s.Localizer.GetString(config.DefaultLanguage, localization.KeyInitialSubmission),
			CreatedAt:   now,
		}); err != nil {
			return err
		}
		return tx.SaveNotification(ctx, n)
	})
	if err != nil {
		s.Logger.Error("failed to store complaint", zap.String("complaint_id", id), zap.Error(err))
		return nil, apperr.Persistence("failed to store complaint", err)
	}

	s.publish(ctx, n)
	s.Metrics.RecordSubmission(c.Department, c.Priority, c.ConfidenceScore)
	s.Logger.Info("complaint submitted",
		zap.String("complaint_id", id),
		zap.String("user_id", actor.ID),
		zap.String("department", c.Department),
		zap.String("priority", c.Priority),
		zap.Float64("confidence", c.ConfidenceScore),
	)

	names, err := s.Storage.GetProfileNames(ctx, []string{actor.ID})
	if err != nil {
		s.Logger.Warn("failed to resolve submitter name", zap.String("user_id", actor.ID), zap.Error(err))
	}
	c.UserName = nameOr(names, actor.ID)
	return c, nil
}

// UpdateStatus moves a complaint to status, appends a history entry and
// notifies the submitter. The complaint row is locked for the duration so
// concurrent updates record the correct previous status.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, id, status, comment string) (*models.Complaint, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, apperr.Validation("Status is required")
	}
	if !models.IsKnownStatus(status) {
		return nil, apperr.Validation("Invalid status: " + status)
	}

	var (
		updated *models.Complaint
		n       *models.Notification
		from    string
	)
	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		c, err := tx.LockComplaint(ctx, id)
		if err != nil {
			return err
		}
		if !access.CanView(actor, c) {
			return storage.ErrNotFound
		}

		from = c.Status
		if !s.Policy.Allowed(from, status) {
			return transitionError(from, status)
		}

		now := s.Now().UTC()
		c.Status = status
		c.DateUpdated = now
		if err := tx.UpdateComplaintStatus(ctx, c); err != nil {
			return err
		}

		if err := tx.SaveHistory(ctx, &models.HistoryEntry{
			ComplaintID: id,
			UserID:      actor.ID,
			Action:      models.ActionStatusUpdated,
			StatusFrom:  &from,
			StatusTo:    status,
			Comment:     comment,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		n = &models.Notification{
			UserID:      c.UserID,
			ComplaintID: id,
			Type:        models.NotificationStatusUpdated,
			Message:     s.Localizer.Format(config.DefaultLanguage, localization.KeyStatusUpdated, id, status),
			CreatedAt:   now,
		}
		if err := tx.SaveNotification(ctx, n); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "failed to update complaint status")
	}

	s.publish(ctx, n)
	s.Metrics.RecordTransition(from, status)
	s.Logger.Info("complaint status updated",
		zap.String("complaint_id", id),
		zap.String("actor_id", actor.ID),
		zap.String("from", from),
		zap.String("to", status),
	)
	return updated, nil
}

// Get returns a complaint with its history (newest first) and attachments.
// Complaints the actor may not see are reported as not found.
func (s *Service) Get(ctx context.Context, actor access.Actor, id string) (*models.ComplaintDetail, error) {
	c, err := s.Storage.GetComplaint(ctx, id)
	if err != nil {
		return nil, s.wrap(err, "failed to load complaint")
	}
	if !access.CanView(actor, c) {
		return nil, apperr.NotFound("Complaint not found")
	}

	history, err := s.Storage.GetHistory(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("failed to load complaint history", err)
	}
	attachments, err := s.Storage.GetAttachments(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("failed to load attachments", err)
	}

	names, err := s.Storage.GetProfileNames(ctx, []string{c.UserID})
	if err != nil {
		return nil, apperr.Persistence("failed to load profiles", err)
	}
	c.UserName = nameOr(names, c.UserID)

	return &models.ComplaintDetail{
		Complaint:   *c,
		History:     history,
		Attachments: attachments,
	}, nil
}

// List returns the complaints visible to actor, newest first.
func (s *Service) List(ctx context.Context, actor access.Actor) ([]models.Complaint, error) {
	complaints, err := s.Storage.ListComplaints(ctx, access.ScopeFor(actor))
	if err != nil {
		return nil, apperr.Persistence("failed to list complaints", err)
	}
	// The store already filtered; this guards against a backend ignoring part
	// of the filter.
	complaints = access.Filter(actor, complaints)

	ids := make([]string, 0, len(complaints))
	seen := make(map[string]bool)
	for _, c := range complaints {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	names, err := s.Storage.GetProfileNames(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence("failed to load profiles", err)
	}
	for i := range complaints {
		complaints[i].UserName = nameOr(names, complaints[i].UserID)
	}
	return complaints, nil
}

// Analytics summarizes every stored complaint regardless of caller.
func (s *Service) Analytics(ctx context.Context) (analysis.Summary, error) {
	complaints, err := s.Storage.ListComplaints(ctx, models.ComplaintFilter{})
	if err != nil {
		return analysis.Summary{}, apperr.Persistence("failed to load complaints", err)
	}
	return analysis.Summarize(complaints), nil
}

// Reclassify re-runs the classifier on a stored complaint and rewrites its
// routing fields. The status is unchanged and no notification is sent.
func (s *Service) Reclassify(ctx context.Context, actor access.Actor, id string) (*models.Complaint, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Auth("Only administrators can reclassify complaints")
	}

	var updated *models.Complaint
	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		c, err := tx.LockComplaint(ctx, id)
		if err != nil {
			return err
		}

		result, err := s.Classifier.Classify(c.Description)
		if err != nil {
			return apperr.Classification(err)
		}

		now := s.Now().UTC()
		c.Department = result.PredictedDepartment
		c.Priority = result.Urgency
		c.ConfidenceScore = result.ConfidenceScore
		c.NLPAnalysis = result
		c.DateUpdated = now
		if err := tx.UpdateClassification(ctx, c); err != nil {
			return err
		}

		status := c.Status
		if err := tx.SaveHistory(ctx, &models.HistoryEntry{
			ComplaintID: id,
			UserID:      actor.ID,
			Action:      models.ActionReclassified,
			StatusFrom:  &status,
			StatusTo:    status,
			Comment:     s.Localizer.Format(config.DefaultLanguage, localization.KeyReclassified, c.Department, c.Priority),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		updated = c
		return nil
	})
	if err != nil {
		return nil, s.wrap(err, "failed to reclassify complaint")
	}

	s.Logger.Info("complaint reclassified",
		zap.String("complaint_id", id),
		zap.String("department", updated.Department),
		zap.String("priority", updated.Priority),
	)
	return updated, nil
}

// publish forwards a committed notification. Failures are logged only.
func (s *Service) publish(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	if err := s.Storage.PublishNotification(ctx, n); err != nil {
		s.Logger.Warn("failed to publish notification",
			zap.String("notification_id", n.ID),
			zap.String("user_id", n.UserID),
			zap.Error(err),
		)
	}
}

// wrap converts storage errors into apperr kinds, keeping errors that are
// already classified.
func (s *Service) wrap(err error, msg string) error {
	var ae *apperr.Error
	switch {
	case errors.As(err, &ae):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound("Complaint not found")
	default:
		s.Logger.Error(msg, zap.Error(err))
		return apperr.Persistence(msg, err)
	}
}

func nameOr(names map[string]string, userID string) string {
	if name, ok := names[userID]; ok && name != "" {
		return name
	}
	return config.UnknownUserName
}
