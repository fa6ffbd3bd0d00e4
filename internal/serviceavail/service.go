package serviceavail

import (
	"context"
	"errors"
	"time"

	"github.com/bookli/scheduling-backend/internal/catalog"
	"github.com/bookli/scheduling-backend/internal/pkg/apperror"
	"github.com/bookli/scheduling-backend/internal/pkg/timeutil"
)

// Propagator is notified after settings change so service-specific slots can
// be regenerated with the new effective parameters.
type Propagator interface {
	ServiceSettingsChanged(ctx context.Context, providerID, serviceID string)
}

// UpsertRequest carries the override fields for a (provider, service) pair.
type UpsertRequest struct {
	CustomDurationMinutes     *int
	CustomBufferMinutes       *int
	PreparationMinutes        *int
	CleanupMinutes            *int
	AvailableDays             []string // weekday names, e.g. "monday"
	CustomHours               map[string]DayHours
	MaxBookingsPerDay         *int
	RequiresSpecialScheduling bool
	UnavailableFrom           *string
	UnavailableUntil          *string
}

type Service interface {
	// GetEffective resolves the full fallback chain for a provider/service pair.
	GetEffective(ctx context.Context, providerID, serviceID string) (*EffectiveSettings, error)
	// Get returns the raw override row, or ErrNotFound.
	Get(ctx context.Context, providerID, serviceID string) (*Settings, error)
	Upsert(ctx context.Context, providerID, serviceID string, req UpsertRequest) (*Settings, error)
	Delete(ctx context.Context, providerID, serviceID string) error
}

type service struct {
	repo       Repository
	catalog    catalog.Catalog
	propagator Propagator
}

func NewService(repo Repository, cat catalog.Catalog, propagator Propagator) Service {
	return &service{repo: repo, catalog: cat, propagator: propagator}
}

func (s *service) GetEffective(ctx context.Context, providerID, serviceID string) (*EffectiveSettings, error) {
	svc, err := s.catalog.GetProviderService(ctx, providerID, serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, ErrServiceNotOwned
		}
		return nil, err
	}

	settings, err := s.repo.Get(ctx, providerID, serviceID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	eff := Resolve(settings, svc)
	return &eff, nil
}

func (s *service) Get(ctx context.Context, providerID, serviceID string) (*Settings, error) {
	return s.repo.Get(ctx, providerID, serviceID)
}

func (s *service) Upsert(ctx context.Context, providerID, serviceID string, req UpsertRequest) (*Settings, error) {
	// The service must belong to the caller's provider.
	if _, err := s.catalog.GetProviderService(ctx, providerID, serviceID); err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, ErrServiceNotOwned
		}
		return nil, err
	}

	settings, err := fromRequest(providerID, serviceID, req)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	s.propagator.ServiceSettingsChanged(ctx, providerID, serviceID)

	return settings, nil
}

func (s *service) Delete(ctx context.Context, providerID, serviceID string) error {
	if err := s.repo.Delete(ctx, providerID, serviceID); err != nil {
		return err
	}

	s.propagator.ServiceSettingsChanged(ctx, providerID, serviceID)

	return nil
}

func fromRequest(providerID, serviceID string, req UpsertRequest) (*Settings, error) {
	settings := &Settings{
		ProviderID:                providerID,
		ServiceID:                 serviceID,
		CustomDurationMinutes:     req.CustomDurationMinutes,
		CustomBufferMinutes:       req.CustomBufferMinutes,
		PreparationMinutes:        req.PreparationMinutes,
		CleanupMinutes:            req.CleanupMinutes,
		MaxBookingsPerDay:         req.MaxBookingsPerDay,
		RequiresSpecialScheduling: req.RequiresSpecialScheduling,
		UnavailableFrom:           req.UnavailableFrom,
		UnavailableUntil:          req.UnavailableUntil,
	}

	days, err := parseDayNames(req.AvailableDays)
	if err != nil {
		return nil, err
	}
	settings.AvailableDays = days

	hours, err := parseHourNames(req.CustomHours)
	if err != nil {
		return nil, err
	}
	settings.CustomHours = hours

	return settings, nil
}

func parseDayNames(names []string) ([]time.Weekday, error) {
	if len(names) == 0 {
		return nil, nil
	}
	days := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := timeutil.ParseWeekday(n)
		if err != nil {
			return nil, apperror.Validation(err.Error())
		}
		days = append(days, d)
	}
	return days, nil
}

func parseHourNames(named map[string]DayHours) (map[time.Weekday]DayHours, error) {
	if len(named) == 0 {
		return nil, nil
	}
	hours := make(map[time.Weekday]DayHours, len(named))
	for n, h := range named {
		d, err := timeutil.ParseWeekday(n)
		if err != nil {
			return nil, apperror.Validation(err.Error())
		}
		hours[d] = h
	}
	return hours, nil
}
