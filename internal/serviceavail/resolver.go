package serviceavail

import "github.com/bookli/scheduling-backend/internal/catalog"

// Resolve merges the three configuration layers into one EffectiveSettings:
// per-field, the first non-nil wins, ordered override row -> service base
// attribute -> platform default. settings may be nil (no override row).
func Resolve(settings *Settings, svc *catalog.Service) EffectiveSettings {
	eff := EffectiveSettings{
		DurationMinutes:   DefaultDurationMinutes,
		BufferMinutes:     DefaultBufferMinutes,
		MaxBookingsPerDay: DefaultMaxBookingsADay,
		MaxAdvanceDays:    DefaultMaxAdvanceDays,
		MinNoticeMinutes:  DefaultMinNoticeMinutes,
	}

	if svc != nil {
		eff.ProviderID = svc.ProviderID
		eff.ServiceID = svc.ID
		if svc.DurationMinutes != nil {
			eff.DurationMinutes = *svc.DurationMinutes
		}
		if svc.BufferMinutes != nil {
			eff.BufferMinutes = *svc.BufferMinutes
		}
		eff.Price = svc.Price
	}

	if settings == nil {
		return eff
	}

	eff.ProviderID = settings.ProviderID
	eff.ServiceID = settings.ServiceID

	if settings.CustomDurationMinutes != nil {
		eff.DurationMinutes = *settings.CustomDurationMinutes
	}
	if settings.CustomBufferMinutes != nil {
		eff.BufferMinutes = *settings.CustomBufferMinutes
	}
	if settings.PreparationMinutes != nil {
		eff.PreparationMinutes = *settings.PreparationMinutes
	}
	if settings.CleanupMinutes != nil {
		eff.CleanupMinutes = *settings.CleanupMinutes
	}
	if len(settings.AvailableDays) > 0 {
		eff.AvailableDays = settings.AvailableDays
	}
	if len(settings.CustomHours) > 0 {
		eff.CustomHours = settings.CustomHours
	}
	if settings.MaxBookingsPerDay != nil {
		eff.MaxBookingsPerDay = *settings.MaxBookingsPerDay
	}
	eff.RequiresSpecialScheduling = settings.RequiresSpecialScheduling
	eff.UnavailableFrom = settings.UnavailableFrom
	eff.UnavailableUntil = settings.UnavailableUntil

	return eff
}
