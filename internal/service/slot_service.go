package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
)

type bookingCounter interface {
	CountByTeacherRange(ctx context.Context, teacherID string, start, end dateutil.Date) (map[models.OccurrenceKey]int, error)
}

type holidayProvider interface {
	HolidaysInRange(ctx context.Context, start, end dateutil.Date) (models.HolidaySet, error)
}

type templateProvider interface {
	ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityTemplate, error)
}

type summaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// SlotService expands recurring templates into concrete, capacity-annotated
// slot occurrences and aggregates them for calendar display.
type SlotService struct {
	templates      templateProvider
	holidays       holidayProvider
	bookings       bookingCounter
	cache          summaryCache
	metrics        *MetricsService
	cacheTTL       time.Duration
	nextSlotWindow int
	logger         *zap.Logger
}

// SlotServiceConfig tunes caching and lookup windows.
type SlotServiceConfig struct {
	CalendarCacheTTL   time.Duration
	NextSlotWindowDays int
}

// NewSlotService wires the occurrence generator. metrics may be nil.
func NewSlotService(templates templateProvider, holidays holidayProvider, bookings bookingCounter, cache summaryCache, metrics *MetricsService, cfg SlotServiceConfig, logger *zap.Logger) *SlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CalendarCacheTTL <= 0 {
		cfg.CalendarCacheTTL = 5 * time.Minute
	}
	if cfg.NextSlotWindowDays <= 0 {
		cfg.NextSlotWindowDays = 30
	}
	return &SlotService{
		templates:      templates,
		holidays:       holidays,
		bookings:       bookings,
		cache:          cache,
		metrics:        metrics,
		cacheTTL:       cfg.CalendarCacheTTL,
		nextSlotWindow: cfg.NextSlotWindowDays,
		logger:         logger,
	}
}

// CalculateAvailableSlots expands the teacher's active templates over
// [start, end] inclusive, flags holiday conflicts and annotates booking
// counts. The result is deterministic: ordered by date then start time. A
// teacher with no active templates yields an empty, non-nil slice.
func (s *SlotService) CalculateAvailableSlots(ctx context.Context, teacherID string, start, end dateutil.Date) ([]models.SlotOccurrence, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not precede start date")
	}

	started := time.Now()
	defer func() {
		s.metrics.ObserveSlotComputation(time.Since(started))
	}()

	templates, err := s.templates.ListActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	occurrences := make([]models.SlotOccurrence, 0)
	if len(templates) == 0 {
		return occurrences, nil
	}

	holidaySet, err := s.holidays.HolidaysInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	counts, err := s.bookings.CountByTeacherRange(ctx, teacherID, start, end)
	if err != nil {
		return nil, storeError(err, "failed to load booking counts")
	}

	occurrences = expandTemplates(templates, start, end, holidaySet)
	for i := range occurrences {
		annotateCapacity(&occurrences[i], counts)
	}
	return occurrences, nil
}

// AggregateForCalendar folds a month of occurrences into per-day summaries.
// Results are cached; a cache failure falls back to recomputation.
func (s *SlotService) AggregateForCalendar(ctx context.Context, teacherID string, month, year int) (map[string]models.DaySummary, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 2020 || year > 2050 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be between 2020 and 2050")
	}

	cacheKey := fmt.Sprintf("calendar:%s:%04d-%02d", teacherID, year, month)
	if s.cache != nil {
		var cached map[string]models.DaySummary
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	start, end := dateutil.MonthRange(year, time.Month(month))
	occurrences, err := s.CalculateAvailableSlots(ctx, teacherID, start, end)
	if err != nil {
		return nil, err
	}
	summary := AggregateOccurrences(occurrences)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("calendar cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return summary, nil
}

// NextAvailableSlot returns the first occurrence after the given date with
// free capacity and no holiday conflict, searching the configured window.
// Returns NO_AVAILABILITY when nothing viable exists.
func (s *SlotService) NextAvailableSlot(ctx context.Context, teacherID string, after dateutil.Date) (*models.SlotOccurrence, error) {
	end := after.AddDays(s.nextSlotWindow)
	occurrences, err := s.CalculateAvailableSlots(ctx, teacherID, after, end)
	if err != nil {
		return nil, err
	}
	for _, occ := range occurrences {
		if occ.IsAvailable {
			found := occ
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNoAvailability,
		fmt.Sprintf("no available slot within %d days", s.nextSlotWindow))
}

// expandTemplates emits one occurrence per matching calendar day per active
// template. Holidays never create occurrences, they only flag existing
// ones. An empty range (end before start) yields nothing.
func expandTemplates(templates []models.AvailabilityTemplate, start, end dateutil.Date, holidays models.HolidaySet) []models.SlotOccurrence {
	occurrences := make([]models.SlotOccurrence, 0)
	for _, template := range templates {
		if !template.IsActive {
			continue
		}
		weekday, err := template.Weekday()
		if err != nil {
			continue
		}
		for d := start; !d.After(end); d = d.Next() {
			if d.Weekday() != weekday {
				continue
			}
			occurrences = append(occurrences, models.SlotOccurrence{
				TemplateID:           template.ID,
				TeacherID:            template.TeacherID,
				Date:                 d,
				StartTime:            template.StartTime,
				EndTime:              template.EndTime,
				MaxStudents:          template.MaxStudents,
				ConflictsWithHoliday: holidays.Contains(d),
				DayOfWeekName:        weekday.String(),
			})
		}
	}
	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Date == occurrences[j].Date {
			return occurrences[i].StartTime < occurrences[j].StartTime
		}
		return occurrences[i].Date.Before(occurrences[j].Date)
	})
	return occurrences
}

// annotateCapacity fills bookedCount and the derived availability fields
// from the grouped booking counts. The lookup matches the full occurrence
// key; bookings taken under a template's previous time window do not count.
func annotateCapacity(occ *models.SlotOccurrence, counts map[models.OccurrenceKey]int) {
	occ.BookedCount = counts[occ.Key()]
	spots := occ.MaxStudents - occ.BookedCount
	if spots < 0 {
		spots = 0
	}
	occ.AvailableSpots = spots
	occ.IsAvailable = spots > 0 && !occ.ConflictsWithHoliday
}

// AggregateOccurrences is a pure fold of annotated occurrences into per-day
// summaries keyed by YYYY-MM-DD.
func AggregateOccurrences(occurrences []models.SlotOccurrence) map[string]models.DaySummary {
	summary := make(map[string]models.DaySummary)
	for _, occ := range occurrences {
		day := summary[occ.Date.String()]
		day.TotalSlots++
		if occ.ConflictsWithHoliday {
			day.ConflictedSlots++
		} else {
			day.AvailableSlots++
		}
		day.Capacity.MaxStudents += occ.MaxStudents
		day.Capacity.CurrentEnrollments += occ.BookedCount
		day.Capacity.AvailableSpots += occ.AvailableSpots
		summary[occ.Date.String()] = day
	}
	for key, day := range summary {
		day.Capacity.IsAtCapacity = day.Capacity.AvailableSpots == 0
		summary[key] = day
	}
	return summary
}
