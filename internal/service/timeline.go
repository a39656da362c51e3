package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maternalab/gravida/internal/domain"
	"go.uber.org/zap"
)

var ErrProfileNotFound = errors.New("user profile not found")

// milestones maps pregnancy weeks to their named checkup or event. Weeks
// without an entry are plain gestation weeks.
var milestones = map[int]string{
	4:  "תאריך הווסת האחרונה",
	8:  "דופק עובר ראשון",
	12: "בדיקת שקיפות עורפית",
	16: "בדיקת מין העובר",
	20: "אולטרסאונד מורפולוגי",
	24: "בדיקת סוכר בהריון",
	28: "חיסון טטנוס-דיפטריה",
	32: "בדיקת גדילה",
	36: "בדיקת GBS",
	38: "הכנה ללידה",
	40: "תאריך לידה צפוי",
}

func milestoneFor(week int) string {
	if m, ok := milestones[week]; ok {
		return m
	}
	return fmt.Sprintf("שבוע %d להריון", week)
}

type EntryStatus string

const (
	StatusCompleted EntryStatus = "completed"
	StatusCurrent   EntryStatus = "current"
	StatusUpcoming  EntryStatus = "upcoming"
)

// TimelineEntry is one week on the gestation timeline.
type TimelineEntry struct {
	Week      int         `json:"week"`
	Date      time.Time   `json:"date"`
	Milestone string      `json:"milestone"`
	Status    EntryStatus `json:"status"`
	DaysUntil *int        `json:"days_until,omitempty"`
}

// Timeline is the full per-user gestation schedule.
type Timeline struct {
	UserID      string          `json:"user_id"`
	CurrentWeek int             `json:"current_week"`
	LMPDate     *time.Time      `json:"lmp_date,omitempty"`
	Entries     []TimelineEntry `json:"timeline"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// TimelineService derives the per-week gestation schedule from a profile's
// last menstrual period date.
type TimelineService struct {
	profiles domain.ProfileStore
	logger   *zap.Logger

	now func() time.Time
}

func NewTimelineService(profiles domain.ProfileStore, logger *zap.Logger) *TimelineService {
	return &TimelineService{profiles: profiles, logger: logger, now: time.Now}
}

// Timeline builds the 40-week schedule for userID. A profile without an LMP
// date yields an empty schedule, not an error.
func (s *TimelineService) Timeline(ctx context.Context, userID string) (*Timeline, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	now := s.now()
	tl := &Timeline{
		UserID:      userID,
		CurrentWeek: profile.PregnancyWeek,
		LMPDate:     profile.LMPDate,
		GeneratedAt: now,
	}
	if profile.LMPDate == nil {
		return tl, nil
	}

	tl.Entries = make([]TimelineEntry, 0, 40)
	for week := 1; week <= 40; week++ {
		date := profile.LMPDate.AddDate(0, 0, week*7)
		entry := TimelineEntry{
			Week:      week,
			Date:      date,
			Milestone: milestoneFor(week),
		}
		switch {
		case week < profile.PregnancyWeek:
			entry.Status = StatusCompleted
		case week == profile.PregnancyWeek:
			entry.Status = StatusCurrent
		default:
			entry.Status = StatusUpcoming
		}
		if week >= profile.PregnancyWeek {
			days := int(date.Sub(now).Hours() / 24)
			entry.DaysUntil = &days
		}
		tl.Entries = append(tl.Entries, entry)
	}
	return tl, nil
}

// UpcomingMilestones returns the named milestones within the next weeksAhead
// weeks after the current week.
func (s *TimelineService) UpcomingMilestones(ctx context.Context, userID string, weeksAhead int) ([]TimelineEntry, error) {
	if weeksAhead <= 0 {
		weeksAhead = 4
	}
	tl, err := s.Timeline(ctx, userID)
	if err != nil {
		return nil, err
	}

	var upcoming []TimelineEntry
	for _, entry := range tl.Entries {
		if entry.Week <= tl.CurrentWeek || entry.Week > tl.CurrentWeek+weeksAhead {
			continue
		}
		if _, named := milestones[entry.Week]; named {
			upcoming = append(upcoming, entry)
		}
	}
	return upcoming, nil
}
