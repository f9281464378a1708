package scheduling

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"recruitd/models"
)

// SlotCount ranks how often a time-of-day slot is booked.
type SlotCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// ScheduleAnalytics summarizes scheduling behavior across the collection.
type ScheduleAnalytics struct {
	TotalSchedules      int                           `json:"total_schedules"`
	ByStatus            map[models.ScheduleStatus]int `json:"by_status"`
	CompletedCount      int                           `json:"completed_count"`
	RescheduleRate      float64                       `json:"reschedule_rate"`
	NoShowRate          float64                       `json:"no_show_rate"`
	AverageReschedules  float64                       `json:"average_reschedules"`
	PopularTimeSlots    []SlotCount                   `json:"popular_time_slots"`
	ByInterviewType     map[string]int                `json:"by_interview_type"`
	CancellationReasons map[string]int                `json:"cancellation_reasons"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Analytics aggregates scheduling metrics over every schedule on file.
func (s *DefaultSchedulingService) Analytics(ctx context.Context) (*ScheduleAnalytics, error) {
	schedules, err := s.Repo.AllSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	out := &ScheduleAnalytics{
		TotalSchedules:      len(schedules),
		ByStatus:            make(map[models.ScheduleStatus]int),
		ByInterviewType:     make(map[string]int),
		CancellationReasons: make(map[string]int),
	}

	var (
		rescheduled      int
		noShows          int
		totalReschedules int
		hourCounts       = make(map[string]int)
	)
	for _, schedule := range schedules {
		out.ByStatus[schedule.Status]++
		out.ByInterviewType[schedule.InterviewType]++
		totalReschedules += schedule.RescheduleCount
		if schedule.RescheduleCount > 0 {
			rescheduled++
		}
		switch schedule.Status {
		case models.ScheduleCompleted:
			out.CompletedCount++
		case models.ScheduleNoShow:
			noShows++
		case models.ScheduleCancelled:
			if schedule.CancellationReason != "" {
				out.CancellationReasons[schedule.CancellationReason]++
			}
		}
		if hour, _, ok := strings.Cut(schedule.ScheduledTime, ":"); ok {
			hourCounts[hour+":00"]++
		}
	}

	if out.TotalSchedules > 0 {
		out.RescheduleRate = round2(float64(rescheduled) / float64(out.TotalSchedules) * 100)
		out.NoShowRate = round2(float64(noShows) / float64(out.TotalSchedules) * 100)
		out.AverageReschedules = round2(float64(totalReschedules) / float64(out.TotalSchedules))
	}

	slots := make([]SlotCount, 0, len(hourCounts))
	for hour, count := range hourCounts {
		slots = append(slots, SlotCount{Hour: hour, Count: count})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Count != slots[j].Count {
			return slots[i].Count > slots[j].Count
		}
		return slots[i].Hour < slots[j].Hour
	})
	if len(slots) > 5 {
		slots = slots[:5]
	}
	out.PopularTimeSlots = slots

	return out, nil
}
