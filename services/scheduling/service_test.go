package scheduling

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	scheduleRepo "recruitd/database/repository/schedule"
	"recruitd/models"

	"go.uber.org/zap"
)

// fakeScheduleRepo is an in-memory ScheduleRepository mirroring the atomic
// update semantics of the Mongo implementation.
type fakeScheduleRepo struct {
	schedules map[string]*models.InterviewSchedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[string]*models.InterviewSchedule)}
}

func (r *fakeScheduleRepo) CreateSchedule(ctx context.Context, s *models.InterviewSchedule) error {
	cp := *s
	r.schedules[s.ID] = &cp
	return nil
}

func (r *fakeScheduleRepo) GetScheduleByID(ctx context.Context, id string) (*models.InterviewSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) ListSchedules(ctx context.Context, filter scheduleRepo.ScheduleFilter) ([]models.InterviewSchedule, int64, error) {
	var out []models.InterviewSchedule
	for _, s := range r.schedules {
		if filter.CandidateID != "" && s.CandidateID != filter.CandidateID {
			continue
		}
		if filter.RequirementID != "" && s.RequirementID != filter.RequirementID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeScheduleRepo) AllSchedules(ctx context.Context) ([]models.InterviewSchedule, error) {
	var out []models.InterviewSchedule
	for _, s := range r.schedules {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) ApplyReschedule(ctx context.Context, id string, patch models.ReschedulePatch) (*models.InterviewSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	s.ScheduledDate = patch.NewDate
	s.ScheduledTime = patch.NewTime
	s.Status = models.ScheduleRescheduled
	s.RescheduleCount++
	s.RescheduleHistory = append(s.RescheduleHistory, patch.Entry)
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) CancelSchedule(ctx context.Context, id, reason string) (*models.InterviewSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	s.Status = models.ScheduleCancelled
	s.CancellationReason = reason
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) SetConfirmation(ctx context.Context, id, party, state string) (*models.InterviewSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	if s.ConfirmationStatus == nil {
		s.ConfirmationStatus = make(map[string]string)
	}
	s.ConfirmationStatus[party] = state
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) SetStatus(ctx context.Context, id string, status models.ScheduleStatus) (*models.InterviewSchedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrNotFound
	}
	s.Status = status
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) ReminderCandidates(ctx context.Context) ([]models.InterviewSchedule, error) {
	var out []models.InterviewSchedule
	for _, s := range r.schedules {
		if s.ReminderSent || s.Status == models.ScheduleCancelled {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeScheduleRepo) ClaimReminder(ctx context.Context, id string, at time.Time) (bool, error) {
	s, ok := r.schedules[id]
	if !ok || s.ReminderSent {
		return false, nil
	}
	s.ReminderSent = true
	s.ReminderSentAt = &at
	return true, nil
}

type fakeAlertSink struct {
	events    []models.Event
	reminders []models.ReminderPayload
	remindErr error
}

func (f *fakeAlertSink) Emit(ctx context.Context, event models.Event) {
	f.events = append(f.events, event)
}

func (f *fakeAlertSink) Remind(ctx context.Context, payload models.ReminderPayload) error {
	if f.remindErr != nil {
		return f.remindErr
	}
	f.reminders = append(f.reminders, payload)
	return nil
}

func newTestService() (*DefaultSchedulingService, *fakeScheduleRepo, *fakeAlertSink) {
	repo := newFakeScheduleRepo()
	sink := &fakeAlertSink{}
	svc := &DefaultSchedulingService{
		Repo:      repo,
		Alerts:    sink,
		Reminders: sink,
		Logger:    zap.NewNop(),
	}
	return svc, repo, sink
}

func validInput() ScheduleInput {
	return ScheduleInput{
		CandidateID:      "cand-1",
		RequirementID:    "req-1",
		InterviewType:    "technical",
		ScheduledDate:    "2026-09-10",
		ScheduledTime:    "14:00",
		InterviewerName:  "Pat Jones",
		InterviewerEmail: "pat@example.com",
	}
}

func TestScheduleAppliesDefaults(t *testing.T) {
	svc, _, sink := newTestService()

	s, err := svc.Schedule(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	if s.Status != models.ScheduleScheduled {
		t.Errorf("status = %s, want scheduled", s.Status)
	}
	if s.Timezone != "UTC" || s.DurationMinutes != 60 {
		t.Errorf("defaults = (%s, %d), want (UTC, 60)", s.Timezone, s.DurationMinutes)
	}
	if s.ConfirmationStatus["candidate"] != models.ConfirmationPending ||
		s.ConfirmationStatus["interviewer"] != models.ConfirmationPending {
		t.Errorf("confirmation map = %v, want both pending", s.ConfirmationStatus)
	}
	if len(sink.events) != 1 || sink.events[0].EventType != models.EventInterviewScheduled {
		t.Errorf("expected one interview.scheduled event, got %+v", sink.events)
	}
}

func TestScheduleRejectsBadSlot(t *testing.T) {
	svc, _, _ := newTestService()
	var validation *ValidationError

	in := validInput()
	in.ScheduledDate = "10-09-2026"
	if _, err := svc.Schedule(context.Background(), in); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for bad date, got %v", err)
	}

	in = validInput()
	in.ScheduledTime = "2pm"
	if _, err := svc.Schedule(context.Background(), in); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for bad time, got %v", err)
	}

	in = validInput()
	in.Timezone = "Mars/Olympus"
	if _, err := svc.Schedule(context.Background(), in); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for bad timezone, got %v", err)
	}
}

func TestRescheduleKeepsHistoryConsistent(t *testing.T) {
	svc, _, sink := newTestService()
	ctx := context.Background()

	s, err := svc.Schedule(ctx, validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	updated, err := svc.Reschedule(ctx, s.ID, RescheduleInput{
		NewDate: "2026-09-12", NewTime: "10:00", Reason: "interviewer conflict", RescheduledBy: "ops-1",
	})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	updated, err = svc.Reschedule(ctx, s.ID, RescheduleInput{
		NewDate: "2026-09-15", NewTime: "09:30", Reason: "candidate travel",
	})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	if updated.RescheduleCount != len(updated.RescheduleHistory) {
		t.Fatalf("count %d != history length %d", updated.RescheduleCount, len(updated.RescheduleHistory))
	}
	if updated.RescheduleCount != 2 {
		t.Errorf("reschedule count = %d, want 2", updated.RescheduleCount)
	}
	first := updated.RescheduleHistory[0]
	if first.OldDate != "2026-09-10" || first.OldTime != "14:00" {
		t.Errorf("first history entry old slot = %s %s", first.OldDate, first.OldTime)
	}
	second := updated.RescheduleHistory[1]
	if second.OldDate != "2026-09-12" || second.NewDate != "2026-09-15" {
		t.Errorf("second history entry = %+v", second)
	}
	if updated.Status != models.ScheduleRescheduled {
		t.Errorf("status = %s, want rescheduled", updated.Status)
	}

	rescheduledEvents := 0
	for _, e := range sink.events {
		if e.EventType == models.EventInterviewRescheduled {
			rescheduledEvents++
		}
	}
	if rescheduledEvents != 2 {
		t.Errorf("rescheduled events = %d, want 2", rescheduledEvents)
	}
}

func TestRescheduleRejectedWhenClosed(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	s, err := svc.Schedule(ctx, validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.Cancel(ctx, s.ID, "position filled"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	_, err = svc.Reschedule(ctx, s.ID, RescheduleInput{NewDate: "2026-09-12", NewTime: "10:00", Reason: "retry"})
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestCancelRequiresReason(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	s, err := svc.Schedule(ctx, validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	var validation *ValidationError
	if _, err := svc.Cancel(ctx, s.ID, ""); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for empty reason, got %v", err)
	}

	cancelled, err := svc.Cancel(ctx, s.ID, "candidate withdrew")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.ScheduleCancelled || cancelled.CancellationReason != "candidate withdrew" {
		t.Errorf("cancelled = (%s, %q)", cancelled.Status, cancelled.CancellationReason)
	}
}

func TestConfirmFlipsStatusWhenAllPartiesConfirm(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	s, err := svc.Schedule(ctx, validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	after, err := svc.Confirm(ctx, s.ID, "candidate")
	if err != nil {
		t.Fatalf("Confirm candidate: %v", err)
	}
	if after.Status == models.ScheduleConfirmed {
		t.Error("status flipped to confirmed with one party pending")
	}

	after, err = svc.Confirm(ctx, s.ID, "interviewer")
	if err != nil {
		t.Fatalf("Confirm interviewer: %v", err)
	}
	if after.Status != models.ScheduleConfirmed {
		t.Errorf("status = %s, want confirmed after both parties", after.Status)
	}

	var validation *ValidationError
	if _, err := svc.Confirm(ctx, s.ID, "recruiter"); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for unknown party, got %v", err)
	}
}

func TestMarkOutcome(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	s, err := svc.Schedule(ctx, validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	var validation *ValidationError
	if _, err := svc.MarkOutcome(ctx, s.ID, models.ScheduleCancelled); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for non-outcome status, got %v", err)
	}

	done, err := svc.MarkOutcome(ctx, s.ID, models.ScheduleCompleted)
	if err != nil {
		t.Fatalf("MarkOutcome: %v", err)
	}
	if done.Status != models.ScheduleCompleted {
		t.Errorf("status = %s, want completed", done.Status)
	}

	var invalid *InvalidStateError
	if _, err := svc.MarkOutcome(ctx, s.ID, models.ScheduleNoShow); !errors.As(err, &invalid) {
		t.Errorf("expected InvalidStateError on second outcome, got %v", err)
	}
}

func TestSendRemindersWindowAndIdempotency(t *testing.T) {
	svc, repo, sink := newTestService()
	ctx := context.Background()
	now := time.Date(2026, 9, 9, 14, 0, 0, 0, time.UTC)

	inWindow := validInput() // 2026-09-10 14:00 UTC, exactly 24h out
	s1, err := svc.Schedule(ctx, inWindow)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	farOut := validInput()
	farOut.ScheduledDate = "2026-09-20"
	if _, err := svc.Schedule(ctx, farOut); err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	cancelledIn := validInput()
	cancelledSchedule, err := svc.Schedule(ctx, cancelledIn)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.Cancel(ctx, cancelledSchedule.ID, "dropped"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	sent, err := svc.SendReminders(ctx, 24, now)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if len(sent) != 1 || sent[0] != s1.ID {
		t.Fatalf("sent = %v, want only %s", sent, s1.ID)
	}
	if len(sink.reminders) != 1 || sink.reminders[0].ScheduleID != s1.ID {
		t.Fatalf("queued reminders = %+v", sink.reminders)
	}

	stored := repo.schedules[s1.ID]
	if !stored.ReminderSent || stored.ReminderSentAt == nil {
		t.Error("reminder claim not persisted")
	}

	// Second sweep over the same window sends nothing.
	sent, err = svc.SendReminders(ctx, 24, now)
	if err != nil {
		t.Fatalf("SendReminders second run: %v", err)
	}
	if len(sent) != 0 {
		t.Errorf("second sweep sent %v, want none", sent)
	}
}

func TestSendRemindersRejectsBadWindow(t *testing.T) {
	svc, _, _ := newTestService()
	var validation *ValidationError
	if _, err := svc.SendReminders(context.Background(), 0, time.Now()); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestCheckAvailabilityValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.CheckAvailability(ctx, AvailabilityQuery{
		ScheduledDate: "2026-09-10",
		ScheduledTime: "14:00",
		Participants:  []string{"pat@example.com", "dana@example.com"},
	})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !result.Available || len(result.Participants) != 2 {
		t.Errorf("result = %+v", result)
	}

	var validation *ValidationError
	_, err = svc.CheckAvailability(ctx, AvailabilityQuery{ScheduledDate: "2026-09-10", ScheduledTime: "14:00"})
	if !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for no participants, got %v", err)
	}
}

func TestAnalyticsAggregation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics on empty store: %v", err)
	}
	if a.TotalSchedules != 0 || a.NoShowRate != 0 || a.RescheduleRate != 0 {
		t.Errorf("empty analytics = %+v", a)
	}

	first, err := svc.Schedule(ctx, validInput())
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.Reschedule(ctx, first.ID, RescheduleInput{
		NewDate: "2026-09-12", NewTime: "10:00", Reason: "conflict",
	}); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if _, err := svc.MarkOutcome(ctx, first.ID, models.ScheduleCompleted); err != nil {
		t.Fatalf("MarkOutcome: %v", err)
	}

	secondInput := validInput()
	secondInput.ScheduledTime = "09:00"
	second, err := svc.Schedule(ctx, secondInput)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := svc.MarkOutcome(ctx, second.ID, models.ScheduleNoShow); err != nil {
		t.Fatalf("MarkOutcome: %v", err)
	}

	a, err = svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if a.TotalSchedules != 2 || a.CompletedCount != 1 {
		t.Errorf("counts = %+v", a)
	}
	if a.NoShowRate != 50 || a.RescheduleRate != 50 {
		t.Errorf("rates = (%v, %v), want (50, 50)", a.NoShowRate, a.RescheduleRate)
	}
	if a.AverageReschedules != 0.5 {
		t.Errorf("avg reschedules = %v, want 0.5", a.AverageReschedules)
	}
	if len(a.PopularTimeSlots) != 2 {
		t.Fatalf("popular slots = %+v", a.PopularTimeSlots)
	}
	if a.ByInterviewType["technical"] != 2 {
		t.Errorf("by interview type = %v", a.ByInterviewType)
	}
}
