package negotiation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	directoryRepo "recruitd/database/repository/directory"
	negotiationRepo "recruitd/database/repository/negotiation"
	"recruitd/models"

	"go.uber.org/zap"
)

// fakeNegotiationRepo is an in-memory NegotiationRepository with the same
// version-guard semantics as the Mongo implementation.
type fakeNegotiationRepo struct {
	negotiations  map[string]*models.RateNegotiation
	rounds        map[string][]models.NegotiationRound
	forceConflict bool
}

func newFakeNegotiationRepo() *fakeNegotiationRepo {
	return &fakeNegotiationRepo{
		negotiations: make(map[string]*models.RateNegotiation),
		rounds:       make(map[string][]models.NegotiationRound),
	}
}

func (r *fakeNegotiationRepo) CreateNegotiation(ctx context.Context, n *models.RateNegotiation) error {
	cp := *n
	r.negotiations[n.ID] = &cp
	return nil
}

func (r *fakeNegotiationRepo) GetNegotiationByID(ctx context.Context, id string) (*models.RateNegotiation, error) {
	n, ok := r.negotiations[id]
	if !ok {
		return nil, negotiationRepo.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNegotiationRepo) ListNegotiations(ctx context.Context, filter negotiationRepo.NegotiationFilter) ([]models.RateNegotiation, int64, error) {
	var out []models.RateNegotiation
	for _, n := range r.negotiations {
		if filter.SubmissionID != "" && n.SubmissionID != filter.SubmissionID {
			continue
		}
		if filter.CandidateID != "" && n.CandidateID != filter.CandidateID {
			continue
		}
		if filter.Status != "" && n.Status != filter.Status {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeNegotiationRepo) AllNegotiations(ctx context.Context) ([]models.RateNegotiation, error) {
	var out []models.RateNegotiation
	for _, n := range r.negotiations {
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNegotiationRepo) checkVersion(id string, expected int) (*models.RateNegotiation, error) {
	n, ok := r.negotiations[id]
	if !ok {
		return nil, negotiationRepo.ErrNotFound
	}
	if r.forceConflict || n.Version != expected {
		return nil, negotiationRepo.ErrVersionConflict
	}
	return n, nil
}

func (r *fakeNegotiationRepo) AppendRound(ctx context.Context, id string, expectedVersion int, round *models.NegotiationRound, commit models.RoundCommit) error {
	n, err := r.checkVersion(id, expectedVersion)
	if err != nil {
		return err
	}
	n.TotalRounds = commit.TotalRounds
	n.CurrentProposedRate = commit.CurrentProposedRate
	n.Status = commit.Status
	n.Version++
	r.rounds[id] = append(r.rounds[id], *round)
	return nil
}

func (r *fakeNegotiationRepo) ApplyCounter(ctx context.Context, id string, expectedVersion int, roundID string, commit models.CounterCommit) error {
	n, err := r.checkVersion(id, expectedVersion)
	if err != nil {
		return err
	}
	rounds := r.rounds[id]
	for i := range rounds {
		if rounds[i].ID == roundID {
			rate := commit.CounterRate
			at := commit.RespondedAt
			rounds[i].CounterRate = &rate
			rounds[i].CounterNotes = commit.CounterNotes
			rounds[i].Status = models.RoundCountered
			rounds[i].RespondedAt = &at
			n.CurrentProposedRate = commit.CurrentProposedRate
			n.Status = commit.Status
			n.Version++
			return nil
		}
	}
	return negotiationRepo.ErrRoundNotFound
}

func (r *fakeNegotiationRepo) CloseNegotiation(ctx context.Context, id string, expectedVersion int, close models.NegotiationClose) error {
	n, err := r.checkVersion(id, expectedVersion)
	if err != nil {
		return err
	}
	n.Status = close.Status
	if close.AgreedRate != nil {
		n.AgreedRate = close.AgreedRate
		n.RateType = close.RateType
	}
	n.Margin = close.Margin
	n.MarginPercentage = close.MarginPercentage
	at := close.ClosedAt
	n.ClosedAt = &at
	n.ClosedReason = close.ClosedReason
	n.Version++
	return nil
}

func (r *fakeNegotiationRepo) LatestRound(ctx context.Context, id string) (*models.NegotiationRound, error) {
	rounds := r.rounds[id]
	if len(rounds) == 0 {
		return nil, negotiationRepo.ErrRoundNotFound
	}
	cp := rounds[len(rounds)-1]
	return &cp, nil
}

func (r *fakeNegotiationRepo) ListRounds(ctx context.Context, id string) ([]models.NegotiationRound, error) {
	return append([]models.NegotiationRound(nil), r.rounds[id]...), nil
}

type fakeDirectory struct {
	submissions map[string]*models.Submission
	candidates  map[string]*models.Candidate
}

func (d *fakeDirectory) GetSubmissionByID(ctx context.Context, id string) (*models.Submission, error) {
	s, ok := d.submissions[id]
	if !ok {
		return nil, directoryRepo.ErrSubmissionNotFound
	}
	return s, nil
}

func (d *fakeDirectory) GetCandidateByID(ctx context.Context, id string) (*models.Candidate, error) {
	c, ok := d.candidates[id]
	if !ok {
		return nil, directoryRepo.ErrCandidateNotFound
	}
	return c, nil
}

type fakeEmitter struct {
	events []models.Event
}

func (e *fakeEmitter) Emit(ctx context.Context, event models.Event) {
	e.events = append(e.events, event)
}

func newTestService() (*DefaultNegotiationService, *fakeNegotiationRepo, *fakeEmitter) {
	repo := newFakeNegotiationRepo()
	emitter := &fakeEmitter{}
	dir := &fakeDirectory{
		submissions: map[string]*models.Submission{
			"sub-1": {ID: "sub-1", CandidateID: "cand-1", RequirementID: "req-1", CustomerID: "cust-1"},
		},
		candidates: map[string]*models.Candidate{
			"cand-1": {ID: "cand-1", FullName: "Dana Smith", ExperienceYears: intPtr(7)},
		},
	}
	svc := &DefaultNegotiationService{
		Repo:      repo,
		Directory: dir,
		Alerts:    emitter,
		Logger:    zap.NewNop(),
		Defaults:  Defaults{MaxRounds: 5, TargetMarginPercentage: 20},
	}
	return svc, repo, emitter
}

func floatPtr(v float64) *float64 { return &v }

func TestInitiateAppliesDefaults(t *testing.T) {
	svc, _, emitter := newTestService()

	n, err := svc.Initiate(context.Background(), InitiateInput{
		SubmissionID: "sub-1",
		InitialOffer: 75,
		RateType:     models.RateHourly,
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	if n.Status != models.NegotiationInitiated {
		t.Errorf("status = %s, want initiated", n.Status)
	}
	if n.TotalRounds != 0 {
		t.Errorf("total rounds = %d, want 0", n.TotalRounds)
	}
	if n.MaxRounds != 5 || n.TargetMarginPercentage != 20 {
		t.Errorf("defaults not applied: max rounds %d, target margin %v", n.MaxRounds, n.TargetMarginPercentage)
	}
	if n.CandidateID != "cand-1" || n.CustomerID != "cust-1" {
		t.Errorf("directory fields not resolved: %+v", n)
	}
	if n.CurrentProposedRate != 75 || n.InitialProposedRate != 75 {
		t.Errorf("rates = (%v, %v), want both 75", n.InitialProposedRate, n.CurrentProposedRate)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != models.EventRateNegotiationStarted {
		t.Errorf("expected one negotiation_started event, got %+v", emitter.events)
	}
}

func TestInitiateUnknownSubmission(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Initiate(context.Background(), InitiateInput{
		SubmissionID: "sub-missing",
		InitialOffer: 75,
		RateType:     models.RateHourly,
	})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAddRoundNumberingIsGapless(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	for i := 1; i <= 3; i++ {
		round, err := svc.AddRound(ctx, n.ID, RoundInput{
			ProposedBy:   models.ProposedByRecruiter,
			ProposedRate: 75 + float64(i),
			RateType:     models.RateHourly,
		})
		if err != nil {
			t.Fatalf("AddRound %d: %v", i, err)
		}
		if round.RoundNumber != i {
			t.Errorf("round number = %d, want %d", round.RoundNumber, i)
		}
	}

	got, err := svc.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalRounds != 3 {
		t.Errorf("total rounds = %d, want 3", got.TotalRounds)
	}
	if got.Status != models.NegotiationInProgress {
		t.Errorf("status = %s, want in_progress", got.Status)
	}
	if got.CurrentProposedRate != 78 {
		t.Errorf("current rate = %v, want 78", got.CurrentProposedRate)
	}
}

func TestAddRoundEnforcesLimit(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{
		SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly, MaxRounds: 2,
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.AddRound(ctx, n.ID, RoundInput{
			ProposedBy: models.ProposedByRecruiter, ProposedRate: 80, RateType: models.RateHourly,
		}); err != nil {
			t.Fatalf("AddRound: %v", err)
		}
	}

	_, err = svc.AddRound(ctx, n.ID, RoundInput{
		ProposedBy: models.ProposedByRecruiter, ProposedRate: 80, RateType: models.RateHourly,
	})
	var limit *RoundLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected RoundLimitError, got %v", err)
	}
}

func TestAddRoundVersionConflict(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	repo.forceConflict = true
	_, err = svc.AddRound(ctx, n.ID, RoundInput{
		ProposedBy: models.ProposedByCandidate, ProposedRate: 85, RateType: models.RateHourly,
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestCounterWithoutRounds(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	_, err = svc.SubmitCounter(ctx, n.ID, CounterInput{CounterRate: 82})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for missing round, got %v", err)
	}
}

func TestFinalizeTwiceRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if _, err := svc.Finalize(ctx, n.ID, 85, models.RateHourly); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	_, err = svc.Finalize(ctx, n.ID, 99, models.RateHourly)
	var invalid *InvalidStateError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}

	got, err := svc.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AgreedRate == nil || *got.AgreedRate != 85 {
		t.Errorf("agreed rate = %v, want 85 preserved", got.AgreedRate)
	}
}

func TestTerminateRequiresTerminalStatusAndReason(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	var validation *ValidationError
	if _, err := svc.Terminate(ctx, n.ID, models.NegotiationAgreed, "nope"); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for agreed status, got %v", err)
	}
	if _, err := svc.Terminate(ctx, n.ID, models.NegotiationFailed, ""); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for empty reason, got %v", err)
	}

	terminated, err := svc.Terminate(ctx, n.ID, models.NegotiationCancelled, "position closed")
	if err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if terminated.Status != models.NegotiationCancelled || terminated.ClosedReason != "position closed" {
		t.Errorf("terminated = (%s, %q)", terminated.Status, terminated.ClosedReason)
	}
}

// TestNegotiationFlow walks the whole bargaining loop: open at 75 with the
// candidate wanting 85 under a 90 cap, counter at 82, check margin, ask for a
// balanced response, agree at 85.
func TestNegotiationFlow(t *testing.T) {
	svc, _, emitter := newTestService()
	ctx := context.Background()

	n, err := svc.Initiate(ctx, InitiateInput{
		SubmissionID:         "sub-1",
		InitialOffer:         75,
		RateType:             models.RateHourly,
		CandidateDesiredRate: floatPtr(85),
		CustomerMaxRate:      floatPtr(90),
		BillRate:             floatPtr(100),
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	if _, err := svc.AddRound(ctx, n.ID, RoundInput{
		ProposedBy: models.ProposedByRecruiter, ProposedRate: 75, RateType: models.RateHourly,
	}); err != nil {
		t.Fatalf("AddRound: %v", err)
	}

	round, err := svc.SubmitCounter(ctx, n.ID, CounterInput{CounterRate: 82, CounterNotes: "candidate expects more"})
	if err != nil {
		t.Fatalf("SubmitCounter: %v", err)
	}
	if round.Status != models.RoundCountered || round.CounterRate == nil || *round.CounterRate != 82 {
		t.Fatalf("counter not recorded: %+v", round)
	}

	eval, err := svc.EvaluateMargin(ctx, n.ID, 82)
	if err != nil {
		t.Fatalf("EvaluateMargin: %v", err)
	}
	if !almostEqual(eval.MarginPercentage, 18) || eval.IsAcceptable {
		t.Errorf("margin eval = (%v, %v), want (18, false)", eval.MarginPercentage, eval.IsAcceptable)
	}

	auto, err := svc.AutoNegotiate(ctx, n.ID, StrategyBalanced)
	if err != nil {
		t.Fatalf("AutoNegotiate: %v", err)
	}
	if auto.SuggestedResponseRate < 82 || auto.SuggestedResponseRate > 90 {
		t.Errorf("balanced suggestion %v outside [82, 90]", auto.SuggestedResponseRate)
	}

	final, err := svc.Finalize(ctx, n.ID, 85, models.RateHourly)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if final.Status != models.NegotiationAgreed || final.AgreedRate == nil || *final.AgreedRate != 85 {
		t.Fatalf("finalize result: %+v", final)
	}
	if final.MarginPercentage == nil || !almostEqual(*final.MarginPercentage, 15) {
		t.Errorf("margin percentage = %v, want 15 (bill 100, pay 85)", final.MarginPercentage)
	}

	var types []models.EventType
	for _, e := range emitter.events {
		types = append(types, e.EventType)
	}
	want := []models.EventType{
		models.EventRateNegotiationStarted,
		models.EventRateCounterOffered,
		models.EventRateAgreed,
	}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestSuggestRateUsesSeniority(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	// cand-1 has 7 years: senior bracket, 1.2 multiplier.
	n, err := svc.Initiate(ctx, InitiateInput{
		SubmissionID:    "sub-1",
		InitialOffer:    100,
		RateType:        models.RateHourly,
		CustomerMaxRate: floatPtr(110),
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}

	suggestion, err := svc.SuggestRate(ctx, n.ID)
	if err != nil {
		t.Fatalf("SuggestRate: %v", err)
	}
	// 100 * 1.2 = 120, clamped to the 110 cap.
	if !almostEqual(suggestion.SuggestedRate, 110) {
		t.Errorf("suggested rate = %v, want 110", suggestion.SuggestedRate)
	}
	if suggestion.ConfidenceScore != 0.75 {
		t.Errorf("confidence = %v, want 0.75", suggestion.ConfidenceScore)
	}
}

func TestAnalyticsAggregation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics on empty store: %v", err)
	}
	if a.TotalNegotiations != 0 || a.SuccessRate != 0 {
		t.Errorf("empty analytics = %+v", a)
	}

	first, err := svc.Initiate(ctx, InitiateInput{
		SubmissionID: "sub-1", InitialOffer: 75, RateType: models.RateHourly, BillRate: floatPtr(100),
	})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if _, err := svc.Finalize(ctx, first.ID, 80, models.RateHourly); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	second, err := svc.Initiate(ctx, InitiateInput{SubmissionID: "sub-1", InitialOffer: 70, RateType: models.RateHourly})
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if _, err := svc.Terminate(ctx, second.ID, models.NegotiationFailed, "budget pulled"); err != nil {
		t.Fatalf("Terminate: %v", err)
	}

	a, err = svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if a.TotalNegotiations != 2 || a.AgreedCount != 1 || a.FailedCount != 1 {
		t.Errorf("counts = %+v", a)
	}
	if !almostEqual(a.SuccessRate, 50) {
		t.Errorf("success rate = %v, want 50", a.SuccessRate)
	}
	if !almostEqual(a.AverageMarginPct, 20) {
		t.Errorf("avg margin = %v, want 20 (bill 100, agreed 80)", a.AverageMarginPct)
	}
}

func TestAnalyticsDaysToCloseCountsAgreedOnly(t *testing.T) {
	svc, repo, _ := newTestService()
	started := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	agreedClose := started.AddDate(0, 0, 2)
	repo.negotiations["n-agreed"] = &models.RateNegotiation{
		ID:        "n-agreed",
		Status:    models.NegotiationAgreed,
		StartedAt: started,
		ClosedAt:  &agreedClose,
	}
	failedClose := started.AddDate(0, 0, 10)
	repo.negotiations["n-failed"] = &models.RateNegotiation{
		ID:        "n-failed",
		Status:    models.NegotiationFailed,
		StartedAt: started,
		ClosedAt:  &failedClose,
	}

	a, err := svc.Analytics(context.Background())
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if !almostEqual(a.AverageDaysToClose, 2) {
		t.Errorf("avg days to close = %v, want 2 (failed negotiations excluded)", a.AverageDaysToClose)
	}
}
