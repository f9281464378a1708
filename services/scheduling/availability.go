package scheduling

import "context"

// AvailabilityResult answers an availability probe per participant.
type AvailabilityResult struct {
	Available    bool            `json:"available"`
	Participants map[string]bool `json:"participants"`
	Message      string          `json:"message"`
}

// CheckAvailability probes participant availability for a slot. Calendar
// lookups live in the integrations service; until that wiring lands this
// reports every participant free so booking flows are not blocked.
// TODO: call the calendar integration once its availability endpoint ships.
func (s *DefaultSchedulingService) CheckAvailability(ctx context.Context, q AvailabilityQuery) (*AvailabilityResult, error) {
	if err := validateSlot(q.ScheduledDate, q.ScheduledTime, q.Timezone); err != nil {
		return nil, err
	}
	if len(q.Participants) == 0 {
		return nil, &ValidationError{Message: "at least one participant is required"}
	}

	participants := make(map[string]bool, len(q.Participants))
	for _, p := range q.Participants {
		participants[p] = true
	}
	return &AvailabilityResult{
		Available:    true,
		Participants: participants,
		Message:      "All participants available",
	}, nil
}
