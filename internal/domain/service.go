package domain

import (
	"fmt"
	"sort"
	"time"
)

// Service is a bookable service offered by a company.
type Service struct {
	ID              int64
	CompanyID       int64
	Name            string
	Price           float64
	DurationMinutes int
	Active          bool
	Phases          []ServicePhase // ordered, may be empty
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServicePhase is one ordered step of a service. Phases with
// RequiresAttention occupy the worker; the rest are breaks (dye setting,
// drying) during which the worker is free but the client is not.
type ServicePhase struct {
	ID                int64
	ServiceID         int64
	Order             int // unique, contiguous, starting at 1
	Name              string
	DurationMinutes   int
	RequiresAttention bool
}

// HasPhases reports whether the service is decomposed into phases.
func (s *Service) HasPhases() bool {
	return len(s.Phases) > 0
}

// EffectiveDurationMinutes is the duration an appointment for this service
// actually occupies. For phased services the phases are authoritative, so a
// mismatching DurationMinutes never truncates or pads the expansion.
func (s *Service) EffectiveDurationMinutes() int {
	if !s.HasPhases() {
		return s.DurationMinutes
	}
	total := 0
	for _, p := range s.Phases {
		total += p.DurationMinutes
	}
	return total
}

// SortedPhases returns the phases ordered by Order ascending.
func (s *Service) SortedPhases() []ServicePhase {
	phases := make([]ServicePhase, len(s.Phases))
	copy(phases, s.Phases)
	sort.Slice(phases, func(i, j int) bool { return phases[i].Order < phases[j].Order })
	return phases
}

// ValidatePhases checks that phase orders are unique and contiguous from 1
// and that every phase has a positive duration.
func ValidatePhases(phases []ServicePhase) error {
	if len(phases) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(phases))
	for _, p := range phases {
		if p.DurationMinutes <= 0 {
			return fmt.Errorf("%w: phase %q has non-positive duration", ErrInvalidPhaseOrder, p.Name)
		}
		if p.Order < 1 || p.Order > len(phases) || seen[p.Order] {
			return fmt.Errorf("%w: phase %q has order %d", ErrInvalidPhaseOrder, p.Name, p.Order)
		}
		seen[p.Order] = true
	}
	return nil
}
