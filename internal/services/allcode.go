package services

import (
	"context"
	"fmt"

	"clinic-booking-server/internal/models"
)

// AllcodeService resolves reference codes from an in-memory snapshot taken
// at startup. The table is administered externally and read-only here, so
// the snapshot never refreshes during the process lifetime.
type AllcodeService struct {
	repo  AllcodeRepo
	codes map[string]map[string]models.Allcode // type -> keyMap -> code
}

// NewAllcodeService creates a new AllcodeService.
func NewAllcodeService(repo AllcodeRepo) *AllcodeService {
	return &AllcodeService{repo: repo}
}

// Load snapshots the reference-code table and verifies that every code the
// engine relies on (booking statuses, time slots, roles) actually exists.
// A missing code is a deployment error, not something to discover on the
// first booking.
func (s *AllcodeService) Load(ctx context.Context) error {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load reference codes: %w", err)
	}

	codes := make(map[string]map[string]models.Allcode)
	for _, c := range all {
		if codes[c.Type] == nil {
			codes[c.Type] = make(map[string]models.Allcode)
		}
		codes[c.Type][c.KeyMap] = c
	}
	s.codes = codes

	for _, st := range models.BookingStatuses() {
		if _, ok := codes[models.CodeTypeStatus][string(st)]; !ok {
			return fmt.Errorf("reference code %s/%s missing", models.CodeTypeStatus, st)
		}
	}
	for _, tt := range models.TimeTypes() {
		if _, ok := codes[models.CodeTypeTime][string(tt)]; !ok {
			return fmt.Errorf("reference code %s/%s missing", models.CodeTypeTime, tt)
		}
	}
	for _, rc := range models.RoleCodes() {
		if _, ok := codes[models.CodeTypeRole][rc]; !ok {
			return fmt.Errorf("reference code %s/%s missing", models.CodeTypeRole, rc)
		}
	}

	return nil
}

// Resolve returns the display values for a code, or ErrCodeNotFound.
func (s *AllcodeService) Resolve(codeType, keyMap string) (*models.Allcode, error) {
	c, ok := s.codes[codeType][keyMap]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", models.ErrCodeNotFound, codeType, keyMap)
	}
	return &c, nil
}

// ListByType returns all codes of one type, or every code when the type is
// empty.
func (s *AllcodeService) ListByType(codeType string) []models.Allcode {
	var out []models.Allcode
	if codeType != "" {
		for _, c := range s.codes[codeType] {
			out = append(out, c)
		}
		return out
	}
	for _, byKey := range s.codes {
		for _, c := range byKey {
			out = append(out, c)
		}
	}
	return out
}
