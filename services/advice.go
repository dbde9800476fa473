package services

import (
	"context"

	"aquasmart/entities"
)

// IrrigationAdvice returns the backend's recommendation for all of the
// user's fields. Advice is secondary: on failure the result is empty and the
// error is only logged.
func (s *DashboardService) IrrigationAdvice(ctx context.Context, userID int) *entities.AllFieldsDecision {
	advice, err := s.backend.CheckAllFields(ctx, userID)
	if err != nil {
		s.log.Warnf("irrigation advice for user %d: %v", userID, err)
		return &entities.AllFieldsDecision{UserID: userID, Decisions: []entities.IrrigationDecision{}}
	}
	if advice.Decisions == nil {
		advice.Decisions = []entities.IrrigationDecision{}
	}
	return advice
}

// FieldAdvice is IrrigationAdvice for one field; nil on failure.
func (s *DashboardService) FieldAdvice(ctx context.Context, fieldID int) *entities.IrrigationDecision {
	d, err := s.backend.CheckIrrigation(ctx, fieldID)
	if err != nil {
		s.log.Warnf("irrigation advice for field %d: %v", fieldID, err)
		return nil
	}
	return d
}
