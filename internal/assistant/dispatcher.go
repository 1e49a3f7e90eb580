package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

// Dispatch is the outcome of one branch. Results is never nil; Err
// records a collaborator failure that was absorbed.
type Dispatch struct {
	Branch  Branch
	Results []any
	Err     error
}

// Dispatcher runs the branch selected by Route against the travel service.
type Dispatcher struct {
	svc    travel.Service
	logger *zap.Logger
}

func NewDispatcher(svc travel.Service, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{svc: svc, logger: logger}
}

// Dispatch routes intent and runs the branch. It never fails the turn.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent, ents Entities) Dispatch {
	branch := Route(intent)
	out := Dispatch{Branch: branch, Results: []any{}}

	var err error
	switch branch {
	case BranchFlights:
		out.Results, err = d.flights(ctx, ents)
	case BranchHotels:
		out.Results, err = d.hotels(ctx, ents)
	case BranchBooking:
		out.Results, err = d.booking(ctx, ents)
	case BranchGeneral:
	}

	if err != nil {
		d.logger.Warn("dispatch failed", zap.String("branch", string(branch)), zap.Error(err))
		out.Results = []any{}
		out.Err = fmt.Errorf("%s branch: %w", branch, err)
	}
	return out
}

func (d *Dispatcher) flights(ctx context.Context, ents Entities) ([]any, error) {
	req := ents.FlightRequest()
	d.logger.Info("processing flight search", zap.String("origin", req.Origin), zap.String("destination", req.Destination))

	flights, err := d.svc.SearchFlights(ctx, req)
	if err != nil {
		return nil, err
	}
	results := make([]any, len(flights))
	for i, f := range flights {
		results[i] = f
	}
	return results, nil
}

func (d *Dispatcher) hotels(ctx context.Context, ents Entities) ([]any, error) {
	req := ents.HotelRequest()
	d.logger.Info("processing hotel search", zap.String("location", req.Location))

	hotels, err := d.svc.SearchHotels(ctx, req)
	if err != nil {
		return nil, err
	}
	results := make([]any, len(hotels))
	for i, h := range hotels {
		results[i] = h
	}
	return results, nil
}

func (d *Dispatcher) booking(ctx context.Context, ents Entities) ([]any, error) {
	bookingType := ents.Text(EntityBookingType)
	itemID := ents.Text(EntityBookingID)
	d.logger.Info("processing booking", zap.String("type", bookingType), zap.String("item", itemID))

	booking, err := d.svc.CreateBooking(ctx, bookingType, itemID, ents.Map())
	if err != nil {
		return nil, err
	}
	return []any{*booking}, nil
}
