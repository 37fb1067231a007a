// Package calc implements the price-estimation tool.
package calc

import (
	"fmt"
	"time"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
)

// Per-guest hourly rates by activity key.
var rates = map[string]float64{
	"vr":         300,
	"trampoline": 500,
	"nerf":       2500,
}

// defaultRate applies to unrecognized activity keys.
const defaultRate = 500

// Estimate is the result of one price calculation.
type Estimate struct {
	PerGuest float64
	Total    float64
}

// Calculate returns the price estimate for a party. Guests and hours
// must both be positive.
func Calculate(guests, hours int, activity string) (Estimate, error) {
	if guests <= 0 {
		return Estimate{}, fmt.Errorf("guests must be positive, got %d", guests)
	}
	if hours <= 0 {
		return Estimate{}, fmt.Errorf("hours must be positive, got %d", hours)
	}

	perGuest, ok := rates[activity]
	if !ok {
		perGuest = defaultRate
	}

	return Estimate{
		PerGuest: perGuest,
		Total:    float64(guests) * float64(hours) * perGuest,
	}, nil
}

// Record builds a storable calculator record from an estimate.
func Record(guests, hours int, activity string, est Estimate) models.CalcRecord {
	return models.CalcRecord{
		Guests:    guests,
		Hours:     hours,
		Activity:  activity,
		PerGuest:  est.PerGuest,
		Total:     est.Total,
		Timestamp: time.Now(),
	}
}

// Activities lists the known activity keys.
func Activities() []string {
	return []string{"vr", "trampoline", "nerf"}
}
