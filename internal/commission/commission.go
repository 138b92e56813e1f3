// Package commission turns ledger rows into delivery totals and the
// commission owed for them.
package commission

import (
	"context"

	"github.com/shopspring/decimal"

	"commission_tracker/internal/models"
)

// rates is the commission paid per delivery, by truck type.
var rates = map[models.TruckType]decimal.Decimal{
	models.TruckBKO: decimal.RequireFromString("3.50"),
	models.TruckPYW: decimal.RequireFromString("3.50"),
	models.TruckNYC: decimal.RequireFromString("3.50"),
	models.TruckGKY: decimal.RequireFromString("7.50"),
	models.TruckGSD: decimal.RequireFromString("7.50"),
	models.TruckAUA: decimal.RequireFromString("10.00"),
}

// Rate returns the per-delivery rate for t and whether t is known.
func Rate(t models.TruckType) (decimal.Decimal, bool) {
	r, ok := rates[t]
	return r, ok
}

// Rates returns a copy of the rate table as plain floats for responses.
func Rates() map[models.TruckType]float64 {
	out := make(map[models.TruckType]float64, len(rates))
	for t, r := range rates {
		out[t] = r.InexactFloat64()
	}
	return out
}

type Stats struct {
	TotalDeliveries   int                      `json:"total_deliveries"`
	TotalCommission   float64                  `json:"total_commission"`
	DeliveriesByTruck map[models.TruckType]int `json:"deliveries_by_truck"`
}

// Compute reduces a user's ledger rows. Every truck type is present in the
// result; rows with unknown truck types are skipped.
func Compute(records []models.DeliveryRecord) Stats {
	byTruck := make(map[models.TruckType]int, len(models.TruckTypes))
	for _, t := range models.TruckTypes {
		byTruck[t] = 0
	}

	total := 0
	commission := decimal.Zero
	for _, rec := range records {
		rate, ok := rates[rec.TruckType]
		if !ok {
			continue
		}
		total += rec.Count
		byTruck[rec.TruckType] = rec.Count
		commission = commission.Add(rate.Mul(decimal.NewFromInt(int64(rec.Count))))
	}

	return Stats{
		TotalDeliveries:   total,
		TotalCommission:   commission.RoundBank(2).InexactFloat64(),
		DeliveriesByTruck: byTruck,
	}
}

// LedgerReader is the slice of the delivery ledger the aggregator needs.
type LedgerReader interface {
	ListByUser(ctx context.Context, userID string) ([]models.DeliveryRecord, error)
}

// Aggregator computes stats straight from the ledger.
type Aggregator struct {
	ledger LedgerReader
}

func NewAggregator(ledger LedgerReader) *Aggregator {
	return &Aggregator{ledger: ledger}
}

func (a *Aggregator) ForUser(ctx context.Context, userID string) (Stats, error) {
	records, err := a.ledger.ListByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Compute(records), nil
}
