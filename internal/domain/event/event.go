// Package event defines the domain events the inventory emits after a change
// is committed.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys
const (
	RollCreatedKey    = "roll.created"
	SaleRegisteredKey = "sale.registered"
)

// Event is anything that can be published.
type Event interface {
	RoutingKey() string
}

// Publisher delivers events to interested parties.
//
// Publishing happens after commit and is best effort: a failure never undoes
// the change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Envelope holds the fields every event carries.
type Envelope struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newEnvelope() Envelope {
	return Envelope{EventID: uuid.NewString(), OccurredAt: time.Now().UTC()}
}

// RollSnapshot is the roll state carried by RollCreated.
type RollSnapshot struct {
	ID             uint            `json:"id"`
	FabricType     string          `json:"fabric_type"`
	Color          string          `json:"color"`
	OriginalLength decimal.Decimal `json:"original_length"`
	CurrentLength  decimal.Decimal `json:"current_length"`
	EntryDate      string          `json:"entry_date"`
}

// RollCreated is emitted when a roll enters the inventory.
type RollCreated struct {
	Envelope
	Roll RollSnapshot `json:"roll"`
}

func NewRollCreated(roll RollSnapshot) RollCreated {
	return RollCreated{Envelope: newEnvelope(), Roll: roll}
}

func (RollCreated) RoutingKey() string { return RollCreatedKey }

// SaleRegistered is emitted when a sale has been committed.
type SaleRegistered struct {
	Envelope
	SaleID         uint            `json:"sale_id"`
	RollID         uint            `json:"roll_id"`
	MetersSold     decimal.Decimal `json:"meters_sold"`
	RemainingStock decimal.Decimal `json:"remaining_stock"`
	SaleDate       string          `json:"sale_date"`
}

func NewSaleRegistered(saleID, rollID uint, metersSold, remaining decimal.Decimal, saleDate string) SaleRegistered {
	return SaleRegistered{
		Envelope:       newEnvelope(),
		SaleID:         saleID,
		RollID:         rollID,
		MetersSold:     metersSold,
		RemainingStock: remaining,
		SaleDate:       saleDate,
	}
}

func (SaleRegistered) RoutingKey() string { return SaleRegisteredKey }
