package models

import (
	"fmt"
	"time"
)

// Action — lifecycle stage of a position on the master terminal.
type Action string

const (
	ActionOpen   Action = "OPEN"
	ActionModify Action = "MODIFY"
	ActionClose  Action = "CLOSE"
)

// OrderType mirrors the MT5 order type codes the EA sends.
type OrderType int

const (
	OrderTypeBuy  OrderType = 0
	OrderTypeSell OrderType = 1
)

// PositionEvent — one position lifecycle notification from the master.
// Immutable once ingested: MODIFY/CLOSE arrive as new events sharing the
// ticket, never as updates to a stored record.
type PositionEvent struct {
	Ticket     int64     `json:"ticket"`
	Symbol     string    `json:"symbol"`
	Volume     float64   `json:"volume"`
	SL         float64   `json:"sl"` // 0 = not set
	TP         float64   `json:"tp"` // 0 = not set
	Type       OrderType `json:"type"`
	Magic      int64     `json:"magic"`
	Comment    string    `json:"comment"`
	Action     Action    `json:"action"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// EventRequest — inbound POST /events body. Pointer fields so a missing
// key is distinguishable from a legit zero (sl=0, type=0, magic=0).
type EventRequest struct {
	Ticket  *int64   `json:"ticket" validate:"required"`
	Symbol  *string  `json:"symbol" validate:"required"`
	Volume  *float64 `json:"volume" validate:"required,gt=0"`
	SL      *float64 `json:"sl" validate:"required"`
	TP      *float64 `json:"tp" validate:"required"`
	Type    *int     `json:"type" validate:"required,oneof=0 1"`
	Magic   *int64   `json:"magic" validate:"required"`
	Comment *string  `json:"comment" validate:"required"`
	Action  *string  `json:"action" validate:"required,oneof=OPEN MODIFY CLOSE"`
}

// ToEvent builds the immutable event. Call only after validation passed;
// IngestedAt is left zero and assigned by the ingestor.
func (r EventRequest) ToEvent() PositionEvent {
	return PositionEvent{
		Ticket:  *r.Ticket,
		Symbol:  *r.Symbol,
		Volume:  *r.Volume,
		SL:      *r.SL,
		TP:      *r.TP,
		Type:    OrderType(*r.Type),
		Magic:   *r.Magic,
		Comment: *r.Comment,
		Action:  Action(*r.Action),
	}
}

// FieldError — one entry of the 422 "detail" array.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError — 422 body: per-field details plus the raw request echoed
// back, so a broken EA payload can be diagnosed from the response alone.
type ValidationError struct {
	Detail []FieldError `json:"detail"`
	Body   string       `json:"body"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("event validation failed: %d field error(s)", len(e.Detail))
}
