package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"time"
)

type Status string

const (
	StatusCreated        Status = "created"
	StatusFindingRate    Status = "finding_rate"
	StatusWaitingPayment Status = "waiting_payment"
	StatusPaid           Status = "paid"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
)

// Движение по графу только вперёд, из failed и completed выхода нет.
var transitions = map[Status][]Status{
	StatusCreated:        {StatusFindingRate},
	StatusFindingRate:    {StatusWaitingPayment, StatusFailed},
	StatusWaitingPayment: {StatusPaid, StatusFailed},
	StatusPaid:           {StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type User struct {
	Wallet string
	Email  string
}

// Requisites заполняются ровно один раз при переходе в waiting_payment
// и после этого не продлеваются.
type Requisites struct {
	Address    string
	Amount     float64
	Exchanger  string
	ValidUntil time.Time
}

func (r Requisites) Expired(now time.Time) bool {
	return now.After(r.ValidUntil)
}

type Order struct {
	ID              string
	User            User
	Amount          float64
	Pair            string
	FromCurrency    string
	ToCurrency      string
	Status          Status
	CreatedAt       time.Time
	Requisites      *Requisites
	ExternalOrderID string
}

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotPayable  = errors.New("order is not awaiting payment")
	ErrOrderExpired     = errors.New("order requisites expired")
	ErrNoExchangerFound = errors.New("no suitable exchanger found")
	ErrInvalidOrder     = errors.New("invalid order data")
)

func (o *Order) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Order) Unmarshal(data []byte) error {
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	return dec.Decode(o)
}

func init() {
	gob.Register(Order{})
	gob.Register(Requisites{})
}
