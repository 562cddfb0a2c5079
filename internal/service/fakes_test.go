package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/property-rental-booking/internal/gateway"
	"github.com/iliyamo/property-rental-booking/internal/model"
	"github.com/iliyamo/property-rental-booking/internal/queue"
	"github.com/iliyamo/property-rental-booking/internal/repository"
)

type fakeBookings struct {
	mu       sync.Mutex
	byID     map[string]*model.Booking
	statuses map[string]string
}

func newFakeBookings(bs ...*model.Booking) *fakeBookings {
	f := &fakeBookings{byID: map[string]*model.Booking{}, statuses: map[string]string{}}
	for _, b := range bs {
		f.byID[b.ID] = b
	}
	return f
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) GetByIDForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, repository.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range f.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status = status
	f.statuses[id] = status
	return nil
}

func (f *fakeBookings) DeleteForUser(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok || b.UserID != userID {
		return repository.ErrBookingNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePayments struct {
	mu         sync.Mutex
	rows       []*model.Payment
	updates    int
	attempts   map[string][]string
	attemptErr error
	createErr  error
}

func (f *fakePayments) Create(_ context.Context, p *model.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range f.rows {
		if r.TransactionID == p.TransactionID {
			return repository.ErrDuplicate
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakePayments) GetByTransactionID(_ context.Context, txRef string) (*model.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.TransactionID == txRef {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrPaymentNotFound
}

func (f *fakePayments) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			r.Status = status
			f.updates++
			return nil
		}
	}
	return repository.ErrPaymentNotFound
}

func (f *fakePayments) CountAttempts(_ context.Context, bookingID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts[bookingID]), nil
}

func (f *fakePayments) RecordAttempt(_ context.Context, bookingID, _, txRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attemptErr != nil {
		return f.attemptErr
	}
	for _, refs := range f.attempts {
		for _, r := range refs {
			if r == txRef {
				return repository.ErrDuplicate
			}
		}
	}
	if f.attempts == nil {
		f.attempts = map[string][]string{}
	}
	f.attempts[bookingID] = append(f.attempts[bookingID], txRef)
	return nil
}

func (f *fakePayments) all() []model.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Payment, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, *r)
	}
	return out
}

type fakeUsers map[string]model.User

func (f fakeUsers) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// fakeGateway answers with canned responses and records every request.
type fakeGateway struct {
	initResp   *gateway.InitializeResponse
	initErr    error
	verifyResp *gateway.VerifyResponse
	verifyErr  error

	initReqs   []gateway.InitializeRequest
	verifyRefs []string
}

func (g *fakeGateway) Initialize(_ context.Context, req gateway.InitializeRequest) (*gateway.InitializeResponse, error) {
	g.initReqs = append(g.initReqs, req)
	return g.initResp, g.initErr
}

func (g *fakeGateway) Verify(_ context.Context, txRef string) (*gateway.VerifyResponse, error) {
	g.verifyRefs = append(g.verifyRefs, txRef)
	return g.verifyResp, g.verifyErr
}

func initOK(url string) *gateway.InitializeResponse {
	var r gateway.InitializeResponse
	raw := json.RawMessage(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"` + url + `"}}`)
	if err := json.Unmarshal(raw, &r); err != nil {
		panic(err)
	}
	r.Raw = raw
	return &r
}

func initFailed(body string) *gateway.InitializeResponse {
	var r gateway.InitializeResponse
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		panic(err)
	}
	r.Raw = json.RawMessage(body)
	return &r
}

func verifyResp(body string) *gateway.VerifyResponse {
	var r gateway.VerifyResponse
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		panic(err)
	}
	r.Raw = json.RawMessage(body)
	return &r
}

type fakePublisher struct {
	events []queue.PaymentStatusChangedEvent
	err    error
}

func (p *fakePublisher) PublishPaymentStatus(_ context.Context, ev queue.PaymentStatusChangedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

var errBoom = errors.New("boom")
