package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/stockledger/internal/domain"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, subject)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestOneAlertPerProductPerDay(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewLowStockNotifier(mailer, func() []string { return []string{"owner@example.lk"} }, time.UTC)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }

	mouse := domain.StockLowEvent{ProductID: 1, ProductName: "Wireless Mouse", Quantity: 2, MinStockLevel: 5}
	n.Handle(mouse)
	n.Handle(mouse)
	n.Handle(domain.StockLowEvent{ProductID: 2, ProductName: "USB Cable", Quantity: 0, MinStockLevel: 5})
	assert.Equal(t, 2, mailer.count())

	now = now.Add(24 * time.Hour)
	n.Handle(mouse)
	assert.Equal(t, 3, mailer.count())
	assert.Equal(t, "Low stock: Wireless Mouse", mailer.sent[0])
}

func TestFailedSendIsRetried(t *testing.T) {
	mailer := &fakeMailer{fail: errors.New("relay down")}
	n := NewLowStockNotifier(mailer, func() []string { return []string{"owner@example.lk"} }, time.UTC)
	e := domain.StockLowEvent{ProductID: 1, ProductName: "Mouse", Quantity: 1, MinStockLevel: 5}

	n.Handle(e)
	mailer.fail = nil
	n.Handle(e)
	assert.Equal(t, 1, mailer.count())
}

func TestNoRecipientsOnlyLogs(t *testing.T) {
	mailer := &fakeMailer{}
	n := NewLowStockNotifier(mailer, nil, nil)
	n.Handle(domain.StockLowEvent{ProductID: 1})
	assert.Zero(t, mailer.count())
}

func TestSubscribeDeliversEvents(t *testing.T) {
	bus := EventBus.New()
	mailer := &fakeMailer{}
	n := NewLowStockNotifier(mailer, func() []string { return []string{"a@example.lk"} }, time.UTC)
	require.NoError(t, n.Subscribe(bus))

	bus.Publish(domain.TopicStockLow, domain.StockLowEvent{ProductID: 7, ProductName: "Lamp", Quantity: 1, MinStockLevel: 3})
	bus.WaitAsync()
	assert.Equal(t, 1, mailer.count())
}

func TestSplitRecipients(t *testing.T) {
	assert.Equal(t, []string{"a@x.lk", "b@x.lk"}, SplitRecipients(" a@x.lk; b@x.lk ,"))
	assert.Empty(t, SplitRecipients(""))
}

func TestLowStockMessage(t *testing.T) {
	subject, body := lowStockMessage(domain.StockLowEvent{ProductName: "Lamp", SKU: "LMP-1", Quantity: 0, MinStockLevel: 3})
	assert.Equal(t, "Low stock: Lamp", subject)
	assert.Contains(t, body, "SKU: LMP-1")
	assert.Contains(t, body, "out of stock")
}
