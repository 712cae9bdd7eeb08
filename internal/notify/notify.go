// Package notify sends low stock alerts.
package notify

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/stockledger/config"
	"github.com/talkincode/stockledger/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer delivers a plain text message.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.NotifyConfig) *SMTPMailer {
	port := cfg.SmtpPort
	if port == 0 {
		port = 587
	}
	from := cfg.From
	if from == "" {
		from = cfg.SmtpUser
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SmtpHost, port, cfg.SmtpUser, cfg.SmtpPass),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// SplitRecipients parses a comma or semicolon separated address list.
func SplitRecipients(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LowStockNotifier mails at most one alert per product per local day.
// Without a mailer or recipients the alert is only logged.
type LowStockNotifier struct {
	mailer     Mailer
	recipients func() []string
	loc        *time.Location
	now        func() time.Time

	mu   sync.Mutex
	sent map[int64]string
}

func NewLowStockNotifier(mailer Mailer, recipients func() []string, loc *time.Location) *LowStockNotifier {
	if loc == nil {
		loc = time.Local
	}
	if recipients == nil {
		recipients = func() []string { return nil }
	}
	return &LowStockNotifier{
		mailer:     mailer,
		recipients: recipients,
		loc:        loc,
		now:        time.Now,
		sent:       make(map[int64]string),
	}
}

// Subscribe registers the notifier for stock:low events.
func (n *LowStockNotifier) Subscribe(bus EventBus.Bus) error {
	return bus.SubscribeAsync(domain.TopicStockLow, n.Handle, false)
}

// Handle processes one event.
func (n *LowStockNotifier) Handle(e domain.StockLowEvent) {
	day := n.now().In(n.loc).Format("2006-01-02")
	n.mu.Lock()
	if n.sent[e.ProductID] == day {
		n.mu.Unlock()
		return
	}
	n.sent[e.ProductID] = day
	n.mu.Unlock()

	zap.L().Warn("product stock is low",
		zap.Int64("product_id", e.ProductID),
		zap.String("product", e.ProductName),
		zap.Int("quantity", e.Quantity),
		zap.Int("min_stock_level", e.MinStockLevel),
		zap.String("namespace", "notify"),
	)

	to := n.recipients()
	if n.mailer == nil || len(to) == 0 {
		return
	}
	subject, body := lowStockMessage(e)
	if err := n.mailer.Send(to, subject, body); err != nil {
		zap.L().Error("send low stock mail failed",
			zap.Int64("product_id", e.ProductID),
			zap.Error(err),
			zap.String("namespace", "notify"),
		)
		// allow another attempt on the next sale
		n.mu.Lock()
		delete(n.sent, e.ProductID)
		n.mu.Unlock()
	}
}

func lowStockMessage(e domain.StockLowEvent) (string, string) {
	subject := fmt.Sprintf("Low stock: %s", e.ProductName)
	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", e.ProductName)
	if e.SKU != "" {
		fmt.Fprintf(&b, "SKU: %s\n", e.SKU)
	}
	fmt.Fprintf(&b, "On hand: %d\n", e.Quantity)
	fmt.Fprintf(&b, "Minimum stock level: %d\n", e.MinStockLevel)
	if e.Quantity <= 0 {
		b.WriteString("\nThe product is out of stock.\n")
	}
	return subject, b.String()
}
