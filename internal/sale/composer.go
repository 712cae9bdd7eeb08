package sale

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/pricing"
	"github.com/talkincode/stockledger/pkg/common"
)

// Step names a composer state
type Step string

const (
	StepSelectingProduct     Step = "selecting_product"
	StepEnteringCustomerInfo Step = "entering_customer_info"
	StepReviewingPayment     Step = "reviewing_payment"
	StepCompleted            Step = "completed"
	StepPartiallyCommitted   Step = "partially_committed"
	StepCancelled            Step = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Step) Terminal() bool {
	return s == StepCompleted || s == StepPartiallyCommitted || s == StepCancelled
}

// State is one of the composer state types below.
type State interface {
	Step() Step
	isState()
}

// Selection is a chosen product and quantity.
type Selection struct {
	Product  domain.Product
	Quantity int
}

// Payment inputs of the review step.
type Payment struct {
	Method   domain.PaymentMethod
	Status   domain.PaymentStatus
	Discount decimal.Decimal
	Notes    string
}

// DefaultPayment is what the review step starts with.
func DefaultPayment() Payment {
	return Payment{Method: domain.PaymentCash, Status: domain.PaymentCompleted, Discount: decimal.Zero}
}

// kept holds data entered in later steps while the user goes back.
type kept struct {
	selection *Selection
	customer  *Customer
	payment   *Payment
}

// SelectingProduct waits for a product and quantity.
type SelectingProduct struct {
	kept kept
}

// EnteringCustomerInfo has a valid selection and waits for optional contact data.
type EnteringCustomerInfo struct {
	Selection Selection
	kept      kept
}

// ReviewingPayment has everything needed to confirm. Quote always matches
// the current inputs.
type ReviewingPayment struct {
	Selection Selection
	Customer  Customer
	Payment   Payment
	Quote     pricing.Quote
}

// Completed holds only the recorded sale.
type Completed struct {
	Sale *domain.Sale
}

// PartiallyCommitted holds a sale whose stock decrement is still owed.
type PartiallyCommitted struct {
	Sale  *domain.Sale
	Cause error
}

// Cancelled carries nothing.
type Cancelled struct{}

func (SelectingProduct) Step() Step     { return StepSelectingProduct }
func (EnteringCustomerInfo) Step() Step { return StepEnteringCustomerInfo }
func (ReviewingPayment) Step() Step     { return StepReviewingPayment }
func (Completed) Step() Step            { return StepCompleted }
func (PartiallyCommitted) Step() Step   { return StepPartiallyCommitted }
func (Cancelled) Step() Step            { return StepCancelled }

func (SelectingProduct) isState()     {}
func (EnteringCustomerInfo) isState() {}
func (ReviewingPayment) isState()     {}
func (Completed) isState()            {}
func (PartiallyCommitted) isState()   {}
func (Cancelled) isState()            {}

// Completer finishes a sale. *Guard is the production implementation.
type Completer interface {
	CompleteSale(ctx context.Context, req Request) (*domain.Sale, error)
	Calculator() pricing.Calculator
}

// Composer drives one sale through its steps. It never reads or writes a
// store itself; Confirm is the only call that reaches the Completer.
// A composer records at most one sale: every Confirm attempt carries the same
// sale id.
type Composer struct {
	mu        sync.Mutex
	state     State
	completer Completer
	inFlight  bool
	saleID    int64
}

func NewComposer(completer Completer) *Composer {
	return &Composer{state: SelectingProduct{}, completer: completer}
}

// State returns the current state value.
func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InFlight reports whether a confirmation is running.
func (c *Composer) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// lock takes the mutex and refuses while a confirmation is running.
func (c *Composer) lock() error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrCompletionInFlight
	}
	return nil
}

func checkSelection(product domain.Product, quantity int) error {
	if product.ID == 0 {
		return invalid("product_id", "a product must be selected")
	}
	if !product.IsActive {
		return invalid("product_id", "product %q is not active", product.Name)
	}
	if product.Quantity <= 0 {
		return invalid("product_id", "product %q is out of stock", product.Name)
	}
	if quantity < 1 || quantity > product.Quantity {
		return invalid("quantity", "must be between 1 and %d", product.Quantity)
	}
	return nil
}

// SelectProduct moves to EnteringCustomerInfo when product and quantity are valid.
func (c *Composer) SelectProduct(product domain.Product, quantity int) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	cur, ok := c.state.(SelectingProduct)
	if !ok {
		return ErrInvalidTransition
	}
	if err := checkSelection(product, quantity); err != nil {
		return err
	}
	next := EnteringCustomerInfo{Selection: Selection{Product: product, Quantity: quantity}, kept: cur.kept}
	next.kept.selection = nil
	c.state = next
	return nil
}

// SetCustomer moves to ReviewingPayment with the default or previously
// entered payment and a fresh quote.
func (c *Composer) SetCustomer(customer Customer) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	cur, ok := c.state.(EnteringCustomerInfo)
	if !ok {
		return ErrInvalidTransition
	}
	if err := customer.Validate(); err != nil {
		return err
	}
	payment := DefaultPayment()
	if cur.kept.payment != nil {
		payment = *cur.kept.payment
	}
	quote, err := c.quote(cur.Selection, payment)
	if err != nil {
		return err
	}
	c.state = ReviewingPayment{Selection: cur.Selection, Customer: customer, Payment: payment, Quote: quote}
	return nil
}

// UpdatePayment changes the payment inputs. The discount is clamped to [0, total].
func (c *Composer) UpdatePayment(p Payment) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	cur, ok := c.state.(ReviewingPayment)
	if !ok {
		return ErrInvalidTransition
	}
	if p.Method == "" {
		p.Method = cur.Payment.Method
	}
	if p.Status == "" {
		p.Status = cur.Payment.Status
	}
	if !p.Method.Valid() {
		return invalid("payment_method", "unknown payment method %q", p.Method)
	}
	if !p.Status.Valid() {
		return invalid("payment_status", "unknown payment status %q", p.Status)
	}
	quote, err := c.quote(cur.Selection, p)
	if err != nil {
		return err
	}
	p.Discount = quote.Discount
	cur.Payment = p
	cur.Quote = quote
	c.state = cur
	return nil
}

// UpdateQuantity changes the quantity during review.
func (c *Composer) UpdateQuantity(quantity int) error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	cur, ok := c.state.(ReviewingPayment)
	if !ok {
		return ErrInvalidTransition
	}
	if err := checkSelection(cur.Selection.Product, quantity); err != nil {
		return err
	}
	cur.Selection.Quantity = quantity
	quote, err := c.quote(cur.Selection, cur.Payment)
	if err != nil {
		return err
	}
	cur.Payment.Discount = quote.Discount
	cur.Quote = quote
	c.state = cur
	return nil
}

// Back returns to the previous step, keeping what was entered.
func (c *Composer) Back() error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	switch cur := c.state.(type) {
	case ReviewingPayment:
		customer, payment := cur.Customer, cur.Payment
		c.state = EnteringCustomerInfo{
			Selection: cur.Selection,
			kept:      kept{customer: &customer, payment: &payment},
		}
	case EnteringCustomerInfo:
		selection := cur.Selection
		k := cur.kept
		k.selection = &selection
		c.state = SelectingProduct{kept: k}
	default:
		return ErrInvalidTransition
	}
	return nil
}

// Cancel discards the draft. It performs no store calls.
func (c *Composer) Cancel() error {
	if err := c.lock(); err != nil {
		return err
	}
	defer c.mu.Unlock()
	if c.state.Step().Terminal() {
		return ErrInvalidTransition
	}
	c.state = Cancelled{}
	return nil
}

// Confirm hands the reviewed sale to the Completer. At most one Confirm runs
// at a time. Stock and availability failures keep the review step so the user
// can retry; a partial commit ends the flow.
func (c *Composer) Confirm(ctx context.Context) (*domain.Sale, error) {
	if err := c.lock(); err != nil {
		return nil, err
	}
	cur, ok := c.state.(ReviewingPayment)
	if !ok {
		c.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if c.saleID == 0 {
		c.saleID = common.UUIDint64()
	}
	saleID := c.saleID
	c.inFlight = true
	c.mu.Unlock()

	record, err := c.completer.CompleteSale(ctx, Request{
		SaleID:        saleID,
		ProductID:     cur.Selection.Product.ID,
		Quantity:      cur.Selection.Quantity,
		Customer:      cur.Customer,
		PaymentMethod: cur.Payment.Method,
		PaymentStatus: cur.Payment.Status,
		Discount:      cur.Payment.Discount,
		Notes:         cur.Payment.Notes,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false

	var pc *PartialCommitError
	switch {
	case err == nil:
		c.state = Completed{Sale: record}
		return record, nil
	case errors.As(err, &pc):
		c.state = PartiallyCommitted{Sale: pc.Sale, Cause: pc.Cause}
		return pc.Sale, err
	}

	var se *StockError
	if errors.As(err, &se) {
		cur.Selection.Product.Quantity = se.Available
		c.state = cur
	}
	return nil, err
}

func (c *Composer) quote(sel Selection, p Payment) (pricing.Quote, error) {
	q, err := c.completer.Calculator().Quote(sel.Product.Price, sel.Quantity, p.Method, p.Discount)
	if err != nil {
		return pricing.Quote{}, invalid("pricing", err.Error())
	}
	return q, nil
}

// View is a serializable snapshot of the composer.
type View struct {
	Step     Step                 `json:"step"`
	InFlight bool                 `json:"in_flight"`
	Product  *domain.Product      `json:"product,omitempty"`
	Quantity int                  `json:"quantity,omitempty"`
	Customer *Customer            `json:"customer,omitempty"`
	Method   domain.PaymentMethod `json:"payment_method,omitempty"`
	Status   domain.PaymentStatus `json:"payment_status,omitempty"`
	Notes    string               `json:"notes,omitempty"`
	Quote    *pricing.Quote       `json:"quote,omitempty"`
	Sale     *domain.Sale         `json:"sale,omitempty"`
	Message  string               `json:"message,omitempty"`
}

// Snapshot returns the current View.
func (c *Composer) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{Step: c.state.Step(), InFlight: c.inFlight}
	switch s := c.state.(type) {
	case SelectingProduct:
		if s.kept.selection != nil {
			p := s.kept.selection.Product
			v.Product, v.Quantity = &p, s.kept.selection.Quantity
		}
	case EnteringCustomerInfo:
		p := s.Selection.Product
		v.Product, v.Quantity = &p, s.Selection.Quantity
		v.Customer = s.kept.customer
	case ReviewingPayment:
		p, cust, q := s.Selection.Product, s.Customer, s.Quote
		v.Product, v.Quantity, v.Customer, v.Quote = &p, s.Selection.Quantity, &cust, &q
		v.Method, v.Status, v.Notes = s.Payment.Method, s.Payment.Status, s.Payment.Notes
	case Completed:
		v.Sale = s.Sale
	case PartiallyCommitted:
		v.Sale = s.Sale
		v.Message = ErrPartialCommit.Error()
	}
	return v
}
