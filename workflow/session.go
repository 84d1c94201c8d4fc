package workflow

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/printforge/printforge-api/mesh"
	"github.com/printforge/printforge-api/models"
	"github.com/printforge/printforge-api/pricing"
	"github.com/printforge/printforge-api/services"
	"github.com/printforge/printforge-api/shipping"
)

// Stage is the current position in the order-intake flow. Transitions are
// strictly sequential; the only backward move is review to configuration.
type Stage string

const (
	StageAwaitingUpload        Stage = "awaiting_upload"
	StageAwaitingConfiguration Stage = "awaiting_configuration"
	StageAwaitingReview        Stage = "awaiting_review"
)

// MaxQuantity is the largest order size the intake flow accepts.
const MaxQuantity = 100

// OrderSelections is the working state the user edits across stages. It is
// owned exclusively by one session and reset only by starting a new one.
type OrderSelections struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Quantity  int    `json:"quantity"`
	RushOrder bool   `json:"rush_order"`
}

// Snapshot is a read-only view of the session for the UI.
type Snapshot struct {
	ID           uuid.UUID                    `json:"id"`
	Stage        Stage                        `json:"stage"`
	Selections   OrderSelections              `json:"selections"`
	MaterialID   *uint                        `json:"material_id,omitempty"`
	Estimate     *mesh.GeometryEstimate       `json:"estimate,omitempty"`
	WeightG      float64                      `json:"weight_g,omitempty"`
	Quote        *pricing.Quote               `json:"quote,omitempty"`
	Rates        []pricing.ShippingRateOption `json:"rates,omitempty"`
	SelectedRate *pricing.ShippingRateOption  `json:"selected_rate,omitempty"`
	Priced       *pricing.PricedOrder         `json:"priced,omitempty"`
	LastError    string                       `json:"last_error,omitempty"`
}

// Session drives one quoting flow from upload to checkout handoff. All
// state is guarded by the store's per-session lock; there is exactly one
// active writer at a time. External calls are issued outside the lock, and
// their completions are discarded when a newer request has superseded them.
type Session struct {
	ID uuid.UUID

	stage      Stage
	selections OrderSelections
	material   *models.Material

	estimate *mesh.GeometryEstimate
	weightG  float64

	quote    *pricing.Quote
	rates    []pricing.ShippingRateOption
	selected *pricing.ShippingRateOption
	priced   *pricing.PricedOrder

	lastErr string
	taxRate float64

	// Monotonic per-operation tokens. A completion whose token no longer
	// matches the current one lost the race to a newer request.
	uploadSeq uint64
	quoteSeq  uint64
}

// NewSession creates a fresh session parked in the upload stage.
func NewSession() *Session {
	return &Session{
		ID:         uuid.New(),
		stage:      StageAwaitingUpload,
		selections: OrderSelections{Quantity: 1},
		taxRate:    pricing.DefaultTaxRate,
	}
}

// Stage returns the current stage.
func (s *Session) Stage() Stage {
	return s.stage
}

// Snapshot returns a copy of the session state for display.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.ID,
		Stage:      s.stage,
		Selections: s.selections,
		Estimate:   s.estimate,
		WeightG:    s.weightG,
		Quote:      s.quote,
		Rates:      s.rates,
		Priced:     s.priced,
		LastError:  s.lastErr,
	}
	if s.material != nil {
		id := s.material.ID
		snap.MaterialID = &id
	}
	if s.selected != nil {
		selected := *s.selected
		snap.SelectedRate = &selected
	}
	return snap
}

// Upload parses an uploaded model buffer and, on success, moves the
// session to the configuration stage. A parse failure keeps the session
// where it is; no partial state is committed. A slow parse that completes
// after a newer upload has started is discarded. Callers that can release
// the session lock around the parse should use SessionStore.Upload.
func (s *Session) Upload(data []byte) error {
	token := s.beginUpload()
	estimate, err := mesh.Parse(data)
	return s.completeUpload(token, estimate, err)
}

// beginUpload claims the upload token for a new attempt, superseding any
// still-in-flight parse.
func (s *Session) beginUpload() uint64 {
	s.uploadSeq++
	s.lastErr = ""
	return s.uploadSeq
}

// completeUpload applies a finished parse unless a newer upload has
// claimed the token in the meantime. Success always lands the session in
// the configuration stage: a model swapped in during review invalidates
// the quote, so review must be re-earned through a fresh quote transition.
func (s *Session) completeUpload(token uint64, estimate *mesh.GeometryEstimate, parseErr error) error {
	if token != s.uploadSeq {
		// Superseded by a newer upload; drop this result entirely.
		return nil
	}
	if parseErr != nil {
		s.lastErr = parseErr.Error()
		return parseErr
	}

	s.estimate = estimate
	s.weightG = 0
	s.quote = nil
	s.rates = nil
	s.selected = nil
	s.priced = nil
	s.stage = StageAwaitingConfiguration
	return nil
}

// SetMaterial records the material selection.
func (s *Session) SetMaterial(material *models.Material) {
	s.material = material
}

// Material returns the current material selection, or nil.
func (s *Session) Material() *models.Material {
	return s.material
}

// UpdateSelections merges the user's edits into the working state.
// Quantity is validated against the 1..MaxQuantity range.
func (s *Session) UpdateSelections(updated OrderSelections) error {
	if updated.Quantity < 1 || updated.Quantity > MaxQuantity {
		return missingField("quantity", "Quantity must be between 1 and 100")
	}
	s.selections = updated
	return nil
}

// Selections returns a copy of the current working state.
func (s *Session) Selections() OrderSelections {
	return s.selections
}

// quoteInputs captures everything the external quote and rate calls need,
// so they can run without holding the session lock.
type quoteInputs struct {
	token    uint64
	weightG  float64
	quoteReq services.QuoteRequest
	rateReq  services.RateRequest
}

// RequestQuote runs the configuration-to-review transition in one call.
// Callers that can release the session lock around the external calls
// should use SessionStore.RequestQuote instead.
func (s *Session) RequestQuote(ctx context.Context) error {
	in, err := s.beginQuote()
	if err != nil {
		return err
	}
	quote, rates, fetchErr := fetchQuote(ctx, in)
	return s.completeQuote(in, quote, rates, fetchErr)
}

// beginQuote validates the transition's preconditions and claims the
// quote token, superseding any still-in-flight request.
func (s *Session) beginQuote() (quoteInputs, error) {
	s.lastErr = ""

	if s.stage != StageAwaitingConfiguration {
		return quoteInputs{}, missingField("stage", "A model must be uploaded before requesting a quote")
	}
	if s.material == nil {
		return quoteInputs{}, s.fail(missingField("material", "Please select a material"))
	}
	if s.selections.ZipCode == "" {
		return quoteInputs{}, s.fail(missingField("zip_code", "Please enter a ZIP code"))
	}
	if s.estimate == nil {
		return quoteInputs{}, s.fail(missingField("model", "Please upload a model file"))
	}

	s.quoteSeq++

	weightG := s.estimate.WeightG
	if weightG <= 0 {
		weightG = s.estimate.VolumeCm3 * s.material.DensityGCm3
	}

	return quoteInputs{
		token:   s.quoteSeq,
		weightG: weightG,
		quoteReq: services.QuoteRequest{
			ZipCode:      s.selections.ZipCode,
			FilamentType: s.material.Name,
			Quantity:     s.selections.Quantity,
			RushOrder:    s.selections.RushOrder,
			Volume:       s.estimate.VolumeCm3,
			Weight:       weightG,
		},
		rateReq: services.RateRequest{
			ZipCode:   s.selections.ZipCode,
			Weight:    shippingWeightLbs(weightG),
			Length:    services.DefaultParcelInches,
			Width:     services.DefaultParcelInches,
			Height:    services.DefaultParcelInches,
			RushOrder: s.selections.RushOrder,
		},
	}, nil
}

// fetchQuote issues the external calls for one claimed transition. The
// quote fetch is fatal to the transition; the rate fetch is not. The two
// calls are sequential on purpose: the rate payload depends on the weight
// the quote step establishes. No session state is touched here.
func fetchQuote(ctx context.Context, in quoteInputs) (*pricing.Quote, []pricing.ShippingRateOption, error) {
	quote, err := services.GetQuoteService().GetQuote(ctx, in.quoteReq)
	if err != nil {
		return nil, nil, err
	}

	// Rate lookup failures degrade to standard shipping; they never block
	// reaching review.
	rates, err := services.GetRateService().GetRates(ctx, in.rateReq)
	if err != nil {
		log.Printf("shipping rate lookup failed, proceeding with standard shipping: %v", err)
		rates = nil
	}
	return quote, rates, nil
}

// completeQuote applies a fetched quote and rate list, auto-selects the
// first rate option and advances to review, unless a newer quote request
// has claimed the token in the meantime. A stale completion is dropped
// whole: neither its result nor its error reaches the session.
func (s *Session) completeQuote(in quoteInputs, quote *pricing.Quote, rates []pricing.ShippingRateOption, fetchErr error) error {
	if in.token != s.quoteSeq {
		return nil // superseded by a newer quote request
	}
	if fetchErr != nil {
		return s.fail(fetchErr)
	}

	s.weightG = in.weightG
	s.quote = quote
	s.rates = rates
	s.selected = nil
	if len(rates) > 0 {
		first := rates[0]
		s.selected = &first
	}
	s.stage = StageAwaitingReview
	return s.recompute()
}

// SelectShippingRate switches the selected rate option. This is a lateral
// update within the review stage, not a transition; only the shipping,
// tax and total lines of the priced view move.
func (s *Session) SelectShippingRate(serviceCode string) error {
	s.lastErr = ""

	if s.stage != StageAwaitingReview {
		return missingField("stage", "No quote to review yet")
	}
	for _, rate := range s.rates {
		if rate.ServiceCode == serviceCode {
			selected := rate
			s.selected = &selected
			return s.recompute()
		}
	}
	return s.fail(missingField("service_code", "Unknown shipping service: "+serviceCode))
}

// BackToConfiguration returns from review to configuration with all prior
// selections intact.
func (s *Session) BackToConfiguration() error {
	if s.stage != StageAwaitingReview {
		return missingField("stage", "Nothing to go back from")
	}
	s.lastErr = ""
	s.stage = StageAwaitingConfiguration
	return nil
}

// Checkout validates contact and delivery fields, assembles the handoff
// payload and asks the checkout service for a payment link. On success the
// session's responsibility ends with the returned redirect URL; on failure
// the session stays parked in review for retry.
func (s *Session) Checkout(ctx context.Context) (string, error) {
	s.lastErr = ""

	if s.stage != StageAwaitingReview {
		return "", missingField("stage", "No reviewed order to check out")
	}
	if err := s.validateCheckoutFields(); err != nil {
		return "", s.fail(err)
	}

	code := services.FallbackServiceCode
	name := services.FallbackServiceName
	cost := float64(services.FallbackServiceCost)
	if s.selected != nil {
		code = s.selected.ServiceCode
		name = s.selected.ServiceName
		cost = s.selected.Cost
	}

	resp, err := services.GetCheckoutService().CreateCheckout(ctx, services.CheckoutRequest{
		Email:           s.selections.Email,
		Name:            s.selections.Name,
		Phone:           s.selections.Phone,
		Street:          s.selections.Street,
		City:            s.selections.City,
		State:           s.selections.State,
		ZipCode:         s.selections.ZipCode,
		FilamentType:    s.material.Name,
		Quantity:        s.selections.Quantity,
		RushOrder:       s.selections.RushOrder,
		Volume:          s.estimate.VolumeCm3,
		Weight:          s.weightG,
		ShippingCode:    code,
		ShippingService: name,
		ShippingCost:    cost,
	})
	if err != nil {
		return "", s.fail(err)
	}

	return resp.PaymentURL, nil
}

func (s *Session) validateCheckoutFields() error {
	switch {
	case s.selections.Email == "":
		return missingField("email", "Email is required")
	case s.selections.Name == "":
		return missingField("name", "Name is required")
	case s.selections.Street == "":
		return missingField("street", "Street address is required")
	case s.selections.City == "":
		return missingField("city", "City is required")
	case s.selections.State == "":
		return missingField("state", "State is required")
	case s.selections.ZipCode == "":
		return missingField("zip_code", "ZIP code is required")
	}
	return nil
}

// recompute rebuilds the priced view from the current quote/selection
// pair. Either all monetary lines update together or none do.
func (s *Session) recompute() error {
	priced, err := pricing.Compose(s.quote, s.selected, s.selections.RushOrder, s.taxRate)
	if err != nil {
		return s.fail(err)
	}
	s.priced = priced
	return nil
}

// fail records the user-visible error and passes it through.
func (s *Session) fail(err error) error {
	s.lastErr = err.Error()
	return err
}

// shippingWeightLbs converts model grams into the rate request's pounds,
// substituting the carrier's half-pound floor for weightless models.
func shippingWeightLbs(weightG float64) float64 {
	if weightG <= 0 {
		return shipping.MinimumWeightLbs
	}
	lbs := weightG / 1000 * shipping.PoundsPerKg
	if lbs <= 0 {
		return shipping.MinimumWeightLbs
	}
	return lbs
}
