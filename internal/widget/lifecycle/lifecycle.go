// Package lifecycle owns the widget's runtime state on a storefront page:
// activation, viewport changes, suppression around cart intent, and
// abandoned-cart recovery.
package lifecycle

import (
	"strconv"
	"strings"
	"time"

	"github.com/wazaphq/wazap/internal/widget/dispatch"
	"github.com/wazaphq/wazap/internal/widget/dom"
	"github.com/wazaphq/wazap/internal/widget/gesture"
	"github.com/wazaphq/wazap/internal/widget/hostpage"
	"github.com/wazaphq/wazap/internal/widget/locator"
)

// Phase is the controller's lifecycle phase.
type Phase int

const (
	// PhaseUninitialized means Init has not run or the embed was inert.
	PhaseUninitialized Phase = iota
	// PhaseActive means the widget is rendered and handling input.
	PhaseActive
	// PhaseSuppressed means the widget hid itself for cart intent. Terminal
	// for the page load.
	PhaseSuppressed
	// PhaseTornDown means the widget was removed.
	PhaseTornDown
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	case PhaseSuppressed:
		return "suppressed"
	case PhaseTornDown:
		return "torndown"
	default:
		return "unknown"
	}
}

// ViewportClass buckets the viewport width.
type ViewportClass int

const (
	ViewportMobile ViewportClass = iota
	ViewportDesktop
)

func (v ViewportClass) String() string {
	if v == ViewportMobile {
		return "mobile"
	}
	return "desktop"
}

// MobileMaxWidth is the widest viewport still classified as mobile.
const MobileMaxWidth = 768

// Classify buckets a viewport width.
func Classify(width int) ViewportClass {
	if width <= MobileMaxWidth {
		return ViewportMobile
	}
	return ViewportDesktop
}

// Abandoned-cart recovery windows.
const (
	// RecoveryMinAge is how old a saved cart must be before prompting.
	RecoveryMinAge = time.Hour
	// RecoveryMaxAge is when a saved cart expires.
	RecoveryMaxAge = 48 * time.Hour
	// RecoveryPromptDelay defers the prompt past initial page settle.
	RecoveryPromptDelay = 3 * time.Second
)

// cartCountSelectors find the cart item counter across common themes.
const cartCountSelectors = ".cart-count, .cart-item-count, [data-cart-count]"

// RecoveryRecord is one saved abandoned cart.
type RecoveryRecord struct {
	SavedAt time.Time `json:"timestamp"`
	URL     string    `json:"url"`
	Store   string    `json:"store"`
}

// RecoveryStore persists the abandoned-cart record between page loads.
type RecoveryStore interface {
	Load() (RecoveryRecord, bool)
	Save(rec RecoveryRecord) error
	Clear() error
}

// Surface is the rendered widget the controller drives.
type Surface interface {
	gesture.FeedbackSurface
	Render(view ViewportClass)
	Teardown()
	Hide()
	CloseAgentSelector()
	ShowRecoveryPrompt(rec RecoveryRecord)
}

// Capabilities toggles the optional widget features.
type Capabilities struct {
	Swipe         bool
	Agents        bool
	BusinessHours bool
	CartRecovery  bool
}

// Params collects the controller's collaborators.
type Params struct {
	Config       hostpage.Config
	Document     *dom.Document
	Dispatcher   *dispatch.Dispatcher
	Surface      Surface
	Recovery     RecoveryStore
	Capabilities Capabilities
	Emit         func(event string, attrs map[string]any)
	Now          func() time.Time
	After        func(d time.Duration, fn func())
}

// Controller owns all widget state for one page load. Nothing here is
// global; tearing down the controller leaves no trace.
type Controller struct {
	cfg        hostpage.Config
	doc        *dom.Document
	dispatcher *dispatch.Dispatcher
	surface    Surface
	recovery   RecoveryStore
	caps       Capabilities
	emit       func(event string, attrs map[string]any)
	now        func() time.Time
	after      func(d time.Duration, fn func())

	phase       Phase
	viewport    ViewportClass
	recognizer  *gesture.Recognizer
	promptShown bool
}

// NewController builds a controller in the uninitialized phase.
func NewController(p Params) *Controller {
	if p.Emit == nil {
		p.Emit = func(string, map[string]any) {}
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.After == nil {
		p.After = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	return &Controller{
		cfg:        p.Config,
		doc:        p.Document,
		dispatcher: p.Dispatcher,
		surface:    p.Surface,
		recovery:   p.Recovery,
		caps:       p.Capabilities,
		emit:       p.Emit,
		now:        p.Now,
		after:      p.After,
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Viewport returns the current viewport class.
func (c *Controller) Viewport() ViewportClass { return c.viewport }

// Init activates the widget for the given viewport width. An embed without
// any WhatsApp number stays inert and renders nothing.
func (c *Controller) Init(viewportWidth int) {
	if c.phase != PhaseUninitialized {
		return
	}
	if !c.cfg.Configured() {
		return
	}

	c.viewport = Classify(viewportWidth)
	c.phase = PhaseActive
	if c.surface != nil {
		c.surface.Render(c.viewport)
	}
	c.bindGesture()
	c.checkRecovery()
}

// HandleTouch feeds a touch event to the gesture recognizer, when one is
// bound.
func (c *Controller) HandleTouch(touch gesture.Touch) {
	if c.phase != PhaseActive || c.recognizer == nil {
		return
	}
	c.recognizer.Handle(touch)
}

// HandleResize reacts to viewport width changes. Only a class flip
// re-renders; same-class resizes are ignored so input handlers are never
// duplicated.
func (c *Controller) HandleResize(viewportWidth int) {
	if c.phase != PhaseActive {
		return
	}
	view := Classify(viewportWidth)
	if view == c.viewport {
		return
	}
	c.viewport = view
	c.recognizer = nil
	if c.surface != nil {
		c.surface.CloseAgentSelector()
		c.surface.Teardown()
		c.surface.Render(view)
	}
	c.bindGesture()
}

// HandleClick inspects a page click for cart intent. A cart-bound click
// hides the widget for the rest of the page load; a checkout click also
// clears any saved abandoned cart.
func (c *Controller) HandleClick(target *dom.Element) {
	if c.phase != PhaseActive || target == nil {
		return
	}
	control := target.Closest("button, a, [type=submit]")
	if control == nil {
		return
	}

	text := normalize(control.TextContent())
	if c.recovery != nil && containsAny(text, checkoutPhrases) {
		_ = c.recovery.Clear()
	}
	if !cartIntent(control, text) {
		return
	}

	c.phase = PhaseSuppressed
	c.recognizer = nil
	if c.surface != nil {
		c.surface.Hide()
	}
}

// HandleUnload saves an abandoned-cart record when the visitor leaves with
// items in the cart.
func (c *Controller) HandleUnload() {
	if !c.caps.CartRecovery || c.recovery == nil {
		return
	}
	if c.CartCount() <= 0 {
		return
	}
	_ = c.recovery.Save(RecoveryRecord{
		SavedAt: c.now(),
		URL:     c.cfg.Page.ProductURL,
		Store:   c.cfg.Page.StoreName,
	})
}

// HandleRecoveryResponse resolves a shown recovery prompt. Both outcomes
// clear the record; a prompt is never shown twice.
func (c *Controller) HandleRecoveryResponse(accepted bool) {
	if c.recovery != nil {
		_ = c.recovery.Clear()
	}
	if accepted {
		c.emit("cart_recovery_clicked", nil)
		return
	}
	c.emit("cart_recovery_dismissed", nil)
}

// Teardown removes the widget.
func (c *Controller) Teardown() {
	if c.phase == PhaseTornDown {
		return
	}
	c.phase = PhaseTornDown
	c.recognizer = nil
	if c.surface != nil {
		c.surface.Teardown()
	}
}

// CartCount reads the cart item counter off the page; 0 when absent or
// unparseable.
func (c *Controller) CartCount() int {
	for _, el := range c.doc.QueryAll(cartCountSelectors) {
		if n, err := strconv.Atoi(strings.TrimSpace(el.TextContent())); err == nil {
			return n
		}
	}
	return 0
}

// bindGesture wires the swipe recognizer when the capability is on, the
// viewport is mobile, and the page has a usable product image.
func (c *Controller) bindGesture() {
	c.recognizer = nil
	if !c.caps.Swipe || c.viewport != ViewportMobile {
		return
	}
	if locator.FindProductImage(c.doc) == nil {
		return
	}
	share := func() {
		if c.dispatcher != nil {
			_ = c.dispatcher.Share()
		}
	}
	c.recognizer = gesture.NewRecognizer(c.surface, c.emit, share)
}

// checkRecovery shows the abandoned-cart prompt when a saved record is old
// enough to matter and young enough to trust. At most one prompt per page
// load; expired records are cleared.
func (c *Controller) checkRecovery() {
	if !c.caps.CartRecovery || c.recovery == nil || c.promptShown {
		return
	}
	rec, ok := c.recovery.Load()
	if !ok {
		return
	}
	age := c.now().Sub(rec.SavedAt)
	if rec.SavedAt.IsZero() || age >= RecoveryMaxAge || age < 0 {
		_ = c.recovery.Clear()
		return
	}
	if age <= RecoveryMinAge {
		return
	}

	c.promptShown = true
	c.after(RecoveryPromptDelay, func() {
		if c.phase != PhaseActive || c.surface == nil {
			return
		}
		c.surface.ShowRecoveryPrompt(rec)
		c.emit("cart_recovery_shown", map[string]any{"age_hours": int(age.Hours())})
	})
}

var cartClassHints = []string{"add-to-cart", "cart", "checkout"}

var cartIntentPhrases = []string{
	"add to cart",
	"in den warenkorb",
	"warenkorb",
	"view cart",
	"checkout",
	"zur kasse",
}

var checkoutPhrases = []string{"checkout", "zur kasse"}

func cartIntent(control *dom.Element, text string) bool {
	if strings.EqualFold(control.Attr("name"), "add") {
		return true
	}
	class := strings.ToLower(control.ClassName())
	for _, hint := range cartClassHints {
		if strings.Contains(class, hint) {
			return true
		}
	}
	return containsAny(text, cartIntentPhrases)
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
