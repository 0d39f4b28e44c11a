// Package dispatch turns widget interactions into share and chat actions.
package dispatch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wazaphq/wazap/internal/widget/dom"
	"github.com/wazaphq/wazap/internal/widget/hostpage"
	"github.com/wazaphq/wazap/internal/widget/hours"
)

// ErrShareCancelled reports that the visitor dismissed the native share
// sheet. Cancellation is terminal: no fallback, no completion event.
var ErrShareCancelled = errors.New("share cancelled by user")

// priceSelectors probe the common storefront price markup, most specific
// first.
const priceSelectors = ".price__regular .price-item, .product__price, [data-product-price], .price, .money"

// refParam tags outbound product links so recovered traffic is attributable.
const refParam = "wazap"

// ShareData is the payload handed to the native share sheet.
type ShareData struct {
	Title string
	Text  string
	URL   string
}

// Sharer invokes the platform's native share sheet. Implementations return
// ErrShareCancelled when the visitor dismisses the sheet.
type Sharer interface {
	Share(data ShareData) error
}

// LinkOpener opens an external deep link.
type LinkOpener interface {
	OpenLink(url string) error
}

// AgentPresenter shows the agent selection list.
type AgentPresenter interface {
	PresentAgents(agents []hostpage.Agent)
}

// Status is the availability shown on the chat surface.
type Status struct {
	Online      bool
	NextOpening string
}

// Dispatcher routes share and chat actions for one page load.
type Dispatcher struct {
	page      hostpage.ProductContext
	agents    []hostpage.Agent
	schedule  hours.Schedule
	doc       *dom.Document
	sharer    Sharer
	opener    LinkOpener
	presenter AgentPresenter
	emit      func(event string, attrs map[string]any)
	now       func() time.Time
}

// New builds a dispatcher. The emitter func may be nil; events are then
// dropped. A nil clock uses time.Now.
func New(cfg hostpage.Config, doc *dom.Document, sharer Sharer, opener LinkOpener, presenter AgentPresenter, emit func(string, map[string]any), now func() time.Time) *Dispatcher {
	if emit == nil {
		emit = func(string, map[string]any) {}
	}
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		page:      cfg.Page,
		agents:    cfg.Agents,
		schedule:  cfg.Hours,
		doc:       doc,
		sharer:    sharer,
		opener:    opener,
		presenter: presenter,
		emit:      emit,
		now:       now,
	}
}

// Share runs the share flow: native share sheet first, WhatsApp deep link
// as fallback. A visitor cancelling the sheet ends the flow silently.
func (d *Dispatcher) Share() error {
	d.emit("share_clicked", nil)

	data := d.shareData()
	if d.sharer != nil {
		err := d.sharer.Share(data)
		if err == nil {
			d.emit("share_completed", map[string]any{"method": "native"})
			return nil
		}
		if errors.Is(err, ErrShareCancelled) {
			return nil
		}
	}

	link := "https://wa.me/?text=" + url.QueryEscape(data.Text)
	if err := d.openLink(link); err != nil {
		return fmt.Errorf("open share fallback: %w", err)
	}
	d.emit("share_completed", map[string]any{"method": "whatsapp_fallback"})
	return nil
}

// Chat runs the chat flow. Zero or one configured agents open a
// conversation directly; several agents open the selector.
func (d *Dispatcher) Chat() error {
	d.emit("whatsapp_clicked", nil)

	switch len(d.agents) {
	case 0:
		return d.OpenChat(hostpage.Agent{})
	case 1:
		return d.OpenChat(d.agents[0])
	default:
		d.emit("agent_selector_opened", map[string]any{"agents": len(d.agents)})
		if d.presenter != nil {
			d.presenter.PresentAgents(d.agents)
		}
		return nil
	}
}

// OpenChat opens a WhatsApp conversation with the given agent. An agent
// without a number falls back to the merchant number.
func (d *Dispatcher) OpenChat(agent hostpage.Agent) error {
	number := strings.TrimSpace(agent.Number)
	if number == "" {
		number = strings.TrimSpace(d.page.WhatsAppNumber)
	}
	if number == "" {
		return errors.New("no whatsapp number configured")
	}

	online := d.schedule.Open(d.now())
	message := d.chatMessage(agent, online)
	link := "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
	if err := d.openLink(link); err != nil {
		return fmt.Errorf("open chat link: %w", err)
	}

	agentLabel := agent.Name
	if agentLabel == "" {
		agentLabel = "default"
	}
	d.emit("whatsapp_opened", map[string]any{"agent": agentLabel, "online": online})
	return nil
}

// Availability reports whether the merchant is online now and, if not, when
// the next window opens.
func (d *Dispatcher) Availability() Status {
	now := d.now()
	status := Status{Online: d.schedule.Open(now)}
	if status.Online {
		return status
	}
	if opening, ok := d.schedule.NextOpening(now); ok {
		if opening.Today {
			status.NextOpening = fmt.Sprintf("today at %s", opening.Start)
		} else {
			status.NextOpening = fmt.Sprintf("%s at %s", opening.Day, opening.Start)
		}
	}
	return status
}

func (d *Dispatcher) shareData() ShareData {
	productURL := appendRef(d.page.ProductURL)

	title := d.page.ProductTitle
	if title == "" {
		title = d.page.StoreName
	}

	var text string
	if d.page.ProductTitle != "" {
		text = d.page.ProductTitle
		if price := d.detectPrice(); price != "" {
			text += " - " + price
		}
		text += " - What do you think? " + productURL
	} else {
		text = "Check this out! " + productURL
	}

	return ShareData{Title: title, Text: text, URL: productURL}
}

func (d *Dispatcher) chatMessage(agent hostpage.Agent, online bool) string {
	greeting := "Hi"
	if agent.Name != "" {
		greeting += " " + agent.Name
	}

	var message string
	if d.page.ProductTitle != "" {
		message = fmt.Sprintf("%s! Question about %s - %s", greeting, d.page.ProductTitle, appendRef(d.page.ProductURL))
	} else {
		message = greeting + "! I have a question."
	}

	if !online {
		note := d.page.OfflineMessage
		if note == "" {
			note = "(Sent outside business hours)"
		}
		message += "\n\n" + note
	}
	return message
}

// detectPrice pulls the displayed price off the page, first matching
// selector wins.
func (d *Dispatcher) detectPrice() string {
	for _, el := range d.doc.QueryAll(priceSelectors) {
		if price := strings.Join(strings.Fields(el.TextContent()), " "); price != "" {
			return price
		}
	}
	return ""
}

func (d *Dispatcher) openLink(link string) error {
	if d.opener == nil {
		return errors.New("no link opener configured")
	}
	return d.opener.OpenLink(link)
}

// appendRef adds the attribution ref parameter to a product URL, keeping
// any existing query intact. Unparseable input is returned as is.
func appendRef(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("ref", refParam)
	u.RawQuery = q.Encode()
	return u.String()
}
