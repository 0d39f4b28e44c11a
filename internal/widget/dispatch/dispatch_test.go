package dispatch

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/wazaphq/wazap/internal/widget/dom"
	"github.com/wazaphq/wazap/internal/widget/hostpage"
	"github.com/wazaphq/wazap/internal/widget/hours"
)

type fakeSharer struct {
	err  error
	data []ShareData
}

func (s *fakeSharer) Share(data ShareData) error {
	s.data = append(s.data, data)
	return s.err
}

type fakeOpener struct {
	err   error
	links []string
}

func (o *fakeOpener) OpenLink(link string) error {
	o.links = append(o.links, link)
	return o.err
}

type fakePresenter struct {
	agents [][]hostpage.Agent
}

func (p *fakePresenter) PresentAgents(agents []hostpage.Agent) {
	p.agents = append(p.agents, agents)
}

type eventLog struct {
	events []string
	attrs  []map[string]any
}

func (l *eventLog) emit(event string, attrs map[string]any) {
	l.events = append(l.events, event)
	l.attrs = append(l.attrs, attrs)
}

func (l *eventLog) last() (string, map[string]any) {
	if len(l.events) == 0 {
		return "", nil
	}
	return l.events[len(l.events)-1], l.attrs[len(l.attrs)-1]
}

func pageConfig() hostpage.Config {
	return hostpage.Config{
		Page: hostpage.ProductContext{
			WhatsAppNumber: "491701234567",
			StoreName:      "Mug Life",
			ProductTitle:   "Blue Mug",
			ProductURL:     "https://shop.example/products/blue-mug",
		},
	}
}

func priceDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(`<div class="price__regular"><span class="price-item">  €19,99 </span></div>`)
	if err != nil {
		t.Fatalf("parse doc: %v", err)
	}
	return doc
}

func emptyDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(`<p>no price here</p>`)
	if err != nil {
		t.Fatalf("parse doc: %v", err)
	}
	return doc
}

func TestShareNative(t *testing.T) {
	t.Parallel()
	sharer := &fakeSharer{}
	log := &eventLog{}
	d := New(pageConfig(), priceDoc(t), sharer, &fakeOpener{}, nil, log.emit, nil)

	if err := d.Share(); err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if len(sharer.data) != 1 {
		t.Fatalf("share sheet invocations = %d, want 1", len(sharer.data))
	}
	data := sharer.data[0]
	if data.Title != "Blue Mug" {
		t.Fatalf("Title = %q", data.Title)
	}
	if data.URL != "https://shop.example/products/blue-mug?ref=wazap" {
		t.Fatalf("URL = %q", data.URL)
	}
	want := "Blue Mug - €19,99 - What do you think? https://shop.example/products/blue-mug?ref=wazap"
	if data.Text != want {
		t.Fatalf("Text = %q, want %q", data.Text, want)
	}

	event, attrs := log.last()
	if event != "share_completed" || attrs["method"] != "native" {
		t.Fatalf("last event = %s %v", event, attrs)
	}
}

func TestShareCancelledIsSilent(t *testing.T) {
	t.Parallel()
	sharer := &fakeSharer{err: ErrShareCancelled}
	opener := &fakeOpener{}
	log := &eventLog{}
	d := New(pageConfig(), emptyDoc(t), sharer, opener, nil, log.emit, nil)

	if err := d.Share(); err != nil {
		t.Fatalf("Share() error = %v, want nil on cancel", err)
	}
	if len(opener.links) != 0 {
		t.Fatalf("fallback links = %v, want none after cancel", opener.links)
	}
	for _, event := range log.events {
		if event == "share_completed" {
			t.Fatal("share_completed emitted after cancel")
		}
	}
}

func TestShareFallsBackToDeepLink(t *testing.T) {
	t.Parallel()
	sharer := &fakeSharer{err: errors.New("share api unavailable")}
	opener := &fakeOpener{}
	log := &eventLog{}
	d := New(pageConfig(), emptyDoc(t), sharer, opener, nil, log.emit, nil)

	if err := d.Share(); err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if len(opener.links) != 1 {
		t.Fatalf("fallback links = %v, want 1", opener.links)
	}
	link := opener.links[0]
	if !strings.HasPrefix(link, "https://wa.me/?text=") {
		t.Fatalf("link = %q", link)
	}

	// The message must be query-encoded exactly once.
	decoded, err := url.QueryUnescape(strings.TrimPrefix(link, "https://wa.me/?text="))
	if err != nil {
		t.Fatalf("decode link text: %v", err)
	}
	want := "Blue Mug - What do you think? https://shop.example/products/blue-mug?ref=wazap"
	if decoded != want {
		t.Fatalf("decoded text = %q, want %q", decoded, want)
	}

	event, attrs := log.last()
	if event != "share_completed" || attrs["method"] != "whatsapp_fallback" {
		t.Fatalf("last event = %s %v", event, attrs)
	}
}

func TestShareWithoutProductTitle(t *testing.T) {
	t.Parallel()
	cfg := pageConfig()
	cfg.Page.ProductTitle = ""
	cfg.Page.ProductURL = "https://shop.example/"
	sharer := &fakeSharer{}
	d := New(cfg, emptyDoc(t), sharer, &fakeOpener{}, nil, nil, nil)

	if err := d.Share(); err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	data := sharer.data[0]
	if data.Title != "Mug Life" {
		t.Fatalf("Title = %q, want store name fallback", data.Title)
	}
	if data.Text != "Check this out! https://shop.example/?ref=wazap" {
		t.Fatalf("Text = %q", data.Text)
	}
}

func TestOpenChatWithAgent(t *testing.T) {
	t.Parallel()
	opener := &fakeOpener{}
	log := &eventLog{}
	d := New(pageConfig(), emptyDoc(t), nil, opener, nil, log.emit, nil)

	agent := hostpage.Agent{Number: "4917099999", Name: "Mia"}
	if err := d.OpenChat(agent); err != nil {
		t.Fatalf("OpenChat() error = %v", err)
	}
	if len(opener.links) != 1 {
		t.Fatalf("links = %v", opener.links)
	}
	link := opener.links[0]
	if !strings.HasPrefix(link, "https://wa.me/4917099999?text=") {
		t.Fatalf("link = %q", link)
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(link, "https://wa.me/4917099999?text="))
	if err != nil {
		t.Fatalf("decode link text: %v", err)
	}
	want := "Hi Mia! Question about Blue Mug - https://shop.example/products/blue-mug?ref=wazap"
	if decoded != want {
		t.Fatalf("decoded message = %q, want %q", decoded, want)
	}

	event, attrs := log.last()
	if event != "whatsapp_opened" || attrs["agent"] != "Mia" || attrs["online"] != true {
		t.Fatalf("last event = %s %v", event, attrs)
	}
}

func TestOpenChatOfflineNote(t *testing.T) {
	t.Parallel()
	cfg := pageConfig()
	cfg.Hours = hours.ParseJSON(`{"monday": {"enabled": true, "start": "09:00", "end": "17:00"}}`)
	opener := &fakeOpener{}
	log := &eventLog{}
	// Monday 20:00, after close.
	now := func() time.Time { return time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC) }
	d := New(cfg, emptyDoc(t), nil, opener, nil, log.emit, now)

	if err := d.OpenChat(hostpage.Agent{}); err != nil {
		t.Fatalf("OpenChat() error = %v", err)
	}
	decoded, err := url.QueryUnescape(strings.SplitN(opener.links[0], "text=", 2)[1])
	if err != nil {
		t.Fatalf("decode link text: %v", err)
	}
	if !strings.HasSuffix(decoded, "\n\n(Sent outside business hours)") {
		t.Fatalf("message = %q, want offline note suffix", decoded)
	}

	_, attrs := log.last()
	if attrs["agent"] != "default" || attrs["online"] != false {
		t.Fatalf("whatsapp_opened attrs = %v", attrs)
	}
}

func TestOpenChatCustomOfflineMessage(t *testing.T) {
	t.Parallel()
	cfg := pageConfig()
	cfg.Page.OfflineMessage = "We reply tomorrow morning."
	cfg.Hours = hours.ParseJSON(`{"monday": {"enabled": true, "start": "09:00", "end": "17:00"}}`)
	opener := &fakeOpener{}
	now := func() time.Time { return time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC) }
	d := New(cfg, emptyDoc(t), nil, opener, nil, nil, now)

	if err := d.OpenChat(hostpage.Agent{}); err != nil {
		t.Fatalf("OpenChat() error = %v", err)
	}
	decoded, _ := url.QueryUnescape(strings.SplitN(opener.links[0], "text=", 2)[1])
	if !strings.HasSuffix(decoded, "\n\nWe reply tomorrow morning.") {
		t.Fatalf("message = %q, want custom offline note", decoded)
	}
}

func TestOpenChatNoNumber(t *testing.T) {
	t.Parallel()
	cfg := pageConfig()
	cfg.Page.WhatsAppNumber = ""
	d := New(cfg, emptyDoc(t), nil, &fakeOpener{}, nil, nil, nil)

	if err := d.OpenChat(hostpage.Agent{}); err == nil {
		t.Fatal("OpenChat() error = nil, want error without any number")
	}
}

func TestChatRouting(t *testing.T) {
	t.Parallel()

	t.Run("no agents goes direct", func(t *testing.T) {
		t.Parallel()
		opener := &fakeOpener{}
		d := New(pageConfig(), emptyDoc(t), nil, opener, &fakePresenter{}, nil, nil)
		if err := d.Chat(); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if len(opener.links) != 1 || !strings.HasPrefix(opener.links[0], "https://wa.me/491701234567?") {
			t.Fatalf("links = %v", opener.links)
		}
	})

	t.Run("single agent goes direct", func(t *testing.T) {
		t.Parallel()
		cfg := pageConfig()
		cfg.Agents = []hostpage.Agent{{Number: "4917011111", Name: "Mia"}}
		opener := &fakeOpener{}
		presenter := &fakePresenter{}
		d := New(cfg, emptyDoc(t), nil, opener, presenter, nil, nil)
		if err := d.Chat(); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if len(presenter.agents) != 0 {
			t.Fatal("selector shown for a single agent")
		}
		if len(opener.links) != 1 || !strings.HasPrefix(opener.links[0], "https://wa.me/4917011111?") {
			t.Fatalf("links = %v", opener.links)
		}
	})

	t.Run("multiple agents open selector", func(t *testing.T) {
		t.Parallel()
		cfg := pageConfig()
		cfg.Agents = []hostpage.Agent{
			{Number: "4917011111", Name: "Mia"},
			{Number: "4917022222", Name: "Ben"},
		}
		opener := &fakeOpener{}
		presenter := &fakePresenter{}
		log := &eventLog{}
		d := New(cfg, emptyDoc(t), nil, opener, presenter, log.emit, nil)
		if err := d.Chat(); err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if len(opener.links) != 0 {
			t.Fatalf("links = %v, want none before selection", opener.links)
		}
		if len(presenter.agents) != 1 || len(presenter.agents[0]) != 2 {
			t.Fatalf("presented agents = %v", presenter.agents)
		}
		event, _ := log.last()
		if event != "agent_selector_opened" {
			t.Fatalf("last event = %s", event)
		}
	})
}

func TestAvailability(t *testing.T) {
	t.Parallel()
	cfg := pageConfig()
	cfg.Hours = hours.ParseJSON(`{
		"monday": {"enabled": true, "start": "09:00", "end": "17:00"},
		"wednesday": {"enabled": true, "start": "10:00", "end": "16:00"}
	}`)

	// Monday 20:00, closed until Wednesday.
	now := func() time.Time { return time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC) }
	d := New(cfg, emptyDoc(t), nil, nil, nil, nil, now)

	status := d.Availability()
	if status.Online {
		t.Fatal("Online = true, want false after close")
	}
	if status.NextOpening != "wednesday at 10:00" {
		t.Fatalf("NextOpening = %q", status.NextOpening)
	}

	morning := func() time.Time { return time.Date(2026, time.March, 2, 7, 0, 0, 0, time.UTC) }
	d = New(cfg, emptyDoc(t), nil, nil, nil, nil, morning)
	status = d.Availability()
	if status.NextOpening != "today at 09:00" {
		t.Fatalf("NextOpening = %q", status.NextOpening)
	}
}

func TestAppendRefKeepsExistingQuery(t *testing.T) {
	t.Parallel()
	got := appendRef("https://shop.example/products/mug?variant=42")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	q := u.Query()
	if q.Get("variant") != "42" || q.Get("ref") != "wazap" {
		t.Fatalf("query = %v", q)
	}
}
