// Package host assembles the storefront widget for one page load.
//
// It reads the embed tag's data attributes, wires the analytics emitter,
// the action dispatcher, and the lifecycle controller together, and hands
// back the controller the embedding surface drives with browser events.
package host

import (
	"time"

	"github.com/wazaphq/wazap/internal/widget/analytics"
	"github.com/wazaphq/wazap/internal/widget/dispatch"
	"github.com/wazaphq/wazap/internal/widget/dom"
	"github.com/wazaphq/wazap/internal/widget/hostpage"
	"github.com/wazaphq/wazap/internal/widget/lifecycle"
)

// Options collects everything one widget instance needs from its embedder.
type Options struct {
	// Attrs are the embed tag's data attributes, keyed without the
	// data- prefix.
	Attrs   map[string]string
	PageURL string
	// Shop identifies the merchant for analytics, e.g. the myshopify
	// domain the embed script was issued for.
	Shop     string
	Document *dom.Document

	Surface   lifecycle.Surface
	Sharer    dispatch.Sharer
	Opener    dispatch.LinkOpener
	Presenter dispatch.AgentPresenter
	Recovery  lifecycle.RecoveryStore

	// AnalyticsEndpoint receives event posts when the page enables
	// analytics. Leaving it empty logs events instead.
	AnalyticsEndpoint string
	// Sink overrides the analytics destination. Set by tests.
	Sink analytics.Sink

	Now   func() time.Time
	After func(d time.Duration, fn func())
}

// Widget is one assembled widget instance.
type Widget struct {
	cfg        hostpage.Config
	emitter    *analytics.Emitter
	dispatcher *dispatch.Dispatcher
	controller *lifecycle.Controller
}

// New parses the host page attributes and wires the widget. The returned
// widget is inert until Mount is called.
func New(opts Options) *Widget {
	cfg := hostpage.Parse(opts.Attrs, opts.PageURL)

	sink := opts.Sink
	if sink == nil && cfg.AnalyticsEnabled {
		if opts.AnalyticsEndpoint != "" {
			sink = analytics.NewHTTPSink(opts.AnalyticsEndpoint, nil)
		} else {
			sink = analytics.LogSink{}
		}
	}
	emitter := analytics.NewEmitter(sink, opts.Shop, cfg.Page.ProductTitle, cfg.Page.ProductURL)

	dispatcher := dispatch.New(cfg, opts.Document, opts.Sharer, opts.Opener, opts.Presenter, emitter.Emit, opts.Now)
	controller := lifecycle.NewController(lifecycle.Params{
		Config:     cfg,
		Document:   opts.Document,
		Dispatcher: dispatcher,
		Surface:    opts.Surface,
		Recovery:   opts.Recovery,
		Capabilities: lifecycle.Capabilities{
			Swipe:         true,
			Agents:        len(cfg.Agents) > 0,
			BusinessHours: cfg.Hours != nil,
			CartRecovery:  opts.Recovery != nil,
		},
		Emit:  emitter.Emit,
		Now:   opts.Now,
		After: opts.After,
	})

	return &Widget{
		cfg:        cfg,
		emitter:    emitter,
		dispatcher: dispatcher,
		controller: controller,
	}
}

// Config returns the parsed host page configuration.
func (w *Widget) Config() hostpage.Config {
	return w.cfg
}

// Dispatcher returns the action dispatcher for direct button wiring.
func (w *Widget) Dispatcher() *dispatch.Dispatcher {
	return w.dispatcher
}

// Controller returns the lifecycle controller the surface feeds events to.
func (w *Widget) Controller() *lifecycle.Controller {
	return w.controller
}

// Mount initializes the widget for the given viewport width.
func (w *Widget) Mount(viewportWidth int) {
	w.controller.Init(viewportWidth)
}
