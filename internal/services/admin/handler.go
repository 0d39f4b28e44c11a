// Package admin hosts the merchant dashboard and the widget API.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/wazaphq/wazap/internal/services/admin/i18n"
	"github.com/wazaphq/wazap/internal/services/admin/routepath"
	"github.com/wazaphq/wazap/internal/services/admin/storage"
	"github.com/wazaphq/wazap/internal/services/admin/templates"
	"go.opentelemetry.io/otel"
)

// Event types the dashboard aggregates.
var (
	shareEventTypes = []string{"share_clicked"}
	chatEventTypes  = []string{"whatsapp_clicked"}
)

// Revenue estimation assumes 8% of shares convert at an average order value
// of $45.
const (
	shareConversionRate = 0.08
	averageOrderValue   = 45
)

// recentEventsLimit caps the dashboard's recent activity list.
const recentEventsLimit = 10

type handler struct {
	store storage.Store
	shop  string
	now   func() time.Time
}

// NewHandler creates the admin HTTP handler. defaultShop selects the shop
// shown when a request carries no shop parameter.
func NewHandler(store storage.Store, defaultShop string) http.Handler {
	h := &handler{
		store: store,
		shop:  strings.TrimSpace(defaultShop),
		now:   time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(routepath.Root, h.handleDashboard)
	mux.HandleFunc(routepath.Settings, h.handleSettings)
	mux.HandleFunc(routepath.WidgetConfig, h.handleWidgetConfig)
	mux.HandleFunc(routepath.Events, h.handleEvents)
	return withTracing(mux)
}

// withTracing opens one span per request.
func withTracing(next http.Handler) http.Handler {
	tracer := otel.Tracer("wazap/admin")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) localizer(r *http.Request) templates.PageContext {
	tag := i18n.ResolveTag(r)
	return templates.PageContext{
		Lang:        tag.String(),
		Loc:         i18n.Printer(tag),
		CurrentPath: r.URL.Path,
	}
}

func (h *handler) requestShop(r *http.Request) string {
	if shop := strings.TrimSpace(r.URL.Query().Get("shop")); shop != "" {
		return shop
	}
	return h.shop
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	page := h.localizer(r)
	shop := h.requestShop(r)
	if shop == "" {
		http.Error(w, "shop is required", http.StatusBadRequest)
		return
	}

	settings, err := h.store.GetSettings(r.Context(), shop)
	if errors.Is(err, storage.ErrNotFound) {
		settings = storage.DefaultSettings(shop)
	} else if err != nil {
		log.Printf("admin: load settings for %s: %v", shop, err)
		http.Error(w, "settings unavailable", http.StatusInternalServerError)
		return
	}

	stats, err := h.dashboardStats(r.Context(), page.Loc, shop)
	if err != nil {
		log.Printf("admin: load stats for %s: %v", shop, err)
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	recent, err := h.recentActivity(r.Context(), shop)
	if err != nil {
		log.Printf("admin: load recent events for %s: %v", shop, err)
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	form := templates.SettingsForm{
		WhatsAppNumber: settings.WhatsAppNumber,
		WidgetEnabled:  settings.WidgetEnabled,
		ChatText:       settings.ChatText,
		ShareText:      settings.ShareText,
		ActionURL:      routepath.Settings + "?shop=" + shop,
	}

	var flash string
	switch r.URL.Query().Get("saved") {
	case "1":
		flash = templates.T(page.Loc, "settings.saved")
	case "invalid":
		flash = templates.T(page.Loc, "settings.invalid_number")
	}

	title := templates.T(page.Loc, "dashboard.title")
	body := templates.Dashboard(page, stats, recent, form, flash)
	templ.Handler(templates.Layout(page, title, body)).ServeHTTP(w, r)
}

func (h *handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	shop := h.requestShop(r)
	if shop == "" {
		http.Error(w, "shop is required", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	rawNumber := r.PostFormValue("whatsapp_number")
	number := digitsOnly(rawNumber)
	if strings.TrimSpace(rawNumber) != "" && number == "" {
		http.Redirect(w, r, routepath.Root+"?shop="+shop+"&saved=invalid", http.StatusSeeOther)
		return
	}

	settings, err := h.store.GetSettings(r.Context(), shop)
	if errors.Is(err, storage.ErrNotFound) {
		settings = storage.DefaultSettings(shop)
	} else if err != nil {
		log.Printf("admin: load settings for %s: %v", shop, err)
		http.Error(w, "settings unavailable", http.StatusInternalServerError)
		return
	}

	settings.WhatsAppNumber = number
	settings.WidgetEnabled = r.PostFormValue("widget_enabled") == "true"
	if chatText := strings.TrimSpace(r.PostFormValue("chat_text")); chatText != "" {
		settings.ChatText = chatText
	}
	if shareText := strings.TrimSpace(r.PostFormValue("share_text")); shareText != "" {
		settings.ShareText = shareText
	}

	if err := h.store.PutSettings(r.Context(), settings); err != nil {
		log.Printf("admin: save settings for %s: %v", shop, err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, routepath.Root+"?shop="+shop+"&saved=1", http.StatusSeeOther)
}

// widgetConfigResponse is the embed configuration served to storefronts.
type widgetConfigResponse struct {
	Enabled        bool            `json:"enabled"`
	WhatsAppNumber string          `json:"whatsappNumber,omitempty"`
	Position       string          `json:"position,omitempty"`
	Theme          string          `json:"theme,omitempty"`
	ChatText       string          `json:"chatText,omitempty"`
	ShareText      string          `json:"shareText,omitempty"`
	Agents         json.RawMessage `json:"agents,omitempty"`
	BusinessHours  json.RawMessage `json:"businessHours,omitempty"`
}

func (h *handler) handleWidgetConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		http.Error(w, "shop is required", http.StatusBadRequest)
		return
	}

	response := widgetConfigResponse{}
	settings, err := h.store.GetSettings(r.Context(), shop)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Unknown shop serves a disabled config, never an error page.
	case err != nil:
		log.Printf("admin: widget config for %s: %v", shop, err)
		http.Error(w, "config unavailable", http.StatusInternalServerError)
		return
	case settings.WidgetEnabled && settings.WhatsAppNumber != "":
		response = widgetConfigResponse{
			Enabled:        true,
			WhatsAppNumber: settings.WhatsAppNumber,
			Position:       settings.Position,
			Theme:          settings.Theme,
			ChatText:       settings.ChatText,
			ShareText:      settings.ShareText,
			Agents:         rawJSON(settings.AgentsJSON),
			BusinessHours:  rawJSON(settings.BusinessHoursJSON),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("admin: encode widget config: %v", err)
	}
}

// eventRequest mirrors the widget's analytics event payload.
type eventRequest struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Shop      string         `json:"shop"`
	Product   string         `json:"product"`
	URL       string         `json:"url"`
	Timestamp time.Time      `json:"timestamp"`
	Attrs     map[string]any `json:"attrs"`
}

func (h *handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Type) == "" {
		http.Error(w, "event type is required", http.StatusBadRequest)
		return
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	occurredAt := req.Timestamp
	if occurredAt.IsZero() {
		occurredAt = h.now().UTC()
	}
	var attrsJSON string
	if len(req.Attrs) > 0 {
		if encoded, err := json.Marshal(req.Attrs); err == nil {
			attrsJSON = string(encoded)
		}
	}

	event := storage.AnalyticsEvent{
		ID:         id,
		Shop:       strings.TrimSpace(req.Shop),
		Type:       strings.TrimSpace(req.Type),
		Product:    req.Product,
		URL:        req.URL,
		AttrsJSON:  attrsJSON,
		OccurredAt: occurredAt,
	}
	// Ingest is fire and forget from the widget's point of view; duplicates
	// and storage hiccups are logged, never surfaced.
	if err := h.store.AppendEvent(r.Context(), event); err != nil && !errors.Is(err, storage.ErrAlreadyExists) {
		log.Printf("admin: append event %s: %v", event.Type, err)
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *handler) dashboardStats(ctx context.Context, loc templates.Localizer, shop string) (templates.DashboardStats, error) {
	totalShares, err := h.store.CountEvents(ctx, shop, shareEventTypes)
	if err != nil {
		return templates.DashboardStats{}, fmt.Errorf("count total shares: %w", err)
	}
	totalChats, err := h.store.CountEvents(ctx, shop, chatEventTypes)
	if err != nil {
		return templates.DashboardStats{}, fmt.Errorf("count total chats: %w", err)
	}

	if totalShares == 0 && totalChats == 0 {
		noData := templates.T(loc, "dashboard.no_data")
		return templates.DashboardStats{
			SharesToday:      noData,
			ChatsToday:       noData,
			TotalShares:      noData,
			SharesThisWeek:   noData,
			EstimatedSales:   noData,
			EstimatedRevenue: noData,
			NewInstall:       true,
		}, nil
	}

	now := h.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)

	sharesToday, err := h.store.CountEventsSince(ctx, shop, shareEventTypes, midnight)
	if err != nil {
		return templates.DashboardStats{}, fmt.Errorf("count shares today: %w", err)
	}
	chatsToday, err := h.store.CountEventsSince(ctx, shop, chatEventTypes, midnight)
	if err != nil {
		return templates.DashboardStats{}, fmt.Errorf("count chats today: %w", err)
	}
	sharesThisWeek, err := h.store.CountEventsSince(ctx, shop, shareEventTypes, weekAgo)
	if err != nil {
		return templates.DashboardStats{}, fmt.Errorf("count shares this week: %w", err)
	}

	estimatedSales := int(float64(totalShares) * shareConversionRate)
	return templates.DashboardStats{
		SharesToday:      strconv.Itoa(sharesToday),
		ChatsToday:       strconv.Itoa(chatsToday),
		TotalChats:       templates.T(loc, "dashboard.chats_total", totalChats),
		TotalShares:      strconv.Itoa(totalShares),
		SharesThisWeek:   strconv.Itoa(sharesThisWeek),
		EstimatedSales:   strconv.Itoa(estimatedSales),
		EstimatedRevenue: "$" + strconv.Itoa(estimatedSales*averageOrderValue),
	}, nil
}

func (h *handler) recentActivity(ctx context.Context, shop string) ([]templates.EventRow, error) {
	events, err := h.store.ListRecentEvents(ctx, shop, recentEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	rows := make([]templates.EventRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, templates.EventRow{
			Type:    event.Type,
			Product: event.Product,
			When:    event.OccurredAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return rows, nil
}

func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}

func rawJSON(value string) json.RawMessage {
	value = strings.TrimSpace(value)
	if value == "" || !json.Valid([]byte(value)) {
		return nil
	}
	return json.RawMessage(value)
}
