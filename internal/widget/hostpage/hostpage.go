// Package hostpage reads the widget's embed configuration from the script
// tag's data attributes on a merchant storefront page.
package hostpage

import (
	"encoding/json"
	"strings"

	"github.com/wazaphq/wazap/internal/widget/hours"
)

// Default labels applied when the merchant left a field blank.
const (
	DefaultChatText  = "Chat"
	DefaultShareText = "Get opinion"
	DefaultPosition  = "bottom-right"
	DefaultTheme     = "whatsapp"
)

// Agent is one support contact the merchant exposes in the widget.
type Agent struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// ProductContext carries the page-level values the widget needs to build
// share and chat messages.
type ProductContext struct {
	WhatsAppNumber string
	StoreName      string
	ProductTitle   string
	ProductURL     string
	ChatText       string
	ShareText      string
	Position       string
	Theme          string
	OfflineMessage string
}

// Config is the full embed configuration for one page load.
type Config struct {
	Page             ProductContext
	Agents           []Agent
	Hours            hours.Schedule
	AnalyticsEnabled bool
}

// Parse builds a Config from the embed tag's data attributes. Keys are the
// attribute names without the data- prefix. Missing labels fall back to
// defaults, the product URL falls back to the page URL, and malformed agent
// or business-hours JSON degrades to empty rather than failing the embed.
func Parse(attrs map[string]string, pageURL string) Config {
	get := func(key string) string {
		return strings.TrimSpace(attrs[key])
	}
	orDefault := func(value, fallback string) string {
		if value == "" {
			return fallback
		}
		return value
	}

	productURL := get("product-url")
	if productURL == "" {
		productURL = pageURL
	}

	return Config{
		Page: ProductContext{
			WhatsAppNumber: get("whatsapp"),
			StoreName:      get("store-name"),
			ProductTitle:   get("product-title"),
			ProductURL:     productURL,
			ChatText:       orDefault(get("chat-text"), DefaultChatText),
			ShareText:      orDefault(get("share-button-text"), DefaultShareText),
			Position:       orDefault(get("position"), DefaultPosition),
			Theme:          orDefault(get("theme"), DefaultTheme),
			OfflineMessage: get("offline-message"),
		},
		Agents:           parseAgents(get("agents")),
		Hours:            hours.ParseJSON(get("business-hours")),
		AnalyticsEnabled: get("analytics") != "false",
	}
}

// Configured reports whether the embed carries enough to activate: a
// merchant number or at least one agent with one.
func (c Config) Configured() bool {
	if c.Page.WhatsAppNumber != "" {
		return true
	}
	for _, agent := range c.Agents {
		if agent.Number != "" {
			return true
		}
	}
	return false
}

func parseAgents(raw string) []Agent {
	if raw == "" {
		return nil
	}
	var agents []Agent
	if err := json.Unmarshal([]byte(raw), &agents); err != nil {
		return nil
	}
	valid := agents[:0]
	for _, agent := range agents {
		if strings.TrimSpace(agent.Number) != "" {
			valid = append(valid, agent)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return valid
}
