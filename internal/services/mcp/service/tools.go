package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wazaphq/wazap/internal/services/admin/storage"
)

// Event types and revenue assumptions shared with the dashboard.
var (
	shareEventTypes = []string{"share_clicked"}
	chatEventTypes  = []string{"whatsapp_clicked"}
)

const (
	shareConversionRate = 0.08
	averageOrderValue   = 45
)

// SettingsInput selects the shop for read-only tools.
type SettingsInput struct {
	Shop string `json:"shop" jsonschema:"shop domain, e.g. store.myshopify.com"`
}

// SettingsResult represents one shop's widget settings.
type SettingsResult struct {
	Shop              string `json:"shop" jsonschema:"shop domain"`
	WhatsAppNumber    string `json:"whatsapp_number" jsonschema:"merchant WhatsApp number, digits only"`
	WidgetEnabled     bool   `json:"widget_enabled" jsonschema:"whether the storefront widget is active"`
	Position          string `json:"position" jsonschema:"widget corner position"`
	Theme             string `json:"theme" jsonschema:"widget color theme"`
	ChatText          string `json:"chat_text" jsonschema:"chat button label"`
	ShareText         string `json:"share_text" jsonschema:"share button label"`
	AgentsJSON        string `json:"agents_json,omitempty" jsonschema:"agent list as JSON"`
	BusinessHoursJSON string `json:"business_hours_json,omitempty" jsonschema:"business hours schedule as JSON"`
}

// SettingsUpdateInput carries a partial settings update. Nil fields keep
// their current value.
type SettingsUpdateInput struct {
	Shop              string  `json:"shop" jsonschema:"shop domain"`
	WhatsAppNumber    *string `json:"whatsapp_number,omitempty" jsonschema:"merchant WhatsApp number"`
	WidgetEnabled     *bool   `json:"widget_enabled,omitempty" jsonschema:"enable or disable the widget"`
	ChatText          *string `json:"chat_text,omitempty" jsonschema:"chat button label"`
	ShareText         *string `json:"share_text,omitempty" jsonschema:"share button label"`
	AgentsJSON        *string `json:"agents_json,omitempty" jsonschema:"agent list as JSON"`
	BusinessHoursJSON *string `json:"business_hours_json,omitempty" jsonschema:"business hours schedule as JSON"`
}

// AnalyticsSummaryResult aggregates a shop's widget analytics.
type AnalyticsSummaryResult struct {
	Shop             string `json:"shop" jsonschema:"shop domain"`
	SharesToday      int    `json:"shares_today" jsonschema:"share clicks since midnight UTC"`
	ChatsToday       int    `json:"chats_today" jsonschema:"chat clicks since midnight UTC"`
	TotalShares      int    `json:"total_shares" jsonschema:"all-time share clicks"`
	TotalChats       int    `json:"total_chats" jsonschema:"all-time chat clicks"`
	SharesThisWeek   int    `json:"shares_this_week" jsonschema:"share clicks in the last 7 days"`
	EstimatedSales   int    `json:"estimated_sales" jsonschema:"estimated sales from shares"`
	EstimatedRevenue int    `json:"estimated_revenue" jsonschema:"estimated revenue in dollars"`
	NewInstall       bool   `json:"new_install" jsonschema:"true when the shop has no recorded activity"`
}

// SettingsGetHandler reads one shop's settings, falling back to defaults
// for shops that never saved.
func SettingsGetHandler(store storage.SettingsStore) mcp.ToolHandlerFor[SettingsInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsInput) (*mcp.CallToolResult, SettingsResult, error) {
		shop := strings.TrimSpace(input.Shop)
		if shop == "" {
			return nil, SettingsResult{}, fmt.Errorf("shop is required")
		}
		settings, err := store.GetSettings(ctx, shop)
		if errors.Is(err, storage.ErrNotFound) {
			settings = storage.DefaultSettings(shop)
		} else if err != nil {
			return nil, SettingsResult{}, fmt.Errorf("load settings: %w", err)
		}
		return nil, settingsResult(settings), nil
	}
}

// SettingsSetHandler applies a partial settings update.
func SettingsSetHandler(store storage.SettingsStore) mcp.ToolHandlerFor[SettingsUpdateInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsUpdateInput) (*mcp.CallToolResult, SettingsResult, error) {
		shop := strings.TrimSpace(input.Shop)
		if shop == "" {
			return nil, SettingsResult{}, fmt.Errorf("shop is required")
		}

		settings, err := store.GetSettings(ctx, shop)
		if errors.Is(err, storage.ErrNotFound) {
			settings = storage.DefaultSettings(shop)
		} else if err != nil {
			return nil, SettingsResult{}, fmt.Errorf("load settings: %w", err)
		}

		if input.WhatsAppNumber != nil {
			number := digitsOnly(*input.WhatsAppNumber)
			if strings.TrimSpace(*input.WhatsAppNumber) != "" && number == "" {
				return nil, SettingsResult{}, fmt.Errorf("whatsapp number must contain digits")
			}
			settings.WhatsAppNumber = number
		}
		if input.WidgetEnabled != nil {
			settings.WidgetEnabled = *input.WidgetEnabled
		}
		if input.ChatText != nil {
			settings.ChatText = strings.TrimSpace(*input.ChatText)
		}
		if input.ShareText != nil {
			settings.ShareText = strings.TrimSpace(*input.ShareText)
		}
		if input.AgentsJSON != nil {
			settings.AgentsJSON = *input.AgentsJSON
		}
		if input.BusinessHoursJSON != nil {
			settings.BusinessHoursJSON = *input.BusinessHoursJSON
		}

		if err := store.PutSettings(ctx, settings); err != nil {
			return nil, SettingsResult{}, fmt.Errorf("save settings: %w", err)
		}
		return nil, settingsResult(settings), nil
	}
}

// AnalyticsSummaryHandler aggregates a shop's analytics counters.
func AnalyticsSummaryHandler(store storage.AnalyticsStore) mcp.ToolHandlerFor[SettingsInput, AnalyticsSummaryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsInput) (*mcp.CallToolResult, AnalyticsSummaryResult, error) {
		shop := strings.TrimSpace(input.Shop)
		if shop == "" {
			return nil, AnalyticsSummaryResult{}, fmt.Errorf("shop is required")
		}

		totalShares, err := store.CountEvents(ctx, shop, shareEventTypes)
		if err != nil {
			return nil, AnalyticsSummaryResult{}, fmt.Errorf("count total shares: %w", err)
		}
		totalChats, err := store.CountEvents(ctx, shop, chatEventTypes)
		if err != nil {
			return nil, AnalyticsSummaryResult{}, fmt.Errorf("count total chats: %w", err)
		}

		result := AnalyticsSummaryResult{
			Shop:        shop,
			TotalShares: totalShares,
			TotalChats:  totalChats,
			NewInstall:  totalShares == 0 && totalChats == 0,
		}
		if result.NewInstall {
			return nil, result, nil
		}

		now := time.Now().UTC()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		weekAgo := now.AddDate(0, 0, -7)

		if result.SharesToday, err = store.CountEventsSince(ctx, shop, shareEventTypes, midnight); err != nil {
			return nil, AnalyticsSummaryResult{}, fmt.Errorf("count shares today: %w", err)
		}
		if result.ChatsToday, err = store.CountEventsSince(ctx, shop, chatEventTypes, midnight); err != nil {
			return nil, AnalyticsSummaryResult{}, fmt.Errorf("count chats today: %w", err)
		}
		if result.SharesThisWeek, err = store.CountEventsSince(ctx, shop, shareEventTypes, weekAgo); err != nil {
			return nil, AnalyticsSummaryResult{}, fmt.Errorf("count shares this week: %w", err)
		}

		result.EstimatedSales = int(float64(totalShares) * shareConversionRate)
		result.EstimatedRevenue = result.EstimatedSales * averageOrderValue
		return nil, result, nil
	}
}

func settingsResult(settings storage.Settings) SettingsResult {
	return SettingsResult{
		Shop:              settings.Shop,
		WhatsAppNumber:    settings.WhatsAppNumber,
		WidgetEnabled:     settings.WidgetEnabled,
		Position:          settings.Position,
		Theme:             settings.Theme,
		ChatText:          settings.ChatText,
		ShareText:         settings.ShareText,
		AgentsJSON:        settings.AgentsJSON,
		BusinessHoursJSON: settings.BusinessHoursJSON,
	}
}

func digitsOnly(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
}
