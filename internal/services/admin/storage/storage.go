// Package storage defines persistence contracts for merchant widget
// settings and analytics events.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Settings stores one shop's widget configuration.
type Settings struct {
	Shop              string
	WhatsAppNumber    string
	WidgetEnabled     bool
	Position          string
	Theme             string
	ChatText          string
	ShareText         string
	AgentsJSON        string
	BusinessHoursJSON string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultSettings returns the configuration a shop starts with.
func DefaultSettings(shop string) Settings {
	return Settings{
		Shop:          shop,
		WidgetEnabled: true,
		Position:      "bottom-right",
		Theme:         "whatsapp",
		ChatText:      "Chat",
		ShareText:     "Get opinion",
	}
}

// AnalyticsEvent stores one recorded widget event.
type AnalyticsEvent struct {
	ID         string
	Shop       string
	Type       string
	Product    string
	URL        string
	AttrsJSON  string
	OccurredAt time.Time
}

// SettingsStore persists widget settings per shop.
type SettingsStore interface {
	GetSettings(ctx context.Context, shop string) (Settings, error)
	PutSettings(ctx context.Context, settings Settings) error
}

// AnalyticsStore persists widget analytics events.
type AnalyticsStore interface {
	AppendEvent(ctx context.Context, event AnalyticsEvent) error
	CountEvents(ctx context.Context, shop string, types []string) (int, error)
	CountEventsSince(ctx context.Context, shop string, types []string, since time.Time) (int, error)
	ListRecentEvents(ctx context.Context, shop string, limit int) ([]AnalyticsEvent, error)
}

// Store is a composite interface for admin storage concerns.
type Store interface {
	SettingsStore
	AnalyticsStore
	Close() error
}
