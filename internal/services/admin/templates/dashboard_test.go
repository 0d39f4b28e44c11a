package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/wazaphq/wazap/internal/services/admin/i18n"
	"golang.org/x/text/language"
)

func TestDashboardRendersStatsAndForm(t *testing.T) {
	t.Parallel()
	page := PageContext{Lang: "en", Loc: i18n.Printer(language.English)}
	stats := DashboardStats{
		SharesToday:      "3",
		ChatsToday:       "1",
		TotalChats:       "7 total",
		TotalShares:      "42",
		SharesThisWeek:   "12",
		EstimatedSales:   "3",
		EstimatedRevenue: "$135",
	}
	recent := []EventRow{
		{Type: "share_clicked", Product: "Blue Mug", When: "2026-08-30 11:02"},
		{Type: "whatsapp_clicked", Product: "Blue Mug", When: "2026-08-30 10:47"},
	}
	form := SettingsForm{
		WhatsAppNumber: "491701234567",
		WidgetEnabled:  true,
		ChatText:       "Chat",
		ShareText:      "Get opinion",
		ActionURL:      "/settings",
	}

	var b strings.Builder
	if err := Dashboard(page, stats, recent, form, "Settings saved.").Render(context.Background(), &b); err != nil {
		t.Fatalf("Dashboard() render error = %v", err)
	}
	got := b.String()

	for _, want := range []string{
		"<h1>Wazap Dashboard</h1>",
		`<span class="stat-value">42</span>`,
		"Shares today",
		`<span class="stat-sub">7 total</span>`,
		"Estimated revenue",
		"Recent activity",
		`<span class="event-type">share_clicked</span>`,
		`<time>2026-08-30 10:47</time>`,
		`value="491701234567"`,
		`name="widget_enabled" value="true" checked`,
		`<p class="flash" role="status">Settings saved.</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered dashboard missing %q in:\n%s", want, got)
		}
	}
}

func TestDashboardNewInstallNotice(t *testing.T) {
	t.Parallel()
	page := PageContext{Lang: "en", Loc: i18n.Printer(language.English)}
	stats := DashboardStats{
		SharesToday:    "—",
		ChatsToday:     "—",
		TotalShares:    "—",
		SharesThisWeek: "—",
		NewInstall:     true,
	}

	var b strings.Builder
	if err := Dashboard(page, stats, nil, SettingsForm{ActionURL: "/settings"}, "").Render(context.Background(), &b); err != nil {
		t.Fatalf("Dashboard() render error = %v", err)
	}
	got := b.String()
	if !strings.Contains(got, `class="new-install"`) {
		t.Fatalf("missing new-install notice in:\n%s", got)
	}
	if strings.Contains(got, `class="flash"`) {
		t.Fatalf("unexpected flash banner in:\n%s", got)
	}
	if strings.Contains(got, `class="recent-activity"`) {
		t.Fatalf("unexpected recent activity section without events in:\n%s", got)
	}
	if strings.Contains(got, `class="stat-sub"`) {
		t.Fatalf("unexpected stat sub-label without totals in:\n%s", got)
	}
}

func TestLayoutEscapesTitle(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	err := Layout(PageContext{Lang: "de"}, `Mug <Life>`, nil).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Layout() render error = %v", err)
	}
	got := b.String()
	if !strings.Contains(got, `<html lang="de">`) {
		t.Fatalf("missing lang attribute in:\n%s", got)
	}
	if !strings.Contains(got, "Mug &lt;Life&gt;") {
		t.Fatalf("title not escaped in:\n%s", got)
	}
}

func TestTFallsBackToKey(t *testing.T) {
	t.Parallel()
	if got := T(nil, "settings.save"); got != "settings.save" {
		t.Fatalf("T(nil) = %q, want key fallback", got)
	}
}
