package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// DashboardStats holds aggregate statistics for the dashboard. Values are
// preformatted; NewInstall marks a shop with no recorded activity yet.
type DashboardStats struct {
	SharesToday      string
	ChatsToday       string
	TotalChats       string
	TotalShares      string
	SharesThisWeek   string
	EstimatedSales   string
	EstimatedRevenue string
	NewInstall       bool
}

// EventRow is one entry in the recent activity list.
type EventRow struct {
	Type    string
	Product string
	When    string
}

// SettingsForm holds the current widget settings for the form.
type SettingsForm struct {
	WhatsAppNumber string
	WidgetEnabled  bool
	ChatText       string
	ShareText      string
	ActionURL      string
}

// Dashboard renders the stats grid, recent activity, and the settings form.
func Dashboard(page PageContext, stats DashboardStats, recent []EventRow, form SettingsForm, flash string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>%s</h1>`, html.EscapeString(T(page.Loc, "dashboard.title"))); err != nil {
			return err
		}
		if err := Flash(flash).Render(ctx, w); err != nil {
			return err
		}
		if err := statsGrid(page, stats).Render(ctx, w); err != nil {
			return err
		}
		if err := recentActivity(page, recent).Render(ctx, w); err != nil {
			return err
		}
		return settingsForm(page, form).Render(ctx, w)
	})
}

func statsGrid(page PageContext, stats DashboardStats) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if stats.NewInstall {
			if _, err := fmt.Fprintf(w, `<p class="new-install">%s</p>`,
				html.EscapeString(T(page.Loc, "dashboard.new_install"))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `<section class="stats-grid">`); err != nil {
			return err
		}
		cards := []struct {
			key   string
			value string
			sub   string
		}{
			{"dashboard.shares_today", stats.SharesToday, ""},
			{"dashboard.chats_today", stats.ChatsToday, stats.TotalChats},
			{"dashboard.total_shares", stats.TotalShares, ""},
			{"dashboard.shares_week", stats.SharesThisWeek, ""},
			{"dashboard.estimated_sales", stats.EstimatedSales, ""},
			{"dashboard.estimated_revenue", stats.EstimatedRevenue, ""},
		}
		for _, card := range cards {
			if err := statCard(T(page.Loc, card.key), card.value, card.sub).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

func statCard(label, value, sub string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<article class="stat-card"><span class="stat-value">%s</span><span class="stat-label">%s</span>`,
			html.EscapeString(value), html.EscapeString(label)); err != nil {
			return err
		}
		if sub != "" {
			if _, err := fmt.Fprintf(w, `<span class="stat-sub">%s</span>`, html.EscapeString(sub)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}

func recentActivity(page PageContext, rows []EventRow) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if len(rows) == 0 {
			return nil
		}
		if _, err := fmt.Fprintf(w, `<section class="recent-activity"><h2>%s</h2><ul>`,
			html.EscapeString(T(page.Loc, "dashboard.recent_activity"))); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w,
				`<li><span class="event-type">%s</span><span class="event-product">%s</span><time>%s</time></li>`,
				html.EscapeString(row.Type), html.EscapeString(row.Product), html.EscapeString(row.When)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

func settingsForm(page PageContext, form SettingsForm) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		checked := ""
		if form.WidgetEnabled {
			checked = " checked"
		}
		_, err := fmt.Fprintf(w,
			`<section class="settings"><h2>%s</h2>`+
				`<form method="post" action=%q>`+
				`<label>%s<input type="tel" name="whatsapp_number" value=%q inputmode="numeric"></label>`+
				`<small>%s</small>`+
				`<label><input type="checkbox" name="widget_enabled" value="true"%s>%s</label>`+
				`<label>%s<input type="text" name="chat_text" value=%q></label>`+
				`<label>%s<input type="text" name="share_text" value=%q></label>`+
				`<button type="submit">%s</button>`+
				`</form></section>`,
			html.EscapeString(T(page.Loc, "settings.heading")),
			form.ActionURL,
			html.EscapeString(T(page.Loc, "settings.whatsapp_number")),
			form.WhatsAppNumber,
			html.EscapeString(T(page.Loc, "settings.whatsapp_number_hint")),
			checked,
			html.EscapeString(T(page.Loc, "settings.widget_enabled")),
			html.EscapeString(T(page.Loc, "settings.chat_text")),
			form.ChatText,
			html.EscapeString(T(page.Loc, "settings.share_text")),
			form.ShareText,
			html.EscapeString(T(page.Loc, "settings.save")),
		)
		return err
	})
}
