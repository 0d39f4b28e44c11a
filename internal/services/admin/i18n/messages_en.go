package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Dashboard
	message.SetString(lang, "dashboard.title", "Wazap Dashboard")
	message.SetString(lang, "dashboard.shares_today", "Shares today")
	message.SetString(lang, "dashboard.chats_today", "Chats today")
	message.SetString(lang, "dashboard.total_shares", "Total shares")
	message.SetString(lang, "dashboard.shares_week", "Shares this week")
	message.SetString(lang, "dashboard.estimated_sales", "Estimated sales")
	message.SetString(lang, "dashboard.estimated_revenue", "Estimated revenue")
	message.SetString(lang, "dashboard.chats_total", "%d total")
	message.SetString(lang, "dashboard.recent_activity", "Recent activity")
	message.SetString(lang, "dashboard.no_data", "—")
	message.SetString(lang, "dashboard.new_install", "No activity yet. Stats appear once visitors use the widget.")

	// Settings form
	message.SetString(lang, "settings.heading", "Widget settings")
	message.SetString(lang, "settings.whatsapp_number", "WhatsApp number")
	message.SetString(lang, "settings.whatsapp_number_hint", "Digits only, with country code.")
	message.SetString(lang, "settings.widget_enabled", "Widget enabled")
	message.SetString(lang, "settings.chat_text", "Chat button text")
	message.SetString(lang, "settings.share_text", "Share button text")
	message.SetString(lang, "settings.save", "Save")
	message.SetString(lang, "settings.saved", "Settings saved.")
	message.SetString(lang, "settings.invalid_number", "The WhatsApp number must contain digits.")
}
