package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.German

	// Dashboard
	message.SetString(lang, "dashboard.title", "Wazap Übersicht")
	message.SetString(lang, "dashboard.shares_today", "Heute geteilt")
	message.SetString(lang, "dashboard.chats_today", "Chats heute")
	message.SetString(lang, "dashboard.total_shares", "Geteilt insgesamt")
	message.SetString(lang, "dashboard.shares_week", "Diese Woche geteilt")
	message.SetString(lang, "dashboard.estimated_sales", "Geschätzte Verkäufe")
	message.SetString(lang, "dashboard.estimated_revenue", "Geschätzter Umsatz")
	message.SetString(lang, "dashboard.chats_total", "%d insgesamt")
	message.SetString(lang, "dashboard.recent_activity", "Letzte Aktivität")
	message.SetString(lang, "dashboard.no_data", "—")
	message.SetString(lang, "dashboard.new_install", "Noch keine Aktivität. Statistiken erscheinen, sobald Besucher das Widget nutzen.")

	// Settings form
	message.SetString(lang, "settings.heading", "Widget-Einstellungen")
	message.SetString(lang, "settings.whatsapp_number", "WhatsApp-Nummer")
	message.SetString(lang, "settings.whatsapp_number_hint", "Nur Ziffern, mit Ländervorwahl.")
	message.SetString(lang, "settings.widget_enabled", "Widget aktiviert")
	message.SetString(lang, "settings.chat_text", "Text der Chat-Schaltfläche")
	message.SetString(lang, "settings.share_text", "Text der Teilen-Schaltfläche")
	message.SetString(lang, "settings.save", "Speichern")
	message.SetString(lang, "settings.saved", "Einstellungen gespeichert.")
	message.SetString(lang, "settings.invalid_number", "Die WhatsApp-Nummer muss Ziffern enthalten.")
}
