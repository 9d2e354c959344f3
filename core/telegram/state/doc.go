// Package state keeps the per-user conversation state of a Telegram bot.
// It knows nothing about concrete states; bots declare their own State values.
package state
