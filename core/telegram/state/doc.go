// Package state keeps per-user conversation sessions for Telegram bots.
// Sessions are stored behind the Manager interface; memory and Redis
// backends are provided.
package state
