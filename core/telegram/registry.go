package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/m3rciful/ratebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Command describes an entry of the bot command menu.
type Command struct {
	Description string
	// AdminOnly commands are shown only in privileged chats.
	AdminOnly bool
	// Hidden commands are never shown in a menu.
	Hidden bool
}

// Registry holds the bot's command metadata.
type Registry struct {
	commands map[string]Command
	order    []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// RegisterCommand adds a command; name must start with "/".
func (r *Registry) RegisterCommand(name string, cmd Command) error {
	if r == nil {
		return fmt.Errorf("registry: nil registry")
	}
	if name == "" || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("command", name),
			slog.String("cause", "invalid"),
		)
		return fmt.Errorf("registry: invalid command %q", name)
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("command", name),
			slog.String("cause", "no_slash_prefix"),
		)
		return fmt.Errorf("registry: command %q must start with /", name)
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("command", name),
		)
		return fmt.Errorf("registry: command %q already registered", name)
	}
	r.commands[name] = cmd
	r.order = append(r.order, name)
	return nil
}

// ListCommands returns menu entries in registration order.
// Hidden commands are always skipped; AdminOnly ones only when privileged is false.
func (r *Registry) ListCommands(privileged bool) []tele.Command {
	list := make([]tele.Command, 0, len(r.order))
	for _, name := range r.order {
		meta := r.commands[name]
		if meta.Hidden || (meta.AdminOnly && !privileged) {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: meta.Description})
	}
	return list
}

// LookupCommand finds a command by name, with or without the leading slash.
func (r *Registry) LookupCommand(name string) (string, Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	cmd, ok := r.commands[name]
	return name, cmd, ok
}

// Names returns registered command names sorted alphabetically.
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// CommandSetter is the part of *tele.Bot used to publish menus.
type CommandSetter interface {
	SetCommands(opts ...interface{}) error
}

// InitBotCommands publishes the public menu and a full menu scoped to each privileged chat.
func InitBotCommands(bot CommandSetter, reg *Registry, privilegedChats ...int64) error {
	if err := bot.SetCommands(reg.ListCommands(false)); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("set commands: %w", err)
	}
	full := reg.ListCommands(true)
	for _, chatID := range privilegedChats {
		scope := tele.CommandScope{Type: tele.CommandScopeChat, ChatID: chatID}
		if err := bot.SetCommands(full, scope); err != nil {
			logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.commands.scope_failed",
				slog.String("status", "fail"),
				slog.Int64("chat_id", chatID),
				slog.String("err", err.Error()),
			)
		}
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelInfo, "register.commands",
		slog.String("status", "ok"),
		slog.Int("count", len(full)),
		slog.Int("scoped_chats", len(privilegedChats)),
	)
	return nil
}
