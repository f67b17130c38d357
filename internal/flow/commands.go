package flow

import "strings"

// Command enumerates the bot commands.
type Command int

const (
	CommandNone Command = iota
	CommandStart
	CommandHelp
	CommandGetCurrencies
	CommandSaveCurrency
	CommandConvert
	CommandManageCurrency
)

// CommandSpec describes a command for dispatch and for the Telegram menu.
type CommandSpec struct {
	Command     Command
	Name        string
	Description string
	// AdminOnly commands are listed only to privileged users.
	AdminOnly bool
	// Hidden commands work but are never listed.
	Hidden bool
}

var commandSpecs = []CommandSpec{
	{Command: CommandStart, Name: "start", Description: "Начало работы"},
	{Command: CommandManageCurrency, Name: "manage_currency", Description: "Управление валютами", AdminOnly: true},
	{Command: CommandGetCurrencies, Name: "get_currencies", Description: "Показать курсы"},
	{Command: CommandConvert, Name: "convert", Description: "Конвертировать валюту"},
	{Command: CommandHelp, Name: "help", Description: "Список всех команд"},
	{Command: CommandSaveCurrency, Name: "save_currency", Description: "Сохранить валюту", Hidden: true},
}

// Commands returns the command table in display order.
func Commands() []CommandSpec {
	return append([]CommandSpec(nil), commandSpecs...)
}

func (c Command) String() string {
	for _, spec := range commandSpecs {
		if spec.Command == c {
			return spec.Name
		}
	}
	return "none"
}

// ParseCommand recognizes "/name", "/name@bot" and "/name args".
func ParseCommand(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return CommandNone, false
	}
	name := text[1:]
	if i := strings.IndexAny(name, " \t\n"); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)
	for _, spec := range commandSpecs {
		if spec.Name == name {
			return spec.Command, true
		}
	}
	return CommandNone, false
}
