package flow

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m3rciful/ratebot/internal/currency"
)

// Manage menu labels.
const (
	LabelAdd    = "Добавить валюту"
	LabelDelete = "Удалить валюту"
	LabelUpdate = "Изменить курс валюты"
)

const (
	msgGreeting        = "Привет! Я бот для работы с валютами.\n\n"
	msgAdminCommands   = "Команды администратора:\n"
	msgPublicCommands  = "Доступные команды:\n"
	msgHelpHeader      = "Доступные команды:\n\n"
	msgNoCurrencies    = "Нет сохранённых валют"
	msgRatesHeader     = "Курсы валют:\n"
	msgAskCode         = "Введите название валюты (например, USD, EUR):"
	msgAskCodeShort    = "Введите название валюты:"
	msgInvalidCode     = "Название валюты должно состоять из трех букв (например, EUR)"
	msgAlreadyExists   = "Данная валюта уже существует"
	msgInvalidRate     = "Ошибка! Введите число для курса."
	msgInvalidAmount   = "Ошибка! Введите число."
	msgNoRates         = "Нет курсов. Добавьте через /save_currency"
	msgConvertNotFound = "Валюта не найдена. Пожалуйста, попробуйте ещё раз"
	msgNotFound        = "Валюта не найдена"
	msgAccessDenied    = "Нет доступа к команде"
	msgChooseAction    = "Выберите действие:"
)

func manageKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]string{{LabelAdd, LabelDelete, LabelUpdate}}}
}

func removeKeyboard() *Keyboard {
	return &Keyboard{Remove: true}
}

func startText(privileged bool) string {
	var b strings.Builder
	b.WriteString(msgGreeting)
	if privileged {
		b.WriteString(msgAdminCommands)
		b.WriteString("/manage_currency - Управление валютами\n")
	} else {
		b.WriteString(msgPublicCommands)
	}
	b.WriteString("/get_currencies - Показать курсы\n")
	b.WriteString("/convert - Конвертировать валюту\n")
	b.WriteString("/help - Список всех команд")
	return b.String()
}

func helpText(privileged bool) string {
	lines := []string{"/start - Начало работы"}
	if privileged {
		lines = append(lines, "/manage_currency - Управление валютами")
	}
	lines = append(lines,
		"/get_currencies - Показать курсы",
		"/convert - Конвертировать валюту",
	)
	return msgHelpHeader + strings.Join(lines, "\n")
}

func ratesText(records []currency.Record) string {
	if len(records) == 0 {
		return msgNoCurrencies
	}
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, fmt.Sprintf("%s: %s RUB", rec.Code, currency.FormatFixed2(rec.Rate)))
	}
	return msgRatesHeader + strings.Join(lines, "\n")
}

func convertPrompt(records []currency.Record) string {
	codes := make([]string, 0, len(records))
	for _, rec := range records {
		codes = append(codes, rec.Code.String())
	}
	return "Введите валюту для конвертации:\nДоступно: " + strings.Join(codes, ", ")
}

func askRateText(code currency.Code) string {
	return fmt.Sprintf("Введите курс %s к рублю:", code)
}

func askNewRateText(code currency.Code) string {
	return fmt.Sprintf("Введите новый курс %s к рублю:", code)
}

func askAmountText(code currency.Code) string {
	return fmt.Sprintf("Введите сумму в %s:", code)
}

func savedText(rec currency.Record) string {
	return fmt.Sprintf("%s = %s RUB\nВалюта успешно сохранена", rec.Code, currency.FormatNumber(rec.Rate))
}

func addedText(code currency.Code) string {
	return fmt.Sprintf("Валюта: %s успешно добавлена", code)
}

func deletedText(code currency.Code) string {
	return fmt.Sprintf("Валюта %s успешно удалена", code)
}

func updatedText(rec currency.Record) string {
	return fmt.Sprintf("Курс валюты %s успешно изменён на %s RUB", rec.Code, currency.FormatNumber(rec.Rate))
}

func conversionText(code currency.Code, amount, result, rate decimal.Decimal) string {
	return fmt.Sprintf("%s %s = %s RUB (1 %s = %s RUB)",
		currency.FormatNumber(amount), code,
		currency.FormatNumber(result),
		code, currency.FormatNumber(rate),
	)
}
