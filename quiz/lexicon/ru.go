package lexicon

// Keys shared with the dispatcher and keyboards.
const (
	KeyStart         = "/start"
	KeyHelp          = "/help"
	KeyFillDirection = "/filldirection"
	KeyCancelIdle    = "cancel_idle"
	KeyCancelExited  = "cancel_exited"
)

var ru = map[string]string{
	"/start": "Привет!\n\nЭто бот для подготовки к тестам по истории России.\n\n" +
		"Чтобы выбрать направление теста - отправьте команду /filldirection\n\n" +
		"Чтобы узнать, что умеет бот - отправьте команду /help",
	"/help": "Бот помогает повторить историю по направлениям:\n" +
		"время правления, битвы, войны и восстания, реформы.\n\n" +
		"/filldirection - выбрать направление\n" +
		"/cancel - выйти из теста",
	"/filldirection": "Выберите направление:",

	"time_boards":   "Время правления",
	"battles":       "Битвы",
	"wars_and_riot": "Войны и восстания",
	"reforms":       "Реформы",

	"go_start_time_boards":   "Начать тест",
	"go_start_battles":       "Начать тест",
	"go_start_wars_and_riot": "Начать тест",
	"go_start_reforms":       "Начать тест",

	"chosen_time_boards":   "Было выбрано направление: Время правления.",
	"chosen_battles":       "Было выбрано направление: Битвы.",
	"chosen_wars_and_riot": "Было выбрано направление: Войны и восстания.",
	"chosen_reforms":       "Было выбрано направление: Реформы.",

	"cancel_idle": "Отменять нечего. Вы вне теста\n\n" +
		"Чтобы перейти к выполнению тестов - " +
		"отправьте команду /filldirection и выберите направление",
	"cancel_exited": "Вы вышли из теста.\n\n" +
		"Чтобы снова перейти к выполнению тестов - " +
		"отправьте команду /filldirection и выберите направление",

	"cmd_start":         "Начать работу с ботом",
	"cmd_help":          "Справка",
	"cmd_cancel":        "Выйти из теста",
	"cmd_filldirection": "Выбрать направление",
}
