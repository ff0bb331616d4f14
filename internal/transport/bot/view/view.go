// Package view содержит тексты сообщений бота.
package view

const StartMessage = `👋 <b>StorePilot</b>

/status — состояние наблюдателя
/watch <code>category</code> — следить за категорией
/unwatch <code>category</code> — перестать следить
/watchlist — список категорий
/startwatch, /stopwatch — запустить или остановить наблюдатель
/run <code>budget</code> <code>goal</code> — запустить конвейер
/runs — последние прогоны`

const (
	RunUsage         = "❌ Использование: /run <code>budget</code> <code>goal</code>\n\nПример: /run 500 eco pet toys"
	RunInvalidBudget = "❌ Бюджет должен быть положительным числом"
	RunStarted       = "🚀 Прогон запущен: <i>%s</i>, бюджет $%.2f"
	RunFailed        = "❌ Прогон не выполнен: %s"

	WatchUsage     = "❌ Использование: /watch <code>category</code>"
	UnwatchUsage   = "❌ Использование: /unwatch <code>category</code>"
	WatchAdded     = "✅ Категория <code>%s</code> добавлена"
	WatchDuplicate = "⚠️ Категория <code>%s</code> уже в списке"
	WatchRemoved   = "✅ Категория <code>%s</code> удалена"
	WatchMissing   = "⚠️ Категории <code>%s</code> нет в списке"
	WatchlistEmpty = "📋 <b>Список наблюдения пуст</b>\n\nДобавить: /watch <code>category</code>"

	WatcherAlreadyRunning = "Наблюдатель уже запущен!"
	WatcherNotRunning     = "Наблюдатель не запущен!"
	WatcherStarted        = "Наблюдатель запущен!"
	WatcherStopped        = "Наблюдатель остановлен!"
	WatcherStartFailed    = "Ошибка запуска наблюдателя: %v"

	RunsError              = "❌ Ошибка получения прогонов"
	RunsEmpty              = "📭 Прогонов пока нет"
	RunsPaginationTemplate = "📚 <b>Последние прогоны</b> (Стр. %d/%d)\n\n"
	RunsItemTemplate       = "%s <code>%s</code> %s\n"
	StatusTemplate         = "📊 <b>Статус</b>\n\n🔍 <b>Наблюдатель:</b> %s\n📦 <b>Категорий:</b> %d"
	StatusRunning          = "🟢 работает"
	StatusStopped          = "🔴 остановлен"
)
