// Package worker периодически пересканирует наблюдаемые категории и
// отправляет новые трендовые товары в канал уведомлений.
package worker

import "storepilot/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals
