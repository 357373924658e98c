package business

import (
	"fmt"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/artifacts"
)

// User-facing replies
const (
	msgNotALink    = "Пожалуйста, отправь мне ссылку на видео."
	msgUnsupported = "⚠️ Эта платформа пока не поддерживается.\n\n" +
		"Поддерживаемые платформы:\n" +
		"• YouTube\n" +
		"• Instagram"
	msgRateLimited = "⏳ Слишком много запросов. Подожди немного и отправь ссылку снова."
	msgTryLater    = "Произошла ошибка. Попробуй ещё раз позже."

	msgYouTubeStarted   = "Начинаю скачивание видео с YouTube..."
	msgYouTubeFetch     = "Не удалось скачать видео с YouTube. Проверьте ссылку."
	msgYouTubeFailed    = "Произошла ошибка при обработке видео."
	msgArtifactNotFound = "Не удалось найти скачанный файл."

	msgInstagramStarted = "Начинаю скачивание видео с Instagram..."
	msgInstagramInvalid = "Неверная ссылка на Instagram."
	msgInstagramFetch   = "Не удалось скачать видео с Instagram. Возможно, пост приватный или удалён."
	msgInstagramFailed  = "Произошла ошибка при обработке Instagram видео."
	msgNoVideo          = "В этом посте нет видео или оно недоступно."

	msgSendFailed = "Произошла ошибка при отправке видео."
	msgDelivered  = "Видео успешно скачано и отправлено!"
)

func oversizeMessage(v artifacts.Verdict) string {
	return fmt.Sprintf("Видео слишком большое (%.1f МБ). Максимальный размер: %.1f МБ", v.SizeMB(), v.LimitMB())
}

func startMessage(limitMB float64) string {
	return fmt.Sprintf(`🎬 <b>Привет! Я бот для скачивания видео</b>

Отправь мне ссылку на видео из:
• YouTube
• Instagram (посты с видео и Reels)

⚠️ <b>Важно:</b> Размер видео ограничен %.0f МБ`, limitMB)
}

func helpMessage(limitMB float64) string {
	return fmt.Sprintf(`📥 <b>Как использовать бота:</b>

1. Скопируй ссылку на видео
2. Отправь её мне в чат
3. Подожди немного
4. Получи видео в ответ

💡 <b>Поддерживаемые платформы:</b>
• YouTube
• Instagram (посты, Reels)

📁 <b>Ограничения:</b>
• Максимальный размер: %.0f МБ
• Форматы: MP4, MOV`, limitMB)
}
