package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "detection-eval/internal/application"
	"detection-eval/internal/container"
	"detection-eval/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для оценки детекторов областей.

Я сравниваю найденные области с эталонной разметкой по методу Wolf & Jolion и считаю точность и полноту с учётом разбиений и слияний.

📋 Команды:
/evaluate — оценить готовые детекции (JSON)
/check — разметка + фото, детекции найдёт бот
/stats — накопленная статистика
/reset — сбросить статистику
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

/evaluate — отправьте JSON-документ или текст:
{"ground_truths": [[[x,y], ...], ...], "detections": [[[x,y], ...], ...]}

/check — сначала отправьте разметку (массив областей или {"ground_truths": ...}), затем фото. Бот найдёт контуры, сравнит их с разметкой и пришлёт снимок: разметка зелёным, детекции красным.

💡 Область — минимум три вершины. Точка, повторённая несколько раз в разметке, считается меткой «не учитывать».`

	msgAwaitingAnnotations = "📄 Отправьте JSON с разметкой и детекциями."
	msgAwaitingGroundTruth = "📄 Отправьте JSON с эталонной разметкой."
	msgAwaitingPhoto       = "📸 Разметка принята. Теперь отправьте фото."
	msgCancelled           = "❌ Операция отменена. Отправьте /evaluate или /check для новой оценки."
	msgStatsReset          = "🧹 Статистика сброшена."
	msgChooseCommand       = "❓ Сначала выберите /evaluate или /check. Справка: /help."
	msgUnknownCommand      = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing          = "⏳ Считаю оценку..."
	msgBadDocument         = "⚠️ Не удалось разобрать документ. Формат описан в /help."
	msgBadGeometry         = "⚠️ В документе есть некорректная область: %v"
	msgProcessingError     = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgNoStats             = "📊 Пока нет ни одной оценки."
	msgBusy                = "⏳ Предыдущая оценка ещё не закончена, подождите."
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	session, err := b.container.SessionService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting session: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	switch session.State {
	case entity.StateProcessing:
		b.sendMessage(msg.Chat.ID, msgBusy)
	case entity.StateAwaitingAnnotations:
		b.handleAnnotations(ctx, msg)
	case entity.StateAwaitingGroundTruth:
		b.handleGroundTruth(ctx, msg)
	case entity.StateAwaitingPhoto:
		b.handlePhoto(ctx, msg)
	default:
		b.sendMessage(msg.Chat.ID, msgChooseCommand)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	sessions := b.container.SessionService
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = sessions.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "evaluate":
		_, err = sessions.BeginEvaluate(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingAnnotations)

	case "check":
		_, err = sessions.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingGroundTruth)

	case "stats":
		var session *entity.Session
		session, err = sessions.Get(ctx, userID, chatID)
		if err == nil {
			b.sendMessage(chatID, formatSummary(session.Summary))
		}

	case "reset":
		_, err = sessions.ResetSummary(ctx, userID, chatID)
		b.sendMessage(chatID, msgStatsReset)

	case "cancel":
		_, err = sessions.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		log.Printf("Error handling /%s: %v", msg.Command(), err)
	}
}

// handleAnnotations оценивает документ с разметкой и детекциями
func (b *Bot) handleAnnotations(ctx context.Context, msg *tgbotapi.Message) {
	data, err := b.messagePayload(msg)
	if err != nil {
		log.Printf("Error reading document: %v", err)
		b.sendMessage(msg.Chat.ID, msgBadDocument)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	out, err := b.container.EvaluationService.EvaluateDocument(ctx, msg.From.ID, msg.Chat.ID, data)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	b.sendMessage(msg.Chat.ID, formatOutput(out))
}

// handleGroundTruth сохраняет эталонную разметку
func (b *Bot) handleGroundTruth(ctx context.Context, msg *tgbotapi.Message) {
	data, err := b.messagePayload(msg)
	if err != nil {
		log.Printf("Error reading document: %v", err)
		b.sendMessage(msg.Chat.ID, msgBadDocument)
		return
	}

	if _, err := b.container.EvaluationService.AcceptGroundTruth(ctx, msg.From.ID, msg.Chat.ID, data); err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
}

// handlePhoto запускает детектор на фото и оценивает результат
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	if len(msg.Photo) == 0 {
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	out, err := b.container.EvaluationService.ProcessPhoto(ctx, msg.From.ID, msg.Chat.ID, imageData)
	if err != nil {
		log.Printf("Error processing photo: %v", err)
		b.replyError(msg.Chat.ID, err)
		return
	}

	if len(out.Highlighted) == 0 {
		b.sendMessage(msg.Chat.ID, formatOutput(out))
		return
	}

	reply := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "regions.jpg", Bytes: out.Highlighted})
	reply.Caption = formatOutput(out)
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Error sending photo: %v", err)
	}
}

// messagePayload возвращает текст сообщения или содержимое приложенного документа
func (b *Bot) messagePayload(msg *tgbotapi.Message) ([]byte, error) {
	if msg.Document != nil {
		return b.downloadFile(msg.Document.FileID)
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, errors.New("empty message")
	}
	return []byte(msg.Text), nil
}

func (b *Bot) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, app.ErrBusy):
		b.sendMessage(chatID, msgBusy)
	case errors.Is(err, app.ErrBadDocument):
		b.sendMessage(chatID, msgBadDocument)
	case errors.Is(err, entity.ErrInvalidGeometry), errors.Is(err, entity.ErrDegenerateGeometry):
		b.sendMessage(chatID, fmt.Sprintf(msgBadGeometry, err))
	default:
		log.Printf("Error evaluating: %v", err)
		b.sendMessage(chatID, msgProcessingError)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
