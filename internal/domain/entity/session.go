package entity

// SessionState состояние пользователя в диалоге
type SessionState string

const (
	StateMainMenu            SessionState = "main_menu"             // В главном меню
	StateAwaitingAnnotations SessionState = "awaiting_annotations"  // Ожидание документа с разметкой и детекциями
	StateAwaitingGroundTruth SessionState = "awaiting_ground_truth" // Ожидание эталонной разметки
	StateAwaitingPhoto       SessionState = "awaiting_photo"        // Ожидание снимка для детектора
	StateProcessing          SessionState = "processing"            // Идёт оценка
)

// Session диалог пользователя бота
type Session struct {
	UserID int64        // Telegram User ID
	ChatID int64        // Telegram Chat ID
	State  SessionState // Текущее состояние

	// GroundTruths эталонная разметка, ожидающая снимка.
	GroundTruths []Shape

	// Summary накопленные результаты всех оценок пользователя.
	Summary Summary
}

// NewSession создаёт сессию в главном меню
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние и сбрасывает разметку при возврате в меню
func (s *Session) SetState(state SessionState) {
	s.State = state
	if state == StateMainMenu {
		s.GroundTruths = nil
	}
}
