// Package dialog реализует конечный автомат диалога с пользователем.
// Многошаговые сценарии (выдать пред, подать жалобу, создать шаблон,
// подать заявку) работают по шагам: каждое следующее сообщение
// пользователя интерпретируется по текущему состоянию его диалога.
//
// У каждого шага свой тип данных — брать из состояния «не то поле»
// невозможно по построению, никаких словарей с interface{}.
package dialog

import (
	"sync"
	"time"
)

// TTL — сколько живёт незавершённый диалог.
// Пользователь, бросивший сценарий на полпути, через 5 минут
// снова оказывается в главном меню.
const TTL = 5 * time.Minute

// StepData — данные текущего шага диалога.
// Каждый сценарный шаг реализует этот интерфейс своей структурой.
type StepData interface {
	// Step возвращает имя шага (для логов).
	Step() string
}

// SelectingTarget — пользователь смотрит список клана и выбирает участника.
type SelectingTarget struct{}

// SelectingAction — участник выбран, ждём выбор действия (пред/похвала).
type SelectingAction struct {
	Target string // ник выбранного участника
}

// AwaitingReason — действие выбрано, ждём свободный текст причины.
type AwaitingReason struct {
	Action string // "pred", "praise" или "complaint"
	Target string // ник участника, к которому относится действие
}

// AwaitingProof — админ запросил доказательства по жалобе,
// следующее сообщение подавшего уйдёт в колонку доказательств.
type AwaitingProof struct {
	ComplaintID string
}

// EditingTemplateField — ждём новое значение поля шаблона отчёта.
type EditingTemplateField struct {
	TemplateID string
	Field      string // "name" или "body"
}

// CreatingTemplateName — создание шаблона, шаг 1: ждём название.
type CreatingTemplateName struct{}

// CreatingTemplateBody — создание шаблона, шаг 2: ждём текст.
type CreatingTemplateBody struct {
	Name string // название, введённое на первом шаге
}

// ApplyingNickname — подача заявки, шаг 1: ждём игровой ник.
type ApplyingNickname struct{}

// ApplyingExternalID — подача заявки, шаг 2: ждём игровой ID.
type ApplyingExternalID struct {
	Nickname string // ник, введённый на первом шаге
}

// LinkingNickname — привязка Telegram-аккаунта к существующему
// участнику: ждём ник из таблицы клана.
type LinkingNickname struct{}

func (SelectingTarget) Step() string      { return "selecting_target" }
func (SelectingAction) Step() string      { return "selecting_action" }
func (AwaitingReason) Step() string       { return "awaiting_reason" }
func (AwaitingProof) Step() string        { return "awaiting_proof" }
func (EditingTemplateField) Step() string { return "editing_template_field" }
func (CreatingTemplateName) Step() string { return "creating_template_name" }
func (CreatingTemplateBody) Step() string { return "creating_template_body" }
func (ApplyingNickname) Step() string     { return "applying_nickname" }
func (ApplyingExternalID) Step() string   { return "applying_external_id" }
func (LinkingNickname) Step() string      { return "linking_nickname" }

// state — запись о диалоге одного пользователя.
type state struct {
	data      StepData
	expiresAt time.Time
}

// Manager хранит состояния диалогов всех пользователей (in-memory).
// Состояния не переживают рестарт процесса — это осознанно:
// незавершённый сценарий просто начинается заново.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]state
}

// NewManager создаёт пустой менеджер состояний.
func NewManager() *Manager {
	return &Manager{states: make(map[int64]state)}
}

// Get возвращает данные текущего шага пользователя
// или nil, если диалога нет либо он истёк.
func (m *Manager) Get(userID int64) StepData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.states[userID]
	if !ok || time.Now().After(s.expiresAt) {
		return nil
	}
	return s.data
}

// Set переводит диалог пользователя на новый шаг.
// Таймер жизни диалога при этом перезапускается.
func (m *Manager) Set(userID int64, data StepData) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[userID] = state{
		data:      data,
		expiresAt: time.Now().Add(TTL),
	}
}

// Clear завершает диалог пользователя (завершение сценария или отмена).
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
