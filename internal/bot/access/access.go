// Package access реализует контроль доступа: админ или обычный участник.
// Классификация — чистая проверка по статичному списку из конфига.
// Никакого кэша: каждый админский переход проверяется заново в точке
// использования, меню — это только подсказка, а не авторизация
// (callback можно прислать и руками).
package access

// Classifier определяет, кто админ.
type Classifier struct {
	admins map[int64]struct{}
}

// NewClassifier создаёт классификатор по списку админских user ID.
func NewClassifier(adminIDs []int64) *Classifier {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Classifier{admins: admins}
}

// IsAdmin сообщает, является ли пользователь администратором клана.
func (c *Classifier) IsAdmin(userID int64) bool {
	_, ok := c.admins[userID]
	return ok
}
