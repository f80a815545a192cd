package data

import (
	"gorm.io/gorm"

	"github.com/boothhq/fleet/internal/server/models"
)

func CreateSession(db *gorm.DB, session *models.Session) error {
	return add(db, session)
}

func ListSessions(db *gorm.DB, selectors ...SelectorFunc) ([]models.Session, error) {
	return list[models.Session](db, append(selectors, CreatedDesc())...)
}
