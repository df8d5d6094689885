package messenger

import (
	"log"

	"github.com/dpetrov/go-messenger/internal/database"
)

// Service is the transport-neutral operation surface of the messenger core.
// Every operation takes the acting user's id explicitly; there is no
// session-scoped state, and permission checks are fresh registry queries on
// every call.
type Service struct {
	log *log.Logger
	db  database.MessengerRepository
}

func NewService(logger *log.Logger, db database.MessengerRepository) *Service {
	return &Service{
		log: logger,
		db:  db,
	}
}

func (s *Service) Ping() error {
	return s.db.Ping()
}
