package curriculum

import (
	"github.com/google/uuid"

	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
)

func newUnit(subjectID uuid.UUID, name string, order int) *types.Unit {
	return &types.Unit{SubjectID: subjectID, Name: name, Order: order, Published: types.PublishedNo}
}
