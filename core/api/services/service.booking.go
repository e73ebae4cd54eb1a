package services

import (
	"context"
	"fmt"
	"time"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/global"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingService es el service de reservas de citas
type BookingService struct {
	*BaseServiceMongoImpl[models.Booking]
}

// NewBookingService crea un nuevo BookingService
func NewBookingService() (*BookingService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Bookings)
	if !exist {
		return nil, fmt.Errorf("failed to get bookings collection: %v", common.ErrNotFound)
	}

	return &BookingService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.Booking](collection),
	}, nil
}

// FindPendingReminder devuelve las reservas con fecha dentro de la ventana
// [desde, hasta] a las que todavía no se les envió el recordatorio indicado
// por flagField (notifWS1 o notifWS2).
func (s *BookingService) FindPendingReminder(ctx context.Context, desde, hasta time.Time, flagField string) ([]models.Booking, error) {
	filter := bson.M{
		"date": bson.M{
			"$gte": desde,
			"$lte": hasta,
		},
		flagField: bson.M{"$ne": true},
	}

	return s.Find(ctx, filter, nil)
}

// MarkReminderSent marca el flag de recordatorio de una reserva
func (s *BookingService) MarkReminderSent(ctx context.Context, booking models.Booking, flagField string) error {
	update := &UpdateData{
		Set: map[string]interface{}{
			flagField: true,
		},
	}

	_, err := s.UpdateOne(ctx, bson.M{"_id": booking.ID}, update, nil)
	return err
}
