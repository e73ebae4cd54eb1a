package services

import (
	"context"
	"fmt"
	"time"

	models "github.com/manilex2/studio-app-functions/core/api/models/mongodb"
	"github.com/manilex2/studio-app-functions/core/batch"
	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BucketKey identifica un balde de estadísticas mensuales. Las referencias en
// nil representan la dimensión global (sin desagregar).
type BucketKey struct {
	Year  int
	Month int

	StoreRef   *primitive.ObjectID
	AsesorRef  *primitive.ObjectID
	ClientRef  *primitive.ObjectID
	ProductRef *primitive.ObjectID
	ServiceRef *primitive.ObjectID
}

// StatisticDelta son los incrementos a aplicar sobre un balde
type StatisticDelta struct {
	ProductTotalValue float64
	ServiceTotalValue float64
	ProductCount      float64
	ServiceCount      float64
	TotalValue        float64
	TotalTransactions int64
}

// Add acumula otro delta sobre este
func (d *StatisticDelta) Add(other StatisticDelta) {
	d.ProductTotalValue += other.ProductTotalValue
	d.ServiceTotalValue += other.ServiceTotalValue
	d.ProductCount += other.ProductCount
	d.ServiceCount += other.ServiceCount
	d.TotalValue += other.TotalValue
	d.TotalTransactions += other.TotalTransactions
}

// IsZero indica si el delta no aporta ningún incremento
func (d StatisticDelta) IsZero() bool {
	return d.ProductTotalValue == 0 &&
		d.ServiceTotalValue == 0 &&
		d.ProductCount == 0 &&
		d.ServiceCount == 0 &&
		d.TotalValue == 0 &&
		d.TotalTransactions == 0
}

// MonthlyStatisticService es el service de estadísticas mensuales agregadas
type MonthlyStatisticService struct {
	*BaseServiceMongoImpl[models.MonthlyStatistic]
}

// NewMonthlyStatisticService crea un nuevo MonthlyStatisticService
func NewMonthlyStatisticService() (*MonthlyStatisticService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.MonthlyStatistics)
	if !exist {
		return nil, fmt.Errorf("failed to get monthlyStatistics collection: %v", common.ErrNotFound)
	}

	return &MonthlyStatisticService{
		BaseServiceMongoImpl: NewBaseServiceMongo[models.MonthlyStatistic](collection),
	}, nil
}

// BucketFilter arma el filtro de identidad completo de un balde. Las siete
// dimensiones van siempre explícitas (las ausentes como null) para que el
// upsert materialice la identidad completa y el índice único la proteja.
func BucketFilter(key BucketKey) bson.M {
	return bson.M{
		"year":       key.Year,
		"month":      key.Month,
		"storeRef":   key.StoreRef,
		"asesorRef":  key.AsesorRef,
		"clientRef":  key.ClientRef,
		"productRef": key.ProductRef,
		"serviceRef": key.ServiceRef,
	}
}

// StageIncrement encola un upsert con $inc atómico sobre el balde indicado.
// La escritura real ocurre cuando el batch.Writer ejecuta el lote, por lo que
// varias ejecuciones concurrentes convergen sin leer-modificar-escribir.
func (s *MonthlyStatisticService) StageIncrement(ctx context.Context, w *batch.Writer, key BucketKey, delta StatisticDelta, now time.Time) error {
	if delta.IsZero() {
		return nil
	}

	update := &UpdateData{
		Inc: map[string]interface{}{
			"productTotalValue": delta.ProductTotalValue,
			"serviceTotalValue": delta.ServiceTotalValue,
			"productCount":      delta.ProductCount,
			"serviceCount":      delta.ServiceCount,
			"totalValue":        delta.TotalValue,
			"totalTransactions": delta.TotalTransactions,
		},
		Set: map[string]interface{}{
			"lastUpdate": now,
		},
	}

	return w.StageUpsert(ctx, s.Collection().Name(), BucketFilter(key), update)
}
