// Package batch implementa el escritor por lotes del pipeline de
// conciliación: acumula operaciones de escritura sobre varias colecciones y
// las confirma en grupos de hasta 500 operaciones, cada grupo dentro de una
// transacción de MongoDB.
package batch

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/manilex2/studio-app-functions/core/logger"
)

// MaxOperations es el límite duro de operaciones por commit
const MaxOperations = 500

// StagedOp es una operación de escritura pendiente sobre una colección
type StagedOp struct {
	Collection string           // Nombre de la colección destino
	Model      mongo.WriteModel // Operación (insert, update, upsert)
}

// CommitFunc confirma un grupo de operaciones. Inyectable en tests.
type CommitFunc func(ctx context.Context, ops []StagedOp) error

// Writer acumula operaciones y las confirma en grupos de hasta MaxOperations.
// Un grupo ya confirmado no se revierte si un commit posterior falla.
type Writer struct {
	limit   int
	staged  []StagedOp
	commit  CommitFunc
	commits int // Commits ejecutados en esta corrida
}

// NewWriter crea un Writer que confirma cada grupo dentro de una transacción
// sobre la base de datos indicada. Las operaciones del grupo se ejecutan en
// orden, agrupadas por tramos consecutivos de la misma colección.
func NewWriter(client *mongo.Client, dbName string) *Writer {
	return &Writer{
		limit:  MaxOperations,
		commit: transactionCommit(client, dbName),
	}
}

// NewWriterWithCommit crea un Writer con una función de commit propia.
// Un limit <= 0 usa MaxOperations.
func NewWriterWithCommit(limit int, commit CommitFunc) *Writer {
	if limit <= 0 {
		limit = MaxOperations
	}
	return &Writer{
		limit:  limit,
		commit: commit,
	}
}

// StageInsert encola la creación de un documento
func (w *Writer) StageInsert(ctx context.Context, collection string, document interface{}) error {
	return w.stage(ctx, StagedOp{
		Collection: collection,
		Model:      mongo.NewInsertOneModel().SetDocument(document),
	})
}

// StageUpdate encola la actualización del primer documento que cumpla el filtro
func (w *Writer) StageUpdate(ctx context.Context, collection string, filter, update interface{}) error {
	return w.stage(ctx, StagedOp{
		Collection: collection,
		Model:      mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update),
	})
}

// StageUpsert encola una actualización con upsert (merge)
func (w *Writer) StageUpsert(ctx context.Context, collection string, filter, update interface{}) error {
	return w.stage(ctx, StagedOp{
		Collection: collection,
		Model:      mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true),
	})
}

// stage agrega la operación; al llegar al límite confirma el grupo en curso
// y sigue acumulando en uno nuevo.
func (w *Writer) stage(ctx context.Context, op StagedOp) error {
	w.staged = append(w.staged, op)
	if len(w.staged) >= w.limit {
		return w.flushCurrent(ctx)
	}
	return nil
}

// Flush confirma las operaciones pendientes. Debe llamarse al final de la
// corrida; los grupos intermedios ya se confirmaron al llenarse.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.staged) == 0 {
		return nil
	}
	return w.flushCurrent(ctx)
}

// Pending devuelve la cantidad de operaciones aún no confirmadas
func (w *Writer) Pending() int {
	return len(w.staged)
}

// Commits devuelve la cantidad de grupos confirmados
func (w *Writer) Commits() int {
	return w.commits
}

func (w *Writer) flushCurrent(ctx context.Context) error {
	ops := w.staged
	w.staged = nil

	logger.GetAppLogger().Infof("Ejecutando lote de %d operaciones...", len(ops))
	if err := w.commit(ctx, ops); err != nil {
		return fmt.Errorf("batch commit failed after %d committed batches: %w", w.commits, err)
	}
	w.commits++
	return nil
}

// transactionCommit devuelve la CommitFunc por defecto: ejecuta el grupo
// dentro de una sesión con transacción, en orden, agrupando tramos
// consecutivos de la misma colección en un BulkWrite ordenado.
func transactionCommit(client *mongo.Client, dbName string) CommitFunc {
	return func(ctx context.Context, ops []StagedOp) error {
		session, err := client.StartSession()
		if err != nil {
			return err
		}
		defer session.EndSession(ctx)

		db := client.Database(dbName)
		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			for _, run := range groupByCollection(ops) {
				opts := options.BulkWrite().SetOrdered(true)
				if _, err := db.Collection(run.collection).BulkWrite(sc, run.models, opts); err != nil {
					return nil, err
				}
			}
			return nil, nil
		})
		return err
	}
}

type collectionRun struct {
	collection string
	models     []mongo.WriteModel
}

// groupByCollection parte las operaciones en tramos consecutivos por
// colección, preservando el orden relativo de escritura.
func groupByCollection(ops []StagedOp) []collectionRun {
	var runs []collectionRun
	for _, op := range ops {
		if n := len(runs); n > 0 && runs[n-1].collection == op.Collection {
			runs[n-1].models = append(runs[n-1].models, op.Model)
			continue
		}
		runs = append(runs, collectionRun{
			collection: op.Collection,
			models:     []mongo.WriteModel{op.Model},
		})
	}
	return runs
}
