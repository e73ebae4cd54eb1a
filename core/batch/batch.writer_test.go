package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// commitRecorder captura los grupos confirmados para inspeccionarlos
type commitRecorder struct {
	batches [][]StagedOp
	failAt  int // Falla en el commit número failAt (1-based, 0 = nunca)
}

func (r *commitRecorder) commit(ctx context.Context, ops []StagedOp) error {
	if r.failAt > 0 && len(r.batches)+1 == r.failAt {
		return errors.New("commit rechazado")
	}
	batch := make([]StagedOp, len(ops))
	copy(batch, ops)
	r.batches = append(r.batches, batch)
	return nil
}

func stageN(t *testing.T, w *Writer, collection string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := w.StageUpsert(context.Background(), collection,
			bson.M{"seq": i}, bson.M{"$inc": bson.M{"value": 1}}); err != nil {
			t.Fatalf("StageUpsert falló en la operación %d: %v", i, err)
		}
	}
}

func TestWriterConfirmaEnGruposDeLimite(t *testing.T) {
	recorder := &commitRecorder{}
	w := NewWriterWithCommit(500, recorder.commit)

	stageN(t, w, "monthlyStatistics", 1200)
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush falló: %v", err)
	}

	if len(recorder.batches) != 3 {
		t.Fatalf("se esperaban 3 commits, hubo %d", len(recorder.batches))
	}
	for i, want := range []int{500, 500, 200} {
		if got := len(recorder.batches[i]); got != want {
			t.Errorf("commit %d: se esperaban %d operaciones, hubo %d", i+1, want, got)
		}
	}
	if w.Commits() != 3 {
		t.Errorf("Commits() = %d, se esperaba 3", w.Commits())
	}
	if w.Pending() != 0 {
		t.Errorf("Pending() = %d después de Flush, se esperaba 0", w.Pending())
	}
}

func TestWriterFlushSinOperacionesNoConfirma(t *testing.T) {
	recorder := &commitRecorder{}
	w := NewWriterWithCommit(0, recorder.commit)

	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush vacío falló: %v", err)
	}
	if len(recorder.batches) != 0 {
		t.Errorf("Flush vacío no debe confirmar nada, hubo %d commits", len(recorder.batches))
	}
}

func TestWriterFalloNoRevierteCommitsPrevios(t *testing.T) {
	recorder := &commitRecorder{failAt: 3}
	w := NewWriterWithCommit(500, recorder.commit)

	stageN(t, w, "orders", 1100)
	err := w.Flush(context.Background())
	if err == nil {
		t.Fatal("se esperaba un error del tercer commit")
	}
	if !strings.Contains(err.Error(), "after 2 committed batches") {
		t.Errorf("el error debe indicar cuántos grupos ya se confirmaron, fue: %v", err)
	}

	// Los dos primeros grupos quedaron confirmados
	if len(recorder.batches) != 2 {
		t.Errorf("se esperaban 2 commits previos intactos, hubo %d", len(recorder.batches))
	}
	if w.Commits() != 2 {
		t.Errorf("Commits() = %d, se esperaba 2", w.Commits())
	}
}

func TestWriterPreservaOrdenRelativo(t *testing.T) {
	recorder := &commitRecorder{}
	w := NewWriterWithCommit(10, recorder.commit)

	for i := 0; i < 4; i++ {
		collection := "orders"
		if i%2 == 1 {
			collection = "serviciosFacturados"
		}
		if err := w.StageInsert(context.Background(), collection, bson.M{"i": i}); err != nil {
			t.Fatalf("StageInsert falló: %v", err)
		}
	}
	if err := w.Flush(context.Background()); err != nil {
		t.Fatalf("Flush falló: %v", err)
	}

	if len(recorder.batches) != 1 {
		t.Fatalf("se esperaba 1 commit, hubo %d", len(recorder.batches))
	}
	want := []string{"orders", "serviciosFacturados", "orders", "serviciosFacturados"}
	for i, op := range recorder.batches[0] {
		if op.Collection != want[i] {
			t.Errorf("operación %d: colección %s, se esperaba %s", i, op.Collection, want[i])
		}
	}
}

func TestGroupByCollectionAgrupaTramosConsecutivos(t *testing.T) {
	ops := []StagedOp{
		{Collection: "orders"},
		{Collection: "orders"},
		{Collection: "monthlyStatistics"},
		{Collection: "orders"},
		{Collection: "orders"},
	}

	runs := groupByCollection(ops)
	if len(runs) != 3 {
		t.Fatalf("se esperaban 3 tramos, hubo %d", len(runs))
	}

	got := ""
	for _, run := range runs {
		got += fmt.Sprintf("%s:%d ", run.collection, len(run.models))
	}
	want := "orders:2 monthlyStatistics:1 orders:2 "
	if got != want {
		t.Errorf("tramos = %q, se esperaba %q", got, want)
	}
}
