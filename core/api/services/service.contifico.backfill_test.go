package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/manilex2/studio-app-functions/core/common"
	"github.com/manilex2/studio-app-functions/core/contifico"
)

func TestDuplicateID(t *testing.T) {
	// Un error de duplicado que trae el id del recurso existente se
	// aprovecha como éxito
	err := &contifico.APIError{StatusCode: 400, Mensaje: "Persona ya registrada", ID: "per-7"}
	if got := duplicateID(err); got != "per-7" {
		t.Errorf("duplicateID = %q, se esperaba per-7", got)
	}

	// También envuelto
	wrapped := fmt.Errorf("creando persona: %w", err)
	if got := duplicateID(wrapped); got != "per-7" {
		t.Errorf("duplicateID sobre error envuelto = %q, se esperaba per-7", got)
	}

	// Sin id no hay nada que salvar
	if got := duplicateID(&contifico.APIError{StatusCode: 400, Mensaje: "Datos inválidos"}); got != "" {
		t.Errorf("duplicateID sin id = %q, se esperaba vacío", got)
	}
	if got := duplicateID(errors.New("otro error")); got != "" {
		t.Errorf("duplicateID sobre un error cualquiera = %q, se esperaba vacío", got)
	}
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(common.ErrNotFound) {
		t.Error("ErrNotFound debe reconocerse")
	}
	if !isNotFound(fmt.Errorf("buscando categoría: %w", common.ErrNotFound)) {
		t.Error("ErrNotFound envuelto debe reconocerse")
	}
	if isNotFound(errors.New("timeout")) {
		t.Error("un error cualquiera no es not found")
	}
	if isNotFound(nil) {
		t.Error("nil no es not found")
	}
}
