package registry

import (
	"errors"
	"sync"
	"testing"
)

func TestRegisterYGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("orders", "colección-orders")
	if err != nil {
		t.Fatalf("Register falló: %v", err)
	}
	if !isNew {
		t.Error("el primer Register debe reportar isNew=true")
	}

	item, exists := r.Get("orders")
	if !exists || item != "colección-orders" {
		t.Errorf("Get = (%q, %v)", item, exists)
	}

	// Registrar de nuevo sobrescribe
	isNew, err = r.Register("orders", "otra")
	if err != nil {
		t.Fatalf("Register falló: %v", err)
	}
	if isNew {
		t.Error("sobrescribir debe reportar isNew=false")
	}
	if item, _ := r.Get("orders"); item != "otra" {
		t.Errorf("Get tras sobrescribir = %q", item)
	}

	if _, exists := r.Get("noExiste"); exists {
		t.Error("Get de un nombre no registrado debe reportar exists=false")
	}

	if _, err := r.Register("", "x"); err == nil {
		t.Error("Register con nombre vacío debe fallar")
	}
}

func TestGetOrCreate(t *testing.T) {
	r := NewRegistry[int]()

	creaciones := 0
	creator := func() (int, error) {
		creaciones++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		item, err := r.GetOrCreate("contador", creator)
		if err != nil {
			t.Fatalf("GetOrCreate falló: %v", err)
		}
		if item != 42 {
			t.Errorf("item = %d, se esperaba 42", item)
		}
	}
	if creaciones != 1 {
		t.Errorf("creator se invocó %d veces, se esperaba 1", creaciones)
	}

	if _, err := r.GetOrCreate("falla", func() (int, error) {
		return 0, errors.New("sin recursos")
	}); err == nil {
		t.Error("GetOrCreate debe propagar el error del creator")
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "1")

	limpiado := false
	deleted, err := r.Clear("a", func(item string) error {
		limpiado = true
		return nil
	})
	if err != nil || !deleted {
		t.Fatalf("Clear = (%v, %v)", deleted, err)
	}
	if !limpiado {
		t.Error("Clear debe invocar el cleanup")
	}
	if _, exists := r.Get("a"); exists {
		t.Error("el item debe desaparecer tras Clear")
	}

	deleted, err = r.Clear("a", nil)
	if err != nil || deleted {
		t.Errorf("Clear sobre un nombre inexistente = (%v, %v)", deleted, err)
	}
}

func TestRegistryConcurrente(t *testing.T) {
	r := NewRegistry[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Register("compartido", n)
			r.Get("compartido")
		}(i)
	}
	wg.Wait()

	if _, exists := r.Get("compartido"); !exists {
		t.Error("el item compartido debe existir tras las escrituras concurrentes")
	}
}
