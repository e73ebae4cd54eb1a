// Package registry provee una implementación genérica y thread-safe del
// patrón registry, usada para administrar instances singleton de la aplicación
// (colecciones de MongoDB, canales de notificación, etc).
package registry

import (
	"fmt"
	"sync"

	"github.com/manilex2/studio-app-functions/core/common"
)

// Registry es un registro genérico thread-safe.
// El type parameter T permite administrar cualquier tipo de objeto.
//
// Example:
//
//	colRegistry := NewRegistry[*mongo.Collection]()
//	colRegistry.Register("orders", col)
//	if col, exists := colRegistry.Get("orders"); exists { ... }
type Registry[T any] struct {
	items map[string]T // Items registrados por nombre
	mu    sync.RWMutex // Mutex para garantizar thread-safety
}

// NewRegistry crea y devuelve un registry nuevo para el tipo T.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register registra un item nuevo. Si ya existe un item con ese nombre,
// se sobrescribe.
//
// Returns:
//   - isNew: true si el item es nuevo, false si sobrescribió uno existente
//   - err: error si el nombre está vacío
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get devuelve el item registrado con ese nombre.
// El segundo valor indica si el item existe.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// GetOrCreate devuelve el item con ese nombre; si no existe lo crea mediante
// la función creator y lo registra.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (item T, err error) {
	if name == "" {
		return item, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existingItem, exists := r.items[name]; exists {
		return existingItem, nil
	}

	newItem, err := creator()
	if err != nil {
		return item, fmt.Errorf("failed to create item: %w", err)
	}

	r.items[name] = newItem
	return newItem, nil
}

// Clear elimina un item del registry. Si se provee una función cleanup, se
// invoca antes de eliminar para liberar recursos.
//
// Returns:
//   - deleted: true si el item fue eliminado, false si no existía
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[name]
	if !exists {
		return false, nil
	}

	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("failed to cleanup item %s: %w", name, err)
		}
	}

	delete(r.items, name)
	return true, nil
}

// ClearAll elimina todos los items del registry, invocando cleanup para cada
// uno si se provee.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count = len(r.items)
	if count == 0 {
		return 0, nil
	}

	if cleanup != nil {
		var errs []error
		for name, item := range r.items {
			if err := cleanup(item); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup %s: %w", name, err))
			}
		}
		if len(errs) > 0 {
			return 0, fmt.Errorf("cleanup errors occurred: %v", errs)
		}
	}

	r.items = make(map[string]T)
	return count, nil
}
