package memory

import "sync"

// Store хранит коллекции сущностей в памяти. Репозитории кладут в него только
// собственные копии значений и никогда не мутируют сохранённое на месте,
// поэтому снапшот — неглубокая копия карт коллекций.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]any
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]any)}
}

func (s *Store) collection(name string) map[string]any {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]any)
		s.collections[name] = coll
	}
	return coll
}

// get возвращает сохранённое значение по идентификатору.
func (s *Store) get(name, id string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.collections[name][id]
	return val, ok
}

// put сохраняет значение, перезаписывая существующее.
func (s *Store) put(name, id string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection(name)[id] = val
}

// putNew сохраняет значение, только если идентификатор свободен.
func (s *Store) putNew(name, id string, val any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(name)
	if _, exists := coll[id]; exists {
		return false
	}
	coll[id] = val
	return true
}

// swap атомарно читает текущее значение и заменяет его результатом fn.
// Ошибка fn отменяет замену. Используется для compare-and-swap при Update.
func (s *Store) swap(name, id string, fn func(cur any, ok bool) (any, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collection(name)
	cur, ok := coll[id]
	next, err := fn(cur, ok)
	if err != nil {
		return err
	}
	coll[id] = next
	return nil
}

// remove физически удаляет значение.
func (s *Store) remove(name, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections[name], id)
}

// list возвращает все значения коллекции.
func (s *Store) list(name string) []any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[name]
	result := make([]any, 0, len(coll))
	for _, val := range coll {
		result = append(result, val)
	}
	return result
}

// snapshot фиксирует текущее состояние всех коллекций.
func (s *Store) snapshot() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]map[string]any, len(s.collections))
	for name, coll := range s.collections {
		copied := make(map[string]any, len(coll))
		for id, val := range coll {
			copied[id] = val
		}
		snap[name] = copied
	}
	return snap
}

// restore возвращает хранилище к ранее снятому снапшоту.
func (s *Store) restore(snap map[string]map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = snap
}
