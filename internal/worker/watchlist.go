package worker

import (
	"slices"
	"strings"
)

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// AddCategory добавляет категорию, если её ещё нет. Возвращает false для дубля.
func (w *TrendWatcher) AddCategory(category string) bool {
	category = normalizeCategory(category)
	if category == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if slices.Contains(w.categories, category) {
		return false
	}

	w.categories = append(w.categories, category)

	return true
}

// RemoveCategory удаляет категорию, сохраняя порядок.
func (w *TrendWatcher) RemoveCategory(category string) bool {
	category = normalizeCategory(category)

	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.Index(w.categories, category)
	if i < 0 {
		return false
	}

	w.categories = slices.Delete(w.categories, i, i+1)

	return true
}

// Categories возвращает копию списка.
func (w *TrendWatcher) Categories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.categories)
}

func (w *TrendWatcher) SetCategories(categories []string) {
	w.mu.Lock()
	w.categories = nil
	w.mu.Unlock()

	for _, c := range categories {
		w.AddCategory(c)
	}
}

func (w *TrendWatcher) HasCategory(category string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Contains(w.categories, normalizeCategory(category))
}
