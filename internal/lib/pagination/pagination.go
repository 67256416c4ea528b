// Package pagination содержит помощники постраничного вывода.
// Размер страницы фиксирован и одинаков для всех списков сервиса.
package pagination

// PageSize — количество элементов на странице во всех списках.
const PageSize = 10

// Normalize приводит номер страницы к допустимому значению.
// Страницы нумеруются с единицы; всё, что меньше, считается первой страницей.
func Normalize(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// Offset возвращает смещение выборки для страницы.
func Offset(page int) int {
	return (Normalize(page) - 1) * PageSize
}

// TotalPages возвращает количество страниц для totalItems элементов.
// Ноль элементов — ноль страниц.
func TotalPages(totalItems int) int {
	return (totalItems + PageSize - 1) / PageSize
}
