package pagination

// PageSize tamaño fijo de página para los listados de tiras.
const PageSize = 12

// Page porción de una lista completa ya descargada.
type Page[T any] struct {
	Items      []T
	Page       int // 1-based, ya acotada a [1, TotalPages]
	PageSize   int
	TotalItems int
	TotalPages int
}

// HasNext indica si existe una página siguiente.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// HasPrev indica si existe una página anterior.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// From índice 1-based del primer elemento de la página (0 si está vacía).
func (p Page[T]) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Page-1)*p.PageSize + 1
}

// To índice 1-based del último elemento de la página.
func (p Page[T]) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.From() + len(p.Items) - 1
}

// Paginate corta items en la página solicitada. Una página fuera de rango se acota.
// size <= 0 usa PageSize.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = PageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		return Page[T]{Items: []T{}, Page: 1, PageSize: size}
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}
