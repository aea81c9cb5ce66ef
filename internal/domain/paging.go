package domain

import "math"

// PageSizeAll — сентинельное значение pageSize «вернуть всё одной страницей».
const PageSizeAll = math.MaxInt32

// PagedResult — страница выборки. Len(Data) <= PageSize.
type PagedResult[T any] struct {
	Page       int
	PageSize   int
	TotalCount int
	Data       []T
}

// NormalizePaging приводит параметры страницы к каноничному виду:
// page < 1 трактуется как первая страница, pageSize <= 0 или PageSizeAll —
// как «все найденные строки».
func NormalizePaging(page, pageSize, count int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize == PageSizeAll {
		pageSize = count
	}
	return page, pageSize
}
