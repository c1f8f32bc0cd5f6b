package repo

const defaultPageLimit = 20

func pageLimitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	return limit
}

// pageWindow turns a 1-based page number into the offset and size of that
// page. Pages below 1 read as the first page.
func pageWindow(pageNum, limit int) (skip, size int) {
	size = pageLimitOrDefault(limit)
	if pageNum < 1 {
		pageNum = 1
	}
	return (pageNum - 1) * size, size
}
