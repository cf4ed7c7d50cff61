package utils

import "docvault/config"

type PaginationData struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NormalizePage clamps page/pageSize to the configured bounds.
func NormalizePage(page, pageSize int) (int, int) {
	cfg := config.AppConfig.Pagination
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	return page, pageSize
}

func BuildPagination(page, pageSize int, total int64) PaginationData {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return PaginationData{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
