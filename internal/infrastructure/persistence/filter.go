package persistence

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/erp/sales/internal/domain/shared"
)

// sortableColumns is the whitelist for ORDER BY; anything else falls back
// to created_at to keep user input out of the SQL.
var sortableColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

func validSortColumn(column string) string {
	trimmed := strings.TrimSpace(column)
	if sortableColumns[trimmed] {
		return trimmed
	}
	return "created_at"
}

func validSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// applyFilter applies search, key filters, ordering and pagination to a
// query. searchColumns are the columns matched against Filter.Search.
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, searchColumns...)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query.Order(validSortColumn(filter.OrderBy) + " " + validSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies search and key filters only, for
// count queries
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		conditions := make([]string, len(searchColumns))
		args := make([]any, len(searchColumns))
		for i, column := range searchColumns {
			conditions[i] = column + " LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	for key, value := range filter.Filters {
		switch key {
		case "customer_id", "sales_order_id", "sales_person_id", "invoice_id", "status":
			query = query.Where(key+" = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}
