package inventory

import (
	"strings"

	"github.com/mvc-is/portal/internal/models"
)

// Filter keeps the records whose display name contains term, ignoring case.
// An empty term keeps everything. It works on an already fetched list.
func Filter(k Kind, records []models.InventoryRecord, term string) []models.InventoryRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	out := make([]models.InventoryRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(k.DisplayName(r)), term) {
			out = append(out, r)
		}
	}
	return out
}
