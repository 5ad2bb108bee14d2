// Package inventory is the owner-scoped record store behind the MIS inventory screens.
//
// Each Category is a closed variant: it names its backing table, its form
// schema and the concrete record type from the models package. Records are
// only ever read or written together with the id of the user who created them.
package inventory

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gosimple/slug"

	"github.com/mvc-is/portal/internal/models"
)

// Category is one of the fixed inventory record kinds.
type Category string

const (
	PersonalComputer Category = "Personal Computer"
	ComputerParts    Category = "Computer Parts"
	Documents        Category = "Documents"
	WiresCables      Category = "Wires & Cables"
)

// DefaultTable holds the records of any category whose type does not name a table.
const DefaultTable = "mis_inventory"

// Kind describes a category: table, form schema and record constructors.
type Kind struct {
	Category     Category `json:"category"`
	Slug         string   `json:"slug"`
	Table        string   `json:"-"`
	Fields       []Field  `json:"fields"`
	DisplayField string   `json:"displayField"`

	newRecord func() models.InventoryRecord
	newList   func() any
	unpack    func(any) []models.InventoryRecord
}

type tabler interface {
	TableName() string
}

// tableOf resolves the table for a record type, falling back to DefaultTable.
func tableOf(r models.InventoryRecord) string {
	if t, ok := r.(tabler); ok {
		return t.TableName()
	}
	return DefaultTable
}

func kindOf[T any, P interface {
	*T
	models.InventoryRecord
}](cat Category, displayField string) Kind {
	return Kind{
		Category:     cat,
		Slug:         slug.Make(string(cat)),
		Table:        tableOf(P(new(T))),
		Fields:       fieldsOf(reflect.TypeOf((*T)(nil)).Elem()),
		DisplayField: displayField,
		newRecord:    func() models.InventoryRecord { return P(new(T)) },
		newList:      func() any { return &[]T{} },
		unpack: func(v any) []models.InventoryRecord {
			list := *(v.(*[]T))
			out := make([]models.InventoryRecord, len(list))
			for i := range list {
				out[i] = P(&list[i])
			}
			return out
		},
	}
}

// kinds is ordered the way the category tabs are shown.
var kinds = []Kind{
	kindOf[models.PersonalComputer](PersonalComputer, "user_full_name"),
	kindOf[models.ComputerPart](ComputerParts, "item_name"),
	kindOf[models.Document](Documents, "title"),
	kindOf[models.Cable](WiresCables, "cable_type"),
}

// Kinds returns every category descriptor in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Categories lists the category names in display order.
func Categories() []Category {
	out := make([]Category, len(kinds))
	for i, k := range kinds {
		out[i] = k.Category
	}
	return out
}

// Lookup returns the descriptor of a category.
func Lookup(cat Category) (Kind, error) {
	for _, k := range kinds {
		if k.Category == cat {
			return k, nil
		}
	}
	return Kind{}, &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", cat)}
}

// ParseCategory accepts either the display name ("Computer Parts") or the
// URL slug ("computer-parts") of a category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, k := range kinds {
		if strings.EqualFold(string(k.Category), s) || k.Slug == strings.ToLower(s) {
			return k.Category, nil
		}
	}
	return "", &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", s)}
}

// NewRecord returns an empty record of this category.
func (k Kind) NewRecord() models.InventoryRecord {
	return k.newRecord()
}

// HasField reports whether key belongs to the category schema.
func (k Kind) HasField(key string) bool {
	_, ok := k.field(key)
	return ok
}

func (k Kind) field(key string) (Field, bool) {
	for _, f := range k.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// columns are the writable columns of the category table.
func (k Kind) columns() []string {
	cols := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		cols[i] = f.Key
	}
	return cols
}
