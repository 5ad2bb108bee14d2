package inventory

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/mvc-is/portal/internal/models"
)

// Field is one form field of a category schema.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"` // text, number, date
	Required bool   `json:"required"`
}

// systemKeys are managed by the store and dropped from submitted forms.
var systemKeys = map[string]bool{
	"id":         true,
	"owner_id":   true,
	"ownerId":    true,
	"created_at": true,
	"createdAt":  true,
	"updated_at": true,
	"updatedAt":  true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldsOf derives the schema from the mapstructure, label and validate tags
// of a record struct. Embedded structs (the system columns) are skipped.
func fieldsOf(t reflect.Type) []Field {
	var fields []Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		key := strings.SplitN(sf.Tag.Get("mapstructure"), ",", 2)[0]
		if key == "" || key == "-" {
			continue
		}
		rules := sf.Tag.Get("validate")

		f := Field{
			Key:      key,
			Label:    sf.Tag.Get("label"),
			Type:     "text",
			Required: hasRule(rules, "required"),
		}
		if f.Label == "" {
			f.Label = sf.Name
		}
		switch {
		case sf.Type.Kind() == reflect.Int:
			f.Type = "number"
		case strings.Contains(rules, "datetime="):
			f.Type = "date"
		}
		fields = append(fields, f)
	}
	return fields
}

func hasRule(rules, name string) bool {
	for _, r := range strings.Split(rules, ",") {
		if r == name {
			return true
		}
	}
	return false
}

var (
	errNotWholeNumber = errors.New("must be a whole number")
	errNotText        = errors.New("must be text")
)

// strictTypes admits JSON numbers without a fraction and numeric strings into
// int fields, and only strings into string fields.
var strictTypes mapstructure.DecodeHookFuncType = func(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int:
		switch v := data.(type) {
		case int:
			return v, nil
		case int64:
			if v < math.MinInt || v > math.MaxInt {
				return nil, errNotWholeNumber
			}
			return int(v), nil
		case float64:
			if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, errNotWholeNumber
			}
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, errNotWholeNumber
			}
			return n, nil
		default:
			return nil, errNotWholeNumber
		}
	case reflect.String:
		if _, ok := data.(string); !ok {
			return nil, errNotText
		}
	}
	return data, nil
}

// goType is the Go type a schema field decodes into.
func (f Field) goType() reflect.Type {
	if f.Type == "number" {
		return reflect.TypeOf(0)
	}
	return reflect.TypeOf("")
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Decode turns a submitted field map into a typed record of this category.
// System columns in the map are ignored; any other key outside the schema,
// a missing required field or a malformed value is a ValidationError.
func (k Kind) Decode(fields map[string]any) (models.InventoryRecord, error) {
	// 1. --- Strip system columns & reject foreign keys ---
	clean := make(map[string]any, len(fields))
	for key, value := range fields {
		if systemKeys[key] {
			continue
		}
		if !k.HasField(key) {
			return nil, &ValidationError{Category: k.Category, Field: key, Message: "is not a field of this category"}
		}
		clean[key] = value
	}

	// 2. --- Value types ---
	for key, value := range clean {
		if value == nil {
			continue
		}
		f, _ := k.field(key)
		v, err := mapstructure.DecodeHookExec(strictTypes, reflect.ValueOf(value), reflect.New(f.goType()).Elem())
		if err != nil {
			return nil, &ValidationError{Category: k.Category, Field: key, Message: f.Label + " " + err.Error()}
		}
		clean[key] = v
	}

	// 3. --- Required fields ---
	for _, f := range k.Fields {
		if f.Required && isBlank(clean[f.Key]) {
			return nil, &ValidationError{Category: k.Category, Field: f.Key, Message: f.Label + " is required"}
		}
	}

	// 4. --- Decode into the concrete type ---
	rec := k.newRecord()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      rec,
		TagName:     "mapstructure",
		ErrorUnused: true,
		DecodeHook:  strictTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(clean); err != nil {
		return nil, &ValidationError{Category: k.Category, Message: err.Error()}
	}

	// 5. --- Formats & enums ---
	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			label := fe.Field()
			if f, ok := k.field(fe.Field()); ok {
				label = f.Label
			}
			return nil, &ValidationError{
				Category: k.Category,
				Field:    fe.Field(),
				Message:  fmt.Sprintf("%s failed the %q rule", label, fe.Tag()),
			}
		}
		return nil, &ValidationError{Category: k.Category, Message: err.Error()}
	}
	return rec, nil
}

// Values flattens a record into its schema fields.
func (k Kind) Values(r models.InventoryRecord) map[string]any {
	out := map[string]any{}
	if err := mapstructure.Decode(r, &out); err != nil {
		return map[string]any{}
	}
	return out
}

// Headers are the column labels in schema order.
func (k Kind) Headers() []string {
	headers := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		headers[i] = f.Label
	}
	return headers
}

// Row renders a record as strings in schema order.
func (k Kind) Row(r models.InventoryRecord) []string {
	values := k.Values(r)
	row := make([]string, len(k.Fields))
	for i, f := range k.Fields {
		if v, ok := values[f.Key]; ok && v != nil {
			row[i] = fmt.Sprint(v)
		}
	}
	return row
}

// DisplayName is the value searched by the quick filter.
func (k Kind) DisplayName(r models.InventoryRecord) string {
	if v, ok := k.Values(r)[k.DisplayField]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
