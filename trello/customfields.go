package trello

import (
	"github.com/uhppoted/trello-sheets/records"
)

// CustomFields indexes a board's custom field definitions by id.
type CustomFields map[string]customField

type customField struct {
	name    string
	options map[string]records.Value
}

func NewCustomFields(definitions []records.Value) CustomFields {
	fields := CustomFields{}

	for _, d := range definitions {
		id := text(d, "id")
		if id == "" {
			continue
		}

		f := customField{
			name:    text(d, "name"),
			options: map[string]records.Value{},
		}

		if f.name == "" {
			f.name = id
		}

		if options, ok := d.Get("options"); ok {
			for _, o := range options.Items() {
				if v, ok := o.Path("value", "text"); ok {
					f.options[text(o, "id")] = v
				}
			}
		}

		fields[id] = f
	}

	return fields
}

// Resolve returns the custom field values of a card as (field name, value) pairs, in the
// order of the card's customFieldItems. Dropdown values are resolved to the option text.
func (cf CustomFields) Resolve(card records.Value) []records.Field {
	items, ok := card.Get("customFieldItems")
	if !ok {
		return nil
	}

	fields := []records.Field{}
	for _, item := range items.Items() {
		id := text(item, "idCustomField")
		if id == "" {
			continue
		}

		def, known := cf[id]
		name := id
		if known {
			name = def.name
		}

		value := records.NullValue()

		if v, ok := item.Get("value"); ok && v.Kind() == records.Object {
			for _, k := range []string{"text", "number", "date", "checked"} {
				if x, ok := v.Get(k); ok {
					value = x
					break
				}
			}
		} else if idValue := text(item, "idValue"); idValue != "" {
			value = records.StringValue(idValue)
			if option, ok := def.options[idValue]; known && ok {
				value = option
			}
		}

		fields = append(fields, records.Field{Key: name, Value: value})
	}

	return fields
}

func text(v records.Value, key string) string {
	if s, ok := v.Get(key); ok {
		return s.Text()
	}

	return ""
}
