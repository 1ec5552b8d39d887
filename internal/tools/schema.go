package tools

// JSON schema builders for tool parameters. Every object schema rejects
// additional properties, matching the strict argument decoding.

func object(required []string, properties map[string]any) map[string]any {
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func date(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"format":      "date",
		"pattern":     `^\d{4}-\d{2}-\d{2}$`,
		"description": description,
	}
}

func dateTime(description string) map[string]any {
	return map[string]any{"type": "string", "format": "date-time", "description": description}
}

func number(description string) map[string]any {
	return map[string]any{"type": "number", "minimum": 0, "description": description}
}

func integer(description string, min, max int) map[string]any {
	return map[string]any{"type": "integer", "minimum": min, "maximum": max, "description": description}
}

func boolean(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func enum(description string, values []string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

func array(description string, items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": description}
}

func itemsSchema() map[string]any {
	return array("Line items; at least one is required.", object(
		[]string{"product_id", "quantity", "unit_price"},
		map[string]any{
			"product_id": str("Product ID."),
			"quantity":   map[string]any{"type": "number", "exclusiveMinimum": 0, "description": "Units sold, greater than 0."},
			"unit_price": number("Price per unit."),
			"sub_total":  number("Line subtotal before discount."),
			"total":      number("Line total."),
			"discount":   number("Line discount amount."),
			"notes":      str("Free-text note for the line."),
		},
	))
}

func addressSchema() map[string]any {
	return object(nil, map[string]any{
		"name":        str("Recipient name."),
		"phone":       str("Recipient phone."),
		"address1":    str("Address line 1."),
		"address2":    str("Address line 2."),
		"city":        str("City."),
		"state":       str("State."),
		"postal_code": str("Postal code."),
		"country":     str("Country."),
	})
}

func customerFields() map[string]any {
	return map[string]any{
		"first_name":  str("First name."),
		"last_name":   str("Last name."),
		"email":       str("Email address."),
		"phone":       str("Phone number."),
		"address1":    str("Address line 1."),
		"address2":    str("Address line 2."),
		"city":        str("City."),
		"state":       str("State."),
		"postal_code": str("Postal code."),
		"country":     str("Country."),
		"member_id":   str("Loyalty member ID."),
		"tags":        array("Customer tags.", map[string]any{"type": "string"}),
	}
}
