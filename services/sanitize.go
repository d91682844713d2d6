package services

import (
	"encoding/json"
	"strings"
)

// updatableOrderColumns is the allow-list of columns a partial update may
// touch. Client payloads are merged as raw maps, so anything outside this
// set never reaches SQL.
var updatableOrderColumns = map[string]bool{
	"status":            true,
	"status_tecnico":    true,
	"tecnico_id":        true,
	"cliente_id":        true,
	"equipamento":       true,
	"valor_servico":     true,
	"valor_peca":        true,
	"valor_faturado":    true,
	"data_entrega":      true,
	"cliente_recusou":   true,
	"descricao_peca":    true,
	"descricao_servico": true,
	"checklist":         true,
	"laudo_s3_key":      true,
}

// alwaysIncludeColumns are copied through even when empty, so the caller
// can clear them on purpose.
var alwaysIncludeColumns = map[string]bool{
	"checklist": true,
}

// coerceToTextColumns are kept as empty strings rather than dropped, so a
// partial submission resets them instead of silently preserving stale text.
var coerceToTextColumns = map[string]bool{
	"descricao_peca":    true,
	"descricao_servico": true,
}

// SanitizeOrderUpdate builds the column map actually applied to an order
// from an arbitrary partial-update payload. Policy: always-include columns
// verbatim, the two description columns coerced to "", cliente_recusou
// truthy-coerced, everything else only when non-nil and non-empty. This is
// a merge policy, not validation: values keep whatever type they arrived as.
func SanitizeOrderUpdate(payload map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(payload))
	for key, value := range payload {
		if !updatableOrderColumns[key] {
			continue
		}

		switch {
		case alwaysIncludeColumns[key]:
			out[key] = flattenValue(value)
		case coerceToTextColumns[key]:
			if value == nil {
				out[key] = ""
			} else if s, ok := value.(string); ok {
				out[key] = s
			} else {
				out[key] = flattenValue(value)
			}
		case key == "cliente_recusou":
			out[key] = Truthy(value)
		default:
			if value == nil {
				continue
			}
			if s, ok := value.(string); ok && s == "" {
				continue
			}
			out[key] = flattenValue(value)
		}
	}
	return out
}

// Truthy coerces a JSON value to a boolean the way the order form submits
// it: real booleans, the strings "true"/"1"/"sim", or a nonzero number.
func Truthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "1" || s == "sim"
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

// flattenValue JSON-encodes objects and arrays so they can be stored in
// text columns; scalars pass through untouched.
func flattenValue(value interface{}) interface{} {
	switch value.(type) {
	case nil, string, bool, float64, int, int64:
		return value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return value
		}
		return string(encoded)
	}
}
