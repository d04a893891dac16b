package envelope

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// The payment gateway (and some legacy endpoints it proxies) is inconsistent
// about its response envelope: the same collection may arrive as a bare
// array, wrapped in {"data": []}, keyed by entity name ({"transactions": []}),
// or inside a {"success": true, "data": []} wrapper. Normalize isolates that
// inconsistency at the boundary so everything downstream operates on a plain
// slice.

// Normalize decodes raw into a flat slice of T records. entity is the
// singular-or-plural key the upstream sometimes wraps the collection in
// (e.g. "transactions"). Unrecognized, null, or empty payloads yield an
// empty slice; Normalize never returns an error to its caller, only a
// diagnostic log for shapes it does not know.
func Normalize[T any](raw []byte, entity string) []T {
	if len(raw) == 0 {
		return []T{}
	}

	var direct []T
	if err := json.Unmarshal(raw, &direct); err == nil {
		if direct == nil {
			return []T{}
		}

		return direct
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		log.Warn().Str("entity", entity).Msg("unrecognized response envelope, treating as empty")

		return []T{}
	}

	for _, key := range []string{entity, "data"} {
		nested, ok := object[key]
		if !ok {
			continue
		}

		var records []T
		if err := json.Unmarshal(nested, &records); err != nil {
			continue
		}

		if records == nil {
			return []T{}
		}

		return records
	}

	log.Warn().Str("entity", entity).Msg("unrecognized response envelope, treating as empty")

	return []T{}
}
