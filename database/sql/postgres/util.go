package postgres

import (
	"os"
	"strings"
)

// disableDefaultSslOnLocalhost adds sslmode=disable to params
// when host is localhost/127.0.0.1 and the sslmode param and
// PGSSLMODE environment are both not set.
func disableDefaultSslOnLocalhost(params string) string {
	parts := strings.Fields(params)
	isLocalHost := false
	for _, p := range parts {
		if strings.HasPrefix(p, "sslmode=") {
			return params
		}
		if p == "host=localhost" || p == "host=127.0.0.1" {
			isLocalHost = true
		}
	}

	if !isLocalHost {
		return params
	}

	if _, ok := os.LookupEnv("PGSSLMODE"); ok {
		return params
	}

	// found localhost but explicit no sslmode, disable sslmode
	return params + " sslmode=disable"
}

// stripSchemaFromConnectionParams removes the schema= parameter, which
// is not known to lib/pq, from params.
func stripSchemaFromConnectionParams(params string) (string, string) {
	parts := strings.Fields(params)
	var schema string
	kept := parts[:0]
	for _, p := range parts {
		if strings.HasPrefix(p, "schema=") {
			schema = strings.TrimPrefix(p, "schema=")
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, " "), schema
}
