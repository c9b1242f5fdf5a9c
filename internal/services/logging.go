package services

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// logError records a service-level failure with its method name and metadata
// in one line, keys sorted for stable output.
func logError(method string, err error, fields map[string]any) {
	if len(fields) == 0 {
		log.Printf("[SERVICE] [ERROR] %s: %v", method, err)
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
	}

	log.Printf("[SERVICE] [ERROR] %s: %v (%s)", method, err, strings.Join(pairs, " "))
}
