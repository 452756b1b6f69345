package trees

import (
	"strings"

	"github.com/spectriclabs/heka-data-service/internal/heka/record"
)

// NormalizeTrace upper-cases the Y unit of a trace record so that unit
// comparisons downstream are case insensitive.
func NormalizeTrace(h record.Header) {
	if u, ok := h["TrYUnit"].(string); ok {
		h["TrYUnit"] = strings.ToUpper(u)
	}
}
