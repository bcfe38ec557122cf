package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/framesim/internal/storage"
)

// Diagram plots one sectional force of e along its stations.
func Diagram(e *storage.ElementResult, field storage.Field, width, height int) string {
	data := e.Values(field)
	if len(data) == 0 {
		return ""
	}
	caption := fmt.Sprintf("element %d %s (%s), x = 0 .. %.3g", e.Index, field, e.Kind, e.To.Sub(e.From).Norm())
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
