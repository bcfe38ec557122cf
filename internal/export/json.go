package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/framesim/internal/storage"
)

type Document struct {
	Metadata storage.RunMetadata `json:"metadata"`
	Result   *storage.Result     `json:"result"`
}

// WriteJSON writes one indented document holding the run metadata and the
// full result.
func WriteJSON(w io.Writer, meta storage.RunMetadata, r *storage.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{Metadata: meta, Result: r})
}
