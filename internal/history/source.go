package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/dataprobe/dataprobe/pkg/models"
)

// ResolveSourceID derives the stable per-data-source identifier used to
// key the history log: an explicit identifier wins, then the host+path of
// the source URL, then a content hash of the inline data.
func ResolveSourceID(dataset *models.Dataset) string {
	if dataset.SourceID != "" {
		return dataset.SourceID
	}

	if dataset.SourceURL != "" {
		if u, err := url.Parse(dataset.SourceURL); err == nil && u.Host != "" {
			return u.Host + u.Path
		}
	}

	return contentHash(dataset)
}

// contentHash fingerprints inline data from its headers and row values.
// The hash is stable across runs because headers carry the column order
// and rows are walked in input order.
func contentHash(dataset *models.Dataset) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(dataset.Headers, "\x1f")))
	for _, row := range dataset.Rows {
		for _, header := range dataset.Headers {
			fmt.Fprintf(h, "\x1f%s", models.ValueToString(row[header]))
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
