// JSON document layout for the file-backed store. Two independent documents
// live in the data directory: categories.json maps category → ordered item
// name list, inventory.json maps category → item → positive quantity.
package jsonstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Document file names, matching the persisted state layout.
const (
	categoriesFile = "categories.json"
	inventoryFile  = "inventory.json"
)

// loadDocument reads and unmarshals a JSON document into out. A missing or
// malformed file is treated as empty: out is left untouched and the caller
// keeps its zero value. Only malformed content is logged.
func loadDocument(dir, name string, out any, log *logrus.Entry) {
	path := filepath.Join(dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.WithError(err).WithField("file", name).Warn("corrupt document, starting empty")
	}
}

// saveDocument marshals and writes a JSON document. Failures are logged and
// swallowed: the in-memory state stays authoritative until the next
// successful save.
func saveDocument(dir, name string, in any, log *logrus.Entry) {
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(in, "", "    ")
	if err != nil {
		log.WithError(err).WithField("file", name).Error("marshal document")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).WithField("file", name).Error("save document")
	}
}
