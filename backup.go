package stockbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

// this file contains functions to handle the backup format.
// It should remain human readable and single file.

// BackupFilename is the suggested name of an exported backup.
const BackupFilename = "stock-app-data.json"

// Backup is the backup document: the three persisted lists in a single JSON object
// with properties 'limitOrders', 'watchlist' and 'tplist'.
//
// Entries are kept as stored, so that an entry the controllers cannot read still
// survives an export.
type Backup struct {
	LimitOrders []json.RawMessage `json:"limitOrders"`
	Watchlist   []json.RawMessage `json:"watchlist"`
	TPList      []json.RawMessage `json:"tplist"`
}

// Export reads the three lists as currently persisted in 's'.
func Export(s Store) Backup {
	return Backup{
		LimitOrders: loadRaw(s, LimitOrdersKey),
		Watchlist:   loadRaw(s, WatchlistKey),
		TPList:      loadRaw(s, TPListKey),
	}
}

// EncodeBackup writes 'b' to 'w' as indented JSON.
func EncodeBackup(w io.Writer, b Backup) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode backup: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write backup: %w", err)
	}
	return nil
}

// decodeDocument parses an arbitrary JSON document, keeping numbers as written.
func decodeDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after the JSON document")
	}
	return doc, nil
}

// Import reads a backup document from 'r' and overwrites the three lists in 's'.
//
// A document that is not JSON fails with ErrImportParse. A document where one of
// the three properties is missing, null or not an array fails with ErrImportSchema.
// Entries are not validated, they are stored as written in the document. In both
// failure cases 's' is left untouched. The three keys are written with SaveAll.
func Import(s Store, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("cannot read backup: %w", err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImportParse, err)
	}

	var invalid []string
	for _, key := range Keys {
		v, err := jsonpath.Get("$."+key, doc)
		if _, ok := v.([]any); err != nil || !ok {
			invalid = append(invalid, key)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("%w: missing or invalid %q", ErrImportSchema, invalid)
	}

	// the document is an object whose three keys are arrays.
	var lists map[string]json.RawMessage
	if err := json.Unmarshal(data, &lists); err != nil {
		return fmt.Errorf("%w: %v", ErrImportParse, err)
	}
	entries := make(map[string][]byte, len(Keys))
	for _, key := range Keys {
		var list []json.RawMessage
		if err := json.Unmarshal(lists[key], &list); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrImportSchema, key, err)
		}
		raw, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("cannot encode %q: %w", key, err)
		}
		entries[key] = raw
	}
	return SaveAll(s, entries)
}

// Query evaluates a JSONPath expression (e.g. "$.limitOrders[*].ticker") on the
// backup document of 'b'.
func Query(b Backup, path string) (any, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("cannot encode backup: %w", err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q: %w", path, err)
	}
	return v, nil
}

// ImportMessage returns the message shown to the user at the end of an import.
func ImportMessage(err error) string {
	switch {
	case err == nil:
		return "Imported successfully!"
	case errors.Is(err, ErrImportSchema):
		return "Invalid backup file."
	case errors.Is(err, ErrImportParse):
		return "Failed to import, invalid JSON file."
	}
	return err.Error()
}
