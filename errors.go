package stockbook

import "errors"

var (
	// ErrStorageUnavailable is returned by a Store that has no storage medium to work with.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound is returned when a key or an entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorruptStoredValue is returned when a stored value cannot be decoded.
	ErrCorruptStoredValue = errors.New("corrupt stored value")

	// ErrValidation is returned when a form holds a missing or invalid field.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicate is returned when a ticker is already in a list that does not accept duplicates.
	ErrDuplicate = errors.New("duplicate ticker")

	// ErrEditing is returned when creating an entry while another one is being edited.
	ErrEditing = errors.New("an entry is being edited")

	// ErrNotEditing is returned when updating an entry that is not being edited.
	ErrNotEditing = errors.New("entry is not being edited")

	// ErrImportParse is returned when a backup file is not valid JSON.
	ErrImportParse = errors.New("failed to import, invalid JSON file")

	// ErrImportSchema is returned when a backup document misses one of the list keys.
	ErrImportSchema = errors.New("invalid backup file")
)
