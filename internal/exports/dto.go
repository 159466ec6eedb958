package exports

import (
	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

// File is a rendered workbook ready to be served as an attachment.
type File struct {
	Name string
	Data []byte
}

// Range bounds dated exports. Zero ends are open.
type Range struct {
	Start types.Date
	End   types.Date
}

// ImportResult reports how many rows were inserted and which were rejected.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// Upload is a spreadsheet posted for import.
type Upload struct {
	Filename string
	Data     []byte
}

const timestampLayout = "2006-01-02 15:04"
