package application

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/bnema/payment-holds/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseVendorTable reads a vendor_id,description table. The first record is a
// header and is dropped. Quoted fields follow CSV rules; columns after the
// second are ignored.
func ParseVendorTable(data []byte) (*domain.VendorTable, error) {
	table := domain.NewVendorTable()

	if !utf8.Valid(data) {
		return nil, &domain.TableParseError{Message: "content is not valid UTF-8"}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &domain.TableParseError{Line: parseErr.Line, Message: parseErr.Err.Error(), Err: err}
			}
			return nil, &domain.TableParseError{Message: err.Error(), Err: err}
		}

		if header {
			header = false
			continue
		}

		if len(record) < 2 {
			line, _ := reader.FieldPos(0)
			return nil, &domain.TableParseError{
				Line:    line,
				Message: fmt.Sprintf("expected vendor_id and description, got %d column(s)", len(record)),
			}
		}

		table.Set(record[0], record[1])
	}

	return table, nil
}
