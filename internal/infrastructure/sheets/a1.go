package sheets

import (
	"fmt"
	"strings"
)

// ColumnLetter converts a 1-based column number to its A1 letter (1 -> A, 27 -> AA)
func ColumnLetter(column int) string {
	if column < 1 {
		return ""
	}

	var letters []byte
	for column > 0 {
		column--
		letters = append([]byte{byte('A' + column%26)}, letters...)
		column /= 26
	}
	return string(letters)
}

// QuoteSheetName quotes a tab name for use in an A1 range
func QuoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// SheetRange addresses the whole used range of a tab
func SheetRange(sheetName string) string {
	return QuoteSheetName(sheetName)
}

// RowRange addresses columns A through the columns-th column of one row,
// e.g. RowRange("Sheet1", 2, 11) == "'Sheet1'!A2:K2"
func RowRange(sheetName string, row, columns int) string {
	return fmt.Sprintf("%s!A%d:%s%d", QuoteSheetName(sheetName), row, ColumnLetter(columns), row)
}
