package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
)

// productsCSVHeader is the fixed export column list. The order is part of
// the export contract and must not change.
var productsCSVHeader = []string{
	"Product ID", "Name", "Category", "Price", "Stock", "Available", "Description",
}

// WriteCSV renders the products export. Values containing commas or quotes
// are double-quoted with internal quotes doubled.
func WriteCSV(w io.Writer, products []Product) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(productsCSVHeader); err != nil {
		return err
	}
	for _, p := range products {
		available := "No"
		if p.Available {
			available = "Yes"
		}
		row := []string{
			p.ID,
			p.Name,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.Itoa(p.Stock),
			available,
			p.Description,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
