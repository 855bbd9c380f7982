package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/energydash/energydash/internal/energy"
)

// Table is a named series written as one block of CSV rows.
type Table struct {
	Name   string        `json:"name"`
	Series energy.Series `json:"series"`
}

// WriteSeriesCSV writes every table as "Serie,Etiqueta,Valor" rows.
func WriteSeriesCSV(w io.Writer, tables []Table) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Serie", "Etiqueta", "Valor"}); err != nil {
		return err
	}
	for _, table := range tables {
		for i, value := range table.Series.Values {
			label := ""
			if i < len(table.Series.Labels) {
				label = table.Series.Labels[i]
			}
			if err := writer.Write([]string{table.Name, label, formatFloat(value)}); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteKPICSV writes display-formatted indicators as-is.
func WriteKPICSV(w io.Writer, kpis []energy.KPIEntry) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Indicador", "Valor"}); err != nil {
		return err
	}
	for _, kpi := range kpis {
		if err := writer.Write([]string{kpi.Label, kpi.DisplayValue}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
