package utils

import (
	"auditdesk/internal/domain"
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

func WriteFillsToCSV(fills []*domain.TradeFill, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"time", "strategy", "symbol", "direction", "size", "price", "status", "pnl", "r_multiple", "win"})

	for _, f := range fills {
		pnl, rMultiple, win := "", "", ""
		if f.PNL != nil {
			pnl = strconv.FormatFloat(*f.PNL, 'f', -1, 64)
		}
		if f.RMultiple != nil {
			rMultiple = strconv.FormatFloat(*f.RMultiple, 'f', -1, 64)
		}
		if f.Win != nil {
			win = strconv.FormatBool(*f.Win)
		}
		writer.Write([]string{
			f.Time.Format(time.RFC3339),
			f.Strategy,
			f.Symbol,
			string(f.Direction),
			f.Size,
			strconv.FormatFloat(f.Price, 'f', -1, 64),
			string(f.Status),
			pnl,
			rMultiple,
			win,
		})
	}
	return writer.Error()
}
