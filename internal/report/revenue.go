// Package report renders admin exports as spreadsheet workbooks.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/vehicle-parking/internal/repository"
)

// RevenueWorkbook builds an .xlsx with two sheets: a per-lot revenue
// summary and the completed reservations backing it.
func RevenueWorkbook(summary []repository.LotRevenue, completed []repository.ReservationDetail) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	idx, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// The workbook opens on Summary; the default sheet is noise.
	_ = f.DeleteSheet("Sheet1")

	summaryHeaders := []string{"LotID", "LotName", "CompletedReservations", "Revenue"}
	for i, header := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, header); err != nil {
			return nil, err
		}
	}
	for i, row := range summary {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+2), row.LotID)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+2), row.LotName)
		f.SetCellValue(summarySheet, fmt.Sprintf("C%d", i+2), row.Count)
		f.SetCellValue(summarySheet, fmt.Sprintf("D%d", i+2), row.Revenue)
	}

	const detailSheet = "Reservations"
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	detailHeaders := []string{
		"ReservationID", "Lot", "SpotNo", "UserID", "Vehicle",
		"ParkingTime", "LeavingTime", "Cost",
	}
	for i, header := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(detailSheet, cell, header); err != nil {
			return nil, err
		}
	}
	for i, d := range completed {
		f.SetCellValue(detailSheet, fmt.Sprintf("A%d", i+2), d.ID)
		f.SetCellValue(detailSheet, fmt.Sprintf("B%d", i+2), d.LotName)
		f.SetCellValue(detailSheet, fmt.Sprintf("C%d", i+2), d.SpotNo)
		f.SetCellValue(detailSheet, fmt.Sprintf("D%d", i+2), d.UserID)
		f.SetCellValue(detailSheet, fmt.Sprintf("E%d", i+2), d.VehicleNumber)
		f.SetCellValue(detailSheet, fmt.Sprintf("F%d", i+2), d.ParkingTime.Format("2006-01-02 15:04"))
		if d.LeavingTime != nil {
			f.SetCellValue(detailSheet, fmt.Sprintf("G%d", i+2), d.LeavingTime.Format("2006-01-02 15:04"))
		}
		if d.Cost != nil {
			f.SetCellValue(detailSheet, fmt.Sprintf("H%d", i+2), *d.Cost)
		}
	}

	return f, nil
}
