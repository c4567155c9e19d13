package automation

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

const runsSheet = "Runs"

var runColumns = []string{
	"Run ID", "Trigger", "Source", "Started", "Finished", "Leads Updated",
	"Rules Fired", "Rules Skipped", "Commands Applied", "Commands Failed", "Errors",
}

// runsToExcel renders run history as a single-sheet workbook.
func runsToExcel(runs []AutomationRun) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), runsSheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range runColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(runsSheet, cell, col)
		f.SetCellStyle(runsSheet, cell, cell, headerStyle)
	}

	for rowIdx, run := range runs {
		row := []interface{}{
			run.RunID,
			string(run.Trigger),
			string(run.Source),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.LeadsUpdated,
			run.RulesFired,
			run.RulesSkipped,
			run.CommandsApplied,
			run.CommandsFailed,
			strings.Join(run.Errors, "; "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(runsSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range runColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(runsSheet, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
