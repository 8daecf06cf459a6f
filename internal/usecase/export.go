package usecase

import (
	"strconv"
	"strings"

	"go-profile-directory/internal/domain"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Profiles"

var exportHeaders = []string{
	"NAME", "EMAIL", "PHONE", "AGE", "EDUCATION", "EXPERTISE",
	"SKILLS", "RESUME", "INTERVIEWER OPINION", "BIO", "STATUS", "CREATED AT",
}

func exportProfiles(profiles []domain.Profile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", endCell, headerStyle)

	for rowIdx, p := range profiles {
		age := ""
		if p.Age != nil {
			age = strconv.Itoa(*p.Age)
		}
		status := "inactive"
		if p.IsActive {
			status = "active"
		}
		values := []interface{}{
			p.Name, p.Email, p.Phone, age, p.Education, p.Expertise,
			strings.Join(p.Skills, ", "), p.ResumeLink, p.InterviewerOpinion, p.Bio,
			status, p.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	for i := range exportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, col, col, 20)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
