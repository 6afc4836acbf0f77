package trend

import (
	"sort"

	"vocanalyzer/internal/domain"
)

// CorrelationMatrix is the production line × defect type cross-tab with
// row/column totals. Both axes are sorted lexically.
type CorrelationMatrix struct {
	Lines       []string
	DefectTypes []string
	Counts      [][]int // Counts[lineIdx][defectIdx]
	RowTotals   []int   // per line
	ColTotals   []int   // per defect type
	GrandTotal  int
}

func (m CorrelationMatrix) IsEmpty() bool {
	return len(m.Lines) == 0
}

// At returns the cell count for a line/defect pair, 0 when either axis value
// is absent.
func (m CorrelationMatrix) At(line, defectType string) int {
	li := indexOf(m.Lines, line)
	di := indexOf(m.DefectTypes, defectType)
	if li < 0 || di < 0 {
		return 0
	}
	return m.Counts[li][di]
}

// ComputeCorrelationMatrix cross-tabulates records by production line and
// defect type. Records with either dimension empty are excluded; when no
// rows remain the result is empty, not an error.
func ComputeCorrelationMatrix(records []domain.ComplaintRecord) CorrelationMatrix {
	cells := make(map[string]map[string]int)
	defectSet := make(map[string]bool)
	for _, rec := range records {
		if rec.ProductionLine == "" || rec.Classification.DefectType == "" {
			continue
		}
		if cells[rec.ProductionLine] == nil {
			cells[rec.ProductionLine] = make(map[string]int)
		}
		cells[rec.ProductionLine][rec.Classification.DefectType]++
		defectSet[rec.Classification.DefectType] = true
	}
	if len(cells) == 0 {
		return CorrelationMatrix{}
	}

	lines := make([]string, 0, len(cells))
	for line := range cells {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	defects := make([]string, 0, len(defectSet))
	for d := range defectSet {
		defects = append(defects, d)
	}
	sort.Strings(defects)

	m := CorrelationMatrix{
		Lines:       lines,
		DefectTypes: defects,
		Counts:      make([][]int, len(lines)),
		RowTotals:   make([]int, len(lines)),
		ColTotals:   make([]int, len(defects)),
	}
	for li, line := range lines {
		m.Counts[li] = make([]int, len(defects))
		for di, d := range defects {
			c := cells[line][d]
			m.Counts[li][di] = c
			m.RowTotals[li] += c
			m.ColTotals[di] += c
			m.GrandTotal += c
		}
	}
	return m
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
