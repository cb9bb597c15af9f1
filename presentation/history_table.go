package presentation

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"emotion-detector/domain/history"
)

var historyColumns = []string{"Time", "Emotion", "Confidence"}

// historyCell returns the text of a table cell. Row 0 is the header.
func historyCell(entries []history.Entry, row, col int) string {
	if row == 0 {
		if col < len(historyColumns) {
			return historyColumns[col]
		}
		return ""
	}
	if row-1 >= len(entries) {
		return ""
	}
	e := entries[row-1]
	switch col {
	case 0:
		return e.TimeText()
	case 1:
		return e.Label.Title()
	case 2:
		return e.ConfidenceText()
	}
	return ""
}

// HistoryTable lists recent analyses, newest first, under a header row.
type HistoryTable struct {
	widget.Table
	entries   []history.Entry
	entriesMu sync.RWMutex
}

// NewHistoryTable creates an empty history table.
func NewHistoryTable() *HistoryTable {
	ht := &HistoryTable{}

	ht.Table = widget.Table{
		Length: func() (int, int) {
			ht.entriesMu.RLock()
			defer ht.entriesMu.RUnlock()
			return len(ht.entries) + 1, len(historyColumns)
		},
		CreateCell: func() fyne.CanvasObject {
			return widget.NewLabel("00:00:00 Surprise")
		},
		UpdateCell: func(id widget.TableCellID, cell fyne.CanvasObject) {
			ht.entriesMu.RLock()
			text := historyCell(ht.entries, id.Row, id.Col)
			ht.entriesMu.RUnlock()

			label := cell.(*widget.Label)
			label.TextStyle = fyne.TextStyle{Bold: id.Row == 0}
			label.SetText(text)
		},
	}

	ht.ExtendBaseWidget(ht)
	for i := range historyColumns {
		ht.SetColumnWidth(i, 110)
	}
	return ht
}

// SetEntries replaces the displayed entries.
func (ht *HistoryTable) SetEntries(entries []history.Entry) {
	ht.entriesMu.Lock()
	ht.entries = make([]history.Entry, len(entries))
	copy(ht.entries, entries)
	ht.entriesMu.Unlock()
	ht.Refresh()
}
