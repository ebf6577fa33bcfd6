// Package export writes admin spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	progressiondb "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories"
	"github.com/xuri/excelize/v2"
)

// PlayersSheet is the name of the players worksheet.
const PlayersSheet = "Players"

var playerHeader = []interface{}{
	"User ID", "Username", "Level", "EXP", "Total EXP", "Gold", "Heirloom points",
	"Retirements", "Daily multiplier", "Messages", "Last message", "Joined",
}

// PlayersXLSX renders players as a workbook with one row per player.
func PlayersXLSX(players []progressiondb.Player, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), PlayersSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(PlayersSheet, "A1", &playerHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range players {
		lastMessage := ""
		if p.LastMessageAt != nil {
			lastMessage = p.LastMessageAt.In(loc).Format("2006-01-02 15:04")
		}
		row := []interface{}{
			p.UserID, p.Username, p.Level, p.Exp, p.TotalExp, p.Gold, p.HeirloomPoints,
			p.Retirements, p.DailyMultiplier, p.MessageCount, lastMessage, p.CreatedAt.In(loc).Format("2006-01-02"),
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(PlayersSheet, axis, &row); err != nil {
			return nil, fmt.Errorf("failed to write player %s: %w", p.UserID, err)
		}
	}

	if err := f.SetPanes(PlayersSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
