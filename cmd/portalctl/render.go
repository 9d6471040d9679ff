package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/noah-isme/hallticket-portal/internal/dto"
	"github.com/noah-isme/hallticket-portal/internal/examstatus"
	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	titleColor = color.New(color.FgCyan, color.Bold)
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func renderSchedule(w io.Writer, rows []dto.ScheduleRow) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Date, r.Time, r.Subject, r.SubjectCode, strconv.Itoa(r.Credits), r.SubjectType})
	}
	renderTable(w, []string{"Date", "Time", "Subject", "Code", "Credits", "Type"}, data)
}

func renderStatus(w io.Writer, rows []dto.StatusRow) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.Date, r.Subject, r.FaceStatus, r.QRStatus, r.ThumbStatus, r.FinalStatus, r.BookletNumber})
	}
	renderTable(w, []string{"Date", "Subject", "Face", "QR", "Thumb", "Final", "Booklet"}, data)
}

func renderRooms(w io.Writer, rows []dto.RoomRow) {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		switch {
		case r.Error != nil:
			data = append(data, []string{r.Date, r.Time, r.Subject, "-", r.Error.Message})
		case r.State.State == examstatus.RevealRoom:
			data = append(data, []string{r.Date, r.Time, r.Subject, r.State.RoomNumber, r.State.Message})
		default:
			data = append(data, []string{r.Date, r.Time, r.Subject, "-", r.State.Message})
		}
	}
	renderTable(w, []string{"Date", "Time", "Subject", "Room", "Notice"}, data)
}

func renderList(w io.Writer, header string, names []string) {
	data := make([][]string, 0, len(names))
	for _, n := range names {
		data = append(data, []string{n})
	}
	renderTable(w, []string{header}, data)
}

// reportOutcome prints err as a coloured notice. It returns true when the
// command should exit non-zero.
func reportOutcome(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	appErr := appErrors.FromError(err)
	if appErrors.IsRecoverable(err) {
		warnColor.Fprintf(w, "%s\n", appErr.Message)
		return false
	}
	errorColor.Fprintf(w, "error: %s\n", appErr.Error())
	return true
}

func printTitle(w io.Writer, format string, args ...interface{}) {
	titleColor.Fprintf(w, format+"\n", args...)
}

func printf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}
