package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/hallticket-portal/internal/app"
	"github.com/noah-isme/hallticket-portal/internal/catalog"
	"github.com/noah-isme/hallticket-portal/internal/models"
	"github.com/noah-isme/hallticket-portal/pkg/config"
	"github.com/noah-isme/hallticket-portal/pkg/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: portalctl -roll <roll> [flags] sets|schedule|status|rooms|collections|download|export|flush-cache\n")
	flag.PrintDefaults()
}

func main() {
	roll := flag.String("roll", "", "student roll number")
	set := flag.String("set", "", "record set name")
	collection := flag.String("collection", "", "hall ticket collection")
	subject := flag.String("subject", "", "restrict rooms to a subject name or code")
	format := flag.String("format", "pdf", "export format: pdf or csv")
	outDir := flag.String("out", ".", "directory for downloaded files")
	flag.Usage = usage
	flag.Parse()

	command := "schedule"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Log.Level = "warn"
	logr, err := logger.New(cfg)
	if err != nil {
		logr = zap.NewNop()
	}
	defer logr.Sync() //nolint:errcheck

	portal, err := app.New(cfg, logr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer portal.Close()

	ctx := context.Background()
	out := os.Stdout

	if command == "flush-cache" {
		if !portal.Cache.Enabled() {
			warnColor.Fprintf(out, "cache is disabled\n")
			return
		}
		if err := portal.Cache.Flush(ctx, ""); err != nil {
			reportOutcome(out, err)
			os.Exit(1)
		}
		printf(out, "cache flushed\n")
		return
	}

	if *roll == "" {
		usage()
		os.Exit(2)
	}
	login, err := portal.Auth.Login(ctx, models.LoginRequest{RollNumber: *roll, UserAgent: "portalctl"})
	if err != nil {
		reportOutcome(out, err)
		os.Exit(1)
	}
	student := login.Student
	session := &models.SessionClaims{
		RollNumber: student.RollNumber,
		Batch:      student.Batch,
		Branch:     student.Branch,
		Semester:   student.Semester,
	}
	printTitle(out, "%s (%s) batch %s, %s, semester %s", student.FullName, student.RollNumber, student.Batch, student.Branch, student.Semester)

	failed := false
	switch command {
	case "sets":
		sets, err := portal.Catalog.RecordSets(ctx, session)
		names := make([]string, 0, len(sets))
		for _, s := range sets {
			names = append(names, s.Name)
		}
		if len(names) > 0 {
			renderList(out, "Record set", names)
		}
		failed = reportOutcome(out, err)
	case "schedule", "status", "rooms", "export":
		name, ok := pickRecordSet(ctx, portal, session, *set)
		if !ok {
			os.Exit(1)
		}
		failed = runRecordSetCommand(ctx, portal, session, command, name, *subject, *format, *outDir)
	case "collections":
		names, err := portal.HallTickets.ListCollections(ctx)
		if len(names) > 0 {
			renderList(out, "Collection", names)
		}
		failed = reportOutcome(out, err)
	case "download":
		if *collection == "" {
			usage()
			os.Exit(2)
		}
		file, err := portal.HallTickets.Download(ctx, session, *collection)
		if err == nil {
			failed = writeFile(*outDir, file.Filename, file.Data)
		} else {
			failed = reportOutcome(out, err)
		}
	default:
		usage()
		os.Exit(2)
	}
	if failed {
		os.Exit(1)
	}
}

// pickRecordSet validates the requested set against the student's catalog,
// defaulting to the only set when exactly one exists.
func pickRecordSet(ctx context.Context, portal *app.App, session *models.SessionClaims, requested string) (string, bool) {
	sets, err := portal.Catalog.RecordSets(ctx, session)
	if reportOutcome(os.Stdout, err) {
		return "", false
	}
	if requested == "" {
		if len(sets) == 1 {
			return sets[0].Name, true
		}
		warnColor.Fprintf(os.Stdout, "choose a record set with -set\n")
		names := make([]string, 0, len(sets))
		for _, s := range sets {
			names = append(names, s.Name)
		}
		renderList(os.Stdout, "Record set", names)
		return "", false
	}
	if !catalog.Contains(sets, requested) {
		warnColor.Fprintf(os.Stdout, "record set %q is not available for this student\n", requested)
		return "", false
	}
	return requested, true
}

func runRecordSetCommand(ctx context.Context, portal *app.App, session *models.SessionClaims, command, name, subject, format, outDir string) bool {
	out := os.Stdout
	switch command {
	case "schedule":
		rows, err := portal.Schedule.Schedule(ctx, session, name)
		if len(rows) > 0 {
			renderSchedule(out, rows)
		}
		return reportOutcome(out, err)
	case "status":
		rows, err := portal.Schedule.Status(ctx, session, name)
		if len(rows) > 0 {
			renderStatus(out, rows)
		}
		return reportOutcome(out, err)
	case "rooms":
		rows, err := portal.Schedule.Rooms(ctx, session, name, subject)
		if len(rows) > 0 {
			renderRooms(out, rows)
		}
		return reportOutcome(out, err)
	default:
		file, err := portal.Export.ExportSchedule(ctx, session, name, format)
		if err != nil {
			return reportOutcome(out, err)
		}
		return writeFile(outDir, file.Filename, file.Data)
	}
}

func writeFile(dir, name string, data []byte) bool {
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		reportOutcome(os.Stdout, err)
		return true
	}
	printf(os.Stdout, "saved %s (%d bytes)\n", path, len(data))
	return false
}
