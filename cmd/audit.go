package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"grimm.is/floe/internal/audit"
)

// RunAudit lists recent operations from the journal, newest first.
// A positive pruneDays drops events older than that many days
// instead.
func RunAudit(configFile string, limit, pruneDays int) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	j, err := audit.Open(cfg.AuditPath())
	if err != nil {
		return fmt.Errorf("failed to open audit journal: %w", err)
	}
	defer j.Close()

	if pruneDays > 0 {
		n, err := j.Prune(pruneDays)
		if err != nil {
			return err
		}
		Printer.Printf("Pruned %d events older than %d days\n", n, pruneDays)
		return nil
	}

	events, err := j.Recent(limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		Printer.Println("No operations recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	Printer.Fprintln(w, "TIME\tOPERATION\tVPC\tSUBNET\tRESULT\tDETAIL")
	for _, e := range events {
		result := "ok"
		if e.Status != 0 {
			result = "fail"
		}
		Printer.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Op,
			orDash(e.VPC), orDash(e.Subnet), result, orDash(e.Detail))
	}
	return w.Flush()
}
