package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/filex"
)

var getMultiline = GetMultiline
var imageReference = filex.ImageReference

// Report walks the user through a new report and submits it. While offline
// the report goes to the local queue and is uploaded on reconnect.
func (a *App) Report(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please login first.")
		return nil
	}

	draft, err := a.readDraft()
	if err != nil {
		return a.fail(ctx, "report", err)
	}

	res, err := a.reportService.Submit(ctx, draft)
	if err != nil {
		return a.fail(ctx, "submit", err)
	}

	if res.Queued != nil {
		if a.conn.Offline() {
			printlnFn(fmt.Sprintf("You are offline. Report %q saved locally and will upload when you reconnect.", res.Queued.Title))
		} else {
			printlnFn(fmt.Sprintf("Server unreachable. Report %q saved locally; run `sync` to upload it once the server is back.", res.Queued.Title))
		}
		return nil
	}
	printlnFn(fmt.Sprintf("Report submitted: %s (estimated cost %s)", res.Report.ID, money(res.Report.EstimatedCost)))
	return nil
}

func (a *App) readDraft() (models.ReportDraft, error) {
	var d models.ReportDraft

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return d, err
	}
	d.Title = title

	if d.Category, err = choose(a.reader, os.Stdout, "Category", common.Categories, "", common.ParseCategory); err != nil {
		return d, err
	}

	if d.Description, err = getMultiline(a.reader, "Description", os.Stdout); err != nil {
		return d, err
	}

	if d.Priority, err = choose(a.reader, os.Stdout, "Priority", common.Priorities, common.PriorityMedium, common.ParsePriority); err != nil {
		return d, err
	}

	raw, err := getSimpleText(a.reader, "Location as 'lat, lng'", os.Stdout)
	if err != nil {
		return d, err
	}
	if d.Coordinates, err = parseCoordinates(raw); err != nil {
		return d, err
	}

	raw, err = getSimpleText(a.reader, "Photo: file path or URL (empty to skip)", os.Stdout)
	if err != nil {
		return d, err
	}
	if d.ImageURL, err = imageReference(raw); err != nil {
		return d, err
	}

	return d, d.Validate()
}

func parseCoordinates(s string) (models.Coordinates, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) != 2 {
		return models.Coordinates{}, fmt.Errorf("%w: expected 'lat, lng', got %q", common.ErrorValidation, s)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: latitude %q", common.ErrorValidation, parts[0])
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: longitude %q", common.ErrorValidation, parts[1])
	}
	c := models.Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return c, fmt.Errorf("%w: coordinates out of range", common.ErrorValidation)
	}
	return c, nil
}

// List prints the known reports, optionally only those with the given
// status. Online it reloads from the server first.
func (a *App) List(ctx context.Context, args []string) error {
	var filter common.Status
	if len(args) > 0 {
		st, err := common.ParseStatus(strings.Join(args, " "))
		if err != nil {
			return a.fail(ctx, "list", err)
		}
		filter = st
	}

	if !a.conn.Offline() {
		if err := a.reportService.Refresh(ctx); err != nil {
			a.fail(ctx, "refresh", err)
		}
	}

	n := 0
	for _, r := range a.reportService.Reports() {
		if filter != "" && r.Status != filter {
			continue
		}
		printlnFn(reportLine(r))
		n++
	}
	if n == 0 {
		printlnFn("No reports.")
	}
	printlnFn(fmt.Sprintf("Resolved so far: %d", a.reportService.TotalResolved()))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: show <id>")
		return nil
	}
	r, ok := a.reportService.Get(args[0])
	if !ok {
		printlnFn("Report not found:", args[0])
		return nil
	}
	printlnFn(reportDetails(r))
	return nil
}

func (a *App) Upvote(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: upvote <id>")
		return nil
	}
	if !a.isLoggedIn() {
		printlnFn("Please login first.")
		return nil
	}

	res, err := a.reportService.Upvote(ctx, args[0])
	if err != nil {
		return a.fail(ctx, "upvote", err)
	}
	if res.AlreadyUpvoted {
		printlnFn("You have already upvoted this report.")
		return nil
	}
	printlnFn(fmt.Sprintf("Upvoted! %d upvotes now.", res.Upvotes))
	return nil
}

// Pending lists reports waiting in the offline queue.
func (a *App) Pending(ctx context.Context) error {
	items, err := a.reportService.Pending(ctx)
	if err != nil {
		return a.fail(ctx, "pending", err)
	}
	if len(items) == 0 {
		printlnFn("Offline queue is empty.")
		return nil
	}
	printlnFn(fmt.Sprintf("%d report(s) waiting to upload:", len(items)))
	for _, q := range items {
		printlnFn(fmt.Sprintf("  %s  %s  [%s, %s]  captured %s", q.ID, q.Title, q.Category, q.Priority, q.CreatedAt.Local().Format(timeLayout)))
	}
	return nil
}

// Sync uploads the offline queue now.
func (a *App) Sync(ctx context.Context) error {
	if a.conn.Offline() {
		printlnFn("You are offline. Switch to online mode to upload queued reports.")
		return nil
	}
	created, err := a.reportService.Sync(ctx)
	if err != nil {
		return a.fail(ctx, "sync", err)
	}
	if len(created) == 0 {
		printlnFn("Nothing uploaded.")
	}
	return nil
}

// SetOffline switches the connectivity mode by hand. Going online uploads
// queued reports in the background.
func (a *App) SetOffline(ctx context.Context, offline bool) error {
	if a.conn.Offline() == offline {
		printlnFn(fmt.Sprintf("Already %s.", modeName(offline)))
		return nil
	}
	a.conn.SetOffline(ctx, offline)
	printlnFn(fmt.Sprintf("Switched to %s mode.", modeName(offline)))
	return nil
}

// Status prints the mode, the signed-in user and the queue length.
func (a *App) Status(ctx context.Context) error {
	printlnFn("Mode:", modeName(a.conn.Offline()))
	if a.user != nil {
		printlnFn(fmt.Sprintf("User: %s (%s)", a.user.Email, a.user.Role))
	} else {
		printlnFn("User: not signed in")
	}
	items, err := a.reportService.Pending(ctx)
	if err != nil {
		return a.fail(ctx, "status", err)
	}
	printlnFn("Queued reports:", len(items))
	return nil
}

func modeName(offline bool) string {
	if offline {
		return "offline"
	}
	return "online"
}

func errUsage(usage string) error {
	printlnFn("Usage:", usage)
	return errors.New("usage: " + usage)
}
