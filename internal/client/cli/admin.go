package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/citycare/citycare/internal/client/models"
	"github.com/citycare/citycare/internal/common"
)

func (a *App) requireAdmin() bool {
	if !a.isAdmin() {
		printlnFn("This command is for administrators.")
		return false
	}
	return true
}

// SetStatus moves a report to another status. The change travels as a
// status-change event served by the report service.
func (a *App) SetStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage("setstatus <id> <Pending|In Progress|Resolved|Rejected>")
	}
	if !a.requireAdmin() {
		return nil
	}

	st, err := common.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return a.fail(ctx, "setstatus", err)
	}
	if err := a.reportService.RequestStatusChange(ctx, args[0], st); err != nil {
		return a.fail(ctx, "setstatus", err)
	}
	printlnFn(fmt.Sprintf("Report %s is now %s.", args[0], st))
	return nil
}

func (a *App) SetPriority(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage("setpriority <id> <Low|Medium|High>")
	}
	if !a.requireAdmin() {
		return nil
	}

	p, err := common.ParsePriority(args[1])
	if err != nil {
		return a.fail(ctx, "setpriority", err)
	}
	r, err := a.reportService.Update(ctx, args[0], models.ReportUpdate{Priority: &p})
	if err != nil {
		return a.fail(ctx, "setpriority", err)
	}
	printlnFn(fmt.Sprintf("Report %s priority is now %s.", r.ID, r.Priority))
	return nil
}

func (a *App) SetCost(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage("setcost <id> <amount>")
	}
	if !a.requireAdmin() {
		return nil
	}

	cost, err := strconv.ParseFloat(strings.TrimPrefix(args[1], "$"), 64)
	if err != nil || cost < 0 {
		return a.fail(ctx, "setcost", fmt.Errorf("%w: invalid amount %q", common.ErrorValidation, args[1]))
	}
	r, err := a.reportService.Update(ctx, args[0], models.ReportUpdate{EstimatedCost: &cost})
	if err != nil {
		return a.fail(ctx, "setcost", err)
	}
	printlnFn(fmt.Sprintf("Report %s estimated cost is now %s.", r.ID, money(r.EstimatedCost)))
	return nil
}

// SetCategory reclassifies a report. The server resets the estimated cost
// to the new category's default.
func (a *App) SetCategory(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage("setcategory <id> <category>")
	}
	if !a.requireAdmin() {
		return nil
	}

	c, err := common.ParseCategory(strings.Join(args[1:], " "))
	if err != nil {
		return a.fail(ctx, "setcategory", err)
	}
	r, err := a.reportService.Update(ctx, args[0], models.ReportUpdate{Category: &c})
	if err != nil {
		return a.fail(ctx, "setcategory", err)
	}
	printlnFn(fmt.Sprintf("Report %s category is now %s (estimated cost %s).", r.ID, r.Category, money(r.EstimatedCost)))
	return nil
}

// Edit rewrites a report's title and description. Empty answers keep the
// current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("edit <id>")
	}
	if !a.requireAdmin() {
		return nil
	}

	var u models.ReportUpdate
	title, err := getSimpleText(a.reader, "New title (empty keeps the current one)", os.Stdout)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	if title != "" {
		if utf8.RuneCountInString(title) > common.MaxTitleLength {
			return a.fail(ctx, "edit", fmt.Errorf("%w: title longer than %d characters", common.ErrorValidation, common.MaxTitleLength))
		}
		u.Title = &title
	}
	desc, err := getMultiline(a.reader, "New description (empty keeps the current one)", os.Stdout)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	if desc != "" {
		u.Description = &desc
	}
	if u.Empty() {
		printlnFn("Nothing changed.")
		return nil
	}

	r, err := a.reportService.Update(ctx, args[0], u)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	printlnFn(fmt.Sprintf("Report %s updated: %q", r.ID, r.Title))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("delete <id>")
	}
	if !a.requireAdmin() {
		return nil
	}

	if err := a.reportService.Delete(ctx, args[0]); err != nil {
		return a.fail(ctx, "delete", err)
	}
	printlnFn("Deleted", args[0])
	return nil
}

func (a *App) Users(ctx context.Context) error {
	if !a.requireAdmin() {
		return nil
	}
	users, err := a.adminService.Users(ctx)
	if err != nil {
		return a.fail(ctx, "users", err)
	}
	for _, u := range users {
		printlnFn(fmt.Sprintf("%s  %-30s %-20s %s", u.ID, u.Email, u.DisplayName, u.Role))
	}
	return nil
}

func (a *App) SetRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage("setrole <user-id> <user|admin>")
	}
	if !a.requireAdmin() {
		return nil
	}
	if err := a.adminService.SetRole(ctx, args[0], common.Role(strings.ToLower(args[1]))); err != nil {
		return a.fail(ctx, "setrole", err)
	}
	printlnFn(fmt.Sprintf("User %s is now %s.", args[0], strings.ToLower(args[1])))
	return nil
}

func (a *App) Audit(ctx context.Context, args []string) error {
	if !a.requireAdmin() {
		return nil
	}
	limit := 20
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return errUsage("audit [limit]")
		}
		limit = n
	}
	logs, err := a.adminService.AuditLog(ctx, limit)
	if err != nil {
		return a.fail(ctx, "audit", err)
	}
	for _, l := range logs {
		printlnFn(auditLine(l))
	}
	return nil
}
