package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/citycare/citycare/internal/client/client"
	"github.com/citycare/citycare/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func reportLine(r models.ServerReport) string {
	return fmt.Sprintf("%s  %-12s %-8s %-40s ▲%d", r.ID, r.Status, r.Priority, truncate(r.Title, 40), r.Upvotes)
}

func reportDetails(r models.ServerReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.Title)
	fmt.Fprintf(&b, "  id:        %s\n", r.ID)
	fmt.Fprintf(&b, "  category:  %s\n", r.Category)
	fmt.Fprintf(&b, "  priority:  %s\n", r.Priority)
	fmt.Fprintf(&b, "  status:    %s\n", r.Status)
	fmt.Fprintf(&b, "  location:  %s\n", r.Coordinates)
	fmt.Fprintf(&b, "  upvotes:   %d\n", r.Upvotes)
	fmt.Fprintf(&b, "  est. cost: %s\n", money(r.EstimatedCost))
	fmt.Fprintf(&b, "  reported:  %s\n", r.CreatedAt.Local().Format(timeLayout))
	if r.ImageURL != "" && !strings.HasPrefix(r.ImageURL, "data:") {
		fmt.Fprintf(&b, "  photo:     %s\n", r.ImageURL)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s", r.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func auditLine(l models.AuditLog) string {
	s := fmt.Sprintf("%s  %-16s %-15s %s", l.CreatedAt.Local().Format(timeLayout), l.Category, l.Action, l.Actor)
	if l.TargetTitle != "" {
		s += fmt.Sprintf(" on %q", l.TargetTitle)
	}
	if l.Details != "" {
		s += ": " + l.Details
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// describe turns transport errors into messages a user can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later or switch to offline mode"
	case errors.Is(err, client.ErrUnauthorized):
		return "not signed in or session expired, please login"
	case errors.Is(err, client.ErrForbidden):
		return "not allowed"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	default:
		return err.Error()
	}
}
