// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"tidyup/internal/service"
)

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// ProgressWidth is the number of cells in the progress bar.
const ProgressWidth = 20

// Printer writes formatted output to w. Styling is applied only when w is
// a terminal that supports it.
type Printer struct {
	w   io.Writer
	now func() time.Time

	title  lipgloss.Style
	faint  lipgloss.Style
	done   lipgloss.Style
	high   lipgloss.Style
	filled lipgloss.Style
}

// New creates a printer for w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		now:    time.Now,
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#8b5cf6")),
		faint:  r.NewStyle().Faint(true),
		done:   r.NewStyle().Strikethrough(true).Faint(true),
		high:   r.NewStyle().Foreground(lipgloss.Color("#ef4444")),
		filled: r.NewStyle().Foreground(lipgloss.Color("#10b981")),
	}
}

// WithClock sets the reference time for relative dates.
func (p *Printer) WithClock(now func() time.Time) *Printer {
	p.now = now
	return p
}

// Stats counts tasks by state.
type Stats struct {
	All  int
	Todo int
	Done int
}

// Percent returns the share of finished tasks, rounded; 0 for no tasks.
func (s Stats) Percent() int {
	if s.All == 0 {
		return 0
	}
	return (s.Done*100 + s.All/2) / s.All
}

// TaskStats summarizes tasks.
func TaskStats(tasks []service.Task) Stats {
	s := Stats{All: len(tasks)}
	for _, t := range tasks {
		if t.Done {
			s.Done++
		} else {
			s.Todo++
		}
	}
	return s
}

// Dashboard prints the header, progress, stats and the task list.
func (p *Printer) Dashboard(tasks []service.Task) {
	s := TaskStats(tasks)
	fmt.Fprintln(p.w, p.title.Render("My tasks"))
	fmt.Fprintf(p.w, "Progress: %d of %d tasks done  %s %d%%\n", s.Done, s.All, p.ProgressBar(s), s.Percent())
	fmt.Fprintf(p.w, "All: %d  To do: %d  Finished: %d\n", s.All, s.Todo, s.Done)
	fmt.Fprintln(p.w)
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "No tasks yet. Add your first cleaning task.")
		return
	}
	for _, t := range tasks {
		p.Task(t)
	}
}

// ProgressBar renders s as a bar of ProgressWidth cells.
func (p *Printer) ProgressBar(s Stats) string {
	n := s.Percent() * ProgressWidth / 100
	return "[" + p.filled.Render(strings.Repeat("#", n)) + strings.Repeat("-", ProgressWidth-n) + "]"
}

// Task prints one task line.
// Format: "{ID:>4}  [x] {TITLE}  {META}\n"
func (p *Printer) Task(t service.Task) {
	box := "[ ]"
	title := normalizeTitle(t.Title)
	if t.Done {
		box = "[x]"
		title = p.done.Render(title)
	}
	line := fmt.Sprintf("%4s  %s %s", t.ID, box, title)
	if meta := p.taskMeta(t); meta != "" {
		line += "  " + p.faint.Render(meta)
	}
	fmt.Fprintln(p.w, line)
}

// TaskDetail prints every field of a task.
func (p *Printer) TaskDetail(t service.Task) {
	fmt.Fprintf(p.w, "ID:          %s\n", t.ID)
	fmt.Fprintf(p.w, "Title:       %s\n", normalizeTitle(t.Title))
	if t.Description != "" {
		fmt.Fprintf(p.w, "Description: %s\n", t.Description)
	}
	fmt.Fprintf(p.w, "Done:        %s\n", yesNo(t.Done))
	if t.Priority != service.PriorityNone {
		fmt.Fprintf(p.w, "Priority:    %s\n", PriorityLabel(t.Priority))
	}
	if t.Location != "" {
		fmt.Fprintf(p.w, "Location:    %s\n", t.Location)
	}
	if t.DueDate != "" {
		fmt.Fprintf(p.w, "Due:         %s\n", p.Due(t.DueDate))
	}
	if t.CreatedAt != "" {
		fmt.Fprintf(p.w, "Created:     %s\n", t.CreatedAt)
	}
}

func (p *Printer) taskMeta(t service.Task) string {
	var parts []string
	if t.Priority != service.PriorityNone {
		label := PriorityLabel(t.Priority)
		if t.Priority == service.PriorityHigh {
			label = p.high.Render(label)
		}
		parts = append(parts, label)
	}
	if t.Location != "" {
		parts = append(parts, t.Location)
	}
	if t.DueDate != "" {
		parts = append(parts, "due "+p.Due(t.DueDate))
	}
	return strings.Join(parts, ", ")
}

// Due formats a due date with its distance from now, e.g.
// "2026-03-01 (3 days from now)". Unparseable dates are printed as is.
func (p *Printer) Due(date string) string {
	d, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return date
	}
	now := p.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if d.Equal(today) {
		return date + " (today)"
	}
	return fmt.Sprintf("%s (%s)", date, humanize.RelTime(d, today, "ago", "from now"))
}

// PriorityLabel returns the display label of a priority.
func PriorityLabel(pr service.Priority) string {
	switch pr {
	case service.PriorityHigh:
		return "High"
	case service.PriorityMedium:
		return "Medium"
	case service.PriorityLow:
		return "Low"
	}
	return ""
}

// UserStats counts accounts.
type UserStats struct {
	All    int
	Active int
	Admins int
}

// CountUsers summarizes users. A missing active flag counts as active.
func CountUsers(users []service.User) UserStats {
	s := UserStats{All: len(users)}
	for _, u := range users {
		if u.IsActive() {
			s.Active++
		}
		if u.Role == service.RoleAdmin {
			s.Admins++
		}
	}
	return s
}

// Users prints user stats followed by one line per account.
// Format: "{ID:>4}  {ROLE:<5}  {STATUS:<8}  {NAME} <{EMAIL}>\n"
func (p *Printer) Users(users []service.User) {
	s := CountUsers(users)
	fmt.Fprintln(p.w, p.title.Render("Users"))
	fmt.Fprintf(p.w, "All: %d  Active: %d  Admins: %d\n", s.All, s.Active, s.Admins)
	fmt.Fprintln(p.w)
	for _, u := range users {
		p.UserLine(u)
	}
}

// UserLine prints one account line.
func (p *Printer) UserLine(u service.User) {
	status := "active"
	if !u.IsActive() {
		status = "disabled"
	}
	line := fmt.Sprintf("%4s  %-5s  %-8s  %s <%s>", u.ID, u.Role, status, u.DisplayName(), u.Email)
	if !u.IsActive() {
		line = p.faint.Render(line)
	}
	fmt.Fprintln(p.w, line)
}

// Profile prints the signed-in account.
func (p *Printer) Profile(u service.User) {
	name := u.Name
	if strings.TrimSpace(name) == "" {
		name = "User"
	}
	fmt.Fprintf(p.w, "Name:  %s\n", name)
	fmt.Fprintf(p.w, "Email: %s\n", u.Email)
	fmt.Fprintf(p.w, "Role:  %s\n", RoleLabel(u.Role))
}

// RoleLabel returns the display label of a role.
func RoleLabel(r service.Role) string {
	if r == service.RoleAdmin {
		return "Admin"
	}
	return "User"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
