package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/noah-isme/campus-complaints/internal/client/complaints"
	"github.com/noah-isme/campus-complaints/internal/models"
)

type palette struct {
	pending  *color.Color
	resolved *color.Color
	heading  *color.Color
	muted    *color.Color
	action   *color.Color
}

// Terminal writes views as text. Dark selects the high-intensity palette;
// Color false strips escape codes regardless of the terminal.
type Terminal struct {
	Dark  bool
	Color bool
}

func (t Terminal) palette() palette {
	p := palette{
		pending:  color.New(color.FgYellow),
		resolved: color.New(color.FgGreen),
		heading:  color.New(color.Bold),
		muted:    color.New(color.FgHiBlack),
		action:   color.New(color.FgGreen, color.Bold),
	}
	if t.Dark {
		p = palette{
			pending:  color.New(color.FgHiYellow),
			resolved: color.New(color.FgHiGreen),
			heading:  color.New(color.FgHiWhite, color.Bold),
			muted:    color.New(color.FgWhite),
			action:   color.New(color.FgHiGreen, color.Bold),
		}
	}
	for _, c := range []*color.Color{p.pending, p.resolved, p.heading, p.muted, p.action} {
		if t.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Write prints v to w.
func (t Terminal) Write(w io.Writer, v View) error {
	p := t.palette()
	if v.Empty() {
		_, err := p.muted.Fprintln(w, v.Placeholder)
		return err
	}

	for i, card := range v.Cards {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		var err error
		if v.Role == models.RoleAdmin {
			err = t.writeAdminCard(w, p, card)
		} else {
			err = t.writeStudentCard(w, p, card)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t Terminal) writeStudentCard(w io.Writer, p palette, c Card) error {
	if _, err := fmt.Fprintf(w, "%s  %s\n", p.heading.Sprintf("#%d", c.ID), t.status(p, c.Status)); err != nil {
		return err
	}
	if _, err := p.heading.Fprintln(w, c.Category); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, c.Description); err != nil {
		return err
	}
	_, err := p.muted.Fprintln(w, timeline(c))
	return err
}

func (t Terminal) writeAdminCard(w io.Writer, p palette, c Card) error {
	line := fmt.Sprintf("%s %s (%s)  %s", p.heading.Sprintf("#%d", c.ID), p.heading.Sprint(c.StudentName), c.StudentID, t.status(p, c.Status))
	if c.Resolvable {
		line += "  " + p.action.Sprintf("[resolve %d]", c.ID)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s - %s\n", c.Category, c.Description); err != nil {
		return err
	}
	_, err := p.muted.Fprintln(w, timeline(c))
	return err
}

// WriteStats prints admin statistics for the whole snapshot.
func (t Terminal) WriteStats(w io.Writer, s complaints.Stats) error {
	p := t.palette()
	_, err := fmt.Fprintf(w, "Total: %s  Pending: %s  Resolved: %s\n",
		p.heading.Sprint(s.Total), p.pending.Sprint(s.Pending), p.resolved.Sprint(s.Resolved))
	return err
}

// WriteWelcome prints the portal greeting.
func (t Terminal) WriteWelcome(w io.Writer, name, id string) error {
	_, err := t.palette().heading.Fprintf(w, "Welcome, %s (%s)\n", name, id)
	return err
}

func (t Terminal) status(p palette, s models.ComplaintStatus) string {
	if s == models.ComplaintResolved {
		return p.resolved.Sprint(string(s))
	}
	return p.pending.Sprint(string(s))
}

func timeline(c Card) string {
	out := "Submitted: " + c.SubmittedAt
	if c.ResolvedAt != "" {
		out += " | Resolved: " + c.ResolvedAt
	}
	return out
}
