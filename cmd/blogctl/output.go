package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/minimal-blog/internal/blog"
	"github.com/debemdeboas/minimal-blog/internal/model"
	"github.com/debemdeboas/minimal-blog/internal/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

type printer struct {
	out, errOut io.Writer

	previewLength int
	dateFormat    string
}

func (p *printer) meta(post model.Post) string {
	parts := []string{}
	if date := render.FormatDate(post.CreatedAt, p.dateFormat); date != "" {
		parts = append(parts, date)
	}
	if post.Author != "" {
		parts = append(parts, "by "+post.Author)
	}
	return metaStyle.Render(strings.Join(parts, " · "))
}

func (p *printer) list(posts []model.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(p.out, metaStyle.Render("No blogs available yet."))
		return
	}

	for _, post := range posts {
		body := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(post.Title)+" "+idStyle.Render("#"+string(post.ID)),
			render.Preview(post.Content, p.previewLength),
			p.meta(post),
		)
		fmt.Fprintln(p.out, cardStyle.Render(body))
	}
}

func (p *printer) show(post model.Post) {
	fmt.Fprintln(p.out, titleStyle.Render(post.Title)+" "+idStyle.Render("#"+string(post.ID)))
	fmt.Fprintln(p.out, p.meta(post))
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, post.Content)
}

func (p *printer) notifications(ns []blog.Notification) {
	for _, n := range ns {
		if n.Kind.Failed() {
			line := n.Message()
			if n.Err != nil {
				line += ": " + n.Err.Error()
			}
			fmt.Fprintln(p.errOut, errorStyle.Render("✗ "+line))
			continue
		}
		fmt.Fprintln(p.errOut, successStyle.Render("✓ "+n.Message()))
	}
}

func (p *printer) errorf(format string, args ...any) {
	fmt.Fprintln(p.errOut, errorStyle.Render(fmt.Sprintf(format, args...)))
}
