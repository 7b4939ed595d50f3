// Package template composes the HTML emails and calendar invites sent by the notification triggers.
package template

import (
	"bytes"
	"embed"
	"fmt"
	htmlTemplate "html/template"
	"strings"

	"meetingbook/config"
	"meetingbook/internal/domains/booking/model"
)

//go:embed templates/*.html
var files embed.FS

var views = htmlTemplate.Must(htmlTemplate.ParseFS(files, "templates/*.html"))

const DefaultCTAColor = "#3d6ce7"

type CallToAction struct {
	Label string
	URL   string
	Color string
}

type Options struct {
	Title     string
	Preheader string
	Body      htmlTemplate.HTML
	CTA       *CallToAction
}

type Tone int

const (
	ToneSuccess Tone = iota + 1
	ToneWarning
	ToneDanger
	ToneInfo
)

type palette struct {
	background, border, ink string
}

var tones = map[Tone]palette{
	ToneSuccess: {background: "#f0fdf4", border: "#16a34a", ink: "#14532d"},
	ToneWarning: {background: "#fef3c7", border: "#d97706", ink: "#92400e"},
	ToneDanger:  {background: "#fef2f2", border: "#dc2626", ink: "#991b1b"},
	ToneInfo:    {background: "#eff6ff", border: "#3d6ce7", ink: "#1e40af"},
}

// Notice is the coloured call-out box placed under the booking card.
type Notice struct {
	Tone  Tone
	Label string
	Text  string
	Items []string
}

type Body struct {
	Intro  string
	Card   htmlTemplate.HTML
	Notice *Notice
	Outro  string
}

// Composer renders emails branded with the application name and URL.
type Composer struct {
	appName   string
	appURL    string
	organizer string
}

func New(cfg *config.Config) *Composer {
	organizer := cfg.SMTP.User
	if organizer == "" {
		organizer = defaultOrganizer
	}

	return &Composer{
		appName:   cfg.App.Name,
		appURL:    strings.TrimRight(cfg.App.URL, "/"),
		organizer: organizer,
	}
}

func (c *Composer) AppURL() string {
	return c.appURL
}

// RenderBase wraps body in the shared header and footer chrome.
func (c *Composer) RenderBase(opts Options) (string, error) {
	preheader := opts.Preheader
	if preheader == "" {
		preheader = opts.Title
	}

	data := struct {
		AppName   string
		Title     string
		Preheader string
		Body      htmlTemplate.HTML
		CTA       *struct {
			Label string
			URL   string
			Color htmlTemplate.CSS
		}
	}{
		AppName:   c.appName,
		Title:     opts.Title,
		Preheader: preheader,
		Body:      opts.Body,
	}

	if opts.CTA != nil {
		url := opts.CTA.URL
		if url == "" {
			url = c.appURL
		}

		color := opts.CTA.Color
		if color == "" {
			color = DefaultCTAColor
		}

		data.CTA = &struct {
			Label string
			URL   string
			Color htmlTemplate.CSS
		}{Label: opts.CTA.Label, URL: url, Color: htmlTemplate.CSS(color)} //nolint:gosec
	}

	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, "base", data); err != nil {
		return "", fmt.Errorf("failed to render base template: %w", err)
	}

	return buf.String(), nil
}

// RenderBody renders the intro, card, notice and outro fragments of an email.
func (c *Composer) RenderBody(body Body) (htmlTemplate.HTML, error) {
	type notice struct {
		Background htmlTemplate.CSS
		Border     htmlTemplate.CSS
		Ink        htmlTemplate.CSS
		Label      string
		Text       string
		Items      []string
	}

	data := struct {
		Intro  string
		Card   htmlTemplate.HTML
		Notice *notice
		Outro  string
	}{
		Intro: body.Intro,
		Card:  body.Card,
		Outro: body.Outro,
	}

	if body.Notice != nil {
		colors, ok := tones[body.Notice.Tone]
		if !ok {
			colors = tones[ToneInfo]
		}

		//nolint:gosec
		data.Notice = &notice{
			Background: htmlTemplate.CSS(colors.background),
			Border:     htmlTemplate.CSS(colors.border),
			Ink:        htmlTemplate.CSS(colors.ink),
			Label:      body.Notice.Label,
			Text:       body.Notice.Text,
			Items:      body.Notice.Items,
		}
	}

	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, "body", data); err != nil {
		return "", fmt.Errorf("failed to render body template: %w", err)
	}

	return htmlTemplate.HTML(buf.String()), nil //nolint:gosec
}

// RenderBookingCard renders the booking detail rows.
func (c *Composer) RenderBookingCard(booking model.Booking) (htmlTemplate.HTML, error) {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, "card", BookingCardRows(booking)); err != nil {
		return "", fmt.Errorf("failed to render booking card: %w", err)
	}

	return htmlTemplate.HTML(buf.String()), nil //nolint:gosec
}
