package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/linux-brat/BClicker/internal/keys"
	"github.com/linux-brat/BClicker/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	stoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
	editBoxStyle = boxStyle.Copy().
			BorderForeground(lipgloss.Color("#C89A3A"))
)

// Snapshot carries everything one draw pass needs, taken while no lock
// is held.
type Snapshot struct {
	Mode       Mode
	Running    bool
	Visible    bool
	Rate       model.RateConfig
	Target     model.Target
	Stats      model.Statistics
	Combo      keys.Combo
	AudioOn    bool
	RateBuffer string
	HelpScroll int
	Width      int
	Height     int
}

// Render produces the full screen for one snapshot.
func Render(s Snapshot) string {
	if s.Mode == ModeShowingHelp {
		return renderHelp(s)
	}

	var b strings.Builder
	b.WriteString(renderStatus(s))
	b.WriteString("\n\n")
	b.WriteString(renderRates(s))
	b.WriteString("\n")
	b.WriteString(renderSettings(s))
	b.WriteString("\n")
	b.WriteString(renderStats(s))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(instructions(s.Mode)))

	content := b.String()
	if s.Width > 0 && s.Height > 0 {
		return lipgloss.Place(s.Width, s.Height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

func renderStatus(s Snapshot) string {
	state := stoppedStyle.Render("STOPPED")
	if s.Running {
		state = runningStyle.Render("CLICKING")
	}
	return titleStyle.Render("BClicker") + "  " + state +
		dimStyle.Render(fmt.Sprintf("  [%s to toggle]", s.Combo))
}

func renderRates(s Snapshot) string {
	var lines []string
	lines = append(lines, labelStyle.Render("Rate (clicks per second)"))
	for i, p := range s.Rate.Presets {
		label := fmt.Sprintf("  %d cps", p)
		if !s.Rate.UsingCustom && i == s.Rate.SelectedPreset {
			label = selectedStyle.Render(fmt.Sprintf("▶ %d cps", p))
		} else {
			label = dimStyle.Render(label)
		}
		lines = append(lines, label)
	}
	if s.Mode == ModeEditingRate {
		lines = append(lines, editBoxStyle.Render("custom: "+s.RateBuffer+"█"))
	} else if s.Rate.Custom != 0 {
		label := fmt.Sprintf("  custom: %d cps", s.Rate.Custom)
		if s.Rate.UsingCustom {
			label = selectedStyle.Render(fmt.Sprintf("▶ custom: %d cps", s.Rate.Custom))
		} else {
			label = dimStyle.Render(label)
		}
		lines = append(lines, label)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderSettings(s Snapshot) string {
	audio := "off"
	if s.AudioOn {
		audio = "on"
	}
	lines := []string{
		labelStyle.Render("Button: ") + selectedStyle.Render(s.Target.String()),
		labelStyle.Render("Sound:  ") + dimStyle.Render(audio),
	}
	if s.Mode == ModeAwaitingCapture {
		lines = append(lines, editBoxStyle.Render("release keys..."))
	} else if s.Mode == ModeCapturing {
		lines = append(lines, editBoxStyle.Render("press new hotkey (esc cancels)"))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderStats(s Snapshot) string {
	start := "never"
	if s.Stats.LastSessionStart > 0 {
		start = time.Unix(s.Stats.LastSessionStart, 0).Format("15:04:05")
	}
	lines := []string{
		labelStyle.Render("Session clicks: ") + selectedStyle.Render(fmt.Sprintf("%d", s.Stats.SessionClicks)),
		labelStyle.Render("Total clicks:   ") + dimStyle.Render(fmt.Sprintf("%d", s.Stats.TotalClicks)),
		labelStyle.Render("Sessions:       ") + dimStyle.Render(fmt.Sprintf("%d", s.Stats.TotalSessions)),
		labelStyle.Render("Session start:  ") + dimStyle.Render(start),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func instructions(m Mode) string {
	switch m {
	case ModeEditingRate:
		return "enter commit · esc cancel · backspace delete"
	case ModeAwaitingCapture, ModeCapturing:
		return "esc cancel"
	default:
		return "j/k select · e edit rate · tab button · s hotkey · m sound · r reset · h hide · ? help · q quit"
	}
}

var helpLines = []string{
	"BClicker Help",
	"",
	"Normal mode",
	"  q          quit",
	"  ?          toggle this help",
	"  h          hide or show the interface",
	"  j / down   next rate",
	"  k / up     previous rate",
	"  e          enter a custom rate (1-1000)",
	"  tab        switch click button",
	"  s          rebind the global hotkey",
	"  m          toggle sound cues",
	"  r          reset session statistics",
	"",
	"Rate editing",
	"  type up to three digits, enter to commit,",
	"  esc to cancel. Values outside 1-1000 are",
	"  discarded.",
	"",
	"Hotkey capture",
	"  after a short pause, the next letter or",
	"  function key with its held modifiers",
	"  becomes the new toggle binding. The new",
	"  binding takes effect on restart.",
	"",
	"The global hotkey toggles clicking even",
	"while the interface is hidden.",
}

func renderHelp(s Snapshot) string {
	visible := helpLines
	if s.HelpScroll > 0 && s.HelpScroll < len(helpLines) {
		visible = helpLines[s.HelpScroll:]
	}
	width := 0
	for _, l := range helpLines {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	body := boxStyle.Copy().Width(width + 2).Render(strings.Join(visible, "\n"))
	footer := footerStyle.Render("j/k scroll · ? or esc close")
	content := body + "\n" + footer
	if s.Width > 0 && s.Height > 0 {
		return lipgloss.Place(s.Width, s.Height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
