package hw

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/mastercactapus/stompctl/internal/actions"
)

const DefaultSplash = 600 * time.Millisecond

// LogDisplay stands in for the LCD on a headless unit: it logs what would be
// shown. ShowBankSplash holds for Splash, like the real splash screen does.
type LogDisplay struct {
	Splash time.Duration
}

func (d *LogDisplay) ShowBankSplash(bank int) {
	log.WithField("Bank", bank).Infoln("display: bank splash")
	time.Sleep(d.Splash)
}

func (d *LogDisplay) DrawLabels(bank int, labels [actions.Switches]string) {
	log.WithFields(log.Fields{
		"Bank":   bank,
		"Labels": strings.Join(labels[:], "|"),
	}).Infoln("display: labels")
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Width(actions.LabelSize).
			Align(lipgloss.Center)
	pressedStyle = labelStyle.
			Reverse(true)
	splashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Width(6*(actions.LabelSize+2)).
			Align(lipgloss.Center)
)

// RenderPanel draws the bank header and the six labels as they appear on the
// pedal, top row switches 4-6, bottom row 1-3. pressed highlights closed
// contacts.
func RenderPanel(bank int, labels [actions.Switches]string, pressed [actions.Switches]bool, splash bool) string {
	if splash {
		return panelStyle.Render(splashStyle.Render(fmt.Sprintf("BANK %d", bank)))
	}

	cell := func(i int) string {
		st := labelStyle
		if pressed[i] {
			st = pressedStyle
		}
		return st.Render(labels[i])
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, cell(3), cell(4), cell(5))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, cell(0), cell(1), cell(2))
	header := fmt.Sprintf("Bank %d", bank)
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, top, bottom))
}
