package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fixfx/artifactd/pkg/artifacts"
)

// Browser styles
var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browseNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	browseDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	browseTabStyle      = lipgloss.NewStyle().Foreground(colorGray)
	browseTabActive     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
)

// =============================================================================
// browseModel - Interactive artifact browser
// =============================================================================

// browseModel is the bubbletea model for the artifact browser. It shows one
// platform's versions at a time with a detail pane for the selected entry.
type browseModel struct {
	snapshot *artifacts.Snapshot
	platform int // index into artifacts.AllPlatforms
	versions map[artifacts.Platform][]string
	cursor   int
	offset   int
	height   int
}

// newBrowseModel builds the browser over a snapshot.
func newBrowseModel(snap *artifacts.Snapshot, includeEOL bool) browseModel {
	versions := map[artifacts.Platform][]string{}
	for _, p := range artifacts.AllPlatforms {
		catalog := snap.Catalog(p)
		shown := artifacts.Catalog{}
		for v, a := range catalog {
			if a.EOL && !includeEOL {
				continue
			}
			shown[v] = a
		}
		versions[p] = sortVersionsDesc(shown)
	}
	return browseModel{
		snapshot: snap,
		versions: versions,
		height:   15,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.current())-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "left", "h", "right", "l", "tab":
			m.platform = (m.platform + 1) % len(artifacts.AllPlatforms)
			m.cursor = 0
			m.offset = 0
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 12
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// current returns the version list for the active platform.
func (m browseModel) current() []string {
	return m.versions[artifacts.AllPlatforms[m.platform]]
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("FXServer Artifacts"))
	if m.snapshot.Source == artifacts.SourceFallback {
		b.WriteString("  " + StyleWarning.Render("(fallback dataset)"))
	}
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  tab platform  q quit"))
	b.WriteString("\n\n")

	for i, p := range artifacts.AllPlatforms {
		style := browseTabStyle
		if i == m.platform {
			style = browseTabActive
		}
		b.WriteString(style.Render(string(p)))
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	platform := artifacts.AllPlatforms[m.platform]
	versions := m.current()
	if len(versions) == 0 {
		b.WriteString(browseDimStyle.Render("no artifacts"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(versions) {
		end = len(versions)
	}

	catalog := m.snapshot.Catalog(platform)
	for i := m.offset; i < end; i++ {
		version := versions[i]
		a := catalog[version]

		cursor := "  "
		style := browseNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = browseSelectedStyle
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, style.Render(version), renderStatus(a.SupportStatus))
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView(catalog[versions[m.cursor]]))
	return b.String()
}

// detailView renders the detail pane for the selected artifact.
func (m browseModel) detailView(a artifacts.Artifact) string {
	var b strings.Builder

	key := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	row := func(k, v string) {
		b.WriteString(key.Render(k) + " " + v + "\n")
	}

	row("Version", StyleNumber.Render(a.Version))
	row("Status", renderStatus(a.SupportStatus))
	row("Published", StyleValue.Render(a.PublishedAt.Format(time.DateOnly)))
	if !a.SupportEnds.IsZero() {
		row("Support ends", StyleValue.Render(a.SupportEnds.Format(time.DateOnly)))
	}
	row("Artifact", StyleLink.Render(a.ArtifactURL))
	for _, kind := range []string{"zip", "7z"} {
		if url, ok := a.DownloadURLs[kind]; ok {
			row("  "+kind, StyleDim.Render(url))
		}
	}
	return b.String()
}
