package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cartolab/riverlabel/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// demoCommand creates the interactive demo command.
func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Pick a sample river shape and compare strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context())
		},
	}
}

// runDemo shows the shape picker and compares strategies on the selection.
func (c *CLI) runDemo(ctx context.Context) error {
	model := NewShapeListModel()
	program := tea.NewProgram(model)

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run shape picker: %w", err)
	}

	result, ok := final.(ShapeListModel)
	if !ok || result.Selected == "" {
		printInfo("No shape selected")
		return nil
	}

	coords, _ := sampleShape(result.Selected)
	opts := compareOpts{
		labelText: pipeline.DefaultLabelText,
		fontSize:  pipeline.DefaultFontSize,
	}
	printNewline()
	return c.runCompareCoords(ctx, coords, opts)
}

// =============================================================================
// ShapeListModel - Interactive sample shape selection
// =============================================================================

// ShapeListModel is the bubbletea model for picking a sample shape.
type ShapeListModel struct {
	Names    []string
	Cursor   int
	Selected string
}

// NewShapeListModel creates a new shape list model.
func NewShapeListModel() ShapeListModel {
	return ShapeListModel{Names: sampleNames()}
}

func (m ShapeListModel) Init() tea.Cmd {
	return nil
}

func (m ShapeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ShapeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select River Shape"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-10s  %s", cursor, name,
			listDimStyle.Render(samples[name].description))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Names))))

	return b.String()
}
