package style

import (
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/domain/valueobject"
	"taskdeck/internal/infrastructure/config"
)

var (
	ColumnStyle           lipgloss.Style
	FocusedColumnStyle    lipgloss.Style
	DropTargetStyle       lipgloss.Style
	ColumnTitleStyle      lipgloss.Style
	TaskStyle             lipgloss.Style
	TaskCardStyle         lipgloss.Style
	SelectedTaskCardStyle lipgloss.Style
	DraggedTaskCardStyle  lipgloss.Style
	TagStyle              lipgloss.Style
	DueDateStyle          lipgloss.Style
	MutedStyle            lipgloss.Style
	HelpStyle             lipgloss.Style
	InfoNoticeStyle       lipgloss.Style
	ErrorNoticeStyle      lipgloss.Style
	ModalStyle            lipgloss.Style

	priorityColors config.PriorityColors
)

// InitStyles initializes the styles from config. The theme picks the text
// foreground; everything else comes from the styles section.
func InitStyles(cfg *config.Config) {
	styles := cfg.TUI.Styles

	foreground := styles.DarkForeground
	if cfg.TUI.Theme == config.ThemeLight {
		foreground = styles.LightForeground
	}

	ColumnStyle = boxStyle(styles.Column)
	FocusedColumnStyle = boxStyle(styles.FocusedColumn)
	DropTargetStyle = boxStyle(styles.DropTarget)
	ModalStyle = boxStyle(styles.Modal)

	ColumnTitleStyle = textStyle(styles.ColumnTitle)

	TaskStyle = textStyle(styles.Task)
	if styles.Task.Foreground == "" && foreground != "" {
		TaskStyle = TaskStyle.Foreground(lipgloss.Color(foreground))
	}

	TaskCardStyle = cardStyle(styles.TaskCard)
	SelectedTaskCardStyle = cardStyle(styles.SelectedTaskCard)
	DraggedTaskCardStyle = cardStyle(styles.DraggedTaskCard).Border(lipgloss.DoubleBorder())

	TagStyle = textStyle(styles.Tag)
	DueDateStyle = textStyle(styles.DueDate)
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

	// Help style
	HelpStyle = lipgloss.NewStyle().
		Padding(styles.Help.PaddingVertical, 0, 0, styles.Help.PaddingHorizontal)
	if styles.Help.Foreground != "" {
		HelpStyle = HelpStyle.Foreground(lipgloss.Color(styles.Help.Foreground))
	}

	InfoNoticeStyle = textStyle(styles.InfoNotice)
	ErrorNoticeStyle = textStyle(styles.ErrorNotice)

	priorityColors = styles.Priority
}

// PriorityStyle returns the badge style for a priority
func PriorityStyle(p valueobject.Priority) lipgloss.Style {
	color := priorityColors.Low
	switch p {
	case valueobject.PriorityHigh:
		color = priorityColors.High
	case valueobject.PriorityMedium:
		color = priorityColors.Medium
	}
	s := lipgloss.NewStyle().Bold(true)
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	return s
}

func boxStyle(c config.ColumnStyle) lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(c.PaddingVertical, c.PaddingHorizontal).
		Border(getBorder(c.BorderStyle)).
		BorderForeground(lipgloss.Color(c.BorderColor))
}

func cardStyle(c config.TaskCardStyle) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.BorderColor)).
		Padding(0, 1)
}

func textStyle(t config.TextStyle) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(t.PaddingVertical, t.PaddingHorizontal)
	if t.Foreground != "" {
		s = s.Foreground(lipgloss.Color(t.Foreground))
	}
	if t.Background != "" {
		s = s.Background(lipgloss.Color(t.Background))
	}
	if t.Bold {
		s = s.Bold(true)
	}
	if t.Italic {
		s = s.Italic(true)
	}
	if t.Align != "" {
		s = s.Align(getAlign(t.Align))
	}
	return s
}

// getBorder returns the border style based on the name
func getBorder(name string) lipgloss.Border {
	switch name {
	case "rounded":
		return lipgloss.RoundedBorder()
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// getAlign returns the alignment based on the name
func getAlign(name string) lipgloss.Position {
	switch name {
	case "left":
		return lipgloss.Left
	case "center":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	default:
		return lipgloss.Center
	}
}
