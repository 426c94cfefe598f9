package interact

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	gomirrors "github.com/jdginn/go-mirror-box/mirrors"
	"github.com/jdginn/go-mirror-box/mirrors/trail"
)

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#74B9FF"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

type item struct {
	index   int
	segment gomirrors.Segment
}

func (i item) Title() string {
	return fmt.Sprintf("#%d  (%.1f, %.1f) -> (%.1f, %.1f)", i.index+1,
		i.segment.From.X, i.segment.From.Y, i.segment.To.X, i.segment.To.Y)
}

func (i item) Description() string {
	return fmt.Sprintf("length %.2f", i.segment.Length())
}

func (i item) FilterValue() string {
	return i.Title()
}

// Options configures the interactive stepper
type Options struct {
	StartDeg   float64
	StepDeg    float64
	MaxBounces int
	// Where "s" writes a PNG of the current path and its trail. Empty disables saving.
	PreviewPath string
	View        *gomirrors.View
	History     *trail.History
}

type model struct {
	list    list.Model
	scene   *gomirrors.Scene
	opts    Options
	angle   float64
	path    gomirrors.Path
	status  string
	err     error
	now     func() time.Time
	history *trail.History
}

func newModel(scene *gomirrors.Scene, opts Options) model {
	if opts.StepDeg <= 0 {
		opts.StepDeg = 1
	}
	history := opts.History
	if history == nil {
		history = trail.New(8, 0)
	}
	m := model{
		list:    list.New(nil, list.NewDefaultDelegate(), 0, 0),
		scene:   scene,
		opts:    opts,
		now:     time.Now,
		history: history,
	}
	m.list.Title = "Ray segments"
	m.setAngle(opts.StartDeg)
	return m
}

// normalizeDegrees maps an angle into [0, 360)
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func (m *model) setAngle(angle float64) tea.Cmd {
	m.angle = normalizeDegrees(angle)
	path, err := m.scene.TraceDegrees(m.angle, m.opts.MaxBounces)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.path = path
	m.history.Push(m.angle, m.now())
	m.status = fmt.Sprintf("angle %.1f°  %d bounces  length %.1f", m.angle, len(path), path.Length())

	items := make([]list.Item, len(path))
	for i, s := range path {
		items[i] = item{index: i, segment: s}
	}
	return m.list.SetItems(items)
}

func (m *model) savePreview() {
	if m.opts.PreviewPath == "" || m.opts.View == nil {
		return
	}
	paths, err := trail.Paths(m.scene, m.history, m.now(), m.opts.MaxBounces)
	if err != nil {
		m.err = err
		return
	}
	if err := gomirrors.SaveImage(m.opts.PreviewPath, m.opts.View.Render(paths)); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("saved %s", m.opts.PreviewPath)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "+", "=":
			return m, m.setAngle(m.angle + m.opts.StepDeg)
		case "-", "_":
			return m, m.setAngle(m.angle - m.opts.StepDeg)
		case ">", ".":
			return m, m.setAngle(m.angle + 10*m.opts.StepDeg)
		case "<", ",":
			return m, m.setAngle(m.angle - 10*m.opts.StepDeg)
		case "s":
			m.savePreview()
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(m.status + "   [+/-] step  [</>] coarse  [s] save")
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}
	return docStyle.Render(m.list.View() + "\n" + status)
}

// Interact runs the terminal stepper until the user quits
func Interact(scene *gomirrors.Scene, opts Options) error {
	p := tea.NewProgram(newModel(scene, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive session: %w", err)
	}
	return nil
}
