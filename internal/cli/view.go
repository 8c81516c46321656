package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/interact"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/render/term"
	"github.com/matzehuels/mindmap/pkg/source"
	"github.com/matzehuels/mindmap/pkg/tree"
)

// Viewer defaults before the first window size arrives.
const (
	defaultCols = 80
	defaultRows = 24
	panStep     = 4 // cells per arrow key
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	expand  string
	fps     int
	open    bool
	logFile string
	refresh bool
}

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOpts{expand: "0"}

	cmd := &cobra.Command{
		Use:   "view <source>",
		Short: "Explore a hierarchy as an animated mind map in the terminal",
		Long: `View opens the source as a radial mind map.

Keys:
  q, ctrl+c  quit
  e / c      expand / collapse every folder
  r          reload the source
  0          reset pan and zoom
  + / -      zoom about the center
  arrows     pan

Mouse: click a folder to toggle it, click a file to open it, drag to pan,
scroll to zoom.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.expand, "expand", opts.expand, "initially expand folders to this depth, or \"all\"")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "animation frame rate (default from config)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "print the paths of clicked files on exit")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file while the viewer runs")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore a cached snapshot")

	return cmd
}

func (c *CLI) runView(ctx context.Context, out io.Writer, input string, vo viewOpts) error {
	expand, err := pipeline.ParseExpand(vo.expand)
	if err != nil {
		return err
	}
	fps := vo.fps
	if fps == 0 {
		fps = c.cfg.Animation.FPS
	}
	if fps < 1 || fps > 240 {
		return fmt.Errorf("fps must be between 1 and 240, got %d", fps)
	}

	src, err := c.openSource(input, vo.refresh)
	if err != nil {
		return err
	}

	logger, closeLog, err := tuiLogger(c.Logger, vo.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	model, err := newViewModel(ctx, src, c.cfg, viewSettings{
		Title:  input,
		Expand: expand,
		FPS:    fps,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = prog.Run()
	model.close()
	if err != nil {
		return err
	}

	if vo.open {
		for _, p := range model.opened {
			newConsole(out).file(p)
		}
	}
	return nil
}

// tuiLogger returns a logger that cannot corrupt the alternate screen:
// it writes to path, or nowhere when path is empty.
func tuiLogger(base *log.Logger, path string) (*log.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, base.GetLevel()), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, base.GetLevel()), func() { f.Close() }, nil
}

// =============================================================================
// Frame scheduling
// =============================================================================

// frameMsg delivers a scheduled frame back into the update loop.
type frameMsg struct{ id uint64 }

// tickScheduler implements render.Scheduler on top of tea.Tick. Requests
// are queued during Update and turned into a command by cmd; the frame
// runs when the matching frameMsg arrives, so all tree mutation stays on
// bubbletea's update goroutine.
type tickScheduler struct {
	interval time.Duration
	seq      uint64
	pending  func()
	id       uint64
	issued   bool
}

func newTickScheduler(fps int) *tickScheduler {
	return &tickScheduler{interval: time.Second / time.Duration(fps)}
}

// RequestFrame implements render.Scheduler.
func (s *tickScheduler) RequestFrame(fn func()) func() {
	s.seq++
	id := s.seq
	s.id, s.pending, s.issued = id, fn, false
	return func() {
		if s.id == id {
			s.pending = nil
		}
	}
}

// cmd returns a tick for a request bubbletea has not seen yet.
func (s *tickScheduler) cmd() tea.Cmd {
	if s.pending == nil || s.issued {
		return nil
	}
	s.issued = true
	id := s.id
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return frameMsg{id: id} })
}

// fire runs the request id if it is still live.
func (s *tickScheduler) fire(id uint64) bool {
	if s.pending == nil || s.id != id {
		return false
	}
	fn := s.pending
	s.pending = nil
	fn()
	return true
}

// =============================================================================
// Model
// =============================================================================

// loadedMsg carries a finished source load.
type loadedMsg struct {
	folder tree.Folder
	files  []tree.File
	err    error
}

type viewSettings struct {
	Title  string
	Expand int
	FPS    int
	Logger *log.Logger
}

type cellPos struct{ col, row int }

// viewModel is the bubbletea model of the viewer.
type viewModel struct {
	ctx    context.Context
	src    source.Source
	title  string
	logger *log.Logger

	canvas *term.Canvas
	sched  *tickScheduler
	m      *mindmap.Map

	status  string
	loading bool
	press   *cellPos
	opened  []string
}

func newViewModel(ctx context.Context, src source.Source, cfg config.Config, s viewSettings) (*viewModel, error) {
	theme, err := cfg.Theme.Render()
	if err != nil {
		return nil, err
	}
	if s.FPS <= 0 {
		s.FPS = config.DefaultFPS
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}

	vm := &viewModel{
		ctx:    ctx,
		src:    src,
		title:  s.Title,
		logger: s.Logger,
		canvas: term.New(defaultCols, defaultRows-1),
		sched:  newTickScheduler(s.FPS),
	}
	w, h := vm.canvas.ScreenSize()
	vm.m = mindmap.New(vm.canvas, vm.sched, mindmap.Options{
		Width:           w,
		Height:          h,
		Theme:           theme,
		Layout:          []layout.Option{layout.WithConfig(cfg.LayoutConfig())},
		Lerp:            cfg.Animation.Lerp,
		SettleThreshold: cfg.Animation.SettleThreshold,
		ExpandDepth:     s.Expand,
		Navigator:       interact.NavigatorFunc(vm.navigate),
		Logger:          s.Logger,
	})
	return vm, nil
}

func (vm *viewModel) navigate(ev interact.NavigateEvent) {
	vm.opened = append(vm.opened, ev.Path)
	vm.status = "opened " + ev.Path
	vm.logger.Info("file opened", "path", ev.Path)
}

// load reads the source off the update goroutine.
func (vm *viewModel) load() tea.Cmd {
	vm.loading = true
	ctx, src := vm.ctx, vm.src
	return func() tea.Msg {
		folder, files, err := source.Load(ctx, src)
		return loadedMsg{folder: folder, files: files, err: err}
	}
}

func (vm *viewModel) close() { vm.m.Close() }

func (vm *viewModel) Init() tea.Cmd {
	return vm.load()
}

func (vm *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := vm.update(msg)
	if frame := vm.sched.cmd(); frame != nil {
		cmd = tea.Batch(cmd, frame)
	}
	return vm, cmd
}

func (vm *viewModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case frameMsg:
		vm.sched.fire(msg.id)

	case loadedMsg:
		vm.loading = false
		if msg.err != nil {
			vm.status = "load failed: " + errors.UserMessage(msg.err)
			vm.logger.Error("load failed", "err", msg.err)
			return nil
		}
		root := vm.m.Load(msg.folder, msg.files)
		stats := tree.Count(root)
		vm.status = fmt.Sprintf("%d folders · %d files", stats.Folders, stats.Files)

	case tea.WindowSizeMsg:
		vm.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return vm.key(msg)

	case tea.MouseMsg:
		vm.mouse(msg)
	}
	return nil
}

func (vm *viewModel) resize(cols, rows int) {
	vm.canvas.Resize(cols, rows-1)
	w, h := vm.canvas.ScreenSize()
	vm.m.Resize(w, h)
}

func (vm *viewModel) key(msg tea.KeyMsg) tea.Cmd {
	w, h := vm.canvas.ScreenSize()
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		vm.close()
		return tea.Quit
	case "e":
		vm.m.ExpandAll()
	case "c":
		vm.m.CollapseAll()
	case "r":
		if !vm.loading {
			vm.status = "reloading…"
			return vm.load()
		}
	case "0":
		vm.m.ResetView()
	case "+", "=":
		vm.m.ZoomAt(w/2, h/2, interact.ZoomInFactor)
	case "-", "_":
		vm.m.ZoomAt(w/2, h/2, interact.ZoomOutFactor)
	case "left":
		vm.m.Pan(panStep*term.CellWidth, 0)
	case "right":
		vm.m.Pan(-panStep*term.CellWidth, 0)
	case "up":
		vm.m.Pan(0, panStep*term.CellHeight/2)
	case "down":
		vm.m.Pan(0, -panStep*term.CellHeight/2)
	}
	return nil
}

func (vm *viewModel) mouse(msg tea.MouseMsg) {
	x, y := term.CellToScreen(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			vm.m.Wheel(x, y, -1)
		case tea.MouseButtonWheelDown:
			vm.m.Wheel(x, y, 1)
		case tea.MouseButtonLeft:
			vm.press = &cellPos{msg.X, msg.Y}
			vm.m.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		vm.m.PointerMove(x, y)
	case tea.MouseActionRelease:
		vm.m.PointerUp(x, y)
		if vm.press != nil && *vm.press == (cellPos{msg.X, msg.Y}) {
			vm.m.Click(x, y)
		}
		vm.press = nil
	}
}

func (vm *viewModel) View() string {
	cols, _ := vm.canvas.Size()
	body := vm.canvas.String()
	if body == "" {
		body = StyleDim.Render("Loading " + vm.title + "…")
	}
	return body + "\n" + vm.statusLine(cols)
}

func (vm *viewModel) statusLine(cols int) string {
	zoom := vm.m.View().Zoom
	if zoom == 0 {
		zoom = 1
	}
	right := fmt.Sprintf("%s · %.0f%%", vm.m.State(), zoom*100)
	left := StyleTitle.Render(vm.title)
	if vm.status != "" {
		left += StyleDim.Render("  " + vm.status)
	}
	gap := cols - visibleWidth(vm.title, vm.status) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + StyleDim.Render(right)
}

func visibleWidth(title, status string) int {
	n := len([]rune(title))
	if status != "" {
		n += 2 + len([]rune(status))
	}
	return n
}
