package cli

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/render"
	"github.com/matzehuels/mindmap/pkg/render/term"
	"github.com/matzehuels/mindmap/pkg/tree"
)

type memSource struct {
	root  tree.Folder
	files []tree.File
	loads int
}

func (s *memSource) Kind() string     { return "mem" }
func (s *memSource) Location() string { return "docs" }

func (s *memSource) Load(context.Context) (tree.Folder, []tree.File, error) {
	s.loads++
	return s.root, s.files, nil
}

func docsSource() *memSource {
	return &memSource{
		root: tree.Folder{Name: "Docs", FileCount: 5, Children: []tree.Folder{
			{Name: "A", Path: "A", FileCount: 3},
			{Name: "B", Path: "B", FileCount: 1},
		}},
		files: []tree.File{
			{FilePath: "A/1.md", ChunkCount: 4},
			{FilePath: "A/2.md"},
			{FilePath: "A/3.md"},
			{FilePath: "B/4.md", ChunkCount: 2},
			{FilePath: "C/5.md"},
		},
	}
}

func newTestViewModel(t *testing.T, src *memSource) *viewModel {
	t.Helper()
	vm, err := newViewModel(context.Background(), src, config.Default(), viewSettings{
		Title:  "docs",
		FPS:    60,
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("newViewModel: %v", err)
	}
	t.Cleanup(vm.close)
	return vm
}

// loadModel runs the initial load command and feeds its result back.
func loadModel(t *testing.T, vm *viewModel) {
	t.Helper()
	msg := vm.Init()()
	if _, ok := msg.(loadedMsg); !ok {
		t.Fatalf("Init command produced %T, want loadedMsg", msg)
	}
	if _, cmd := vm.Update(msg); cmd == nil {
		t.Fatal("loading should schedule a frame")
	}
}

// settle delivers frames until no request is pending.
func settle(t *testing.T, vm *viewModel) int {
	t.Helper()
	frames := 0
	for vm.sched.pending != nil {
		if frames > 2000 {
			t.Fatal("map did not settle")
		}
		vm.Update(frameMsg{id: vm.sched.id})
		frames++
	}
	return frames
}

func press(key string) tea.KeyMsg {
	switch key {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestTickScheduler(t *testing.T) {
	s := newTickScheduler(30)

	if s.cmd() != nil {
		t.Error("cmd() without a request should be nil")
	}

	ran := 0
	cancel := s.RequestFrame(func() { ran++ })
	if s.cmd() == nil {
		t.Fatal("cmd() should tick for a new request")
	}
	if s.cmd() != nil {
		t.Error("a request should be handed to bubbletea once")
	}

	if s.fire(s.id + 1) {
		t.Error("a stale frame id must not run the request")
	}
	cancel()
	if s.fire(s.id) {
		t.Error("a withdrawn request must not run")
	}

	s.RequestFrame(func() { ran++ })
	if !s.fire(s.id) {
		t.Error("a live request should run")
	}
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}

func TestTickSchedulerCancelAfterReplace(t *testing.T) {
	s := newTickScheduler(30)
	first := s.RequestFrame(func() {})
	s.RequestFrame(func() {})
	first()
	if s.pending == nil {
		t.Error("cancelling an older request must not withdraw the newer one")
	}
}

func TestViewLoadsAndSettles(t *testing.T) {
	src := docsSource()
	vm := newTestViewModel(t, src)
	vm.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	loadModel(t, vm)

	if got := tree.CountVisible(vm.m.Root()); got != 4 {
		t.Errorf("visible = %d, want 4 (root, A, B, C/5.md)", got)
	}
	if !strings.Contains(vm.status, "3 folders") {
		t.Errorf("status = %q, want folder count", vm.status)
	}

	if frames := settle(t, vm); frames == 0 {
		t.Error("expected animation frames after load")
	}
	if vm.m.State() != render.Settled {
		t.Errorf("state = %s, want settled", vm.m.State())
	}
	if !strings.Contains(vm.canvas.Plain(), "Docs") {
		t.Errorf("canvas should show the root label:\n%s", vm.canvas.Plain())
	}
	if lines := strings.Split(vm.View(), "\n"); len(lines) != 30 {
		t.Errorf("view has %d lines, want 30", len(lines))
	}
}

func TestViewKeys(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	loadModel(t, vm)
	settle(t, vm)

	vm.Update(press("e"))
	if got := tree.CountVisible(vm.m.Root()); got != 8 {
		t.Errorf("after expand all: visible = %d, want 8", got)
	}
	settle(t, vm)

	vm.Update(press("c"))
	if got := tree.CountVisible(vm.m.Root()); got != 4 {
		t.Errorf("after collapse all: visible = %d, want 4", got)
	}

	vm.Update(press("+"))
	if z := vm.m.View().Zoom; z <= 1 {
		t.Errorf("zoom after + = %v, want > 1", z)
	}
	vm.Update(press("0"))
	if v := vm.m.View(); v.Zoom != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Errorf("view after reset = %+v", v)
	}
	vm.Update(press("left"))
	if v := vm.m.View(); v.PanX <= 0 {
		t.Errorf("left arrow should pan right, got PanX %v", v.PanX)
	}

	_, cmd := vm.Update(press("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if !vm.m.Closed() {
		t.Error("quitting should close the map")
	}
}

func TestViewReload(t *testing.T) {
	src := docsSource()
	vm := newTestViewModel(t, src)
	loadModel(t, vm)
	settle(t, vm)

	src.files = append(src.files, tree.File{FilePath: "C/6.md"})
	_, cmd := vm.Update(press("r"))
	if cmd == nil {
		t.Fatal("r should start a reload")
	}
	vm.Update(cmd())

	if src.loads != 2 {
		t.Errorf("loads = %d, want 2", src.loads)
	}
	if got := tree.CountVisible(vm.m.Root()); got != 5 {
		t.Errorf("visible after reload = %d, want 5", got)
	}
}

// cellOf returns the terminal cell under a node's center.
func cellOf(vm *viewModel, n *tree.Node) (col, row int) {
	sx, sy := vm.m.Controller().WorldToScreen(n.X, n.Y)
	return int(math.Floor(sx / term.CellWidth)), int(math.Floor(sy / term.CellHeight))
}

func TestViewMouseClickTogglesFolder(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	loadModel(t, vm)
	settle(t, vm)

	a := tree.Find(vm.m.Root(), "A")
	if a == nil {
		t.Fatal("folder A not found")
	}
	col, row := cellOf(vm, a)

	vm.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	vm.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if !a.Expanded {
		t.Error("clicking folder A should expand it")
	}
	if vm.press != nil {
		t.Error("release should clear the press")
	}
}

func TestViewMouseClickOpensFile(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	loadModel(t, vm)
	settle(t, vm)

	f := tree.Find(vm.m.Root(), tree.FileIDPrefix+"C/5.md")
	if f == nil {
		t.Fatal("file C/5.md not found")
	}
	col, row := cellOf(vm, f)

	vm.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	vm.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if len(vm.opened) != 1 || vm.opened[0] != "C/5.md" {
		t.Errorf("opened = %v, want [C/5.md]", vm.opened)
	}
	if !strings.Contains(vm.status, "C/5.md") {
		t.Errorf("status = %q, want opened path", vm.status)
	}
}

func TestViewMouseDragPans(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	loadModel(t, vm)
	settle(t, vm)

	vm.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	vm.Update(tea.MouseMsg{X: 4, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	vm.Update(tea.MouseMsg{X: 4, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if got := vm.m.View().PanX; got != 3*term.CellWidth {
		t.Errorf("PanX = %v, want %v", got, 3*term.CellWidth)
	}
	if got := tree.CountVisible(vm.m.Root()); got != 4 {
		t.Errorf("a drag must not click: visible = %d", got)
	}
}

func TestViewMouseWheelZooms(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	loadModel(t, vm)

	vm.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if z := vm.m.View().Zoom; z <= 1 {
		t.Errorf("wheel up zoom = %v, want > 1", z)
	}
	vm.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	vm.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if z := vm.m.View().Zoom; z >= 1 {
		t.Errorf("wheel down zoom = %v, want < 1", z)
	}
}

func TestViewResize(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	vm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	cols, rows := vm.canvas.Size()
	if cols != 120 || rows != 39 {
		t.Errorf("canvas = %dx%d, want 120x39", cols, rows)
	}
	w, h := vm.m.Controller().Size()
	if w != 120*term.CellWidth || h != 39*term.CellHeight {
		t.Errorf("controller size = %vx%v", w, h)
	}
}

func TestViewBeforeLoad(t *testing.T) {
	vm := newTestViewModel(t, docsSource())
	if !strings.Contains(vm.View(), "Loading docs") {
		t.Errorf("view before load = %q", vm.View())
	}
}

func TestTUILogger(t *testing.T) {
	base := newLogger(io.Discard, log.DebugLevel)

	l, closeLog, err := tuiLogger(base, "")
	if err != nil {
		t.Fatal(err)
	}
	closeLog()
	if l.GetLevel() != log.DebugLevel {
		t.Error("tui logger should keep the base level")
	}

	path := t.TempDir() + "/view.log"
	l, closeLog, err = tuiLogger(base, path)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hello")
	closeLog()
}

type failingSource struct{ memSource }

func (s *failingSource) Load(context.Context) (tree.Folder, []tree.File, error) {
	return tree.Folder{}, nil, errors.New(errors.ErrCodeSourceUnavailable, "index is locked")
}

func TestViewLoadFailure(t *testing.T) {
	vm, err := newViewModel(context.Background(), &failingSource{}, config.Default(), viewSettings{
		Title:  "docs",
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer vm.close()

	_, cmd := vm.Update(vm.Init()())
	if cmd != nil {
		t.Error("a failed load should not schedule frames")
	}
	if vm.status != "load failed: index is locked" {
		t.Errorf("status = %q", vm.status)
	}
	if vm.m.Root() != nil {
		t.Error("a failed load should leave the map empty")
	}
}
