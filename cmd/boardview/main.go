package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gridboard-server/internal/engine"
	"gridboard-server/pkg/board"
	"gridboard-server/pkg/logger"

	"github.com/gdamore/tcell/v2"
)

const (
	runTick  = 80 * time.Millisecond
	robotSym = '@'
)

var kindStyles = map[board.CellKind]tcell.Style{
	board.OuterWall: tcell.StyleDefault.Foreground(tcell.ColorGray),
	board.Floor:     tcell.StyleDefault.Foreground(tcell.ColorDarkGray),
	board.Wall:      tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	board.Food:      tcell.StyleDefault.Foreground(tcell.ColorGreen),
	board.Enemy:     tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	board.Key:       tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
	board.Exit:      tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true),
}

var (
	robotStyle     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	robotKeyStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
	statusStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	errorLineStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Viewer показывает уровни и прогоны роботов в терминале
type Viewer struct {
	screen tcell.Screen
	cfg    engine.Config

	level   int
	current *engine.Level
	session *engine.Session
	running bool
	err     error
}

func NewViewer(screen tcell.Screen, cfg engine.Config, level int) *Viewer {
	v := &Viewer{screen: screen, cfg: cfg}
	v.load(level)
	return v
}

// load строит уровень и готовит новый прогон
func (v *Viewer) load(level int) {
	if level < 1 {
		level = 1
	}
	v.level = level
	v.running = false

	lvl, err := engine.BuildLevel(v.cfg, level)
	if err != nil {
		v.err = err
		v.current, v.session = nil, nil
		logger.Log.WithError(err).WithField("level", level).Warn("Level build failed")
		return
	}
	v.err = nil
	v.current = lvl
	v.session = engine.NewSession(lvl.Board, v.cfg.SessionConfig())
}

func (v *Viewer) step() {
	if v.session == nil || v.session.Done() {
		v.running = false
		return
	}
	v.session.Step()
}

// handleInput возвращает false, когда пора выходить
func (v *Viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 'n':
			v.load(v.level + 1)
		case 'p':
			v.load(v.level - 1)
		case 's':
			v.running = false
			v.step()
		case 'r':
			v.running = !v.running
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) draw() {
	v.screen.Clear()

	if v.current == nil {
		drawText(v.screen, 0, 0, errorLineStyle, fmt.Sprintf("level %d: %v", v.level, v.err))
		drawText(v.screen, 0, 1, statusStyle, "n/p - level, q - quit")
		v.screen.Show()
		return
	}

	b := v.session.Board()
	rows := b.Rows()
	// Верхняя строка экрана - y = rows
	toScreen := func(p board.GridPoint) (int, int) { return p.X + 1, rows - p.Y }

	for _, c := range b.Cells() {
		x, y := toScreen(c.Point)
		v.screen.SetContent(x, y, c.Kind.Symbol(), nil, kindStyles[c.Kind])
	}
	for _, r := range v.session.Robots() {
		if !r.Alive {
			continue
		}
		style := robotStyle
		if r.HasKey {
			style = robotKeyStyle
		}
		x, y := toScreen(r.Pos)
		v.screen.SetContent(x, y, robotSym, nil, style)
	}

	line := rows + 3
	drawText(v.screen, 0, line, statusStyle, fmt.Sprintf("level %d  seed %d  layout %s  attempts %d",
		v.level, v.current.Config.Seed, v.current.LayoutName, v.current.Attempts))
	drawText(v.screen, 0, line+1, statusStyle, fmt.Sprintf("tick %d  robots %d  status %s",
		v.session.Tick(), len(v.session.Robots()), v.session.Status()))
	drawText(v.screen, 0, line+2, statusStyle, "n/p - level, s - step, r - run, q - quit")

	v.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func (v *Viewer) run(ctx context.Context) {
	ticker := time.NewTicker(runTick)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	v.draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
			v.draw()
		case <-ticker.C:
			if v.running {
				v.step()
				v.draw()
			}
		}
	}
}

func main() {
	cfg := engine.NewConfig()
	var seed uint64
	level := 1
	logPath := "boardview.log"
	flag.Uint64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.IntVar(&level, "level", level, "First level to show")
	flag.IntVar(&cfg.Columns, "columns", cfg.Columns, "Interior columns")
	flag.IntVar(&cfg.Rows, "rows", cfg.Rows, "Interior rows")
	flag.StringVar(&cfg.Layout, "layout", cfg.Layout, "Wall layout: none, prim, backtracker")
	flag.Float64Var(&cfg.LoopChance, "loops", cfg.LoopChance, "Maze loop chance in [0,1]")
	flag.StringVar(&logPath, "log", logPath, "Log file (the terminal is taken by the screen)")
	flag.Parse()
	if seed != 0 {
		cfg.Seed = seed
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.InitWithOutput(logFile)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	logger.Log.WithField("seed", cfg.Seed).Info("Board viewer started")
	NewViewer(screen, cfg, level).run(context.Background())
}
