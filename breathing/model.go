// Package breathing runs the guided breathing exercise in the terminal
package breathing

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	btimer "github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/serene/internal/config"
	"github.com/ayoisaiah/serene/internal/models"
)

const (
	padding  = 2
	maxWidth = 60
)

type keymap struct {
	toggle key.Binding
	quit   key.Binding
}

var defaultKeymap = keymap{
	toggle: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("s", "start/stop"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// RecordStore persists finished and abandoned exercises.
type RecordStore interface {
	SaveRecord(rec *models.Record) error
}

type Option func(*Model)

func WithChimer(c Chimer) Option {
	return func(m *Model) {
		m.chimer = c
	}
}

func WithHooks(h Hooks) Option {
	return func(m *Model) {
		m.hooks = h
	}
}

// WithHistory records every exercise for user.
func WithHistory(s RecordStore, user string) Option {
	return func(m *Model) {
		m.store = s
		m.user = user
	}
}

func WithNow(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// Model is the bubbletea model of a breathing exercise.
type Model struct {
	started  time.Time
	chimer   Chimer
	hooks    Hooks
	store    RecordStore
	cfg      *config.BreathingConfig
	logger   *slog.Logger
	now      func() time.Time
	user     string
	help     help.Model
	progress progress.Model
	clock    btimer.Model
	last     *models.Record
	pattern  Pattern
	step     Step
	duration time.Duration
	active   bool
}

// New returns an idle exercise lasting cfg.Duration.
func New(cfg *config.BreathingConfig, logger *slog.Logger, opts ...Option) *Model {
	m := &Model{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		pattern:  PatternFromConfig(cfg),
		duration: cfg.Duration,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.reset()

	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Active reports whether the exercise is running.
func (m *Model) Active() bool {
	return m.active
}

// Step returns the current position in the breathing cycle.
func (m *Model) Step() Step {
	return m.step
}

// Remaining returns the time left in the exercise.
func (m *Model) Remaining() time.Duration {
	return m.clock.Timeout
}

// Last returns the most recently finished exercise, if any.
func (m *Model) Last() *models.Record {
	return m.last
}

func (m *Model) reset() {
	m.active = false
	m.clock = btimer.New(m.duration)
	m.step = m.pattern.At(0)
}

func (m *Model) start() tea.Cmd {
	m.reset()

	m.active = true
	m.started = m.now()
	m.last = nil

	m.chime(m.step.Phase)

	m.logger.Info(
		"breathing exercise started",
		slog.Duration("duration", m.duration),
	)

	return m.clock.Init()
}

// stop ends the exercise and resets the phase, cycle and remaining time.
func (m *Model) stop(completed bool) {
	if !m.active {
		return
	}

	rec := &models.Record{
		Kind:      models.RecordBreathing,
		User:      m.user,
		StartTime: m.started,
		EndTime:   m.now(),
		Cycles:    m.step.Breaths,
		Completed: completed,
	}

	m.last = rec

	if m.store != nil {
		if err := m.store.SaveRecord(rec); err != nil {
			m.logger.Warn("unable to save breathing exercise", slog.Any("error", err))
		}
	}

	m.logger.Info(
		"breathing exercise stopped",
		slog.Bool("completed", completed),
		slog.Int("breaths", rec.Cycles),
	)

	m.reset()
}

func (m *Model) advance(elapsed time.Duration) {
	step := m.pattern.At(elapsed)

	if step.Transitions != m.step.Transitions {
		m.logger.Debug("phase changed", slog.String("step", spew.Sdump(step)))
		m.chime(step.Phase)
	}

	m.step = step
}

func (m *Model) chime(p Phase) {
	if m.chimer == nil || !m.cfg.Chime {
		return
	}

	if err := m.chimer.Chime(p); err != nil {
		m.logger.Debug("chime failed", slog.Any("error", err))
	}
}

// finish runs the completion hooks.
func (m *Model) finish() {
	m.stop(true)

	if m.hooks == nil {
		return
	}

	if m.cfg.Notify {
		err := m.hooks.Notify(
			"Breathing exercise complete",
			"Nice work. Take that calm with you.",
		)
		if err != nil {
			m.logger.Warn("unable to display notification", slog.Any("error", err))
		}
	}

	if m.cfg.Cmd != "" {
		if err := m.hooks.Run(m.cfg.Cmd); err != nil {
			m.logger.Warn("breathing cmd failed", slog.Any("error", err))
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case btimer.TickMsg:
		if !m.active {
			return m, nil
		}

		m.clock, cmd = m.clock.Update(msg)
		m.advance(m.duration - m.clock.Timeout)

		return m, cmd

	case btimer.TimeoutMsg:
		if !m.active || msg.ID != m.clock.ID() {
			return m, nil
		}

		m.finish()

		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.toggle):
			if m.active {
				m.stop(false)
				return m, nil
			}

			return m, m.start()

		case key.Matches(msg, defaultKeymap.quit):
			m.stop(false)

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-padding*2-4, maxWidth)

		return m, nil

	case progress.FrameMsg:
		var progressModel tea.Model

		progressModel, cmd = m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}
