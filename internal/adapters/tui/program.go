package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/xvierd/focus/internal/domain"
)

// StatisticsFeed streams snapshots for the active period.
type StatisticsFeed interface {
	Subscribe(ctx context.Context) <-chan domain.StatisticsSnapshot
}

// Run starts the interactive timer and blocks until the user quits or ctx
// is cancelled. Timer and statistics updates are pumped into the program
// from their own goroutines.
func Run(ctx context.Context, deps Deps, feed StatisticsFeed) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(deps), tea.WithAltScreen(), tea.WithContext(ctx))

	// Timer listeners run synchronously inside timer commands, and the model
	// issues those commands from Update, so the listener must never block on
	// program.Send. A one-slot latest-wins channel decouples them.
	updates := make(chan timerMsg, 1)
	unsubscribe := deps.Timer.Subscribe(func(state domain.TimerState, err error) {
		msg := timerMsg{state: state, err: err}
		for {
			select {
			case updates <- msg:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case msg := <-updates:
				program.Send(msg)
			}
		}
	})

	if feed != nil {
		g.Go(func() error {
			for snap := range feed.Subscribe(gctx) {
				program.Send(statsMsg(snap))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	})

	return g.Wait()
}
