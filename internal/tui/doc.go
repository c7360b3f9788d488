// Package tui provides the terminal dashboard for harbor-ctl.
//
// This package uses the Bubble Tea framework to show a live view of a
// harbor held by a control.Control.
//
// # Dashboard
//
//	err := tui.Run(ctx, ctl)
//
// The dashboard shows:
//
//   - A summary line (date, boats, free slots, weight, average speed)
//   - One row of cells per dock, colored by boat kind
//   - A table of berthed boats with days berthed and days left
//   - The outcome of the last action and the last audit log line
//
// # Keys
//
//   - a (random boat), n (new boat wizard), d (remove selected boat)
//   - t (next day), s (start/stop simulation), r (reset)
//   - w (save), l (load), q (quit)
//
// Changes made by the simulation driver or other clients arrive through
// control.Subscribe; the log watcher refreshes the last log line.
//
// # New Boat Wizard
//
// The wizard walks through kind, values and confirmation. Values start at
// the middle of each kind's limits and are validated on Enter.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
