package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/extension-host/bridge"
	"github.com/wippyai/extension-host/guest"
	"github.com/wippyai/extension-host/host"
	"github.com/wippyai/extension-host/lifecycle"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	statStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type monitorModel struct {
	err        error
	inst       *host.Instance
	mod        *guest.Module
	wasmBytes  []byte
	funcName   string
	workers    int
	instanceID lifecycle.InstanceID
	result     string
	inputs     [2]textinput.Model
	focusIdx   int
	scheduled  int
	completed  int
	state      modelState
}

type modelState int

const (
	stateInputArgs modelState = iota
	stateShowResult
)

type bootMsg struct {
	err  error
	inst *host.Instance
	mod  *guest.Module
	id   lifecycle.InstanceID
}

type taskResultMsg struct {
	err    error
	result string
}

func newMonitorModel(wasmBytes []byte, funcName string, workers int) *monitorModel {
	m := &monitorModel{
		wasmBytes: wasmBytes,
		funcName:  funcName,
		workers:   workers,
		state:     stateInputArgs,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "u64"
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 20
		m.inputs[i] = ti
	}
	m.inputs[0].Focus()
	return m
}

func (m *monitorModel) Init() tea.Cmd {
	return m.boot
}

func (m *monitorModel) boot() tea.Msg {
	inst := host.NewInstance(host.Options{PoolWorkers: m.workers})

	var mod *guest.Module
	var id lifecycle.InstanceID
	var attachErr error
	inst.RunSync(func(env *host.Env) {
		id = lifecycle.ID(env)
		mod, attachErr = guest.Attach(env, m.wasmBytes, &guest.Config{Name: "monitor"})
	})
	if attachErr != nil {
		inst.Close(context.Background())
		return bootMsg{err: attachErr}
	}

	return bootMsg{inst: inst, mod: mod, id: id}
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.inst != nil {
				m.inst.Close(context.Background())
			}
			return m, tea.Quit

		case "enter":
			switch m.state {
			case stateInputArgs:
				if m.inst != nil {
					return m, m.scheduleTask()
				}

			case stateShowResult:
				m.state = stateInputArgs
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateInputArgs
				m.result = ""
				m.err = nil
			}
		}

	case bootMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.inst = msg.inst
		m.mod = msg.mod
		m.instanceID = msg.id

	case taskResultMsg:
		m.completed++
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// scheduleTask reads the argument fields and schedules one task: the
// pool stage carries the operands, the completion stage calls back into
// the guest on the owning loop.
func (m *monitorModel) scheduleTask() tea.Cmd {
	args := [2]uint64{}
	for i, input := range m.inputs {
		v, err := strconv.ParseUint(strings.TrimSpace(input.Value()), 10, 64)
		if err != nil {
			return func() tea.Msg {
				return taskResultMsg{err: fmt.Errorf("arg%d: %w", i, err)}
			}
		}
		args[i] = v
	}
	m.scheduled++

	mod, funcName := m.mod, m.funcName
	done := make(chan taskResultMsg, 1)
	m.inst.RunSync(func(env *host.Env) {
		bridge.Schedule(env, args,
			func(in [2]uint64) [2]uint64 { return in },
			func(env *host.Env, out [2]uint64) {
				if env == nil {
					done <- taskResultMsg{err: fmt.Errorf("environment torn down")}
					return
				}
				r, err := mod.Call(env, funcName, out[0], out[1])
				if err != nil {
					done <- taskResultMsg{err: err}
					return
				}
				done <- taskResultMsg{
					result: fmt.Sprintf("%s(%d, %d) = %d", funcName, out[0], out[1], r[0]),
				}
			})
	})

	return func() tea.Msg {
		return <-done
	}
}

func (m *monitorModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.inst == nil {
		return "Starting instance..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Extension Host Monitor"))
	b.WriteString(" ")
	b.WriteString(statStyle.Render(fmt.Sprintf(
		"instance %d • %d workers • %d scheduled • %d completed",
		m.instanceID, m.workers, m.scheduled, m.completed)))
	b.WriteString("\n\n")

	switch m.state {
	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Schedule %s\n\n", funcStyle.Render(m.funcName)))
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter schedule • q quit"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(m.funcName)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(wasmBytes []byte, funcName string, workers int) error {
	p := tea.NewProgram(newMonitorModel(wasmBytes, funcName, workers), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
