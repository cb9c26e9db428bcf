package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"gopkg.in/yaml.v3"

	"github.com/varmodel/varmodel-go/pkg/document"
	"github.com/varmodel/varmodel-go/pkg/inspect"
	"github.com/varmodel/varmodel-go/pkg/model"
	"github.com/varmodel/varmodel-go/pkg/runtime"
)

// shell is the interactive command loop. All model access goes through
// the runner's command queue so the tree stays single-writer.
type shell struct {
	runner *runtime.Runner
	rl     *readline.Instance
}

func newShell(runner *runtime.Runner) (*shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "model> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &shell{runner: runner, rl: rl}, nil
}

func (s *shell) run(cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		args := strings.Fields(input)
		switch args[0] {
		case "help":
			s.printHelp()
		case "tree":
			s.cmdTree()
		case "info":
			s.cmdInfo(args[1:])
		case "get":
			s.cmdGet(args[1:])
		case "set":
			s.cmdSet(args[1:])
		case "rows":
			s.cmdRows(args[1:])
		case "addrow":
			s.cmdAddRow(args[1:])
		case "delrow":
			s.cmdDelRow(args[1:])
		case "options":
			s.cmdOptions(args[1:])
		case "changed":
			s.cmdChanged()
		case "save":
			s.runner.RequestSave()
			fmt.Fprintln(s.rl.Stdout(), "save requested")
		case "export":
			s.cmdExport(args[1:])
		case "exit", "quit":
			cancel()
			return
		default:
			fmt.Fprintf(s.rl.Stdout(), "unknown command: %s\n", args[0])
		}
	}
}

func (s *shell) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  tree                     print the variable tree
  info <pid> <id>          print one variable in detail
  get <pid> <id> [row]     read a value
  set <pid> <id> <value> [row]
  rows <pid> <id>          print a table row by row
  addrow <pid> <id>        append a table row
  delrow <pid> <id> <row>  delete a table row
  options <pid> <id>       enumerate selector options
  changed                  drain the change-notification queue
  save                     request model persistence
  export <json|yaml> [file]
  exit
`)
}

func (s *shell) cmdTree() {
	s.runner.Do(func(m *model.Model) {
		fmt.Fprint(s.rl.Stdout(), inspect.FormatTree(inspect.NewInspector(m).Tree()))
	})
}

func (s *shell) cmdInfo(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: info <pid> <id>")
		return
	}
	s.runner.Do(func(m *model.Model) {
		info, err := inspect.NewInspector(m).Variable(args[0], args[1])
		if err != nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		fmt.Fprint(s.rl.Stdout(), inspect.FormatVariable(info))
	})
}

func (s *shell) cmdGet(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: get <pid> <id> [row]")
		return
	}
	rowNr := parseRow(args, 2)
	s.runner.Do(func(m *model.Model) {
		v := m.FindByIDPid(args[0], args[1])
		if v == nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		fmt.Fprintln(s.rl.Stdout(), v.ValueString(rowNr))
	})
}

func (s *shell) cmdSet(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.rl.Stdout(), "usage: set <pid> <id> <value> [row]")
		return
	}
	rowNr := parseRow(args, 3)
	value := parseValue(args[2])
	s.runner.Do(func(m *model.Model) {
		v := m.FindByIDPid(args[0], args[1])
		if v == nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		v.SetValue(value, rowNr)
		fmt.Fprintf(s.rl.Stdout(), "%s = %s\n", v.Key(), v.ValueString(rowNr))
	})
}

func (s *shell) cmdRows(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: rows <pid> <id>")
		return
	}
	s.runner.Do(func(m *model.Model) {
		table := m.FindByIDPid(args[0], args[1])
		if table == nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		table.ForEachRow(func(t *model.Variable, rowNr uint8) {
			fmt.Fprintf(s.rl.Stdout(), "row %d:", rowNr)
			for _, col := range t.Children() {
				fmt.Fprintf(s.rl.Stdout(), " %s=%s", col.ID(), col.ValueString(rowNr))
			}
			fmt.Fprintln(s.rl.Stdout())
		})
	})
}

func (s *shell) cmdAddRow(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: addrow <pid> <id>")
		return
	}
	s.runner.Do(func(m *model.Model) {
		table := m.FindByIDPid(args[0], args[1])
		if table == nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		rowNr := table.AddRow()
		fmt.Fprintf(s.rl.Stdout(), "added row %d\n", rowNr)
	})
}

func (s *shell) cmdDelRow(args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.rl.Stdout(), "usage: delrow <pid> <id> <row>")
		return
	}
	row, err := strconv.ParseUint(args[2], 10, 8)
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), "bad row number")
		return
	}
	s.runner.Do(func(m *model.Model) {
		table := m.FindByIDPid(args[0], args[1])
		if table == nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		table.DeleteRow(uint8(row))
		fmt.Fprintf(s.rl.Stdout(), "deleted row %d, %d rows left\n", row, table.RowCount())
	})
}

func (s *shell) cmdOptions(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: options <pid> <id>")
		return
	}
	s.runner.Do(func(m *model.Model) {
		v := m.FindByIDPid(args[0], args[1])
		if v == nil {
			fmt.Fprintln(s.rl.Stdout(), "not found")
			return
		}
		for _, leaf := range model.EnumerateOptions(v.Options()) {
			if leaf.Group != "" {
				fmt.Fprintf(s.rl.Stdout(), "%3d  %s / %s\n", leaf.Code, leaf.Group, leaf.Label)
			} else {
				fmt.Fprintf(s.rl.Stdout(), "%3d  %s\n", leaf.Code, leaf.Label)
			}
		}
		v.ClearOptions()
	})
}

func (s *shell) cmdChanged() {
	s.runner.Do(func(m *model.Model) {
		changed := m.ChangedVariables()
		if len(changed) == 0 {
			fmt.Fprintln(s.rl.Stdout(), "no pending changes")
			return
		}
		for _, v := range changed {
			fmt.Fprintf(s.rl.Stdout(), "%s = %s\n", v.Key(), v.ValueString(model.NoRow))
		}
	})
}

func (s *shell) cmdExport(args []string) {
	format := "json"
	if len(args) > 0 {
		format = args[0]
	}

	var data []byte
	var exportErr error
	s.runner.Do(func(m *model.Model) {
		switch format {
		case "json":
			data, exportErr = document.MarshalTree(m.Root())
		case "yaml":
			data, exportErr = yaml.Marshal(document.ToInterface(m.Root()))
		default:
			exportErr = fmt.Errorf("unknown format %q", format)
		}
	})
	if exportErr != nil {
		fmt.Fprintln(s.rl.Stdout(), "export failed:", exportErr)
		return
	}

	if len(args) > 1 {
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			fmt.Fprintln(s.rl.Stdout(), "export failed:", err)
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "wrote %s (%d bytes)\n", args[1], len(data))
		return
	}
	fmt.Fprintln(s.rl.Stdout(), string(data))
}

// parseRow reads an optional row argument at index i, defaulting to NoRow.
func parseRow(args []string, i int) uint8 {
	if len(args) <= i {
		return model.NoRow
	}
	row, err := strconv.ParseUint(args[i], 10, 8)
	if err != nil {
		return model.NoRow
	}
	return uint8(row)
}

// parseValue interprets a shell argument as bool, integer, float, or
// string, in that order.
func parseValue(arg string) any {
	if arg == "true" || arg == "false" {
		return arg == "true"
	}
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	return arg
}
