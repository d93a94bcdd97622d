// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/log"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return fmt.Sprintf("%.0f", value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Spit renders the rows according to the -o/--output flag: json, yaml, or the
// default text table. Column order is given by cols, since map iteration
// order is not stable.
func Spit(rows []map[string]interface{}, cols []string, cmd *cli.Command, w io.Writer) {
	// Default to stdout.
	if w == nil {
		w = os.Stdout
	}

	switch cmd.String("output") {
	case "raw":
		// If raw, just dump it and go home. No headers, no styling.
		for _, row := range rows {
			vals := make([]string, 0, len(cols))
			for _, col := range cols {
				vals = append(vals, InterfaceToString(row[col]))
			}
			fmt.Fprintln(w, strings.Join(vals, " "))
		}
	case "json":
		jsonOutput, err := json.Marshal(rows)
		if err != nil {
			log.Errorf("Spit json marshal: %v", err)
			return
		}
		fmt.Fprintln(w, string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(rows)
		if err != nil {
			log.Errorf("Spit yaml marshal: %v", err)
			return
		}
		_, _ = w.Write(yamlOutput)
	default:
		TableWriter(rows, cols, cmd, w)
	}
}

// TableWriter renders the result set in a tabular form honoring color and
// titles options. Output is written to w. If w is nil, os.Stdout is used.
func TableWriter(rows []map[string]interface{}, cols []string, cmd *cli.Command, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	// We return early if there are no results to display.
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var cells [][]string
	for _, row := range rows {
		line := make([]string, 0, len(cols))
		for _, col := range cols {
			line = append(line, InterfaceToString(row[col], "-"))
		}
		cells = append(cells, line)
	}

	pad, _ := config.GetInt("padding", 1)
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(cells...)

	if cmd.Bool("titles") {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(cols...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
