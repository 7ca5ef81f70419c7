package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tesselslate/crosshair/internal/xinput"
)

var (
	colorHeader  = lipgloss.Color("5")
	colorPointer = lipgloss.Color("2")
	colorSubtle  = lipgloss.Color("8")
)

func newDevicesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List XInput devices",
		Long: `List the XInput devices known to the X server. The ID column holds the
value to pass as DEVICE. Pointer devices are highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := xinput.Open(opts.display)
			if err != nil {
				return err
			}
			defer client.Close()

			devices, err := client.Devices()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), deviceTable(devices))
			return nil
		},
	}
}

// deviceTable renders the device list.
func deviceTable(devices []xinput.Device) string {
	rows := make([][]string, 0, len(devices))
	for _, dev := range devices {
		enabled := "no"
		if dev.Enabled {
			enabled = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(int(dev.ID)),
			dev.Type.String(),
			strconv.Itoa(int(dev.Attachment)),
			enabled,
			dev.Name,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return style.Foreground(colorHeader).Bold(true)
			case devices[row].Type.Pointer():
				return style.Foreground(colorPointer)
			default:
				return style
			}
		}).
		Headers("ID", "TYPE", "ATTACHMENT", "ENABLED", "NAME").
		Rows(rows...)
	return t.String()
}
