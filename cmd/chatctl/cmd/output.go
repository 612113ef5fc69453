package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/nfrund/livechat/internal/domain"
)

var (
	authorStyle = color.New(color.FgCyan, color.OpBold)
	idStyle     = color.New(color.FgGray)
)

// printTable renders messages as an aligned table in creation order.
func printTable(w io.Writer, msgs []domain.Message) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Author", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range msgs {
		table.Append([]string{strconv.Itoa(m.ID), m.DisplayAuthor(), m.Text})
	}
	table.Render()
}

// printLine renders a single message the way watch shows it.
func printLine(w io.Writer, m domain.Message) {
	fmt.Fprintf(w, "%s %s: %s\n", idStyle.Sprintf("#%d", m.ID), authorStyle.Sprint(m.DisplayAuthor()), m.Text)
}
