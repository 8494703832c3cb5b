package validator

import (
	"fmt"
	"strconv"

	"github.com/xlab/tablewriter"
)

// RenderProfile formats rows as a profiler table in the order given; it does
// not sort them (Search already returns Result.Profile sorted by runtime
// descending). Pass threshold so the empty-table fallback message can state
// what floor was used.
func RenderProfile(rows []ProfilerRow, threshold float64) string {
	if len(rows) == 0 {
		return fmt.Sprintf("All queries completed in less than %s seconds.", strconv.FormatFloat(threshold, 'f', -1, 64))
	}

	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle("Query profiler results")
	table.AddRow("Type", "Name", "Runtime (s)", "Query ID", "Explore From Here")
	table.AddSeparator()

	for _, row := range rows {
		table.AddRow(
			row.Reference.Kind(),
			row.Reference.Name(),
			strconv.FormatFloat(row.Runtime, 'f', 1, 64),
			strconv.Itoa(row.Query.QueryID),
			row.Query.ExploreURL,
		)
	}

	table.SetAlign(tablewriter.AlignLeft, 1)
	table.SetAlign(tablewriter.AlignLeft, 2)
	table.SetAlign(tablewriter.AlignRight, 3)
	table.SetAlign(tablewriter.AlignRight, 4)

	return table.Render()
}
