package verdict

import (
	"fmt"
	"sort"
	"strings"

	box "github.com/Delta456/box-cli-maker/v2"
	"github.com/alexeyco/simpletable"
)

// Report explains the rule against the subject and returns a boxed, human-readable
// report with the rule text, the state of every node, and, for Record subjects, the
// input data.
func Report[S any](e Expr[S], s S) string {
	Box := box.New(box.Config{Px: 2, Py: 1, Type: "Double", Color: "Cyan", TitlePos: "Top", ContentAlign: "Left"})
	res := Explain(e, s)

	sb := strings.Builder{}
	sb.WriteString("Rule:\n")
	sb.WriteString("-----\n")
	sb.WriteString(wordWrap(Document(e), 100))
	sb.WriteString("\n\n")

	sb.WriteString("Outcome: ")
	sb.WriteString(boolString(res.Matched))
	sb.WriteString("\n\n")

	sb.WriteString("Evaluation State:\n")
	sb.WriteString("-----------------\n")
	sb.WriteString(stateTable(res).String())

	if rec, ok := any(s).(Record); ok {
		sb.WriteString("\n\n")
		sb.WriteString("Input Data:\n")
		sb.WriteString("-----------\n")
		sb.WriteString(dataTable(rec).String())
	}
	return Box.String("VERDICT EVALUATION REPORT", sb.String())
}

func stateTable(res *Result) *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "#"},
			{Align: simpletable.AlignCenter, Text: "Node"},
			{Align: simpletable.AlignCenter, Text: "Expected"},
			{Align: simpletable.AlignCenter, Text: "Found"},
			{Align: simpletable.AlignCenter, Text: "Result"},
		},
	}

	for i, r := range flattenResults(res) {
		row := []*simpletable.Cell{
			{Align: simpletable.AlignRight, Text: fmt.Sprintf("%d", i+1)},
			{Text: r.Op.String()},
			{Text: r.Expected},
			{Text: r.Found},
			{Text: boolString(r.Matched)},
		}
		table.Body.Cells = append(table.Body.Cells, row)
	}

	table.SetStyle(simpletable.StyleUnicode)
	return table
}

func dataTable(data Record) *simpletable.Table {
	table := simpletable.New()
	table.Header = &simpletable.Header{
		Cells: []*simpletable.Cell{
			{Align: simpletable.AlignCenter, Text: "Name"},
			{Align: simpletable.AlignCenter, Text: "Value"},
		},
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		row := []*simpletable.Cell{
			{Text: k},
			{Text: formatValue(data[k])},
		}
		table.Body.Cells = append(table.Body.Cells, row)
	}

	table.SetStyle(simpletable.StyleUnicode)
	return table
}

// flattenResults lists the result and its descendants in pre-order.
func flattenResults(r *Result) []*Result {
	l := []*Result{r}
	for _, c := range r.Results {
		l = append(l, flattenResults(c)...)
	}
	return l
}

func wordWrap(text string, lineWidth int) string {
	words := strings.Fields(strings.TrimSpace(text))
	if len(words) == 0 {
		return text
	}
	wrapped := words[0]
	spaceLeft := lineWidth - len(wrapped)
	for _, word := range words[1:] {
		if len(word)+1 > spaceLeft {
			wrapped += "\n" + word
			spaceLeft = lineWidth - len(word)
		} else {
			wrapped += " " + word
			spaceLeft -= 1 + len(word)
		}
	}
	return wrapped
}
