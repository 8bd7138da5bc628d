package formatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tt "github.com/gnolang/linarith/internal/types"
)

const padding = "  "

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	successStyle = color.New(color.FgGreen, color.Bold)
	problemStyle = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noteStyle    = color.New(color.FgGreen, color.Bold)
	noStyle      = color.New(color.FgWhite)
)

// resultFormatter is the interface that wraps the ResultTemplate method.
// Implementations are responsible for formatting one kind of result.
type resultFormatter interface {
	ResultTemplate() string
}

// getResultFormatter returns the formatter for the given result.
func getResultFormatter(result tt.Result) resultFormatter {
	if result.Goal != "" {
		return &GoalFormatter{}
	}
	return &RefutationFormatter{}
}

// FormatResults formats a slice of results into a human-readable string.
func FormatResults(results []tt.Result) string {
	var builder strings.Builder
	for _, result := range results {
		builder.WriteString(buildResult(result, getResultFormatter(result)))
	}
	return builder.String()
}

// Summary counts the verdicts and mismatches of results.
func Summary(results []tt.Result) string {
	var success, mismatches int
	for _, r := range results {
		if r.Success() {
			success++
		}
		if r.Mismatch {
			mismatches++
		}
	}

	line := fmt.Sprintf("%d problems: %d refuted or proved, %d not", len(results), success, len(results)-success)
	if mismatches > 0 {
		return errorStyle.Sprintf("%s, %d unexpected\n", line, mismatches)
	}
	return successStyle.Sprintf("%s\n", line)
}

/***** Result Formatter Builder *****/

type ResultData struct {
	Problem     string
	Filename    string
	Goal        string
	Verdict     string
	Reason      string
	Detail      string
	Expect      string
	Mismatch    bool
	Certificate string
	Weights     []string
	Dropped     []string
	Rounds      int
}

func buildResult(result tt.Result, formatter resultFormatter) string {
	data := ResultData{
		Problem:     result.Problem,
		Filename:    result.Filename,
		Goal:        result.Goal,
		Verdict:     result.Verdict,
		Reason:      result.Reason,
		Detail:      result.Detail,
		Expect:      result.Expect,
		Mismatch:    result.Mismatch,
		Certificate: result.Certificate,
		Weights:     sortedWeights(result.Weights),
		Dropped:     result.Dropped,
		Rounds:      result.Rounds,
	}
	if data.Filename == "" {
		data.Filename = "<source>"
	}

	funcMap := template.FuncMap{
		"header":  header,
		"field":   field,
		"list":    list,
		"outcome": outcome,
		"join":    join,
		"split":   split,
	}

	tmpl := template.Must(template.New("result").Funcs(funcMap).Parse(formatter.ResultTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting result: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(verdict string, mismatch bool, problem string, filename string) string {
	var endString string
	switch {
	case mismatch:
		endString = errorStyle.Sprint("error: ")
	case verdict == tt.VerdictRefuted || verdict == tt.VerdictProved:
		endString = successStyle.Sprintf("%s: ", verdict)
	default:
		endString = warningStyle.Sprintf("%s: ", verdict)
	}

	endString += problemStyle.Sprintf("%s\n", problem)
	endString += lineStyle.Sprint(" --> ")
	endString += fileStyle.Sprintf("%s\n", filename)
	endString += lineStyle.Sprintf("%s|\n", padding)

	return endString
}

func field(name string, value string) string {
	if value == "" {
		return ""
	}
	return lineStyle.Sprintf("%s| ", padding) + noStyle.Sprintf("%s: %s\n", name, value)
}

func list(name string, values []string) string {
	var endString string
	for _, v := range values {
		endString += field(name, v)
	}
	return endString
}

func outcome(verdict string, reason string, detail string, expect string, mismatch bool) string {
	endString := lineStyle.Sprintf("%s= ", padding)
	if mismatch {
		endString += messageStyle.Sprintf("%s, expected %s (%s)\n", verdict, expect, reason)
	} else {
		endString += noteStyle.Sprintf("%s\n", reason)
	}
	if detail != "" {
		endString += lineStyle.Sprintf("%s= ", padding)
		endString += noStyle.Sprintf("note: %s\n", detail)
	}
	return endString
}

func join(values []string) string {
	return strings.Join(values, ", ")
}

func split(certificates string) []string {
	if certificates == "" {
		return nil
	}
	return strings.Split(certificates, "; ")
}

func sortedWeights(weights map[string]string) []string {
	out := make([]string, 0, len(weights))
	for label, w := range weights {
		out = append(out, label+"="+w)
	}
	sort.Strings(out)
	return out
}
