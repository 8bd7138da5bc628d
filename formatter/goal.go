package formatter

// GoalFormatter formats the result of a problem with a goal. An equality
// goal carries two certificates separated by "; ".
type GoalFormatter struct{}

func (f *GoalFormatter) ResultTemplate() string {
	return `{{header .Verdict .Mismatch .Problem .Filename -}}
{{field "goal" .Goal -}}
{{range split .Certificate}}{{field "certificate" .}}{{end -}}
{{list "dropped" .Dropped -}}
{{outcome .Verdict .Reason .Detail .Expect .Mismatch}}
`
}
