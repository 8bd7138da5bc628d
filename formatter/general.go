package formatter

// RefutationFormatter formats the result of a problem without a goal.
type RefutationFormatter struct{}

func (f *RefutationFormatter) ResultTemplate() string {
	return `{{header .Verdict .Mismatch .Problem .Filename -}}
{{field "certificate" .Certificate -}}
{{if .Weights}}{{field "weights" (join .Weights)}}{{end -}}
{{list "dropped" .Dropped -}}
{{outcome .Verdict .Reason .Detail .Expect .Mismatch}}
`
}
