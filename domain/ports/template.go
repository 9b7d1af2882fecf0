package ports

// TemplateEngine renders manifest templates with caller-supplied variables.
type TemplateEngine interface {
	// Render processes the raw manifest bytes with the provided variables.
	// Returns resolved bytes with all template placeholders replaced.
	Render(raw []byte, vars map[string]any) ([]byte, error)
}
