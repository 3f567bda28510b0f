package email

// Provider is the outbound email collaborator. Implementations must be safe
// for concurrent use; callers treat failures as best-effort.
type Provider interface {
	// Send delivers a single message.
	Send(email *Email) error

	// SendWithTemplate renders a named template into the HTML body and sends.
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases provider resources.
	Close() error
}

// TemplateRenderer renders named templates with data.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
