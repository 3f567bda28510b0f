package email

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"
)

// TemplateManager renders named html/template templates.
type TemplateManager struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	// Built-in templates are compile-time constants; a parse failure is a
	// programming error, not a runtime condition. Deployments can still
	// override them with AddTemplate.
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) AddTemplate(name string, body string) error {
	tmpl, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %q: %w", name, err)
	}

	tm.mu.Lock()
	tm.templates[name] = tmpl
	tm.mu.Unlock()
	return nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mu.RLock()
	tmpl, ok := tm.templates[templateName]
	tm.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("template %q not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var builtinTemplates = map[string]string{
	"notification": `<html><body>
<h2>{{.Title}}</h2>
<p>{{.Message}}</p>
</body></html>`,

	"password_reset": `<html><body>
<h2>Recuperação de senha</h2>
<p>Use o link abaixo para redefinir sua senha. Ele expira em {{.ExpiresIn}}.</p>
<p><a href="{{.ResetURL}}">Redefinir senha</a></p>
</body></html>`,

	"charge_overdue": `<html><body>
<h2>Cobrança vencida</h2>
<p>{{.Message}}</p>
<p>Valor: {{.Amount}} — Vencimento: {{.DueDate}}</p>
</body></html>`,
}
