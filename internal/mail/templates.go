package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

var priorityColors = map[string]template.CSS{
	"URGENT": "#dc2626",
	"HIGH":   "#ea580c",
	"MEDIUM": "#3b82f6",
	"LOW":    "#64748b",
}

// Renderer turns notification data into HTML messages.
type Renderer struct {
	siteURL      string
	supportEmail string
	templates    map[string]*template.Template
}

// NewRenderer parses the embedded templates once.
func NewRenderer(siteURL, supportEmail string) (*Renderer, error) {
	r := &Renderer{
		siteURL:      siteURL,
		supportEmail: supportEmail,
		templates:    make(map[string]*template.Template),
	}
	for _, name := range []string{"welcome", "maintenance_received", "maintenance_attended", "account_deletion"} {
		tmpl, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Welcome greets a newly registered user.
func (r *Renderer) Welcome(name, email string) (Message, error) {
	return r.render("welcome", email, "Welcome to Ultimate Apartment Manager!", map[string]any{
		"Title":   "Welcome to Ultimate Apartment Manager",
		"Name":    name,
		"Email":   email,
		"SiteURL": r.siteURL,
	})
}

// MaintenanceReceived confirms a new maintenance request to its tenant.
func (r *Renderer) MaintenanceReceived(name, email, title, description, priority string) (Message, error) {
	color, ok := priorityColors[priority]
	if !ok {
		color = priorityColors["MEDIUM"]
	}
	return r.render("maintenance_received", email, "Maintenance Request Received: "+title, map[string]any{
		"Title":         "Maintenance Request Received",
		"Name":          name,
		"TicketTitle":   title,
		"Description":   description,
		"Priority":      priority,
		"PriorityColor": color,
		"SiteURL":       r.siteURL,
	})
}

// MaintenanceAttended tells the tenant their request was resolved.
func (r *Renderer) MaintenanceAttended(name, email, title string) (Message, error) {
	return r.render("maintenance_attended", email, "Maintenance Request Attended: "+title, map[string]any{
		"Title":       "Maintenance Request Attended",
		"Name":        name,
		"TicketTitle": title,
		"SiteURL":     r.siteURL,
	})
}

// AccountDeletion forwards a public deletion request to the support inbox.
func (r *Renderer) AccountDeletion(name, email, reason string) (Message, error) {
	return r.render("account_deletion", r.supportEmail, "Account Deletion Request: "+email, map[string]any{
		"Title":  "Account Deletion Request",
		"Name":   name,
		"Email":  email,
		"Reason": reason,
	})
}

func (r *Renderer) render(name, to, subject string, data map[string]any) (Message, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: []string{to}, Subject: subject, HTML: buf.String()}, nil
}
