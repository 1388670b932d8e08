package email

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/getmelinks/getmelinks/internal/model"
)

// timestampFormat renders the server-side submission time as a full
// human-readable date and time, fixed to the en-US convention.
const timestampFormat = "Monday, January 2, 2006 at 3:04:05 PM MST"

// ContactNotificationHTML returns the HTML body for a contact-form
// notification email. It is a pure function of its inputs; all
// user-supplied text is HTML-escaped. appName labels the header.
func ContactNotificationHTML(c *model.Contact, submittedAt time.Time, appName string) string {
	var fields strings.Builder

	fields.WriteString(fieldBlock("👤 Name", html.EscapeString(c.Name), ""))
	fields.WriteString(fieldBlock("📧 Email", html.EscapeString(c.Email), ""))
	if c.Phone != "" {
		fields.WriteString(fieldBlock("📱 Phone", html.EscapeString(c.Phone), ""))
	}
	if c.Company != "" {
		fields.WriteString(fieldBlock("🏢 Company", html.EscapeString(c.Company), ""))
	}
	fields.WriteString(fieldBlock("🎯 Service Interested In",
		`<span class="badge">`+html.EscapeString(c.Service)+`</span>`, ""))
	if c.Budget != "" {
		fields.WriteString(fieldBlock("💰 Budget", html.EscapeString(c.Budget), ""))
	}
	fields.WriteString(fieldBlock("💬 Message",
		strings.ReplaceAll(html.EscapeString(c.Message), "\n", "<br>"), ""))
	fields.WriteString(fieldBlock("🕐 Submitted At",
		submittedAt.Format(timestampFormat), "#10b981"))

	var phoneLine string
	if c.Phone != "" {
		phoneLine = fmt.Sprintf("<p>Or call: %s</p>", html.EscapeString(c.Phone))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(135deg, #3b82f6 0%%, #06b6d4 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f8fafc; padding: 30px; border-radius: 0 0 10px 10px; }
  .field { margin-bottom: 20px; padding: 15px; background: white; border-radius: 8px; border-left: 4px solid #3b82f6; }
  .label { font-weight: bold; color: #1e293b; margin-bottom: 5px; }
  .value { color: #475569; }
  .footer { text-align: center; margin-top: 30px; padding: 20px; color: #64748b; font-size: 14px; }
  .badge { display: inline-block; padding: 5px 12px; background: #dbeafe; color: #1e40af; border-radius: 20px; font-size: 12px; font-weight: bold; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1 style="margin: 0;">🎯 New Contact Form Submission</h1>
    <p style="margin: 10px 0 0 0; opacity: 0.9;">%s Contact Page</p>
  </div>
  <div class="content">
%s  </div>
  <div class="footer">
    <p><strong>Quick Actions:</strong></p>
    <p>Reply directly to this email to contact: <a href="mailto:%s">%s</a></p>
    %s
  </div>
</div>
</body>
</html>`, html.EscapeString(appName), fields.String(), html.EscapeString(c.Email), html.EscapeString(c.Email), phoneLine)
}

// fieldBlock renders one labelled field box. A non-empty accent overrides
// the default left-border color.
func fieldBlock(label, valueHTML, accent string) string {
	style := ""
	if accent != "" {
		style = fmt.Sprintf(` style="border-left-color: %s;"`, accent)
	}
	return fmt.Sprintf(`    <div class="field"%s>
      <div class="label">%s</div>
      <div class="value">%s</div>
    </div>
`, style, label, valueHTML)
}

// ContactNotificationText returns the plain-text fallback body for a
// contact-form notification email.
func ContactNotificationText(c *model.Contact, submittedAt time.Time) string {
	var b strings.Builder

	b.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	}
	if c.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", c.Company)
	}
	fmt.Fprintf(&b, "Service: %s\n", c.Service)
	if c.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", c.Budget)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", c.Message)
	fmt.Fprintf(&b, "\nSubmitted at: %s\n", submittedAt.Format(timestampFormat))
	fmt.Fprintf(&b, "\nReply directly to this email to contact %s.\n", c.Email)

	return b.String()
}
