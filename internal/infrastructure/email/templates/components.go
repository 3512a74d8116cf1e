// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"
)

type ButtonProps struct {
	Text            string
	URL             string
	BackgroundColor string
	TextColor       string
}

type buttonTemplateData struct {
	BackgroundColor string
	URL             string
	TextColor       string
	Text            string
}

// Compiled templates for email components
var (
	buttonTemplate = template.Must(template.New("emailButton").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="btn btn-primary" style="border-collapse: separate; box-sizing: border-box; width: 100%; min-width: 100%;" width="100%">
      <tbody>
        <tr>
          <td align="left" style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding-bottom: 16px;" valign="top">
            <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; width: auto;">
              <tbody>
                <tr>
                  <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; border-radius: 4px; text-align: center; background-color: {{.BackgroundColor}};" valign="top" align="center" bgcolor="{{.BackgroundColor}}">
                    <a href="{{.URL}}" target="_blank" style="border: solid 2px {{.BackgroundColor}}; border-radius: 4px; box-sizing: border-box; cursor: pointer; display: inline-block; font-size: 16px; font-weight: bold; margin: 0; padding: 12px 24px; text-decoration: none; background-color: {{.BackgroundColor}}; border-color: {{.BackgroundColor}}; color: {{.TextColor}};">{{.Text}}</a>
                  </td>
                </tr>
              </tbody>
            </table>
          </td>
        </tr>
      </tbody>
    </table>`))

	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">{{.}}</p>`))
)

func GetButton(props ButtonProps) string {
	backgroundColor := sanitizeColor(props.BackgroundColor, "#7c3aed")
	textColor := sanitizeColor(props.TextColor, "#ffffff")

	sanitizedURL := sanitizeEmailURL(props.URL)
	if sanitizedURL == "" {
		log.Printf("Invalid or unsafe URL in email button: %s", props.URL)
		sanitizedURL = "#" // Fallback to safe anchor
	}

	templateData := buttonTemplateData{
		BackgroundColor: backgroundColor,
		URL:             sanitizedURL,
		TextColor:       textColor,
		Text:            props.Text, // Text is automatically escaped by template
	}

	var buf bytes.Buffer
	if err := buttonTemplate.Execute(&buf, templateData); err != nil {
		log.Printf("Error executing email button template: %v", err)
		return `<div style="color: red;">Button template error</div>`
	}

	return buf.String()
}

// GetParagraph renders escaped paragraph text.
func GetParagraph(text string) string {
	var buf bytes.Buffer
	if err := paragraphTemplate.Execute(&buf, text); err != nil {
		log.Printf("Error executing email paragraph template: %v", err)
		return `<div style="color: red;">Paragraph template error</div>`
	}
	return buf.String()
}

// sanitizeEmailURL validates and sanitizes URLs for email use
func sanitizeEmailURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("Invalid email URL: %s, error: %v", rawURL, err)
		return ""
	}

	// Only allow http, https, and mailto schemes for email buttons
	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" && scheme != "mailto" {
		log.Printf("Blocked unsafe URL scheme in email: %s", scheme)
		return ""
	}

	return parsedURL.String()
}

// sanitizeColor validates hex color values, falling back to a default.
func sanitizeColor(color, fallback string) string {
	color = strings.TrimSpace(color)
	if color == "" || !strings.HasPrefix(color, "#") {
		return fallback
	}

	hex := color[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return fallback
	}

	for _, char := range hex {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')) {
			return fallback
		}
	}

	return color
}
