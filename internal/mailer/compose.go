package mailer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gpascual/shotbypascual/internal/models"
)

// Composer builds the two messages dispatched for each accepted submission:
// the plain-text owner notification and the HTML auto-reply.
type Composer struct {
	From         string
	OwnerEmail   string
	SiteURL      string
	PortfolioURL string
	InstagramURL string
}

// OwnerNotification is the plain-text summary sent to the site owner.
func (c *Composer) OwnerNotification(req *models.ContactRequest) *Message {
	return &Message{
		From:    c.From,
		To:      c.OwnerEmail,
		ReplyTo: fmt.Sprintf("%s <%s>", req.Name, req.Email),
		Subject: fmt.Sprintf("New inquiry from %s", req.Name),
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", req.Name, req.Email, req.Message),
	}
}

// AutoReply is the branded HTML acknowledgment sent back to the submitter.
// The submitter's name is the only dynamic value and is HTML-escaped by the
// template engine.
func (c *Composer) AutoReply(req *models.ContactRequest) (*Message, error) {
	var body strings.Builder
	err := autoReplyTmpl.Execute(&body, struct {
		Name         string
		SiteURL      string
		PortfolioURL string
		InstagramURL string
	}{
		Name:         req.Name,
		SiteURL:      c.SiteURL,
		PortfolioURL: c.PortfolioURL,
		InstagramURL: c.InstagramURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render auto-reply: %w", err)
	}

	return &Message{
		From:    c.From,
		To:      req.Email,
		Subject: "Thank you for reaching out to ShotByPascual",
		HTML:    body.String(),
	}, nil
}

var autoReplyTmpl = template.Must(template.New("autoreply").Parse(autoReplyHTML))

// Inert branding markup; only .Name is dynamic.
const autoReplyHTML = `<!DOCTYPE html>
<html lang="en" xmlns="http://www.w3.org/1999/xhtml">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0"/>
    <title>Thank You</title>
    <style type="text/css">
      @import url('https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;700&family=Inter:wght@300;400;500&display=swap');
      @media screen and (max-width: 600px) {
        .container { width: 100% !important; }
        .content { padding: 24px 20px !important; }
        .hero-title { font-size: 28px !important; line-height: 1.3 !important; }
        .button { display: block !important; width: 100% !important; margin: 8px 0 !important; }
        .spacer { display: none !important; }
      }
    </style>
  </head>
  <body style="margin:0; padding:0; background: linear-gradient(135deg, #1a1a1a 0%, #0a0a0a 100%);">
    <table border="0" cellpadding="0" cellspacing="0" width="100%" style="background: linear-gradient(135deg, #1a1a1a 0%, #0a0a0a 100%);">
      <tr>
        <td align="center" style="padding: 40px 20px;">
          <table class="container" border="0" cellpadding="0" cellspacing="0" width="600" style="width:600px; max-width:600px; background-color:#ffffff; box-shadow: 0 20px 60px rgba(0,0,0,0.5);">
            <tr>
              <td style="background: linear-gradient(135deg, #0f1a24 0%, #1a2b3a 100%); padding: 48px 40px; text-align: center; border-bottom: 3px solid #c9a961;">
                <h1 style="font-family: 'Inter', Arial, sans-serif; font-size: 32px; color: #ffffff; font-weight: 700; letter-spacing: 6px; margin: 0; text-transform: uppercase;">ShotByPascual</h1>
                <div style="width: 60px; height: 2px; background-color: #c9a961; margin: 20px auto 0;"></div>
              </td>
            </tr>
            <tr>
              <td style="padding: 48px 40px 32px; text-align: center; background-color: #f8f8f8;">
                <h2 class="hero-title" style="font-family: 'Playfair Display', Georgia, serif; font-size: 36px; color: #1a1a1a; font-weight: 400; margin: 0 0 16px 0; line-height: 1.4;">Thank You, {{.Name}}</h2>
                <div style="width: 40px; height: 2px; background-color: #c9a961; margin: 0 auto;"></div>
              </td>
            </tr>
            <tr>
              <td class="content" style="padding: 40px 48px; font-family: 'Inter', Arial, sans-serif; color: #2c2c2c; background-color: #ffffff;">
                <p style="font-size: 17px; line-height: 1.8; margin: 0 0 24px 0; font-weight: 300;">
                  Your message has been received and I truly appreciate you taking the time to reach out. Whether you're interested in booking a session, collaborating on a project, or simply connecting, I'm excited to hear from you.
                </p>
                <p style="font-size: 17px; line-height: 1.8; margin: 0 0 32px 0; font-weight: 300;">
                  I will personally review your inquiry and respond within <strong style="color: #0f1a24;">24&ndash;48 hours</strong>. In the meantime, I invite you to explore my work and vision.
                </p>
                <table border="0" cellpadding="0" cellspacing="0" width="100%">
                  <tr>
                    <td align="center">
                      <table border="0" cellpadding="0" cellspacing="0" style="display: inline-block;">
                        <tr>
                          <td class="button" align="center" style="border: 2px solid #0f1a24; background-color: #0f1a24;">
                            <a href="{{.PortfolioURL}}" target="_blank" style="display: inline-block; padding: 16px 36px; font-family: 'Inter', Arial, sans-serif; font-size: 14px; color: #ffffff; text-decoration: none; font-weight: 500; letter-spacing: 1.5px; text-transform: uppercase;">View Portfolio</a>
                          </td>
                          <td class="spacer" width="16">&nbsp;</td>
                          <td class="button" align="center" style="border: 2px solid #0f1a24; background-color: transparent;">
                            <a href="{{.InstagramURL}}" target="_blank" style="display: inline-block; padding: 16px 36px; font-family: 'Inter', Arial, sans-serif; font-size: 14px; color: #0f1a24; text-decoration: none; font-weight: 500; letter-spacing: 1.5px; text-transform: uppercase;">Instagram</a>
                          </td>
                        </tr>
                      </table>
                    </td>
                  </tr>
                </table>
                <p style="font-size: 17px; line-height: 1.8; margin: 36px 0 24px 0; font-weight: 300;">
                  I look forward to connecting with you and exploring how we can create something extraordinary together.
                </p>
                <p style="font-size: 16px; line-height: 1.8; margin: 0;">Kind regards,</p>
                <p style="font-family: 'Playfair Display', Georgia, serif; font-size: 24px; font-weight: 400; color: #0f1a24; margin: 12px 0 0 0;">Gabriel Pascual</p>
                <p style="font-size: 14px; color: #666; margin: 4px 0 0 0; font-weight: 300; letter-spacing: 0.5px;">Photographer</p>
              </td>
            </tr>
            <tr>
              <td style="background: linear-gradient(135deg, #0f1a24 0%, #1a2b3a 100%); padding: 32px 40px; text-align: center; border-top: 3px solid #c9a961;">
                <p style="font-family: 'Inter', Arial, sans-serif; font-size: 12px; color: rgba(255,255,255,0.7); margin: 0 0 8px 0; letter-spacing: 1px; text-transform: uppercase;">ShotByPascual Photography</p>
                <a href="{{.SiteURL}}" target="_blank" style="font-family: 'Inter', Arial, sans-serif; color: #c9a961; text-decoration: none; font-size: 13px; font-weight: 400;">shotbypascual.com</a>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`
