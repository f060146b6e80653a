package mailer

import (
	"strings"
	"testing"

	"github.com/gpascual/shotbypascual/internal/models"
)

func testComposer() *Composer {
	return &Composer{
		From:         "ShotByPascual <noreply@shotbypascual.com>",
		OwnerEmail:   "owner@example.com",
		SiteURL:      "https://shotbypascual.com",
		PortfolioURL: "https://shotbypascual.com/portfolio",
		InstagramURL: "https://instagram.com/shotbypascual",
	}
}

func TestComposer_OwnerNotification(t *testing.T) {
	c := testComposer()
	req := &models.ContactRequest{
		Name:    "Alice",
		Email:   "alice@example.com",
		Message: "I'd love to book a session.",
	}

	msg := c.OwnerNotification(req)

	if msg.To != "owner@example.com" {
		t.Errorf("To = %s, want owner@example.com", msg.To)
	}
	if msg.From != c.From {
		t.Errorf("From = %s, want %s", msg.From, c.From)
	}
	if msg.Subject != "New inquiry from Alice" {
		t.Errorf("Subject = %q, want %q", msg.Subject, "New inquiry from Alice")
	}
	if msg.ReplyTo != "Alice <alice@example.com>" {
		t.Errorf("ReplyTo = %q, unexpected", msg.ReplyTo)
	}
	for _, want := range []string{"Name: Alice", "Email: alice@example.com", "Message: I'd love to book a session."} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("Text missing %q:\n%s", want, msg.Text)
		}
	}
	if msg.HTML != "" {
		t.Error("owner notification should be plain text")
	}
}

func TestComposer_AutoReply(t *testing.T) {
	c := testComposer()
	req := &models.ContactRequest{
		Name:    "Bob",
		Email:   "bob@example.com",
		Message: "Hello",
	}

	msg, err := c.AutoReply(req)
	if err != nil {
		t.Fatalf("AutoReply failed: %v", err)
	}

	if msg.To != "bob@example.com" {
		t.Errorf("To = %s, want bob@example.com", msg.To)
	}
	if msg.Subject != "Thank you for reaching out to ShotByPascual" {
		t.Errorf("Subject = %q, unexpected", msg.Subject)
	}
	if msg.Text != "" {
		t.Error("auto-reply should be HTML only")
	}
	if !strings.Contains(msg.HTML, "Thank You, Bob") {
		t.Error("auto-reply should be personalized with the submitter's name")
	}
	for _, want := range []string{c.PortfolioURL, c.InstagramURL, c.SiteURL} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("auto-reply missing link %q", want)
		}
	}
}

func TestComposer_AutoReplyEscapesName(t *testing.T) {
	c := testComposer()
	req := &models.ContactRequest{
		Name:    `<script>alert("x")</script>`,
		Email:   "evil@example.com",
		Message: "Hello",
	}

	msg, err := c.AutoReply(req)
	if err != nil {
		t.Fatalf("AutoReply failed: %v", err)
	}

	if strings.Contains(msg.HTML, "<script>") {
		t.Error("submitter-controlled name must be HTML-escaped")
	}
}
